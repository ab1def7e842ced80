package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/iterasys/petstore-test-harness/framework"
	"github.com/iterasys/petstore-test-harness/mockpetstore"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const mockShutdownTimeout = 5 * time.Second

func newMockCommand() *cobra.Command {
	var (
		addr     string
		basePath string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve an in-memory imitation of the pet store API",
		Long: "Serves the pet store endpoints used by the suite from memory, so that the suite can be run " +
			"with --url http://localhost:8080/v2/ and no network access.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(logLevel)
			return serveMock(cmd.Context(), logger, addr, basePath)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringVar(&basePath, "base-path", mockpetstore.DefaultBasePath, "path prefix of the API")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	return cmd
}

func serveMock(ctx context.Context, logger zerolog.Logger, addr, basePath string) error {
	server := &http.Server{ //nolint:gosec
		Addr:    addr,
		Handler: mockpetstore.NewServer(basePath,
			framework.LoggerWithPrefix(framework.ZerologLogger(logger, zerolog.DebugLevel), "[mock] ")),
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	logger.Info().Str("addr", addr).Str("base_path", basePath).Msg("Mock pet store listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("Shutting down mock pet store")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), mockShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
