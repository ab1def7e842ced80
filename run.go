package main

import (
	"context"
	"fmt"
	"os"

	"github.com/iterasys/petstore-test-harness/framework"
	"github.com/iterasys/petstore-test-harness/framework/apitest"
	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/framework/helpers"
	"github.com/iterasys/petstore-test-harness/pettests"
	"github.com/iterasys/petstore-test-harness/state"

	"github.com/rs/zerolog"
)

func run(ctx context.Context, config runConfig, filters apitest.RegexFilters) (apitest.Results, error) {
	logger := newLogger(config.LogLevel)

	store, runID, err := state.Open(ctx, config.State)
	if err != nil {
		return apitest.Results{}, err
	}
	logger.Info().Str("backend", config.State.Backend).Str("run_id", runID).Msg("Opened state store")
	defer func() {
		if !config.KeepState {
			if err := store.Reset(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("Failed to clear state store")
			}
		}
		if err := store.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close state store")
			return
		}
		logger.Debug().Str("state", helpers.IfElse(config.KeepState, "kept", "cleared")).Msg("Closed state store")
	}()

	requestLogger := framework.NullLogger()
	if config.DebugAll {
		requestLogger = framework.LoggerWithPrefix(framework.ZerologLogger(logger, zerolog.DebugLevel), "[http] ")
	}
	client, err := harness.NewClient(config.BaseURL, harness.WithLogger(requestLogger))
	if err != nil {
		return apitest.Results{}, err
	}

	var testLogger apitest.TestLogger
	consoleLogger := apitest.ConsoleTestLogger{
		DebugOutputOnFailure: config.Debug || config.DebugAll,
		DebugOutputOnSuccess: config.DebugAll,
	}
	if config.JUnitFile == "" {
		testLogger = consoleLogger
	} else {
		testLogger = &apitest.MultiTestLogger{Loggers: []apitest.TestLogger{
			consoleLogger,
			apitest.NewJUnitTestLogger(config.JUnitFile, "petstore-test-harness", map[string]string{
				"baseUrl":      client.BaseURL(),
				"stateBackend": config.State.Backend,
				"runId":        runID,
				"version":      version(),
			}),
		}}
	}

	results := pettests.RunPetStoreTestSuite(ctx, client, store, pettests.SuiteParams{
		FixturePath:     config.FixturePath,
		BodyPath:        config.BodyPath,
		Username:        config.Username,
		Password:        config.Password,
		SkipSchemaCheck: config.SkipSchemaCheck,
	}, filters, testLogger)

	fmt.Println()
	if err := testLogger.EndLog(results); err != nil {
		return results, fmt.Errorf("error writing log: %w", err)
	}

	if config.RecordFailures != "" {
		if err := writeFailures(config.RecordFailures, results); err != nil {
			return results, err
		}
	}
	return results, nil
}

// newLogger creates the harness's own logger, which reports on setup and teardown. Test output
// goes through the test loggers instead.
func newLogger(level string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	return zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
}
