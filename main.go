package main

import (
	"bufio"
	"context"
	_ "embed" // this is required in order for go:embed to work
	"errors"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/iterasys/petstore-test-harness/framework/apitest"

	"github.com/spf13/cobra"
)

//go:embed VERSION
var versionString string // comes from the VERSION file which we update for each release

var errTestsFailed = errors.New("one or more tests failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func version() string {
	return strings.TrimSpace(versionString)
}

func newRootCommand() *cobra.Command {
	var params commandParams
	root := &cobra.Command{
		Use:           "petstore-test-harness",
		Short:         "Functional tests for the pet store API",
		Long:          "Runs the pet store functional test suite. With no subcommand, this is the same as \"run\".",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuiteCommand(cmd, &params)
		},
	}
	params.addFlags(root.Flags())

	root.AddCommand(newRunCommand(), newMockCommand(), newVersionCommand())
	return root
}

func newRunCommand() *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the test suite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSuiteCommand(cmd, &params)
		},
	}
	params.addFlags(cmd.Flags())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the harness version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "petstore-test-harness v%s\n", version())
		},
	}
}

func runSuiteCommand(cmd *cobra.Command, params *commandParams) error {
	config, filters, err := params.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	if config.SkipFile != "" {
		if err := loadSuppressions(config.SkipFile, &filters); err != nil {
			return err
		}
	}
	fmt.Printf("petstore-test-harness v%s\n", version())

	results, err := run(cmd.Context(), config, filters)
	if err != nil {
		return err
	}
	if !results.OK() {
		return errTestsFailed
	}
	return nil
}

func writeFailures(path string, results apitest.Results) error {
	f, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("cannot create suppression file: %w", err)
	}
	for _, test := range results.Failures {
		fmt.Fprintln(f, test.TestID)
	}
	return f.Close()
}

func loadSuppressions(path string, filters *apitest.RegexFilters) error {
	file, err := os.Open(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("cannot open provided suppression file: %w", err)
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Ignore blank lines
		if strings.TrimSpace(line) == "" {
			continue
		}
		escaped := regexp.QuoteMeta(line)
		if err := filters.MustNotMatch.Set(escaped); err != nil {
			return fmt.Errorf("cannot parse suppression: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while processing suppression file: %w", err)
	}
	return nil
}
