package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/iterasys/petstore-test-harness/framework/apitest"
	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/state"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// envPrefix starts the name of every environment variable that the harness reads.
const envPrefix = "PETSTORE_"

// runConfig is the full configuration of a test run. Values come from, in increasing order of
// precedence: flag defaults, the config file, PETSTORE_* environment variables, and flags that
// were set on the command line.
type runConfig struct {
	BaseURL         string       `mapstructure:"baseUrl"`
	FixturePath     string       `mapstructure:"fixtures"`
	BodyPath        string       `mapstructure:"body"`
	Username        string       `mapstructure:"username"`
	Password        string       `mapstructure:"password"`
	SkipSchemaCheck bool         `mapstructure:"skipSchemaCheck"`
	State           state.Config `mapstructure:"state"`
	KeepState       bool         `mapstructure:"keepState"`
	Run             []string     `mapstructure:"run"`
	Skip            []string     `mapstructure:"skip"`
	Debug           bool         `mapstructure:"debug"`
	DebugAll        bool         `mapstructure:"debugAll"`
	JUnitFile       string       `mapstructure:"junit"`
	RecordFailures  string       `mapstructure:"recordFailures"`
	SkipFile        string       `mapstructure:"skipFrom"`
	LogLevel        string       `mapstructure:"logLevel"`
}

// setting ties a config file key to the flag and environment variable that can also set it.
// An empty env means the setting has no environment variable.
type setting struct {
	key  string
	flag string
	env  string
}

var settings = []setting{ //nolint:gochecknoglobals
	{"config", "config", "CONFIG"},
	{"baseUrl", "url", "BASE_URL"},
	{"fixtures", "fixtures", "FIXTURES"},
	{"body", "body", "BODY"},
	{"username", "username", "USERNAME"},
	{"password", "password", "PASSWORD"},
	{"skipSchemaCheck", "skip-schema-check", "SKIP_SCHEMA_CHECK"},
	{"state.backend", "state", "STATE_BACKEND"},
	{"state.runId", "run-id", "RUN_ID"},
	{"state.redisUrl", "redis-url", "REDIS_URL"},
	{"state.consulAddress", "consul-addr", "CONSUL_ADDR"},
	{"state.dynamodb.table", "dynamodb-table", "DYNAMODB_TABLE"},
	{"state.dynamodb.endpoint", "dynamodb-endpoint", "DYNAMODB_ENDPOINT"},
	{"state.dynamodb.region", "dynamodb-region", "DYNAMODB_REGION"},
	{"state.dynamodb.createTable", "dynamodb-create-table", ""},
	{"keepState", "keep-state", "KEEP_STATE"},
	{"debug", "debug", ""},
	{"debugAll", "debug-all", ""},
	{"junit", "junit", "JUNIT"},
	{"recordFailures", "record-failures", ""},
	{"skipFrom", "skip-from", ""},
	{"logLevel", "log-level", "LOG_LEVEL"},
}

// commandParams holds the test filters given on the command line. Every other flag is read
// through viper.
type commandParams struct {
	filters apitest.RegexFilters
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "YAML or JSON configuration file")
	fs.String("url", harness.DefaultBaseURL, "base URL of the pet store API")
	fs.String("fixtures", "", "CSV fixture file for the data-driven stage (default: built-in)")
	fs.String("body", "", "JSON body file for the create stage (default: built-in)")
	fs.String("username", "", "user name for the login stage")
	fs.String("password", "", "password for the login stage")
	fs.Bool("skip-schema-check", false, "do not check pet responses against the JSON schema")
	fs.String("state", state.BackendMemory, "where stages keep shared state: "+strings.Join(state.Backends, ", "))
	fs.String("run-id", "", "namespace for persistent state (default: random)")
	fs.String("redis-url", "", "Redis URL for the redis state backend")
	fs.String("consul-addr", "", "Consul agent address for the consul state backend")
	fs.String("dynamodb-table", "", "table for the dynamodb state backend")
	fs.String("dynamodb-endpoint", "", "endpoint override for the dynamodb state backend")
	fs.String("dynamodb-region", "", "AWS region for the dynamodb state backend")
	fs.Bool("dynamodb-create-table", false, "create the DynamoDB table if it does not exist")
	fs.Bool("keep-state", false, "do not clear persistent state at the end of the run")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.Bool("debug", false, "enable debug logging for failed tests")
	fs.Bool("debug-all", false, "enable debug logging for all tests")
	fs.String("junit", "", "write JUnit XML output to the specified path")
	fs.String("record-failures", "", "record failed test IDs to the given file")
	fs.String("skip-from", "", "skip any test IDs listed in the given file")
	fs.String("log-level", "info", "harness log level: debug, info, warn or error")
}

// resolve merges the config file, the environment and the flags into a runConfig, and adds
// the config file's run and skip patterns to the command-line filters.
func (c *commandParams) resolve(fs *pflag.FlagSet) (runConfig, apitest.RegexFilters, error) {
	var config runConfig
	v, err := newConfigReader(fs)
	if err != nil {
		return config, c.filters, err
	}
	if err := v.Unmarshal(&config); err != nil {
		return config, c.filters, fmt.Errorf("invalid configuration: %w", err)
	}

	filters := c.filters
	for _, p := range config.Run {
		if err := filters.MustMatch.Set(p); err != nil {
			return config, filters, fmt.Errorf("invalid run pattern %q: %w", p, err)
		}
	}
	for _, p := range config.Skip {
		if err := filters.MustNotMatch.Set(p); err != nil {
			return config, filters, fmt.Errorf("invalid skip pattern %q: %w", p, err)
		}
	}
	return config, filters, nil
}

func newConfigReader(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for _, s := range settings {
		if err := v.BindPFlag(s.key, fs.Lookup(s.flag)); err != nil {
			return nil, err
		}
		if s.env != "" {
			if err := v.BindEnv(s.key, envPrefix+s.env); err != nil {
				return nil, err
			}
		}
	}

	configFile := v.GetString("config")
	if configFile == "" {
		return v, nil
	}
	v.SetConfigFile(configFile)
	if !slices.Contains(viper.SupportedExts, strings.TrimPrefix(filepath.Ext(configFile), ".")) {
		v.SetConfigType("yaml") // JSON files are also valid YAML
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", configFile, err)
	}
	return v, nil
}
