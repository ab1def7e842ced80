package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iterasys/petstore-test-harness/framework/apitest"
	"github.com/iterasys/petstore-test-harness/framework/harness"
	"github.com/iterasys/petstore-test-harness/state"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseParams(t *testing.T, args ...string) (runConfig, apitest.RegexFilters) {
	t.Helper()
	var params commandParams
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	params.addFlags(fs)
	require.NoError(t, fs.Parse(args))
	config, filters, err := params.resolve(fs)
	require.NoError(t, err)
	return config, filters
}

func clearPetstoreEnvironment(t *testing.T) {
	for _, s := range settings {
		if s.env != "" {
			t.Setenv(envPrefix+s.env, "")
		}
	}
}

func TestDefaultsReproduceOriginalSuite(t *testing.T) {
	clearPetstoreEnvironment(t)
	config, filters := parseParams(t)
	assert.Equal(t, harness.DefaultBaseURL, config.BaseURL)
	assert.Equal(t, "", config.FixturePath)
	assert.Equal(t, "", config.BodyPath)
	assert.Equal(t, state.BackendMemory, config.State.Backend)
	assert.Equal(t, "info", config.LogLevel)
	assert.False(t, config.KeepState)
	assert.False(t, filters.MustMatch.IsDefined())
}

func TestConfigFileThenEnvironmentThenFlags(t *testing.T) {
	clearPetstoreEnvironment(t)
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
baseUrl: http://from-file/v2/
fixtures: file.csv
username: file-user
state:
  backend: redis
  redisUrl: redis://file:6379
skip:
  - login
`), 0o600))
	t.Setenv("PETSTORE_FIXTURES", "env.csv")
	t.Setenv("PETSTORE_USERNAME", "env-user")

	config, filters := parseParams(t, "--config", path, "--username", "flag-user", "--run", "create")

	assert.Equal(t, "http://from-file/v2/", config.BaseURL)
	assert.Equal(t, "env.csv", config.FixturePath)
	assert.Equal(t, "flag-user", config.Username)
	assert.Equal(t, state.BackendRedis, config.State.Backend)
	assert.Equal(t, "redis://file:6379", config.State.RedisURL)
	assert.True(t, filters.MustMatch.AnyMatch(apitest.TestID{"create"}, false))
	assert.True(t, filters.MustNotMatch.AnyMatch(apitest.TestID{"login"}, false))
}

func TestConfigFileFromEnvironment(t *testing.T) {
	clearPetstoreEnvironment(t)
	path := filepath.Join(t.TempDir(), "petstore.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"password": "from-json"}`), 0o600))
	t.Setenv("PETSTORE_CONFIG", path)

	config, _ := parseParams(t)
	assert.Equal(t, "from-json", config.Password)
}

func TestNestedStateSettings(t *testing.T) {
	clearPetstoreEnvironment(t)
	path := filepath.Join(t.TempDir(), "petstore.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
state:
  backend: dynamodb
  runId: file-run
  dynamodb:
    table: file-table
    region: sa-east-1
    createTable: true
`), 0o600))
	t.Setenv("PETSTORE_DYNAMODB_TABLE", "env-table")

	config, _ := parseParams(t, "--config", path, "--run-id", "flag-run")

	assert.Equal(t, state.BackendDynamoDB, config.State.Backend)
	assert.Equal(t, "flag-run", config.State.RunID)
	assert.Equal(t, state.DynamoDBConfig{Table: "env-table", Region: "sa-east-1", CreateTable: true}, config.State.DynamoDB)
}

func TestConfigFileWithoutKnownExtensionIsReadAsYAML(t *testing.T) {
	clearPetstoreEnvironment(t)
	path := filepath.Join(t.TempDir(), "petstore.conf")
	require.NoError(t, os.WriteFile(path, []byte("username: conf-user\nkeepState: true\n"), 0o600))

	config, _ := parseParams(t, "--config", path)
	assert.Equal(t, "conf-user", config.Username)
	assert.True(t, config.KeepState)
}

func TestMissingConfigFile(t *testing.T) {
	clearPetstoreEnvironment(t)
	var params commandParams
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	params.addFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
	_, _, err := params.resolve(fs)
	assert.ErrorContains(t, err, "cannot read config file")
}

func TestEverySettingHasAFlag(t *testing.T) {
	var params commandParams
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	params.addFlags(fs)
	for _, s := range settings {
		assert.NotNil(t, fs.Lookup(s.flag), "flag for %s", s.key)
	}
}

func TestInvalidEnvironmentBool(t *testing.T) {
	clearPetstoreEnvironment(t)
	t.Setenv("PETSTORE_KEEP_STATE", "maybe")
	var params commandParams
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	params.addFlags(fs)
	require.NoError(t, fs.Parse(nil))
	_, _, err := params.resolve(fs)
	assert.Error(t, err)
}

func TestUnchangedFlagsDoNotOverride(t *testing.T) {
	clearPetstoreEnvironment(t)
	t.Setenv("PETSTORE_BASE_URL", "http://env/v2/")
	config, _ := parseParams(t, "--debug")
	assert.Equal(t, "http://env/v2/", config.BaseURL)
	assert.True(t, config.Debug)
}

func TestLoadSuppressions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skip.txt")
	require.NoError(t, os.WriteFile(path, []byte("delete\n\ndata-driven create/350676 Rex\n"), 0o600))

	var filters apitest.RegexFilters
	require.NoError(t, loadSuppressions(path, &filters))
	assert.False(t, filters.Match(apitest.TestID{"delete"}))
	assert.False(t, filters.Match(apitest.TestID{"data-driven create", "350676 Rex"}))
	assert.True(t, filters.Match(apitest.TestID{"data-driven create", "350677 Mimi"}))
	assert.True(t, filters.Match(apitest.TestID{"login"}))
}

func TestWriteFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.txt")
	require.NoError(t, writeFailures(path, apitest.Results{Failures: []apitest.TestResult{
		{TestID: apitest.TestID{"delete"}},
		{TestID: apitest.TestID{"data-driven create", "350676 Rex"}},
	}}))
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "delete\ndata-driven create/350676 Rex\n", string(content))
}
