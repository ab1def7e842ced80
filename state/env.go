package state

import (
	"context"
	"os"

	"github.com/iterasys/petstore-test-harness/framework/opt"
)

// EnvStore keeps values in process environment variables named after the keys, which is how
// the suite originally passed the pet id and the login token between tests. Values outlive
// the run for as long as the process does, and Reset does not remove them.
type EnvStore struct{}

func (EnvStore) Get(_ context.Context, key string) (string, error) {
	return valueOrMissing(key, opt.FromLookup(os.LookupEnv(key)), nil)
}

func (EnvStore) Set(_ context.Context, key, value string) error {
	return os.Setenv(key, value)
}

func (EnvStore) Reset(context.Context) error { return nil }

func (EnvStore) Close() error { return nil }
