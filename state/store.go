package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/iterasys/petstore-test-harness/framework/opt"
)

// Keys written by the suite.
const (
	KeyPetID = "petId"
	KeyToken = "token"
)

// ErrMissingKey is the error that MissingKeyError matches with errors.Is.
var ErrMissingKey = errors.New("state key was never set")

// MissingKeyError is returned by Store.Get for a key that has not been set in this run.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("state key %q was never set", e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// Store holds string values that one test stage leaves for later stages. Stages run one at a
// time, so implementations do not need to be safe for concurrent writers.
type Store interface {
	// Get returns the value for key, or a *MissingKeyError if it was never set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Reset removes every value this store can see.
	Reset(ctx context.Context) error

	// Close releases any connection held by the store.
	Close() error
}

// Has reports whether key has been set.
func Has(ctx context.Context, store Store, key string) (bool, error) {
	_, err := store.Get(ctx, key)
	if errors.Is(err, ErrMissingKey) {
		return false, nil
	}
	return err == nil, err
}

// valueOrMissing converts a backend lookup into the Store.Get contract.
func valueOrMissing(key string, value opt.Maybe[string], err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("failed to read state key %q: %w", key, err)
	}
	if v, ok := value.Get(); ok {
		return v, nil
	}
	return "", &MissingKeyError{Key: key}
}
