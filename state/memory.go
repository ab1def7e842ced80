package state

import (
	"context"
	"sync"

	"github.com/iterasys/petstore-test-harness/framework/opt"
)

// MemoryStore keeps values in process memory. A new MemoryStore is empty, so each run that
// creates one starts with no state.
type MemoryStore struct {
	values map[string]string
	lock   sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.lock.Lock()
	value, ok := s.values[key]
	s.lock.Unlock()
	return valueOrMissing(key, opt.FromLookup(value, ok), nil)
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.lock.Lock()
	s.values[key] = value
	s.lock.Unlock()
	return nil
}

func (s *MemoryStore) Reset(context.Context) error {
	s.lock.Lock()
	s.values = make(map[string]string)
	s.lock.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }
