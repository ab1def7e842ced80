package state

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Prefix for every key or table partition that a persistent backend writes.
const namespacePrefix = "petstore"

// Names of the available backends.
const (
	BackendMemory   = "memory"
	BackendEnv      = "env"
	BackendRedis    = "redis"
	BackendConsul   = "consul"
	BackendDynamoDB = "dynamodb"
)

// Backends lists every backend name accepted by Open.
var Backends = []string{BackendMemory, BackendEnv, BackendRedis, BackendConsul, BackendDynamoDB} //nolint:gochecknoglobals

// Config selects and locates a Store.
type Config struct {
	// Backend is one of the Backend constants. Empty means BackendMemory.
	Backend string `json:"backend" mapstructure:"backend"`

	// RunID namespaces the values of a persistent backend so that concurrent or earlier runs
	// cannot see each other's state. Empty means a new random id.
	RunID string `json:"runId" mapstructure:"runId"`

	RedisURL      string         `json:"redisUrl" mapstructure:"redisUrl"`
	ConsulAddress string         `json:"consulAddress" mapstructure:"consulAddress"`
	DynamoDB      DynamoDBConfig `json:"dynamodb" mapstructure:"dynamodb"`
}

// NewRunID returns a fresh random run id.
func NewRunID() string {
	return uuid.NewString()
}

// Open creates the Store described by config. The returned run id is the one actually used,
// which matters when config.RunID was empty.
func Open(ctx context.Context, config Config) (Store, string, error) {
	runID := config.RunID
	if runID == "" {
		runID = NewRunID()
	}
	switch strings.ToLower(config.Backend) {
	case "", BackendMemory:
		return NewMemoryStore(), runID, nil
	case BackendEnv:
		return EnvStore{}, runID, nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, config.RedisURL, runID)
		if err != nil {
			return nil, "", fmt.Errorf("redis state store: %w", err)
		}
		return s, runID, nil
	case BackendConsul:
		s, err := NewConsulStore(config.ConsulAddress, runID)
		if err != nil {
			return nil, "", fmt.Errorf("consul state store: %w", err)
		}
		return s, runID, nil
	case BackendDynamoDB:
		s, err := NewDynamoDBStore(ctx, config.DynamoDB, runID)
		if err != nil {
			return nil, "", fmt.Errorf("dynamodb state store: %w", err)
		}
		return s, runID, nil
	default:
		return nil, "", fmt.Errorf("unknown state backend %q; must be one of %s", config.Backend,
			strings.Join(Backends, ", "))
	}
}
