package state

import (
	"context"
	"errors"

	"github.com/iterasys/petstore-test-harness/framework/opt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one run's values in a single Redis hash named after the run id.
type RedisStore struct {
	redis   *redis.Client
	hashKey string
}

// DefaultRedisURL is used when the configuration does not name a Redis server.
const DefaultRedisURL = "redis://localhost:6379/0"

// NewRedisStore connects to the Redis server at url and verifies that it answers.
func NewRedisStore(ctx context.Context, url, runID string) (*RedisStore, error) {
	if url == "" {
		url = DefaultRedisURL
	}
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{redis: client, hashKey: namespacePrefix + ":" + runID}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.redis.HGet(ctx, r.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return valueOrMissing(key, opt.None[string](), nil)
	}
	return valueOrMissing(key, opt.Some(value), err)
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	return r.redis.HSet(ctx, r.hashKey, key, value).Err()
}

func (r *RedisStore) Reset(ctx context.Context) error {
	return r.redis.Del(ctx, r.hashKey).Err()
}

func (r *RedisStore) Close() error {
	return r.redis.Close()
}
