package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookvenue/client/internal/domain/providers"
	redisclient "github.com/bookvenue/client/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements the KeyValueStore interface using Redis.
// Keys are namespaced with a prefix so several devices can share one instance.
type RedisStore struct {
	client *redisclient.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed key-value store
func NewRedisStore(client *redisclient.Client, prefix string) providers.KeyValueStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a value
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.Client().Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return result, nil
}

// Set stores a value without expiration
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Client().Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Delete removes values in a single round trip
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	if err := s.client.Client().Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
