package providers

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KeyValueStore.Get when the key is absent
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore defines the persistent storage the client keeps its credentials in
type KeyValueStore interface {
	// Get retrieves a value; returns ErrKeyNotFound when absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value without expiration
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the given keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error

	// Close releases the underlying resources
	Close() error
}
