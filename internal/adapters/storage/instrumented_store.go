package storage

import (
	"context"
	"time"

	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/observability"
)

// InstrumentedStore records operation latency for a wrapped KeyValueStore
type InstrumentedStore struct {
	next    providers.KeyValueStore
	driver  string
	metrics *observability.Metrics
}

// NewInstrumentedStore wraps store; a nil metrics returns store unchanged
func NewInstrumentedStore(store providers.KeyValueStore, driver string, metrics *observability.Metrics) providers.KeyValueStore {
	if metrics == nil {
		return store
	}
	return &InstrumentedStore{next: store, driver: driver, metrics: metrics}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	defer func() { observability.RecordStoreMetric(ctx, s.metrics, s.driver, "get", time.Since(start)) }()
	return s.next.Get(ctx, key)
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	defer func() { observability.RecordStoreMetric(ctx, s.metrics, s.driver, "set", time.Since(start)) }()
	return s.next.Set(ctx, key, value)
}

func (s *InstrumentedStore) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	defer func() { observability.RecordStoreMetric(ctx, s.metrics, s.driver, "delete", time.Since(start)) }()
	return s.next.Delete(ctx, keys...)
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
