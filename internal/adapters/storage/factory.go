package storage

import (
	"context"
	"fmt"

	"github.com/bookvenue/client/internal/domain/providers"
	redisclient "github.com/bookvenue/client/internal/infrastructure/clients/redis"
	"github.com/bookvenue/client/internal/infrastructure/clients/sqlite"
	"github.com/bookvenue/client/internal/infrastructure/observability"
	"github.com/bookvenue/client/pkg/config"
)

// NewKeyValueStore opens the store selected by cfg.Storage.Driver
func NewKeyValueStore(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (providers.KeyValueStore, error) {
	var store providers.KeyValueStore

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		store = NewMemoryStore()
	case config.StorageDriverSQLite:
		client, err := sqlite.NewClient(ctx, &cfg.Storage)
		if err != nil {
			return nil, err
		}
		store = NewSQLiteStore(client, cfg.Storage.KeyPrefix)
	case config.StorageDriverRedis:
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		store = NewRedisStore(client, cfg.Storage.KeyPrefix)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	return NewInstrumentedStore(store, cfg.Storage.Driver, metrics), nil
}
