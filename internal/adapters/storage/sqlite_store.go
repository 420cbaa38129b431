package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookvenue/client/internal/domain/providers"
	"github.com/bookvenue/client/internal/infrastructure/clients/sqlite"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

const kvTable = "kv_store"

// SQLiteStore implements the KeyValueStore interface on an on-device SQLite file
type SQLiteStore struct {
	client *sqlite.Client
	db     *goqu.Database
	prefix string
}

// NewSQLiteStore creates a new SQLite-backed key-value store
func NewSQLiteStore(client *sqlite.Client, prefix string) providers.KeyValueStore {
	return &SQLiteStore{
		client: client,
		db:     goqu.New("sqlite3", client.DB()),
		prefix: prefix,
	}
}

// Get retrieves a value
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.db.From(kvTable).
		Select("value").
		Where(goqu.C("key").Eq(s.prefix + key)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build get query: %w", err)
	}

	var value []byte
	err = s.client.DB().QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from sqlite: %w", err)
	}
	return value, nil
}

// Set stores a value, replacing any previous one
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	now := goqu.L("CURRENT_TIMESTAMP")
	query, args, err := s.db.Insert(kvTable).
		Rows(goqu.Record{
			"key":        s.prefix + key,
			"value":      value,
			"updated_at": now,
		}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.L("excluded.value"),
			"updated_at": now,
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build set query: %w", err)
	}

	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set in sqlite: %w", err)
	}
	return nil
}

// Delete removes values in one statement
func (s *SQLiteStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]any, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}

	query, args, err := s.db.Delete(kvTable).
		Where(goqu.C("key").In(prefixed...)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete from sqlite: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.client.Close()
}
