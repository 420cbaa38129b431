package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bookvenue/client/internal/infrastructure/observability"
	"github.com/bookvenue/client/pkg/config"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// Client represents an on-device SQLite database
type Client struct {
	db *sql.DB
}

// NewClient opens the database file and runs migrations
func NewClient(ctx context.Context, cfg *config.StorageConfig) (*Client, error) {
	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: the store has a single writer at a time.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to SQLite: %w", err)
	}

	c := &Client{db: db}
	if err := c.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate SQLite: %w", err)
	}

	observability.GetLogger().Debug().Str("path", cfg.SQLitePath).Msg("SQLite store opened")
	return c, nil
}

func (c *Client) migrate(ctx context.Context) error {
	migrations := []string{
		`PRAGMA busy_timeout = 5000`,
		`CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := c.db.ExecContext(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
