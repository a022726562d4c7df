package db

import (
	"context"
	"fmt"
	"log/slog"

	// pure Go SQLite driver registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const driverName = "sqlite"

// SQLiteConnect opens the SQLite database at dbPath and verifies the connection.
func SQLiteConnect(ctx context.Context, dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite allows a single writer.
	pool.SetMaxOpenConns(1)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	slog.InfoContext(ctx, "Connected to sqlite database", "db.path", dbPath)
	return pool, nil
}

// InitializeDB creates the key-value table holding persisted state.
func InitializeDB(ctx context.Context, DB *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`

	if _, err := DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}

	slog.DebugContext(ctx, "DB schema verified.")
	return nil
}
