package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type sqliteStateRepository struct {
	db  *sqlx.DB
	key string
}

// NewSQLiteStateRepository creates a SQLite-based StateRepository. The
// kv_store table must exist; see db.InitializeDB.
func NewSQLiteStateRepository(db *sqlx.DB, key string) StateRepository {
	return &sqliteStateRepository{db: db, key: key}
}

func (r *sqliteStateRepository) Load(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "StateRepository.Load", trace.WithAttributes(
		attribute.String("storage.backend", "sqlite"),
		attribute.String("storage.key", r.key),
	))
	defer span.End()

	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM kv_store WHERE key = ?`, r.key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to select state")
		return nil, fmt.Errorf("failed to get state from sqlite: %w", err)
	}
	return []byte(value), nil
}

func (r *sqliteStateRepository) Save(ctx context.Context, data []byte) error {
	ctx, span := tracer.Start(ctx, "StateRepository.Save", trace.WithAttributes(
		attribute.String("storage.backend", "sqlite"),
		attribute.String("storage.key", r.key),
		attribute.Int("state.size", len(data)),
	))
	defer span.End()

	query := `
	INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, r.key, string(data), time.Now().UTC()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to upsert state")
		return fmt.Errorf("failed to save state to sqlite: %w", err)
	}
	return nil
}

func (r *sqliteStateRepository) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "StateRepository.Clear", trace.WithAttributes(
		attribute.String("storage.backend", "sqlite"),
		attribute.String("storage.key", r.key),
	))
	defer span.End()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, r.key); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete state")
		return fmt.Errorf("failed to delete state from sqlite: %w", err)
	}
	return nil
}
