package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type redisStateRepository struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

// NewRedisStateRepository creates a Redis-based StateRepository storing the
// state at "<prefix>:<key>". A zero ttl keeps the value forever.
func NewRedisStateRepository(rdb *redis.Client, prefix, key string, ttl time.Duration) StateRepository {
	if prefix != "" {
		key = fmt.Sprintf("%s:%s", prefix, key)
	}
	return &redisStateRepository{rdb: rdb, key: key, ttl: ttl}
}

// Load retrieves the stored state.
func (r *redisStateRepository) Load(ctx context.Context) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "StateRepository.Load", trace.WithAttributes(
		attribute.String("storage.backend", "redis"),
		attribute.String("storage.key", r.key),
	))
	defer span.End()

	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get state")
		return nil, fmt.Errorf("failed to get state from redis: %w", err)
	}
	return data, nil
}

// Save overwrites the stored state.
func (r *redisStateRepository) Save(ctx context.Context, data []byte) error {
	ctx, span := tracer.Start(ctx, "StateRepository.Save", trace.WithAttributes(
		attribute.String("storage.backend", "redis"),
		attribute.String("storage.key", r.key),
		attribute.Int("state.size", len(data)),
	))
	defer span.End()

	if err := r.rdb.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to set state")
		return fmt.Errorf("failed to set state in redis: %w", err)
	}
	return nil
}

// Clear removes the stored state.
func (r *redisStateRepository) Clear(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "StateRepository.Clear", trace.WithAttributes(
		attribute.String("storage.backend", "redis"),
		attribute.String("storage.key", r.key),
	))
	defer span.End()

	if err := r.rdb.Del(ctx, r.key).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete state")
		return fmt.Errorf("failed to delete state from redis: %w", err)
	}
	return nil
}
