package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
)

//go:generate mockgen -source=state_repository.go -destination=mocks/mock_state_repository.go -package=mocks

var tracer = otel.Tracer("repository")

var ErrStateNotFound = errors.New("state not found")

// StateRepository persists the serialized application state under a single
// storage key. The payload is opaque to the repository.
type StateRepository interface {
	// Load returns ErrStateNotFound when nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Clear(ctx context.Context) error
}
