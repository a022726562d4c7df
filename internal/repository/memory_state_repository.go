package repository

import (
	"context"
	"sync"
)

type memoryStateRepository struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStateRepository keeps the state in process memory only.
func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{}
}

func (r *memoryStateRepository) Load(context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return nil, ErrStateNotFound
	}
	return append([]byte(nil), r.data...), nil
}

func (r *memoryStateRepository) Save(_ context.Context, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = append(make([]byte, 0, len(data)), data...)
	return nil
}

func (r *memoryStateRepository) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = nil
	return nil
}
