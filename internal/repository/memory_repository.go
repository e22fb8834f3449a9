package repository

import (
	"context"
	"slices"
	"sync"
)

// MemorySnapshotRepository keeps snapshots for the life of the process only.
type MemorySnapshotRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{data: make(map[string][]byte)}
}

func (r *MemorySnapshotRepository) Name() string {
	return "memory"
}

func (r *MemorySnapshotRepository) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.data[key]
	if !ok {
		return nil, nil
	}
	return slices.Clone(payload), nil
}

func (r *MemorySnapshotRepository) Put(_ context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[key] = slices.Clone(payload)
	return nil
}
