package repository

import (
	"context"
)

// SnapshotRepository is a durable key/value slot holding serialized
// snapshots. Get returns nil, nil when the key has never been written.
type SnapshotRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
	Name() string
}

var (
	_ SnapshotRepository = (*GormSnapshotRepository)(nil)
	_ SnapshotRepository = (*SQLiteSnapshotRepository)(nil)
	_ SnapshotRepository = (*RedisSnapshotRepository)(nil)
	_ SnapshotRepository = (*FileSnapshotRepository)(nil)
	_ SnapshotRepository = (*MemorySnapshotRepository)(nil)
)
