package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshotRepository stores each snapshot as a plain string value.
type RedisSnapshotRepository struct {
	rdb *redis.Client
}

func NewRedisSnapshotRepository(rdb *redis.Client) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{rdb: rdb}
}

func (r *RedisSnapshotRepository) Name() string {
	return "redis"
}

func (r *RedisSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	data, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

func (r *RedisSnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := r.rdb.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
