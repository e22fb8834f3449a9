package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskboard/internal/config"
)

// Open builds the snapshot repository selected by cfg.StorageBackend. The
// returned closer releases any connection the backend holds.
func Open(ctx context.Context, cfg *config.Config) (SnapshotRepository, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case "memory":
		return NewMemorySnapshotRepository(), noop, nil

	case "file", "":
		repo, err := NewFileSnapshotRepository(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, noop, nil

	case "sqlite":
		repo, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		repo := NewGormSnapshotRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("migrate snapshots: %w", err)
		}
		closer := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return repo, closer, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return NewRedisSnapshotRepository(rdb), rdb.Close, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StorageBackend)
}
