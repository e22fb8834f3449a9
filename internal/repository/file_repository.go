package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSnapshotRepository writes one JSON file per key under dir. Writes go
// through a temp file and a rename so a crash never leaves half a snapshot.
type FileSnapshotRepository struct {
	dir string
}

func NewFileSnapshotRepository(dir string) (*FileSnapshotRepository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("dir is required")
	}
	return &FileSnapshotRepository{dir: dir}, nil
}

func (r *FileSnapshotRepository) Name() string {
	return "file"
}

func (r *FileSnapshotRepository) path(key string) string {
	return filepath.Join(r.dir, filepath.Base(key)+".json")
}

func (r *FileSnapshotRepository) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	data, err := os.ReadFile(r.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

func (r *FileSnapshotRepository) Put(_ context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmpName, r.path(key)); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
