package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DirStore keeps blobs as files named by their digest, fanned out by the
// first two hex characters.
type DirStore struct {
	root string
}

func NewDirStore(root string) (*DirStore, error) {
	if root == "" {
		return nil, errors.New("blob root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &DirStore{root: root}, nil
}

func (s *DirStore) path(hexDigest string) string {
	return filepath.Join(s.root, hexDigest[:2], hexDigest)
}

func (s *DirStore) Put(_ context.Context, data []byte) (string, error) {
	ref := Ref(data)
	hexDigest, _ := digest(ref)
	path := s.path(hexDigest)

	if _, err := os.Stat(path); err == nil {
		return ref, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("rename blob: %w", err)
	}
	return ref, nil
}

func (s *DirStore) Get(_ context.Context, ref string) ([]byte, error) {
	hexDigest, err := digest(ref)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(hexDigest))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}
