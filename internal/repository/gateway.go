package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"taskboard/internal/model"
)

// DefaultSnapshotKey is the fixed slot the application state lives under.
const DefaultSnapshotKey = "taskboard-state"

// Gateway loads the whole application snapshot at startup and overwrites it
// after every accepted mutation. Write failures are reported, never returned:
// the in-memory state stays authoritative for the rest of the session.
type Gateway struct {
	repo   SnapshotRepository
	key    string
	logger *zap.Logger

	mu       sync.Mutex
	failures int64
	lastErr  error
}

func NewGateway(repo SnapshotRepository, key string, logger *zap.Logger) *Gateway {
	if key == "" {
		key = DefaultSnapshotKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{repo: repo, key: key, logger: logger.Named("persistence")}
}

// Backend names the underlying repository.
func (g *Gateway) Backend() string {
	return g.repo.Name()
}

// Load returns the last saved snapshot, or an empty one on first run.
func (g *Gateway) Load(ctx context.Context) (*model.Snapshot, error) {
	payload, err := g.repo.Get(ctx, g.key)
	if err != nil {
		return nil, fmt.Errorf("load snapshot from %s: %w", g.repo.Name(), err)
	}
	if payload == nil {
		g.logger.Info("no stored snapshot, starting empty", zap.String("backend", g.repo.Name()))
		return model.NewSnapshot(), nil
	}

	var snap model.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	snap.Normalize()
	return &snap, nil
}

// Save serializes snap and overwrites the stored record.
func (g *Gateway) Save(ctx context.Context, snap *model.Snapshot) {
	payload, err := json.Marshal(snap)
	if err == nil {
		err = g.repo.Put(ctx, g.key, payload)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.failures++
		g.lastErr = err
		g.logger.Warn("snapshot not persisted; changes may be lost on reload",
			zap.String("backend", g.repo.Name()),
			zap.Int64("failures", g.failures),
			zap.Error(err),
		)
		return
	}
	g.lastErr = nil
}

// Failures counts rejected writes since startup.
func (g *Gateway) Failures() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures
}

// LastError is the error of the most recent write, nil once a later write succeeds.
func (g *Gateway) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}
