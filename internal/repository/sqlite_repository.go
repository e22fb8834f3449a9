package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSnapshotRepository stores snapshots in a local SQLite file.
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at dbPath and ensures the
// snapshots table exists.
func OpenSQLite(dbPath string) (*SQLiteSnapshotRepository, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	const schema = `CREATE TABLE IF NOT EXISTS snapshots (
            name TEXT PRIMARY KEY,
            payload TEXT NOT NULL,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return &SQLiteSnapshotRepository{db: conn}, nil
}

func (r *SQLiteSnapshotRepository) Name() string {
	return "sqlite"
}

func (r *SQLiteSnapshotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE name = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return []byte(payload), nil
}

func (r *SQLiteSnapshotRepository) Put(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots (name, payload) VALUES (?, ?)
        ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP`,
		key, string(payload))
	if err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (r *SQLiteSnapshotRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
