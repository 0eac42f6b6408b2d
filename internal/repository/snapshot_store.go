package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	apperrors "campusparking/internal/errors"
)

// SnapshotStore persists opaque blobs under a logical key. The engine treats
// it as best-effort durable storage: a failed save never blocks a command.
type SnapshotStore interface {
	// Load returns the blob for key. found is false when the key has never
	// been saved; that is not an error.
	Load(key string) (data []byte, found bool, err error)
	Save(key string, data []byte) error
}

// FileSnapshotStore keeps one file per key under a data directory.
type FileSnapshotStore struct {
	dir string
}

func NewFileSnapshotStore(dir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.NewPersistenceError("init", err)
	}
	return &FileSnapshotStore{dir: dir}, nil
}

func (s *FileSnapshotStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileSnapshotStore) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewPersistenceError("load", err)
	}
	return data, true, nil
}

// Save writes to a temp file and renames it so a crash mid-write never leaves
// a truncated snapshot behind.
func (s *FileSnapshotStore) Save(key string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return apperrors.NewPersistenceError("save", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperrors.NewPersistenceError("save", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperrors.NewPersistenceError("save", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return apperrors.NewPersistenceError("save", err)
	}
	return nil
}

const pgTimeout = 5 * time.Second

// PostgresSnapshotStore stores one row per key. The timeout is applied here,
// at the network boundary, not inside the engine.
type PostgresSnapshotStore struct {
	DB *sql.DB
}

func NewPostgresSnapshotStore(db *sql.DB) (*PostgresSnapshotStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS app_snapshots (
			key        TEXT PRIMARY KEY,
			data       BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return nil, apperrors.NewPersistenceError("init", fmt.Errorf("creating app_snapshots table: %w", err))
	}
	return &PostgresSnapshotStore{DB: db}, nil
}

func (s *PostgresSnapshotStore) Load(key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	var data []byte
	err := s.DB.QueryRowContext(ctx, `SELECT data FROM app_snapshots WHERE key = $1`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewPersistenceError("load", err)
	}
	return data, true, nil
}

func (s *PostgresSnapshotStore) Save(key string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), pgTimeout)
	defer cancel()

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO app_snapshots (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		key, data)
	if err != nil {
		return apperrors.NewPersistenceError("save", err)
	}
	return nil
}
