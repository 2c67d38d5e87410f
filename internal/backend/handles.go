package backend

import (
	"context"
	"fmt"
	"time"
)

// HandleKey is the registry key of the data file handle.
const HandleKey = "dataFileHandle"

// HandleRegistry records the authorized data file across sessions so the
// same file is resumed without asking the user to pick it again.
type HandleRegistry struct {
	db *DB
}

func NewHandleRegistry(db *DB) *HandleRegistry {
	return &HandleRegistry{db: db}
}

// Get returns the recorded path for key, or ok=false.
func (r *HandleRegistry) Get(ctx context.Context, key string) (path string, ok bool, err error) {
	path, ok, err = r.db.getValue(ctx, `SELECT path FROM file_handles WHERE key = ?`, key)
	if err != nil {
		return "", false, fmt.Errorf("get file handle: %w", err)
	}
	return path, ok, nil
}

func (r *HandleRegistry) Put(ctx context.Context, key, path string) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO file_handles (key, path, recorded_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET path = excluded.path, recorded_at = excluded.recorded_at
	`, key, path, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put file handle: %w", err)
	}
	return nil
}

func (r *HandleRegistry) Delete(ctx context.Context, key string) error {
	if _, err := r.db.db.ExecContext(ctx, `DELETE FROM file_handles WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete file handle: %w", err)
	}
	return nil
}
