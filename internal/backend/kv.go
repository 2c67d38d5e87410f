package backend

import (
	"context"
	"fmt"
	"time"
)

// DataKey is the key the fallback store keeps the aggregate under.
const DataKey = "tutorbook_data"

// KV is the fallback backend: the aggregate as JSON text under one key.
type KV struct {
	db  *DB
	key string
}

// NewKV returns the fallback backend over db.
func NewKV(db *DB) *KV {
	return &KV{db: db, key: DataKey}
}

func (k *KV) Kind() Kind { return KindFallback }

func (k *KV) Read(ctx context.Context) ([]byte, error) {
	value, ok, err := k.db.getValue(ctx, `SELECT value FROM kv WHERE key = ?`, k.key)
	if err != nil {
		return nil, fmt.Errorf("read fallback store: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return []byte(value), nil
}

func (k *KV) Write(ctx context.Context, data []byte) error {
	_, err := k.db.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, k.key, string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write fallback store: %w", err)
	}
	return nil
}

// Clear removes the stored aggregate.
func (k *KV) Clear(ctx context.Context) error {
	if _, err := k.db.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, k.key); err != nil {
		return fmt.Errorf("clear fallback store: %w", err)
	}
	return nil
}
