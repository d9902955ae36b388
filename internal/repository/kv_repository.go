// Package repository provides PostgreSQL-backed persistence.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"gitlab.com/yelinaung/fxrates/internal/database"
)

// KVRepository stores opaque values under string keys in kv_entries.
type KVRepository struct {
	db    database.PGXDB
	close func()
}

// NewKVRepository creates a new KVRepository.
func NewKVRepository(db database.PGXDB) *KVRepository {
	return &KVRepository{db: db}
}

// NewKVRepositoryWithCloser creates a KVRepository that runs closeFn on Close,
// typically pool.Close for a pool it owns.
func NewKVRepositoryWithCloser(db database.PGXDB, closeFn func()) *KVRepository {
	return &KVRepository{db: db, close: closeFn}
}

// Insert writes value under key, replacing any previous value.
func (r *KVRepository) Insert(ctx context.Context, key string, value []byte) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to insert %q: %w", key, err)
	}
	return nil
}

// Retrieve reads the value stored under key. found is false when the key
// has never been written.
func (r *KVRepository) Retrieve(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := r.db.QueryRow(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to retrieve %q: %w", key, err)
	}
	return value, true, nil
}

// Close releases the underlying pool when the repository owns it.
func (r *KVRepository) Close() error {
	if r.close != nil {
		r.close()
	}
	return nil
}
