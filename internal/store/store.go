// Package store persists the rate snapshot and its fetch timestamp in a
// key/value backend.
package store

import (
	"context"
	"errors"
	"fmt"

	"gitlab.com/yelinaung/fxrates/internal/models"
)

// Keys under which the rate store persists its two blobs.
const (
	KeyLastFetch = "fxrates:last_fetch"
	KeySnapshot  = "fxrates:snapshot"
)

var errSnapshotMissing = errors.New("no snapshot stored")

// KV is the persistence contract every backend implements. Implementations
// must tolerate concurrent Insert and Retrieve calls.
type KV interface {
	Insert(ctx context.Context, key string, value []byte) error
	// Retrieve returns found=false when key has never been written.
	Retrieve(ctx context.Context, key string) (value []byte, found bool, err error)
	Close() error
}

// RateStore maps the rate cache's timestamp and snapshot onto a KV backend.
type RateStore struct {
	kv KV
}

// NewRateStore creates a RateStore over kv.
func NewRateStore(kv KV) *RateStore {
	return &RateStore{kv: kv}
}

// LastFetchTime returns the stored fetch time in epoch seconds, or
// models.NeverFetched when nothing has been stored yet.
func (s *RateStore) LastFetchTime(ctx context.Context) (int64, error) {
	raw, found, err := s.kv.Retrieve(ctx, KeyLastFetch)
	if err != nil {
		return 0, fmt.Errorf("failed to read last fetch time: %w", err)
	}
	if !found {
		return models.NeverFetched, nil
	}
	return models.ParseTimestamp(string(raw))
}

// SaveLastFetchTime stores ts as the last fetch time.
func (s *RateStore) SaveLastFetchTime(ctx context.Context, ts int64) error {
	if err := s.kv.Insert(ctx, KeyLastFetch, []byte(models.FormatTimestamp(ts))); err != nil {
		return fmt.Errorf("failed to save last fetch time: %w", err)
	}
	return nil
}

// Snapshot returns the stored snapshot. A missing snapshot is reported as a
// decode failure since a timestamp without rates means the store is inconsistent.
func (s *RateStore) Snapshot(ctx context.Context) (models.Snapshot, error) {
	raw, found, err := s.kv.Retrieve(ctx, KeySnapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if !found {
		return nil, &models.DecodeError{Source: "snapshot", Err: errSnapshotMissing}
	}
	return models.DecodeSnapshot(raw)
}

// SaveSnapshot replaces the stored snapshot.
func (s *RateStore) SaveSnapshot(ctx context.Context, snap models.Snapshot) error {
	data, err := models.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := s.kv.Insert(ctx, KeySnapshot, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Close closes the underlying backend.
func (s *RateStore) Close() error {
	return s.kv.Close()
}
