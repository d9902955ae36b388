package store

import (
	"context"
	"sync"
)

// Memory is an in-process KV backend. Values are lost on exit.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

// Insert stores a copy of value under key.
func (m *Memory) Insert(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Retrieve returns a copy of the value under key.
func (m *Memory) Retrieve(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
