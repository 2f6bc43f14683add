package store

import (
	"context"
	"sync"
)

// Ensure interface compliance
var _ BlobStore = (*MemoryBlobStore)(nil)

// MemoryBlobStore is an in-memory BlobStore. Useful for testing and
// ephemeral runs.
type MemoryBlobStore struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryBlobStore creates a blob store seeded with data, which may be nil
func NewMemoryBlobStore(data []byte) *MemoryBlobStore {
	return &MemoryBlobStore{data: clone(data)}
}

// Load returns a copy of the stored blob
func (m *MemoryBlobStore) Load(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.data), nil
}

// Save replaces the stored blob
func (m *MemoryBlobStore) Save(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = clone(data)
	m.saves++
	return nil
}

// Saves returns how many times Save has been called
func (m *MemoryBlobStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Data returns a copy of the stored blob
func (m *MemoryBlobStore) Data() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.data)
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}
