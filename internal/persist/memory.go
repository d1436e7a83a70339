package persist

import (
	"context"
	"sync"
)

// MemoryPersister keeps snapshots in process memory. Used in tests and for
// STORE_BACKEND=memory.
type MemoryPersister struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{snapshots: make(map[string][]byte)}
}

func (m *MemoryPersister) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.snapshots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryPersister) Save(_ context.Context, key string, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = append([]byte(nil), snapshot...)
	return nil
}

func (m *MemoryPersister) Ping(context.Context) error { return nil }
