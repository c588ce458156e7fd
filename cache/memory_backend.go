package cache

import (
	"context"
	"sync"
)

// MemoryBackend keeps the snapshot in process
type MemoryBackend struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewMemoryBackend creates an empty in-process backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (m *MemoryBackend) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snap == nil {
		return nil, nil
	}
	return &Snapshot{Records: m.snap.Records.Clone(), FetchedAt: m.snap.FetchedAt}, nil
}

func (m *MemoryBackend) Store(ctx context.Context, snap *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap = &Snapshot{Records: snap.Records.Clone(), FetchedAt: snap.FetchedAt}
	return nil
}

func (m *MemoryBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap = nil
	return nil
}
