package persist

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps snapshots in a map. Nothing survives the process.
type Memory struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{snaps: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.snaps[key]
	if !ok {
		return nil, ErrNotExist
	}
	return slices.Clone(data), nil
}

func (m *Memory) Save(ctx context.Context, key string, snapshot []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[key] = slices.Clone(snapshot)
	return nil
}

func (m *Memory) Close() error { return nil }
