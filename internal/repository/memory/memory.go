// Package memory is an in-process slot backend. Slots survive client eviction
// but not a restart.
package memory

import (
	"context"
	"sync"

	"github.com/jannathh/Scentify-Project/internal/repository"
)

// Backend implements repository.Backend with a map.
type Backend struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func New() *Backend {
	return &Backend{slots: make(map[string][]byte)}
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.slots[key]
	if !ok {
		return nil, repository.ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *Backend) Set(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.slots[key] = append([]byte(nil), data...)
	return nil
}

func (b *Backend) Ping(context.Context) error { return nil }

// Len reports how many slots are stored.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.slots)
}
