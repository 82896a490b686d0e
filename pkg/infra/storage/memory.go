package storage

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps values in process memory
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (x *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return slices.Clone(x.data[key]), nil
}

func (x *Memory) Put(ctx context.Context, key string, value []byte) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.data[key] = slices.Clone(value)
	return nil
}
