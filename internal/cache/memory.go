package cache

import (
	"context"
	"sync"
)

// Memory is a bounded in-process cache. When full, the oldest inserted
// entry is evicted.
type Memory struct {
	mu      sync.Mutex
	size    int
	entries map[string]Entry
	order   []string
}

// NewMemory returns a cache holding at most size entries; size < 1 is
// treated as 1.
func NewMemory(size int) *Memory {
	if size < 1 {
		size = 1
	}
	return &Memory{size: size, entries: make(map[string]Entry, size)}
}

func (m *Memory) Get(_ context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Entry{}, ErrMiss
	}
	return e, nil
}

func (m *Memory) Set(_ context.Context, key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; ok {
		m.entries[key] = e
		return nil
	}
	for len(m.order) >= m.size {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
	m.entries[key] = e
	m.order = append(m.order, key)
	return nil
}

// Len reports the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
