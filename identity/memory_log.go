package identity

import (
	"context"
	"sync"
)

// MemorySeedLog implements SeedLog without persistence, for tests and
// throwaway runs.
type MemorySeedLog struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemorySeedLog creates an empty in-memory seed log.
func NewMemorySeedLog() *MemorySeedLog {
	return &MemorySeedLog{entries: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (l *MemorySeedLog) Get(_ context.Context, key string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	value, exists := l.entries[key]
	if !exists {
		return nil, ErrSeedNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Append records value under key unless the key already exists.
func (l *MemorySeedLog) Append(_ context.Context, key string, value []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.entries[key]; exists {
		return nil
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	l.entries[key] = stored
	return nil
}
