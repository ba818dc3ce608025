package library

import (
	"context"
	"sync"
)

// MemoryStore keeps the library in process memory. It is the test backend
// and the server's fallback when no persistent store is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items []string
}

// NewMemoryStore creates an empty in-memory library.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *MemoryStore) Add(ctx context.Context, items ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = merge(s.items, items)
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, item string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, found := remove(s.items, item)
	if !found {
		return ErrNotFound
	}
	s.items = next
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, items []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = normalize(items)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
