package thread

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-memory Store implementation used for development
// and tests. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*Thread
	items   map[string][]Item // threadID -> items in insertion order
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		threads: make(map[string]*Thread),
		items:   make(map[string][]Item),
	}
}

var _ Store = (*MemoryStore)(nil)

// SaveThread creates or replaces a thread record.
func (s *MemoryStore) SaveThread(_ context.Context, t *Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.threads[t.ID] = &cp
	return nil
}

// Thread returns a thread by ID.
func (s *MemoryStore) Thread(_ context.Context, id string) (*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return nil, fmt.Errorf("thread %s: %w", id, ErrThreadNotFound)
	}
	cp := *t
	return &cp, nil
}

// AddItem appends an item to its thread.
func (s *MemoryStore) AddItem(_ context.Context, item Item) error {
	threadID := item.Meta().ThreadID
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[threadID]; !ok {
		return fmt.Errorf("thread %s: %w", threadID, ErrThreadNotFound)
	}
	s.items[threadID] = append(s.items[threadID], item)
	return nil
}

// Items lists items of a thread. See Store for cursor semantics.
func (s *MemoryStore) Items(_ context.Context, threadID string, after *string, limit int, order Order) ([]Item, error) {
	if order != OrderAsc && order != OrderDesc {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrder, order)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.items[threadID]

	start := 0
	if after != nil {
		for i, it := range all {
			if it.Meta().ID == *after {
				start = i + 1
				break
			}
		}
	}

	selected := all[start:]
	result := make([]Item, len(selected))
	copy(result, selected)

	if order == OrderDesc {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
