// Package facts provides best-effort capture of user facts surfaced by
// the agent. Facts start out pending; the user confirms or discards them
// through the REST endpoints.
package facts

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lumian-ai/sellerchat/internal/thread"
)

// Status values for a fact's lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSaved     Status = "saved"
	StatusDiscarded Status = "discarded"
)

// ErrNotFound indicates the requested fact does not exist.
var ErrNotFound = errors.New("fact not found")

// Fact is a single remembered statement about the user or their business.
type Fact struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Text      string    `json:"text"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps facts in memory. Fact capture is best-effort by design, so
// process-local storage is acceptable; nothing downstream depends on a
// fact surviving a restart.
//
// Store is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	facts map[string]*Fact
}

// NewStore creates an empty fact store.
func NewStore() *Store {
	return &Store{facts: make(map[string]*Fact)}
}

// Create records a new pending fact and returns it.
func (s *Store) Create(threadID, text string) *Fact {
	f := &Fact{
		ID:        thread.NewID(thread.PrefixFact),
		ThreadID:  threadID,
		Text:      text,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.facts[f.ID] = f
	s.mu.Unlock()
	return f
}

// Get returns a fact by ID.
func (s *Store) Get(id string) (*Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.facts[id]
	if !ok {
		return nil, fmt.Errorf("fact %s: %w", id, ErrNotFound)
	}
	cp := *f
	return &cp, nil
}

// Save marks a fact as saved.
func (s *Store) Save(id string) error {
	return s.setStatus(id, StatusSaved)
}

// Discard marks a fact as discarded.
func (s *Store) Discard(id string) error {
	return s.setStatus(id, StatusDiscarded)
}

func (s *Store) setStatus(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facts[id]
	if !ok {
		return fmt.Errorf("fact %s: %w", id, ErrNotFound)
	}
	f.Status = status
	return nil
}

// List returns all facts ordered by creation time.
func (s *Store) List() []*Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*Fact, 0, len(s.facts))
	for _, f := range s.facts {
		cp := *f
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
