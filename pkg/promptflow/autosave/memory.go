package autosave

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for testing and ephemeral sessions.
type MemoryStore struct {
	mu     sync.RWMutex
	flows  map[string]FlowRecord
	closed bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flows: make(map[string]FlowRecord)}
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, rec FlowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	now := time.Now().UTC()
	if existing, ok := s.flows[rec.ID]; ok {
		rec.CreatedAt = existing.CreatedAt
	} else if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	s.flows[rec.ID] = rec
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, flowID string) (FlowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return FlowRecord{}, ErrStoreClosed
	}

	rec, ok := s.flows[flowID]
	if !ok {
		return FlowRecord{}, ErrNotFound
	}
	return rec, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]FlowRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	recs := make([]FlowRecord, 0, len(s.flows))
	for _, rec := range s.flows {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].UpdatedAt.After(recs[j].UpdatedAt)
	})
	return recs, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, flowID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	delete(s.flows, flowID)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
