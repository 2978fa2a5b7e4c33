// Package cache implements local snapshot stores for the rate cache client.
package cache

import (
	"context"
	"sync"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
)

// MemoryStore keeps the snapshot in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *domain.RatesSnapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

var _ portsrepo.RateSnapshotStore = (*MemoryStore)(nil)

func (s *MemoryStore) Load(_ context.Context) (*domain.RatesSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, nil
	}
	out := s.snap.Clone()
	return &out, nil
}

// Save replaces the snapshot unless the held one was cached later.
func (s *MemoryStore) Save(_ context.Context, snapshot domain.RatesSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil && s.snap.CachedAt.After(snapshot.CachedAt) {
		return nil
	}
	stored := snapshot.Clone()
	s.snap = &stored
	return nil
}
