package memory

import (
	"context"
	"sort"
	"sync"

	"wardrobewizard/backend/internal/domain"
	"wardrobewizard/backend/internal/store"
)

// Store is the in-memory cart repository used in dev mode and tests.
type Store struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartLine
}

var _ store.Repository = (*Store)(nil)

func New() *Store {
	return &Store{carts: make(map[string][]domain.CartLine)}
}

func (s *Store) LoadCart(_ context.Context, sessionID string) ([]domain.CartLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, ok := s.carts[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out, nil
}

func (s *Store) SaveCart(_ context.Context, sessionID string, lines []domain.CartLine) error {
	kept := make([]domain.CartLine, len(lines))
	copy(kept, lines)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = kept
	return nil
}

func (s *Store) DeleteCart(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

func (s *Store) ListSessions(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.carts))
	for id := range s.carts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
