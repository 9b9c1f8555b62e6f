package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"wardrobewizard/backend/internal/domain"
	"wardrobewizard/backend/internal/store"
)

// Store is a JSON file-backed cart repository: one file holding every
// session's serialized line collection. Each session's payload is kept as
// raw JSON so one corrupt cart cannot poison its neighbours.
type Store struct {
	mu    sync.RWMutex
	carts map[string]json.RawMessage
	path  string
}

var _ store.Repository = (*Store)(nil)

// New constructs a Store at the given path, loading the file if it exists.
func New(path string) (*Store, error) {
	s := &Store{
		carts: make(map[string]json.RawMessage),
		path:  path,
	}
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) loadFromFile() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// No file yet; that's fine.
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, &s.carts); err != nil {
		return fmt.Errorf("%w: %s: %v", store.ErrCorruptCart, s.path, err)
	}
	return nil
}

// saveToFile writes via a tmp file + rename so a crash mid-write cannot leave
// a truncated store behind.
func (s *Store) saveToFile() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s.carts, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) LoadCart(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.carts[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("%w: session %s: %v", store.ErrCorruptCart, sessionID, err)
	}
	return lines, nil
}

func (s *Store) SaveCart(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[sessionID] = raw
	return s.saveToFile()
}

func (s *Store) DeleteCart(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[sessionID]; !ok {
		return nil
	}
	delete(s.carts, sessionID)
	return s.saveToFile()
}

func (s *Store) ListSessions(ctx context.Context, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.carts))
	for id := range s.carts {
		ids = append(ids, id)
	}
	// Stable order for deterministic CLI output.
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
