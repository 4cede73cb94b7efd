package history

import (
	"context"
	"sync"

	"locator_backend/internal/locator/domain"
)

// MemoryStore keeps the recent-locations list in process memory only.
// It backs tests and keyless development runs where no Redis is
// configured; the list does not survive a restart.
type MemoryStore struct {
	limit int

	mu      sync.Mutex
	entries []domain.Location
}

var _ Store = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store with the given cap.
func NewMemory(limit int) *MemoryStore {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &MemoryStore{limit: limit}
}

// List returns a copy of the current entries, most recent first.
func (s *MemoryStore) List(_ context.Context) []domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Location(nil), s.entries...)
}

// Add applies the dedup-prepend-truncate rule and returns the new state.
func (s *MemoryStore) Add(_ context.Context, loc domain.Location) []domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = push(s.entries, loc, s.limit)
	return append([]domain.Location(nil), s.entries...)
}

// Clear empties the list.
func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Ping always succeeds; there is no backing storage to reach.
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
