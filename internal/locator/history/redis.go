package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"locator_backend/internal/locator/domain"
	"locator_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the recent-locations list as a JSON array under a
// single Redis key. The in-memory list is authoritative after hydration;
// every mutation rewrites the whole key synchronously.
type RedisStore struct {
	client *redis.Client
	key    string
	limit  int
	log    *logger.Logger

	mu      sync.Mutex
	entries []domain.Location
}

// Compile-time check that RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// NewRedis creates a Redis-backed store and hydrates it from the durable
// key. Hydration is best-effort: a missing key yields an empty list and a
// malformed payload is logged and discarded, never returned as an error.
func NewRedis(ctx context.Context, client *redis.Client, key string, limit int, log *logger.Logger) *RedisStore {
	if limit < 1 {
		limit = DefaultLimit
	}

	s := &RedisStore{
		client: client,
		key:    key,
		limit:  limit,
		log:    log,
	}
	s.entries = s.load(ctx)
	return s
}

// List returns a copy of the current entries, most recent first.
func (s *RedisStore) List(ctx context.Context) []domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Location(nil), s.entries...)
}

// Add prepends loc (deduplicating by name), truncates to the cap,
// persists the full list, and returns the new state. Persistence
// failures are logged and swallowed.
func (s *RedisStore) Add(ctx context.Context, loc domain.Location) []domain.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = push(s.entries, loc, s.limit)
	s.persist(ctx)
	return append([]domain.Location(nil), s.entries...)
}

// Clear empties the list and deletes the durable key (not an empty write).
func (s *RedisStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		s.log.StoreError("clear", err)
	}
}

// Ping reports whether Redis is reachable; used for readiness checks.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) load(ctx context.Context) []domain.Location {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.StoreError("load", err)
		}
		return nil
	}

	var entries []domain.Location
	if err := json.Unmarshal(payload, &entries); err != nil {
		s.log.StoreError("decode", err)
		return nil
	}

	if len(entries) > s.limit {
		entries = entries[:s.limit]
	}
	return entries
}

// persist rewrites the whole list under the key. Caller holds the mutex.
func (s *RedisStore) persist(ctx context.Context) {
	payload, err := json.Marshal(s.entries)
	if err != nil {
		s.log.StoreError("encode", err)
		return
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		s.log.StoreError("persist", err)
	}
}
