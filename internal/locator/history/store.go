// Package history implements the bounded, deduplicated recent-locations
// store. The list is ordered most-recent-first, capped, deduplicated by
// display name, and persisted under a single durable key.
package history

import (
	"context"

	"locator_backend/internal/locator/domain"
)

// DefaultLimit is the history cap used when configuration does not override it.
const DefaultLimit = 5

// Store is the recent-locations store contract. Mutations are
// fail-soft: persistence problems are logged, never returned, so a
// storage outage can not break the lookup flow.
type Store interface {
	// List returns the current entries, most recent first.
	List(ctx context.Context) []domain.Location
	// Add removes any entry sharing loc's name, prepends loc, truncates
	// to the cap, persists the full list, and returns the new state.
	Add(ctx context.Context, loc domain.Location) []domain.Location
	// Clear empties the in-memory list and removes the durable key entirely.
	Clear(ctx context.Context)
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

// push applies the dedup-prepend-truncate rule shared by all backends.
// Deduplication is by display name: a duplicate refreshes its position
// to the front and its fields to loc's.
func push(entries []domain.Location, loc domain.Location, limit int) []domain.Location {
	next := make([]domain.Location, 0, len(entries)+1)
	next = append(next, loc)
	for _, entry := range entries {
		if entry.Name == loc.Name {
			continue
		}
		next = append(next, entry)
	}
	if len(next) > limit {
		next = next[:limit]
	}
	return next
}
