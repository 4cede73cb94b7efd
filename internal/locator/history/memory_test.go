package history

import (
	"context"
	"testing"

	"locator_backend/internal/locator/domain"
)

func mustSearch(t *testing.T, name string, lat, lng float64) domain.Location {
	t.Helper()
	loc, err := domain.FromSearch(name, lat, lng)
	if err != nil {
		t.Fatalf("build location %q: %v", name, err)
	}
	return loc
}

func names(entries []domain.Location) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func assertNames(t *testing.T, entries []domain.Location, want ...string) {
	t.Helper()
	got := names(entries)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestMemoryStoreOrdersMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(5)

	store.Add(ctx, mustSearch(t, "A", 1, 1))
	store.Add(ctx, mustSearch(t, "B", 2, 2))
	store.Add(ctx, mustSearch(t, "C", 3, 3))

	assertNames(t, store.List(ctx), "C", "B", "A")
}

func TestMemoryStoreDeduplicatesByName(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(5)

	store.Add(ctx, mustSearch(t, "A", 1, 1))
	store.Add(ctx, mustSearch(t, "B", 2, 2))
	store.Add(ctx, mustSearch(t, "C", 3, 3))
	store.Add(ctx, mustSearch(t, "A", 9, 9))

	entries := store.List(ctx)
	assertNames(t, entries, "A", "C", "B")

	// The refreshed entry carries the new fields, not the originals.
	if entries[0].Lat != 9 || entries[0].Lng != 9 {
		t.Fatalf("expected refreshed coordinates (9, 9), got (%v, %v)", entries[0].Lat, entries[0].Lng)
	}
}

func TestMemoryStoreEvictsOldestAtCap(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(5)

	for i, name := range []string{"A", "B", "C", "D", "E", "F"} {
		store.Add(ctx, mustSearch(t, name, float64(i), float64(i)))
		if got := len(store.List(ctx)); got > 5 {
			t.Fatalf("cap exceeded: %d entries after adding %s", got, name)
		}
	}

	assertNames(t, store.List(ctx), "F", "E", "D", "C", "B")
}

func TestMemoryStoreRepeatedAddIsStable(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(5)

	store.Add(ctx, mustSearch(t, "A", 1, 1))
	store.Add(ctx, mustSearch(t, "A", 1, 1))
	store.Add(ctx, mustSearch(t, "A", 1, 1))

	assertNames(t, store.List(ctx), "A")
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(5)

	store.Add(ctx, mustSearch(t, "A", 1, 1))
	store.Clear(ctx)

	if got := store.List(ctx); len(got) != 0 {
		t.Fatalf("expected empty list after clear, got %v", names(got))
	}

	// The store stays usable after clearing.
	store.Add(ctx, mustSearch(t, "B", 2, 2))
	assertNames(t, store.List(ctx), "B")
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(5)

	store.Add(ctx, mustSearch(t, "A", 1, 1))

	first := store.List(ctx)
	first[0].Name = "mutated"

	if got := store.List(ctx)[0].Name; got != "A" {
		t.Fatalf("internal state leaked through List: %q", got)
	}
}
