package catalog

import (
	"sync"
	"testing"

	"github.com/MorseWayne/storefront/internal/domain"
)

func TestStore_AddIfAbsentIsIdempotent(t *testing.T) {
	store := NewStore()

	store.AddIfAbsent(domain.Product{ID: 1, Title: "Backpack", Price: 109.95})
	// Same ID with a different payload must be a no-op, not an update.
	store.AddIfAbsent(domain.Product{ID: 1, Title: "Changed", Price: 1.0})
	store.AddIfAbsent(domain.Product{ID: 2, Title: "T-Shirt", Price: 22.3})

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
	p, ok := store.ByID(1)
	if !ok {
		t.Fatalf("ByID(1) not found")
	}
	if p.Title != "Backpack" {
		t.Errorf("ByID(1).Title = %q, want the original payload", p.Title)
	}
}

func TestStore_SetAllReplacesAndBumpsGeneration(t *testing.T) {
	store := NewStore()
	store.AddIfAbsent(domain.Product{ID: 1}, domain.Product{ID: 2})

	gen := store.Generation()
	store.SetAll([]domain.Product{{ID: 3}, {ID: 4}, {ID: 5}})

	if store.Generation() == gen {
		t.Errorf("Generation() did not advance after SetAll")
	}
	if store.Len() != 3 {
		t.Errorf("Len() = %d, want 3", store.Len())
	}
	if _, ok := store.ByID(1); ok {
		t.Errorf("ByID(1) still present after full replace")
	}
}

func TestStore_AddIfAbsentDoesNotBumpGeneration(t *testing.T) {
	store := NewStore()
	gen := store.Generation()

	store.AddIfAbsent(domain.Product{ID: 7})
	if store.Generation() != gen {
		t.Errorf("Generation() advanced on append, want unchanged")
	}
}

func TestStore_SetAllSinceDiscardsStaleLoad(t *testing.T) {
	store := NewStore()

	// A slow full load captured this generation...
	stale := store.Generation()
	// ...but a newer load finished first.
	store.SetAll([]domain.Product{{ID: 10}})

	if store.SetAllSince(stale, []domain.Product{{ID: 99}}) {
		t.Fatalf("SetAllSince() accepted a stale load")
	}
	if _, ok := store.ByID(10); !ok {
		t.Errorf("newer load was overwritten by the stale one")
	}

	// A load captured against the current generation must apply.
	if !store.SetAllSince(store.Generation(), []domain.Product{{ID: 11}}) {
		t.Errorf("SetAllSince() rejected a current load")
	}
}

func TestStore_AddIfAbsentSinceDiscardsLateFetch(t *testing.T) {
	store := NewStore()
	gen := store.Generation()

	store.SetAll([]domain.Product{{ID: 1}})

	if store.AddIfAbsentSince(gen, domain.Product{ID: 2}) {
		t.Fatalf("AddIfAbsentSince() accepted a write from before the replace")
	}
	if _, ok := store.ByID(2); ok {
		t.Errorf("late fetch leaked into the catalog")
	}

	if !store.AddIfAbsentSince(store.Generation(), domain.Product{ID: 3}) {
		t.Errorf("AddIfAbsentSince() rejected a current write")
	}
}

func TestStore_AllPreservesInsertionOrder(t *testing.T) {
	store := NewStore()
	store.SetAll([]domain.Product{{ID: 3}, {ID: 1}, {ID: 2}})
	store.AddIfAbsent(domain.Product{ID: 9})

	all := store.All()
	want := []int64{3, 1, 2, 9}
	if len(all) != len(want) {
		t.Fatalf("All() len = %d, want %d", len(all), len(want))
	}
	for i, p := range all {
		if p.ID != want[i] {
			t.Errorf("All()[%d].ID = %d, want %d", i, p.ID, want[i])
		}
	}

	// Mutating the snapshot must not affect the store.
	all[0].ID = 777
	if p, _ := store.ByID(3); p.ID != 3 {
		t.Errorf("snapshot mutation leaked into the store")
	}
}

func TestStore_Categories(t *testing.T) {
	store := NewStore()
	if got := store.Categories(); len(got) != 0 {
		t.Fatalf("Categories() = %v, want empty", got)
	}

	store.SetCategories([]string{"electronics", "jewelery"})
	got := store.Categories()
	if len(got) != 2 || got[0] != "electronics" {
		t.Errorf("Categories() = %v", got)
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.AddIfAbsent(domain.Product{ID: id})
		}(int64(i % 5))
	}
	wg.Wait()

	if store.Len() != 5 {
		t.Errorf("Len() = %d, want 5 distinct products", store.Len())
	}
}
