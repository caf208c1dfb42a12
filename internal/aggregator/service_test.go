package aggregator

import (
	"testing"

	"github.com/pable/aram-stats/internal/cache"
	"github.com/pable/aram-stats/internal/model"
)

func newTestService(t *testing.T) (*Service, *cache.LRU[*model.Dashboard]) {
	t.Helper()
	store, err := cache.NewLRU[*model.Dashboard](8)
	if err != nil {
		t.Fatalf("NewLRU: %v", err)
	}
	return NewService(store, nil), store
}

func TestServiceDashboard_Memoizes(t *testing.T) {
	svc, store := newTestService(t)
	ds := &model.Dataset{Hash: "h1", Table: propertyTable()}

	d1, err := svc.Dashboard(ds, "A")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	d2, err := svc.Dashboard(ds, "A")
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d1 != d2 {
		t.Error("expected second call to return the cached dashboard")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 cached entry, got %d", store.Len())
	}

	if d1.Summary.GamesPlayed != 2 || d1.Summary.TotalMatches != 2 {
		t.Errorf("unexpected summary %+v", d1.Summary)
	}
	// Items are computed on A's rows only.
	for _, it := range d1.Items {
		if it.Item == "Staff" || it.Item == "Bow" {
			t.Errorf("item %s belongs to another champion", it.Item)
		}
	}
}

func TestServiceDashboard_KeyedOnDatasetAndChampion(t *testing.T) {
	svc, store := newTestService(t)
	v1 := &model.Dataset{Hash: "v1", Table: propertyTable()}
	v2 := &model.Dataset{Hash: "v2", Table: twoMatchTable()}

	a1, _ := svc.Dashboard(v1, "A")
	c1, _ := svc.Dashboard(v1, "C")
	a2, _ := svc.Dashboard(v2, "A")
	if a1 == c1 || a1 == a2 {
		t.Error("different champion or dataset must not share a cache entry")
	}
	if store.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", store.Len())
	}

	if n := svc.Invalidate(v1); n != 2 {
		t.Errorf("expected 2 entries invalidated for v1, got %d", n)
	}
	if svc.Cached() != 1 {
		t.Errorf("expected v2 entry to survive, got %d entries", svc.Cached())
	}
	again, _ := svc.Dashboard(v1, "A")
	if again == a1 {
		t.Error("expected recomputation after invalidation")
	}
}

func TestServiceDashboard_NilDataset(t *testing.T) {
	svc := NewService(nil, nil)
	if _, err := svc.Dashboard(nil, "A"); err == nil {
		t.Error("expected error for nil dataset")
	}
	if _, err := svc.Dashboard(&model.Dataset{Hash: "x"}, "A"); err == nil {
		t.Error("expected error for dataset without table")
	}
}

func TestServiceDashboard_NopStoreRecomputes(t *testing.T) {
	svc := NewService(nil, nil)
	ds := &model.Dataset{Hash: "h", Table: twoMatchTable()}
	d1, _ := svc.Dashboard(ds, "A")
	d2, _ := svc.Dashboard(ds, "A")
	if d1 == d2 {
		t.Error("nil store should not memoize")
	}
	if d1.Summary != d2.Summary {
		t.Error("recomputed summaries differ")
	}
}

func TestServicePurge_DropsEveryDataset(t *testing.T) {
	svc, store := newTestService(t)
	v1 := &model.Dataset{Hash: "v1", Table: propertyTable()}
	v2 := &model.Dataset{Hash: "v2", Table: twoMatchTable()}

	_, _ = svc.Dashboard(v1, "A")
	_, _ = svc.Dashboard(v1, "C")
	_, _ = svc.Dashboard(v2, "A")

	if n := svc.Purge(); n != 3 {
		t.Errorf("Purge dropped %d entries, want 3", n)
	}
	if store.Len() != 0 || svc.Cached() != 0 {
		t.Errorf("cache not empty after Purge: %d", store.Len())
	}
	if n := NewService(nil, nil).Purge(); n != 0 {
		t.Errorf("Purge on a non-caching service = %d, want 0", n)
	}
}
