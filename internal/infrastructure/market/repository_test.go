package market

import (
	"context"
	"math/rand"
	"testing"
	"time"

	domain "mandi/internal/domain/entity/market"
)

func newTestRepository(seed int64) *Repository {
	return NewRepositoryWithConfig(Config{
		Rng:                rand.New(rand.NewSource(seed)),
		Now:                func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) },
		SeedHistoryEntries: 7,
	})
}

func TestSeededCatalog(t *testing.T) {
	repo := newTestRepository(1)
	ctx := context.Background()

	rates, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rates) != 8 {
		t.Fatalf("expected 8 seeded crops, got %d", len(rates))
	}

	wheat, ok := rates["wheat"]
	if !ok {
		t.Fatal("expected wheat in the catalog")
	}
	if wheat.Price != 2500.0 {
		t.Errorf("expected wheat price 2500.00, got %v", wheat.Price)
	}
	if wheat.Trend != domain.TrendRising {
		t.Errorf("expected wheat trend rising, got %s", wheat.Trend)
	}
	if len(wheat.History) != 7 {
		t.Errorf("expected 7 seeded history entries, got %d", len(wheat.History))
	}
}

func TestGetAllReturnsCopies(t *testing.T) {
	repo := newTestRepository(1)
	ctx := context.Background()

	first, _ := repo.GetAll(ctx)
	wheat := first["wheat"]
	wheat.History[0] = -1

	second, _ := repo.GetAll(ctx)
	if second["wheat"].History[0] == -1 {
		t.Error("mutating a snapshot leaked into the repository")
	}
}

func TestGetByID(t *testing.T) {
	repo := newTestRepository(1)
	ctx := context.Background()

	if _, ok, _ := repo.GetByID(ctx, "wheat"); !ok {
		t.Error("expected wheat lookup to hit")
	}
	if _, ok, _ := repo.GetByID(ctx, "mango"); ok {
		t.Error("expected mango lookup to miss")
	}
}

func TestSearch(t *testing.T) {
	repo := newTestRepository(1)
	ctx := context.Background()

	results, _ := repo.Search(ctx, "WHEAT")
	if len(results) != 1 || results[0].ID != "wheat" {
		t.Fatalf("expected wheat only, got %v", results)
	}

	all, _ := repo.Search(ctx, "")
	if len(all) != 8 {
		t.Errorf("empty query should match all, got %d", len(all))
	}
	// Catalog insertion order.
	if all[0].ID != "wheat" || all[7].ID != "soybean" {
		t.Errorf("unexpected order: first=%s last=%s", all[0].ID, all[7].ID)
	}
}

func TestFilterByTrend(t *testing.T) {
	repo := newTestRepository(1)
	ctx := context.Background()

	rising, _ := repo.FilterByTrend(ctx, domain.TrendRising)
	if len(rising) != 3 {
		t.Fatalf("expected 3 rising crops in the seed, got %d", len(rising))
	}
	for _, rate := range rising {
		if rate.Trend != domain.TrendRising {
			t.Errorf("crop %s has trend %s", rate.ID, rate.Trend)
		}
	}
}

func TestTick(t *testing.T) {
	repo := newTestRepository(42)
	ctx := context.Background()

	before, _ := repo.GetAll(ctx)
	after, err := repo.Tick(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for id, old := range before {
		fresh := after[id]

		if fresh.Price < old.Price*0.95 || fresh.Price > old.Price*1.05 {
			t.Errorf("%s price %v outside ±5%% of %v", id, fresh.Price, old.Price)
		}

		switch {
		case fresh.Price > old.Price:
			if fresh.Trend != domain.TrendRising {
				t.Errorf("%s should be rising, got %s", id, fresh.Trend)
			}
		case fresh.Price < old.Price:
			if fresh.Trend != domain.TrendFalling {
				t.Errorf("%s should be falling, got %s", id, fresh.Trend)
			}
		default:
			if fresh.Trend != domain.TrendStable {
				t.Errorf("%s should be stable, got %s", id, fresh.Trend)
			}
		}

		if len(fresh.History) != len(old.History)+1 {
			t.Errorf("%s history should grow by one", id)
		}
		if fresh.History[len(fresh.History)-1] != fresh.Price {
			t.Errorf("%s history should end with the new price", id)
		}
	}
}

func TestTickCapsHistory(t *testing.T) {
	repo := newTestRepository(7)
	ctx := context.Background()

	for i := 0; i < domain.MaxHistoryEntries+5; i++ {
		if _, err := repo.Tick(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	history, _ := repo.History(ctx, "wheat", domain.MaxHistoryEntries*2)
	if len(history) != domain.MaxHistoryEntries {
		t.Errorf("expected history capped at %d, got %d", domain.MaxHistoryEntries, len(history))
	}
}

func TestHistory(t *testing.T) {
	repo := newTestRepository(1)
	ctx := context.Background()

	last3, _ := repo.History(ctx, "wheat", 3)
	if len(last3) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(last3))
	}

	// More days than recorded returns what exists.
	all, _ := repo.History(ctx, "wheat", 100)
	if len(all) != 7 {
		t.Errorf("expected 7 entries, got %d", len(all))
	}

	// Unknown crops are a miss, never a fault.
	none, err := repo.History(ctx, "mango", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected empty history, got %v", none)
	}
}
