package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goodtune/gametime/internal/config"
	"github.com/goodtune/gametime/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	// miniredis.Addr() returns "host:port", used directly as the host.
	cfg := config.RedisConfig{
		Host:         mr.Addr(),
		Port:         0,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		DialTimeout:  "5s",
		ReadTimeout:  "3s",
		WriteTimeout: "3s",
	}

	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open Redis store: %v", err)
	}

	return store, mr
}

func TestTotalsStore_CommitAccumulates(t *testing.T) {
	store, _ := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	totals := store.Totals()
	date := "2024-01-02"

	if err := totals.Commit(ctx, date, 120); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if err := totals.Commit(ctx, date, 30); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	day, err := totals.DayTotal(ctx, date)
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if day != 150 {
		t.Errorf("Expected day total 150, got %d", day)
	}

	overall, err := totals.OverallTotal(ctx)
	if err != nil {
		t.Fatalf("OverallTotal failed: %v", err)
	}
	if overall != 150 {
		t.Errorf("Expected overall total 150, got %d", overall)
	}

	days, err := totals.DayTotals(ctx)
	if err != nil {
		t.Fatalf("DayTotals failed: %v", err)
	}
	if len(days) != 1 || days[date] != 150 {
		t.Errorf("Expected one bucket of 150, got %v", days)
	}
}

func TestTotalsStore_CommitRejectsNonPositive(t *testing.T) {
	store, _ := setupTestStore(t)
	defer func() { _ = store.Close() }()

	if err := store.Totals().Commit(context.Background(), "2024-01-02", 0); err == nil {
		t.Fatal("expected error for zero duration")
	}
}

func TestTotalsStore_MalformedValuesTreatedAsAbsent(t *testing.T) {
	store, mr := setupTestStore(t)
	defer func() { _ = store.Close() }()

	if err := mr.Set(keyOverall, "junk"); err != nil {
		t.Fatalf("seed malformed overall: %v", err)
	}
	mr.HSet(keyDays, "2024-01-02", "junk")

	ctx := context.Background()

	overall, err := store.Totals().OverallTotal(ctx)
	if err != nil {
		t.Fatalf("OverallTotal failed: %v", err)
	}
	if overall != 0 {
		t.Errorf("Expected malformed overall to read as 0, got %d", overall)
	}

	day, err := store.Totals().DayTotal(ctx, "2024-01-02")
	if err != nil {
		t.Fatalf("DayTotal failed: %v", err)
	}
	if day != 0 {
		t.Errorf("Expected malformed day value to read as 0, got %d", day)
	}

	days, err := store.Totals().DayTotals(ctx)
	if err != nil {
		t.Fatalf("DayTotals failed: %v", err)
	}
	if len(days) != 0 {
		t.Errorf("Expected malformed entries to be skipped, got %v", days)
	}
}

func TestTotalsStore_SetOverallTotal(t *testing.T) {
	store, _ := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.Totals().SetOverallTotal(ctx, 700); err != nil {
		t.Fatalf("SetOverallTotal failed: %v", err)
	}

	overall, err := store.Totals().OverallTotal(ctx)
	if err != nil {
		t.Fatalf("OverallTotal failed: %v", err)
	}
	if overall != 700 {
		t.Errorf("Expected 700, got %d", overall)
	}
}

func TestAnchorStore_Lifecycle(t *testing.T) {
	store, _ := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	anchor := store.Anchor()

	if _, err := anchor.Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for absent anchor, got %v", err)
	}

	if err := anchor.Set(ctx, 1700000000000); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	startMS, err := anchor.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if startMS != 1700000000000 {
		t.Errorf("Expected anchor 1700000000000, got %d", startMS)
	}

	if err := anchor.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := anchor.Get(ctx); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}

func TestAnchorStore_MalformedTreatedAsAbsent(t *testing.T) {
	store, mr := setupTestStore(t)
	defer func() { _ = store.Close() }()

	if err := mr.Set(keyAnchor, "not-a-timestamp"); err != nil {
		t.Fatalf("seed malformed anchor: %v", err)
	}

	if _, err := store.Anchor().Get(context.Background()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected malformed anchor to read as absent, got %v", err)
	}
}
