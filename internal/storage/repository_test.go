package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"spendlog/internal/core"
)

func newTestLedger(t *testing.T) (*SQLiteLedger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "spendlog.db")
	l, err := NewSQLiteLedger(path)
	if err != nil {
		t.Fatalf("NewSQLiteLedger: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l, path
}

func TestSQLiteLedger_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	all, err := l.All(ctx)
	if err != nil {
		t.Fatalf("All on empty ledger: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", all)
	}

	in := []core.Expense{
		{Amount: core.Money{Cents: 1250}, Category: core.Coffee, Description: "Spent $12.50 on coffee"},
		{Amount: core.Money{Cents: 0}, Category: core.Other, Description: "free sample $0"},
		{Amount: core.Money{Cents: 4000}, Category: core.Food, Description: "groceries $40"},
	}
	var stored []core.Expense
	for _, e := range in {
		got, err := l.Append(ctx, e)
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
		if got.ID == 0 || got.CreatedAt.IsZero() {
			t.Fatalf("expected id and timestamp, got %+v", got)
		}
		stored = append(stored, got)
	}

	all, err = l.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(all))
	}
	for i, got := range all {
		want := stored[len(stored)-1-i]
		if got.ID != want.ID || got.Amount != want.Amount || got.Category != want.Category ||
			got.Description != want.Description || !got.CreatedAt.Equal(want.CreatedAt) {
			t.Fatalf("row %d: got %+v, want %+v", i, got, want)
		}
	}
	for i := 1; i < len(stored); i++ {
		if stored[i].CreatedAt.Before(stored[i-1].CreatedAt) {
			t.Fatalf("timestamps must be non-decreasing")
		}
	}
}

func TestSQLiteLedger_ClockSkewKeepsOrder(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Hour)}
	i := 0
	l.SetClock(func() time.Time {
		now := ticks[i]
		i++
		return now
	})

	first, err := l.Append(ctx, core.Expense{Amount: core.Money{Cents: 100}, Category: core.Food, Description: "lunch 1"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := l.Append(ctx, core.Expense{Amount: core.Money{Cents: 200}, Category: core.Food, Description: "lunch 2"})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("expected clamped timestamp %v, got %v", first.CreatedAt, second.CreatedAt)
	}

	all, _ := l.All(ctx)
	if all[0].ID != second.ID {
		t.Fatalf("expected most recent insert first on equal timestamps, got %+v", all)
	}
}

func TestSQLiteLedger_TotalsByCategory(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	for _, e := range []core.Expense{
		{Amount: core.Money{Cents: 1000}, Category: core.Food, Description: "a"},
		{Amount: core.Money{Cents: 500}, Category: core.Food, Description: "b"},
		{Amount: core.Money{Cents: 300}, Category: core.Transport, Description: "c"},
	} {
		if _, err := l.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	totals, err := l.TotalsByCategory(ctx)
	if err != nil {
		t.Fatalf("TotalsByCategory: %v", err)
	}
	if len(totals) != 2 || totals[core.Food].Cents != 1500 || totals[core.Transport].Cents != 300 {
		t.Fatalf("unexpected totals: %v", totals)
	}
}

func TestSQLiteLedger_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	l, path := newTestLedger(t)
	if _, err := l.Append(ctx, core.Expense{Amount: core.Money{Cents: 275}, Category: core.Transport, Description: "bus $2.75"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	_ = l.Close()

	reopened, err := NewSQLiteLedger(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	all, err := reopened.All(ctx)
	if err != nil || len(all) != 1 || all[0].Description != "bus $2.75" {
		t.Fatalf("unexpected rows after reopen: %v err=%v", all, err)
	}
}

func TestSQLiteLedger_Errors(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	if _, err := l.Append(ctx, core.Expense{Amount: core.Money{Cents: -5}, Category: core.Food, Description: "x"}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	_ = l.Close()
	_, err := l.Append(ctx, core.Expense{Amount: core.Money{Cents: 1}, Category: core.Food, Description: "x"})
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected ErrPersistence after close, got %v", err)
	}
	if _, err := l.All(ctx); !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected ErrPersistence from All after close, got %v", err)
	}
}
