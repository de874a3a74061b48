package ledger

import (
	"context"
	"time"

	"spendlog/internal/core"
)

// Ledger is the append-only expense store. Implementations serialize writes,
// stamp CreatedAt on append and wrap storage failures with core.ErrPersistence.
type (
	Ledger interface {
		Writer
		Reader
	}

	Writer interface {
		// Append validates e, stamps CreatedAt and stores it. The stored
		// record is returned. A failed append leaves the ledger unchanged.
		Append(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	Reader interface {
		// All returns every record, most recent first. Never nil.
		All(ctx context.Context) ([]core.Expense, error)
		// TotalsByCategory sums amounts per category; empty categories are absent.
		TotalsByCategory(ctx context.Context) (core.Totals, error)
	}
)

// Clock returns the current time. Ledgers take one so tests can pin time.
type Clock func() time.Time

// Stamp returns now, clamped so it never goes before last.
func Stamp(now, last time.Time) time.Time {
	if now.Before(last) {
		return last
	}
	return now
}
