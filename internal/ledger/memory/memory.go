package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/ledger"
)

var _ ledger.Ledger = (*Store)(nil)

// Store keeps expenses in process memory. Used by tests and the memory backend.
type Store struct {
	mu    sync.RWMutex
	now   ledger.Clock
	items []core.Expense
}

func New() *Store {
	return NewWithClock(time.Now)
}

func NewWithClock(now ledger.Clock) *Store {
	return &Store{now: now}
}

// Append stores the expense and assigns a sequential ID.
func (s *Store) Append(_ context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var last time.Time
	if n := len(s.items); n > 0 {
		last = s.items[n-1].CreatedAt
	}
	e.ID = int64(len(s.items) + 1)
	e.CreatedAt = ledger.Stamp(s.now(), last)
	s.items = append(s.items, e)
	return e, nil
}

// All returns a copy of the expenses, most recent first.
func (s *Store) All(_ context.Context) ([]core.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Expense, 0, len(s.items))
	for i := len(s.items) - 1; i >= 0; i-- {
		out = append(out, s.items[i])
	}
	return out, nil
}

func (s *Store) TotalsByCategory(_ context.Context) (core.Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.SumByCategory(s.items), nil
}
