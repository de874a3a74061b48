// Package postgres is the PostgreSQL realization of the expense ledger.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"spendlog/internal/core"
	"spendlog/internal/ledger"
)

var _ ledger.Ledger = (*Ledger)(nil)

type Ledger struct {
	pool *pgxpool.Pool
	now  ledger.Clock
	mu   sync.Mutex
}

// Open connects to databaseURL, runs migrations and returns a ready ledger.
func Open(ctx context.Context, databaseURL string) (*Ledger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Ledger{pool: pool, now: time.Now}, nil
}

func (l *Ledger) Close() error {
	l.pool.Close()
	return nil
}

func (l *Ledger) Append(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: begin append: %w", core.ErrPersistence, err)
	}
	defer tx.Rollback(ctx)

	// Other processes may share the table; the lock keeps MAX(created_at) stable until commit.
	if _, err := tx.Exec(ctx, `LOCK TABLE expenses IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return core.Expense{}, fmt.Errorf("%w: lock expenses: %w", core.ErrPersistence, err)
	}

	var last *time.Time
	if err := tx.QueryRow(ctx, `SELECT MAX(created_at) FROM expenses`).Scan(&last); err != nil {
		return core.Expense{}, fmt.Errorf("%w: read last timestamp: %w", core.ErrPersistence, err)
	}
	var lastAt time.Time
	if last != nil {
		lastAt = *last
	}
	// TIMESTAMPTZ keeps microseconds
	e.CreatedAt = ledger.Stamp(l.now().UTC().Truncate(time.Microsecond), lastAt)

	err = tx.QueryRow(ctx,
		`INSERT INTO expenses (amount_cents, category, description, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		e.Amount.Cents, string(e.Category), e.Description, e.CreatedAt).Scan(&e.ID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: insert expense: %w", core.ErrPersistence, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return core.Expense{}, fmt.Errorf("%w: commit append: %w", core.ErrPersistence, err)
	}

	slog.InfoContext(ctx, "Expense saved to Postgres",
		"id", e.ID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	return e, nil
}

func (l *Ledger) All(ctx context.Context) ([]core.Expense, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, amount_cents, category, description, created_at
		 FROM expenses ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list expenses: %w", core.ErrPersistence, err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		var (
			e        core.Expense
			category string
		)
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &category, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan expense: %w", core.ErrPersistence, err)
		}
		if e.Category, err = core.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("%w: expense %d: %w", core.ErrPersistence, e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate expenses: %w", core.ErrPersistence, err)
	}
	return out, nil
}

func (l *Ledger) TotalsByCategory(ctx context.Context) (core.Totals, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT category, SUM(amount_cents)::BIGINT FROM expenses GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("%w: sum by category: %w", core.ErrPersistence, err)
	}
	defer rows.Close()

	totals := core.Totals{}
	for rows.Next() {
		var (
			category string
			sum      int64
		)
		if err := rows.Scan(&category, &sum); err != nil {
			return nil, fmt.Errorf("%w: scan category sum: %w", core.ErrPersistence, err)
		}
		c, err := core.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", core.ErrPersistence, err)
		}
		totals[c] = core.Money{Cents: sum}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate category sums: %w", core.ErrPersistence, err)
	}
	return totals, nil
}
