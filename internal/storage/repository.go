package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"spendlog/internal/core"
	"spendlog/internal/ledger"

	_ "modernc.org/sqlite"
)

var _ ledger.Ledger = (*SQLiteLedger)(nil)

// SQLiteLedger is the durable ledger backed by a single SQLite file.
type SQLiteLedger struct {
	db  *sql.DB
	now ledger.Clock
	mu  sync.Mutex // single writer
}

func NewSQLiteLedger(dbPath string) (*SQLiteLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteLedger{db: db, now: time.Now}, nil
}

// SetClock replaces the time source. Not safe to call concurrently with Append.
func (l *SQLiteLedger) SetClock(now ledger.Clock) {
	l.now = now
}

func (l *SQLiteLedger) Close() error {
	if l.db != nil {
		return l.db.Close()
	}
	return nil
}

// Append implements ledger.Writer
func (l *SQLiteLedger) Append(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, fmt.Errorf("validate expense: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: begin append: %w", core.ErrPersistence, err)
	}
	defer tx.Rollback()

	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(created_at) FROM expenses`).Scan(&last); err != nil {
		return core.Expense{}, fmt.Errorf("%w: read last timestamp: %w", core.ErrPersistence, err)
	}
	var lastAt time.Time
	if last.Valid {
		lastAt = time.Unix(0, last.Int64)
	}
	e.CreatedAt = ledger.Stamp(l.now(), lastAt)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, category, description, created_at) VALUES (?, ?, ?, ?)`,
		e.Amount.Cents, string(e.Category), e.Description, e.CreatedAt.UnixNano())
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: insert expense: %w", core.ErrPersistence, err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: read expense id: %w", core.ErrPersistence, err)
	}
	if err := tx.Commit(); err != nil {
		return core.Expense{}, fmt.Errorf("%w: commit append: %w", core.ErrPersistence, err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)

	return e, nil
}

// All implements ledger.Reader
func (l *SQLiteLedger) All(ctx context.Context) ([]core.Expense, error) {
	rows, err := l.db.QueryContext(ctx,
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
			created  int64
		)
		if err := rows.Scan(&e.ID, &e.Amount.Cents, &category, &e.Description, &created); err != nil {
			return nil, fmt.Errorf("%w: scan expense: %w", core.ErrPersistence, err)
		}
		if e.Category, err = core.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("%w: expense %d: %w", core.ErrPersistence, e.ID, err)
		}
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate expenses: %w", core.ErrPersistence, err)
	}
	return out, nil
}

// TotalsByCategory implements ledger.Reader
func (l *SQLiteLedger) TotalsByCategory(ctx context.Context) (core.Totals, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT category, SUM(amount_cents) FROM expenses GROUP BY category`)
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
