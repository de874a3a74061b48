package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"spendlog/internal/amqp"
	"spendlog/internal/cache"
	"spendlog/internal/sheets"
)

const (
	seenCacheSize = 4096
	seenCacheTTL  = 24 * time.Hour
)

// MirrorWorker copies expense.logged events into a spreadsheet mirror.
// Redeliveries of an already mirrored ID are acknowledged without writing.
type MirrorWorker struct {
	mirror sheets.MirrorWriter
	seen   cache.Cache[string]
}

func NewMirrorWorker(mirror sheets.MirrorWriter) *MirrorWorker {
	return &MirrorWorker{
		mirror: mirror,
		seen:   cache.NewLRUCache[string](seenCacheSize, seenCacheTTL),
	}
}

// Seen exposes the redelivery cache so callers can register it for cleanup.
func (w *MirrorWorker) Seen() cache.Cache[string] {
	return w.seen
}

// HandleExpenseLogged processes a single message from AMQP
func (w *MirrorWorker) HandleExpenseLogged(ctx context.Context, msg *amqp.ExpenseLoggedMessage) error {
	key := strconv.FormatInt(msg.ID, 10)
	if ref, ok := w.seen.Get(key); ok {
		slog.InfoContext(ctx, "Skipping already mirrored expense", "id", msg.ID, "ref", ref)
		return nil
	}

	e, err := msg.Expense()
	if err != nil {
		// Requeueing an invalid record would loop forever.
		slog.ErrorContext(ctx, "Dropping invalid expense message", "id", msg.ID, "error", err)
		return nil
	}

	ref, err := w.mirror.AppendExpense(ctx, e)
	if err != nil {
		return fmt.Errorf("mirror expense %d: %w", msg.ID, err)
	}
	w.seen.Set(key, ref)
	return nil
}
