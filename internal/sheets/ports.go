package sheets

import (
	"context"

	"spendlog/internal/core"
)

// MirrorWriter copies ledger records to an external spreadsheet.
// The ledger stays the source of truth; mirrors are best-effort.
type MirrorWriter interface {
	AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
}
