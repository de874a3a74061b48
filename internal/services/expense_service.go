package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"spendlog/internal/advisor"
	"spendlog/internal/core"
	"spendlog/internal/extract"
	"spendlog/internal/ledger"
)

const EmptySummary = "No expenses logged yet."

// Publisher announces appended expenses to other processes.
type Publisher interface {
	PublishExpenseLogged(ctx context.Context, e core.Expense) error
}

// ExpenseService is the boundary the UI and agent tools call. It fuses
// extraction with the ledger append and formats every read view as text.
type ExpenseService struct {
	ledger    ledger.Ledger
	publisher Publisher
}

// NewExpenseService wires the service; publisher may be nil.
func NewExpenseService(l ledger.Ledger, publisher Publisher) *ExpenseService {
	return &ExpenseService{
		ledger:    l,
		publisher: publisher,
	}
}

// LogExpense extracts an expense from text and appends it. Errors wrap
// core.ErrNoAmountFound or core.ErrPersistence; the ledger is untouched on failure.
func (s *ExpenseService) LogExpense(ctx context.Context, text string) (core.Expense, error) {
	e, err := extract.Extract(text)
	if err != nil {
		return core.Expense{}, fmt.Errorf("extract expense: %w", err)
	}

	stored, err := s.ledger.Append(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if err := s.publish(ctx, stored); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense logged message",
			"id", stored.ID, "error", err)
		// Don't fail the request - the expense is in the ledger
	}
	return stored, nil
}

func (s *ExpenseService) publish(ctx context.Context, e core.Expense) error {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping expense logged message")
		return nil
	}
	return s.publisher.PublishExpenseLogged(ctx, e)
}

// Expenses returns every record, most recent first.
func (s *ExpenseService) Expenses(ctx context.Context) ([]core.Expense, error) {
	all, err := s.ledger.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return all, nil
}

// Summary renders one line per expense, most recent first.
func (s *ExpenseService) Summary(ctx context.Context) (string, error) {
	all, err := s.Expenses(ctx)
	if err != nil {
		return "", err
	}
	return FormatSummary(all), nil
}

func (s *ExpenseService) Totals(ctx context.Context) (core.Totals, error) {
	totals, err := s.ledger.TotalsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("totals by category: %w", err)
	}
	return totals, nil
}

// Tips returns advisor output for the whole ledger.
func (s *ExpenseService) Tips(ctx context.Context) ([]string, error) {
	all, err := s.Expenses(ctx)
	if err != nil {
		return nil, err
	}
	return advisor.Suggest(all), nil
}

// FormatConfirmation is the reply to a successful log request.
func FormatConfirmation(e core.Expense) string {
	return fmt.Sprintf("Logged $%s under '%s'", e.Amount, e.Category)
}

func FormatSummary(expenses []core.Expense) string {
	if len(expenses) == 0 {
		return EmptySummary
	}
	lines := make([]string, len(expenses))
	for i, e := range expenses {
		lines[i] = fmt.Sprintf("$%s on %s — %s", e.Amount, e.Category, e.Description)
	}
	return strings.Join(lines, "\n")
}

func FormatTotals(totals core.Totals) string {
	if len(totals) == 0 {
		return EmptySummary
	}
	rows := totals.Sorted()
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s: $%s", r.Category, r.Amount)
	}
	return strings.Join(lines, "\n")
}

// UserMessage converts an error from this package into text safe to show a user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrNoAmountFound):
		return "Could not log expense: no amount found. Try something like 'Spent $12.50 on lunch'."
	case errors.Is(err, core.ErrInvalidAmount):
		return "Could not log expense: the amount is too large."
	case errors.Is(err, core.ErrPersistence):
		return "Storage error: the expense ledger is unavailable, please try again."
	default:
		return "Something went wrong: " + err.Error()
	}
}
