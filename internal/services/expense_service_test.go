package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"spendlog/internal/advisor"
	"spendlog/internal/core"
	"spendlog/internal/ledger/memory"
)

type fakePublisher struct {
	published []core.Expense
	err       error
}

func (f *fakePublisher) PublishExpenseLogged(_ context.Context, e core.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, e)
	return nil
}

// brokenLedger fails every call the way a full disk would.
type brokenLedger struct{}

func (brokenLedger) Append(context.Context, core.Expense) (core.Expense, error) {
	return core.Expense{}, fmt.Errorf("%w: disk full", core.ErrPersistence)
}
func (brokenLedger) All(context.Context) ([]core.Expense, error) {
	return nil, fmt.Errorf("%w: read failed", core.ErrPersistence)
}
func (brokenLedger) TotalsByCategory(context.Context) (core.Totals, error) {
	return nil, fmt.Errorf("%w: read failed", core.ErrPersistence)
}

func TestExpenseService_LogExpense(t *testing.T) {
	ctx := context.Background()
	pub := &fakePublisher{}
	svc := NewExpenseService(memory.New(), pub)

	e, err := svc.LogExpense(ctx, "Spent $12.50 on coffee")
	if err != nil {
		t.Fatalf("LogExpense: %v", err)
	}
	if e.Amount.Cents != 1250 || e.Category != core.Coffee || e.ID == 0 {
		t.Fatalf("unexpected expense: %+v", e)
	}
	if got := FormatConfirmation(e); got != "Logged $12.50 under 'coffee'" {
		t.Fatalf("unexpected confirmation %q", got)
	}
	if len(pub.published) != 1 || pub.published[0].ID != e.ID {
		t.Fatalf("expected one published event, got %+v", pub.published)
	}
}

func TestExpenseService_LogExpenseNoAmount(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewExpenseService(store, nil)

	_, err := svc.LogExpense(ctx, "had a nice day")
	if !errors.Is(err, core.ErrNoAmountFound) {
		t.Fatalf("expected ErrNoAmountFound, got %v", err)
	}
	all, _ := store.All(ctx)
	if len(all) != 0 {
		t.Fatalf("ledger must be unchanged, got %v", all)
	}
}

func TestExpenseService_PublishFailureDoesNotFailLog(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewExpenseService(store, &fakePublisher{err: errors.New("broker down")})

	if _, err := svc.LogExpense(ctx, "bus $2"); err != nil {
		t.Fatalf("publish failures must not fail the log: %v", err)
	}
	all, _ := store.All(ctx)
	if len(all) != 1 {
		t.Fatalf("expected expense in ledger")
	}
}

func TestExpenseService_PersistenceError(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(brokenLedger{}, nil)

	if _, err := svc.LogExpense(ctx, "lunch $5"); !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if _, err := svc.Summary(ctx); !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected ErrPersistence from Summary, got %v", err)
	}
	if _, err := svc.Tips(ctx); !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected ErrPersistence from Tips, got %v", err)
	}
	if _, err := svc.Totals(ctx); !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected ErrPersistence from Totals, got %v", err)
	}
}

func TestExpenseService_Summary(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New(), nil)

	out, err := svc.Summary(ctx)
	if err != nil || out != EmptySummary {
		t.Fatalf("expected empty summary, got %q err=%v", out, err)
	}

	for _, text := range []string{"lunch $10", "uber 7.5"} {
		if _, err := svc.LogExpense(ctx, text); err != nil {
			t.Fatalf("LogExpense(%q): %v", text, err)
		}
	}

	out, err = svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := "$7.50 on transport — uber 7.5\n$10.00 on food — lunch $10"
	if out != want {
		t.Fatalf("Summary() =\n%s\nwant\n%s", out, want)
	}
}

func TestExpenseService_TotalsAndTips(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New(), nil)

	for i := 0; i < 4; i++ {
		if _, err := svc.LogExpense(ctx, "latte $4"); err != nil {
			t.Fatalf("LogExpense: %v", err)
		}
	}
	if _, err := svc.LogExpense(ctx, "groceries $30"); err != nil {
		t.Fatalf("LogExpense: %v", err)
	}

	totals, err := svc.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals[core.Coffee].Cents != 1600 || totals[core.Food].Cents != 3000 || len(totals) != 2 {
		t.Fatalf("unexpected totals: %v", totals)
	}
	if got := FormatTotals(totals); got != "food: $30.00\ncoffee: $16.00" {
		t.Fatalf("unexpected totals text %q", got)
	}

	tips, err := svc.Tips(ctx)
	if err != nil {
		t.Fatalf("Tips: %v", err)
	}
	if len(tips) != 1 || tips[0] != advisor.CoffeeTip {
		t.Fatalf("expected only the coffee tip, got %v", tips)
	}
}

func TestUserMessage(t *testing.T) {
	if UserMessage(nil) != "" {
		t.Fatal("nil error should have no message")
	}
	if msg := UserMessage(fmt.Errorf("extract: %w", core.ErrNoAmountFound)); !strings.Contains(msg, "no amount found") {
		t.Fatalf("unexpected message %q", msg)
	}
	if msg := UserMessage(fmt.Errorf("save: %w", core.ErrPersistence)); !strings.HasPrefix(msg, "Storage error") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestLogExpenseOversizedAmount(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewExpenseService(store, nil)

	_, err := svc.LogExpense(ctx, "coffee 99999999999999999999")
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if msg := UserMessage(err); msg != "Could not log expense: the amount is too large." {
		t.Fatalf("unexpected message %q", msg)
	}

	_, reply := svc.Respond(ctx, "coffee 99999999999999999999")
	if strings.Contains(reply, "Something went wrong") || strings.Contains(reply, "parse amount") {
		t.Fatalf("internal error chain leaked: %q", reply)
	}
	if all, _ := store.All(ctx); len(all) != 0 {
		t.Fatalf("failed log appended %d records", len(all))
	}
}
