package extract

import (
	"errors"
	"testing"

	"spendlog/internal/core"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		cents    int64
		category core.Category
	}{
		{"dollar with cents", "Spent $12.50 on coffee", 1250, core.Coffee},
		{"bare integer", "uber ride 23", 2300, core.Transport},
		{"one fraction digit", "lunch 12.5", 1250, core.Food},
		{"first amount wins", "groceries $40 then $5 snack", 4000, core.Food},
		{"no keyword", "paid $7 for parking", 700, core.Other},
		{"zero amount", "free latte $0", 0, core.Coffee},
		{"fraction capped at two digits", "amazon 9.999", 999, core.Shopping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Extract(tt.text)
			if err != nil {
				t.Fatalf("Extract(%q) error = %v", tt.text, err)
			}
			if e.Amount.Cents != tt.cents {
				t.Errorf("Amount = %d, want %d", e.Amount.Cents, tt.cents)
			}
			if e.Category != tt.category {
				t.Errorf("Category = %q, want %q", e.Category, tt.category)
			}
			if e.Description != tt.text {
				t.Errorf("Description = %q, want verbatim %q", e.Description, tt.text)
			}
			if !e.CreatedAt.IsZero() {
				t.Errorf("CreatedAt should be left for the ledger")
			}
		})
	}
}

func TestExtractNoAmount(t *testing.T) {
	for _, text := range []string{"had a nice day", "", "coffee with friends", "$"} {
		_, err := Extract(text)
		if !errors.Is(err, core.ErrNoAmountFound) {
			t.Fatalf("Extract(%q) expected ErrNoAmountFound, got %v", text, err)
		}
	}
}

func TestExtractAmountOverflow(t *testing.T) {
	for _, text := range []string{"coffee 99999999999999999999", "$92233720368547758"} {
		_, err := Extract(text)
		if !errors.Is(err, core.ErrInvalidAmount) {
			t.Fatalf("Extract(%q) expected ErrInvalidAmount, got %v", text, err)
		}
	}
}

func TestClassifyFirstGroupWins(t *testing.T) {
	tests := []struct {
		text string
		want core.Category
	}{
		{"restaurant uber coffee", core.Food},
		{"uber to starbucks", core.Transport},
		{"latte and new clothes", core.Coffee},
		{"AMAZON order", core.Shopping},
		{"Dinner at a Restaurant", core.Food},
		{"rent", core.Other},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	m, err := ParseAmount("bus ticket $2.75 and tip 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Cents != 275 {
		t.Fatalf("expected 275 cents, got %d", m.Cents)
	}
}
