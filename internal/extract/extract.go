// Package extract turns a free-form sentence into an expense record using
// fixed regex and keyword rules. Every function here is pure.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"spendlog/internal/core"
)

// amountRe matches an optional "$", digits, and an optional 1-2 digit fraction.
var amountRe = regexp.MustCompile(`\$?\d+(?:\.\d{1,2})?`)

type keywordGroup struct {
	category core.Category
	keywords []string
}

// Groups are tested in order and the first hit wins, so "restaurant uber"
// is food, not transport.
var keywordGroups = []keywordGroup{
	{core.Food, []string{"restaurant", "lunch", "dinner", "snack", "groceries"}},
	{core.Transport, []string{"uber", "bus", "train", "taxi"}},
	{core.Coffee, []string{"coffee", "latte", "starbucks"}},
	{core.Shopping, []string{"clothes", "shopping", "amazon"}},
}

// Extract parses text into an expense. CreatedAt is left zero; the ledger
// stamps it on append. Returns core.ErrNoAmountFound when text has no amount.
func Extract(text string) (core.Expense, error) {
	amount, err := ParseAmount(text)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Amount:      amount,
		Category:    Classify(text),
		Description: text,
	}, nil
}

// ParseAmount returns the first amount found scanning left to right.
func ParseAmount(text string) (core.Money, error) {
	token := amountRe.FindString(text)
	if token == "" {
		return core.Money{}, core.ErrNoAmountFound
	}
	cents, err := core.ParseDecimalToCents(token)
	if err != nil {
		return core.Money{}, fmt.Errorf("parse amount %q: %w", token, err)
	}
	return core.Money{Cents: cents}, nil
}

// Classify returns the category of the first keyword group contained in text,
// or core.Other.
func Classify(text string) core.Category {
	lower := strings.ToLower(text)
	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.category
			}
		}
	}
	return core.Other
}
