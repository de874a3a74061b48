package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Food      Category = "food"
	Transport Category = "transport"
	Coffee    Category = "coffee"
	Shopping  Category = "shopping"
	Other     Category = "other"
)

type (
	// Category classifies an expense. The set is closed.
	Category string

	Money struct {
		Cents int64
	}

	Expense struct {
		ID          int64 // Storage-assigned, informational only
		Amount      Money
		Category    Category
		Description string    // Raw input text, stored verbatim
		CreatedAt   time.Time // Set by the ledger on append
	}
)

var (
	ErrNoAmountFound    = errors.New("no amount found")
	ErrPersistence      = errors.New("persistence error")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyDescription = errors.New("empty description")
)

// Categories returns the closed category set in classification order.
func Categories() []Category {
	return []Category{Food, Transport, Coffee, Shopping, Other}
}

func (c Category) IsValid() bool {
	switch c {
	case Food, Transport, Coffee, Shopping, Other:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory maps a stored value back to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.Category)
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	return nil
}
