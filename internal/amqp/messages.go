package amqp

import (
	"encoding/json"
	"time"

	"spendlog/internal/core"
)

// ExpenseLoggedMessage announces a record appended to the ledger. It carries
// the full record so consumers never read back from the ledger.
type ExpenseLoggedMessage struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	PublishedAt time.Time `json:"published_at"`
}

func NewExpenseLoggedMessage(e core.Expense) *ExpenseLoggedMessage {
	return &ExpenseLoggedMessage{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Category:    string(e.Category),
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		PublishedAt: time.Now(),
	}
}

// Expense converts the message back to a domain record.
func (m *ExpenseLoggedMessage) Expense() (core.Expense, error) {
	c, err := core.ParseCategory(m.Category)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		ID:          m.ID,
		Amount:      core.Money{Cents: m.AmountCents},
		Category:    c,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
	return e, e.Validate()
}

func (m *ExpenseLoggedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseLoggedMessageFromJSON(data []byte) (*ExpenseLoggedMessage, error) {
	var msg ExpenseLoggedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
