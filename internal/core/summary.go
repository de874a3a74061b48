package core

import "sort"

// Totals maps each category that has at least one expense to its summed amount.
// Categories without expenses are absent, never present with zero.
type Totals map[Category]Money

// CategoryTotal is one row of Totals in a stable order.
type CategoryTotal struct {
	Category Category
	Amount   Money
}

// SumByCategory aggregates expenses into Totals.
func SumByCategory(expenses []Expense) Totals {
	totals := Totals{}
	for _, e := range expenses {
		t := totals[e.Category]
		t.Cents += e.Amount.Cents
		totals[e.Category] = t
	}
	return totals
}

// Sorted returns the totals ordered by amount descending, then category name.
func (t Totals) Sorted() []CategoryTotal {
	out := make([]CategoryTotal, 0, len(t))
	for c, m := range t {
		out = append(out, CategoryTotal{Category: c, Amount: m})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Category < out[j].Category
	})
	return out
}
