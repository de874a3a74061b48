// Package advisor derives savings tips from the category mix of logged expenses.
package advisor

import "spendlog/internal/core"

// Threshold is the number of expenses in a category above which a tip fires.
const Threshold = 3

const (
	CoffeeTip    = "☕ Consider cutting back on coffee shop visits."
	TransportTip = "🚗 Try using public transport instead of rideshares."
	ShoppingTip  = "🛍️ Set a monthly limit for shopping purchases."
	AllGoodTip   = "✅ You're doing great! No major spending issues detected."
)

type rule struct {
	category core.Category
	tip      string
}

var rules = []rule{
	{core.Coffee, CoffeeTip},
	{core.Transport, TransportTip},
	{core.Shopping, ShoppingTip},
}

// Suggest returns distinct tips for the given records. When no category
// exceeds Threshold it returns the single AllGoodTip. Callers must not depend
// on the order of the returned tips.
func Suggest(records []core.Expense) []string {
	counts := make(map[core.Category]int, len(rules))
	for _, r := range records {
		counts[r.Category]++
	}

	seen := make(map[string]struct{}, len(rules))
	var tips []string
	for _, rl := range rules {
		if counts[rl.category] <= Threshold {
			continue
		}
		if _, ok := seen[rl.tip]; ok {
			continue
		}
		seen[rl.tip] = struct{}{}
		tips = append(tips, rl.tip)
	}

	if len(tips) == 0 {
		return []string{AllGoodTip}
	}
	return tips
}
