package services

import (
	"context"
	"log/slog"
	"strings"
)

// Intent is what a free-form request asks for.
type Intent string

const (
	IntentLog     Intent = "log"
	IntentSummary Intent = "summary"
	IntentTotals  Intent = "totals"
	IntentTips    Intent = "tips"
)

var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentTotals, []string{"total", "by category", "breakdown"}},
	{IntentSummary, []string{"summary", "show", "list", "history"}},
	{IntentTips, []string{"tip", "suggest", "saving", "advice"}},
}

// Route picks an intent with fixed rules. Read keywords win over amounts, so
// "show my summary for 2024" is a summary; only text matching no read keyword
// is logged. A misrouted read is harmless, a misrouted append is permanent.
func Route(text string) Intent {
	lower := strings.ToLower(text)
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.intent
			}
		}
	}
	return IntentLog
}

// Respond routes text and always returns a human-readable reply. Failures are
// reported in the reply, never returned, so a tool call cannot abort its caller.
func (s *ExpenseService) Respond(ctx context.Context, text string) (Intent, string) {
	intent := Route(text)
	slog.DebugContext(ctx, "Routed request", "intent", intent)

	switch intent {
	case IntentSummary:
		out, err := s.Summary(ctx)
		if err != nil {
			return intent, UserMessage(err)
		}
		return intent, out
	case IntentTotals:
		totals, err := s.Totals(ctx)
		if err != nil {
			return intent, UserMessage(err)
		}
		return intent, FormatTotals(totals)
	case IntentTips:
		tips, err := s.Tips(ctx)
		if err != nil {
			return intent, UserMessage(err)
		}
		return intent, strings.Join(tips, "\n")
	default:
		e, err := s.LogExpense(ctx, text)
		if err != nil {
			return intent, UserMessage(err)
		}
		return intent, FormatConfirmation(e)
	}
}
