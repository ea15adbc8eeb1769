package history

import (
	"strings"
	"time"

	"stockpulse/internal/models"
)

// RecommendationAll disables the recommendation predicate.
const RecommendationAll = "All"

// Filter selects history items. Zero-valued fields always pass; the four
// predicates are independent and combined with logical AND.
type Filter struct {
	// Ticker matches when any contained stock's ticker contains the text,
	// case-insensitively.
	Ticker string
	// Recommendation matches when any contained stock's recommendation
	// contains the text, case-insensitively. Empty or "All" passes.
	Recommendation string
	// From passes items dated on or after the start of its calendar day.
	From time.Time
	// To passes items dated on or before the end of its calendar day.
	To time.Time
}

// Matches reports whether item satisfies every predicate of f.
func (f Filter) Matches(item *models.AlertHistoryItem) bool {
	if f.Ticker != "" && !anyStock(item, func(s models.StockAnalysis) bool {
		return containsFold(s.Ticker, f.Ticker)
	}) {
		return false
	}
	if f.Recommendation != "" && f.Recommendation != RecommendationAll &&
		!anyStock(item, func(s models.StockAnalysis) bool {
			return containsFold(s.Recommendation, f.Recommendation)
		}) {
		return false
	}
	if !f.From.IsZero() && item.Date.Before(startOfDay(f.From)) {
		return false
	}
	if !f.To.IsZero() && item.Date.After(endOfDay(f.To)) {
		return false
	}
	return true
}

// Filtered returns the items matching f, preserving canonical order.
func (l *Ledger) Filtered(f Filter) []*models.AlertHistoryItem {
	items := l.Items()
	out := make([]*models.AlertHistoryItem, 0, len(items))
	for _, item := range items {
		if f.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

func anyStock(item *models.AlertHistoryItem, pred func(models.StockAnalysis) bool) bool {
	for _, s := range item.Analysis.Stocks {
		if pred(s) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
