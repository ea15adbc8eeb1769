package history

import (
	"testing"
	"time"

	"stockpulse/internal/models"
)

func seededLedger() *Ledger {
	ledger := NewLedger()
	aapl := models.AnalysisResult{Stocks: []models.StockAnalysis{{
		Ticker: "AAPL", CompanyName: "Apple Inc", Recommendation: "Buy",
	}}}
	msft := models.AnalysisResult{Stocks: []models.StockAnalysis{{
		Ticker: "MSFT", CompanyName: "Microsoft", Recommendation: "Hold",
	}}}
	ledger.Append(aapl)
	ledger.Append(msft)
	return ledger
}

func TestFilterByTickerSubstring(t *testing.T) {
	ledger := seededLedger()

	got := ledger.Filtered(Filter{Ticker: "aapl"})
	if len(got) != 1 {
		t.Fatalf("got %d items, want 1", len(got))
	}
	if got[0].Analysis.Stocks[0].Ticker != "AAPL" {
		t.Errorf("matched %q, want AAPL", got[0].Analysis.Stocks[0].Ticker)
	}

	// Partial text matches too.
	if got := ledger.Filtered(Filter{Ticker: "ms"}); len(got) != 1 {
		t.Errorf("substring match got %d items, want 1", len(got))
	}
}

func TestFilterByRecommendation(t *testing.T) {
	ledger := seededLedger()

	if got := ledger.Filtered(Filter{Recommendation: "Sell"}); len(got) != 0 {
		t.Errorf("Sell filter got %d items, want 0", len(got))
	}
	if got := ledger.Filtered(Filter{Recommendation: "buy"}); len(got) != 1 {
		t.Errorf("buy filter got %d items, want 1", len(got))
	}
	if got := ledger.Filtered(Filter{Recommendation: RecommendationAll}); len(got) != 2 {
		t.Errorf("All filter got %d items, want 2", len(got))
	}
}

func TestFilterByDateRange(t *testing.T) {
	ledger := seededLedger()
	today := time.Now()

	// A range excluding every item date matches nothing.
	past := Filter{From: today.AddDate(0, 0, -10), To: today.AddDate(0, 0, -5)}
	if got := ledger.Filtered(past); len(got) != 0 {
		t.Errorf("excluding range got %d items, want 0", len(got))
	}

	// A range around today matches everything.
	around := Filter{From: today.AddDate(0, 0, -1), To: today.AddDate(0, 0, 1)}
	if got := ledger.Filtered(around); len(got) != 2 {
		t.Errorf("covering range got %d items, want 2", len(got))
	}

	// Day granularity: From on the item's own day still passes, even when
	// the filter time-of-day is later than the item's.
	sameDay := Filter{From: time.Date(today.Year(), today.Month(), today.Day(), 23, 0, 0, 0, today.Location())}
	if got := ledger.Filtered(sameDay); len(got) != 2 {
		t.Errorf("same-day From got %d items, want 2", len(got))
	}
}

func TestFilterPredicatesCombineWithAND(t *testing.T) {
	ledger := seededLedger()

	got := ledger.Filtered(Filter{Ticker: "AAPL", Recommendation: "Hold"})
	if len(got) != 0 {
		t.Errorf("AAPL+Hold got %d items, want 0", len(got))
	}
	got = ledger.Filtered(Filter{Ticker: "AAPL", Recommendation: "Buy"})
	if len(got) != 1 {
		t.Errorf("AAPL+Buy got %d items, want 1", len(got))
	}
}

func TestFilterZeroValuePassesEverything(t *testing.T) {
	ledger := seededLedger()
	if got := ledger.Filtered(Filter{}); len(got) != 2 {
		t.Errorf("empty filter got %d items, want 2", len(got))
	}
}

func TestFilterPreservesCanonicalOrder(t *testing.T) {
	ledger := seededLedger()
	got := ledger.Filtered(Filter{})
	if got[0].Analysis.Stocks[0].Ticker != "MSFT" || got[1].Analysis.Stocks[0].Ticker != "AAPL" {
		t.Error("filtered output must keep most-recent-first order")
	}
}
