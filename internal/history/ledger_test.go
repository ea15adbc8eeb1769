package history

import (
	"testing"
	"time"

	"stockpulse/internal/models"
)

func resultWith(tickers ...string) models.AnalysisResult {
	stocks := make([]models.StockAnalysis, 0, len(tickers))
	for _, t := range tickers {
		stocks = append(stocks, models.StockAnalysis{
			Ticker:         t,
			CompanyName:    t + " Inc",
			Recommendation: "Hold",
		})
	}
	return models.AnalysisResult{Stocks: stocks, Timestamp: time.Now()}
}

func TestAppendRoundTrip(t *testing.T) {
	ledger := NewLedger()
	result := resultWith("AAPL", "MSFT")

	item := ledger.Append(result)
	if item.ID == "" {
		t.Error("item has no id")
	}
	if item.EmailSent {
		t.Error("new item must start unnotified")
	}

	items := ledger.Items()
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	got := items[0]
	if got.ID != item.ID {
		t.Errorf("id = %q, want %q", got.ID, item.ID)
	}
	if len(got.Analysis.Stocks) != 2 ||
		got.Analysis.Stocks[0].Ticker != "AAPL" ||
		got.Analysis.Stocks[1].Ticker != "MSFT" {
		t.Errorf("stock sequence not preserved: %+v", got.Analysis.Stocks)
	}
}

func TestAppendPrependsMostRecentFirst(t *testing.T) {
	ledger := NewLedger()
	first := ledger.Append(resultWith("AAPL"))
	second := ledger.Append(resultWith("MSFT"))

	items := ledger.Items()
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("canonical order is most-recent-first, got %q then %q", items[0].ID, items[1].ID)
	}
}

func TestAppendIDsAreUniqueAndMonotonic(t *testing.T) {
	ledger := NewLedger()
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 100; i++ {
		item := ledger.Append(resultWith("AAPL"))
		if seen[item.ID] {
			t.Fatalf("duplicate id %q", item.ID)
		}
		seen[item.ID] = true
		if prev != "" && item.ID <= prev && len(item.ID) == len(prev) {
			t.Fatalf("id %q not greater than %q", item.ID, prev)
		}
		prev = item.ID
	}
}

func TestMarkNotified(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(resultWith("AAPL"))

	item := ledger.MarkNotified("AAPL", "you@example.com")
	if item == nil {
		t.Fatal("expected a match")
	}
	if !item.EmailSent || item.EmailRecipient != "you@example.com" {
		t.Errorf("item = %+v", item)
	}
}

func TestMarkNotifiedPicksMostRecentUnsent(t *testing.T) {
	ledger := NewLedger()
	older := ledger.Append(resultWith("AAPL"))
	newer := ledger.Append(resultWith("AAPL"))

	got := ledger.MarkNotified("AAPL", "a@example.com")
	if got == nil || got.ID != newer.ID {
		t.Fatalf("expected most recent unsent item %q, got %+v", newer.ID, got)
	}
	if older.EmailSent {
		t.Error("older item must stay unnotified")
	}

	// A second call resolves to the remaining unsent occurrence.
	got = ledger.MarkNotified("AAPL", "b@example.com")
	if got == nil || got.ID != older.ID {
		t.Fatalf("expected older item %q, got %+v", older.ID, got)
	}
}

func TestMarkNotifiedIdempotentBeyondFirstMatch(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(resultWith("AAPL"))

	first := ledger.MarkNotified("AAPL", "you@example.com")
	if first == nil {
		t.Fatal("expected a match")
	}
	second := ledger.MarkNotified("AAPL", "other@example.com")
	if second != nil {
		t.Fatalf("second call must be a no-op, got %+v", second)
	}
	if first.EmailRecipient != "you@example.com" {
		t.Errorf("recipient overwritten to %q", first.EmailRecipient)
	}
}

func TestMarkNotifiedExactTickerOnly(t *testing.T) {
	ledger := NewLedger()
	ledger.Append(resultWith("AAPLX"))

	if item := ledger.MarkNotified("AAPL", "you@example.com"); item != nil {
		t.Errorf("ticker match must be exact, got %+v", item)
	}
}

func TestMarkNotifiedMissIsSilent(t *testing.T) {
	ledger := NewLedger()
	if item := ledger.MarkNotified("TSLA", "you@example.com"); item != nil {
		t.Errorf("expected nil on miss, got %+v", item)
	}
}

func TestMarkNotifiedByID(t *testing.T) {
	ledger := NewLedger()
	older := ledger.Append(resultWith("AAPL"))
	ledger.Append(resultWith("AAPL"))

	got := ledger.MarkNotifiedByID(older.ID, "you@example.com")
	if got == nil || got.ID != older.ID {
		t.Fatalf("got %+v, want item %q", got, older.ID)
	}
	if ledger.MarkNotifiedByID(older.ID, "again@example.com") != nil {
		t.Error("already-notified item must not transition twice")
	}
	if ledger.MarkNotifiedByID("nope", "you@example.com") != nil {
		t.Error("unknown id must be a silent no-op")
	}
}

func TestNewLedgerFromItemsContinuesIDs(t *testing.T) {
	ledger := NewLedger()
	item := ledger.Append(resultWith("AAPL"))

	restored := NewLedgerFromItems(ledger.Items())
	if restored.Len() != 1 {
		t.Fatalf("got %d items, want 1", restored.Len())
	}
	next := restored.Append(resultWith("MSFT"))
	if next.ID == item.ID {
		t.Error("restored ledger reissued an existing id")
	}
}
