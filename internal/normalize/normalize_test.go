package normalize

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"stockpulse/internal/envelope"
	"stockpulse/internal/errors"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad test fixture %q: %v", raw, err)
	}
	return v
}

func TestNormalizeRejectsNonPayloads(t *testing.T) {
	cases := map[string]any{
		"nil":            nil,
		"string":         "not a payload",
		"number":         12.0,
		"array":          []any{},
		"missing stocks": map[string]any{"analysis_summary": "ok"},
	}
	for name, candidate := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(candidate)
			if !errors.Is(err, errors.ErrUnparseableResponse) {
				t.Errorf("err = %v, want ErrUnparseableResponse", err)
			}
		})
	}
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	payload := decode(t, `{"stocks":[{"ticker":"AAPL"}],"analysis_summary":"ok"}`)
	result, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if result.AnalysisSummary != "ok" {
		t.Errorf("AnalysisSummary = %q, want ok", result.AnalysisSummary)
	}
	if result.MarketContext != "" {
		t.Errorf("MarketContext = %q, want empty", result.MarketContext)
	}
	if len(result.Stocks) != 1 {
		t.Fatalf("got %d stocks, want 1", len(result.Stocks))
	}

	s := result.Stocks[0]
	if s.Ticker != "AAPL" {
		t.Errorf("Ticker = %q", s.Ticker)
	}
	if s.CompanyName != "AAPL" {
		t.Errorf("CompanyName = %q, want fallback to ticker", s.CompanyName)
	}
	if s.CurrentPrice != "N/A" {
		t.Errorf("CurrentPrice = %q, want N/A", s.CurrentPrice)
	}
	if s.TechnicalScore != "0" || s.FundamentalScore != "0" || s.OverallScore != "0" || s.Confidence != "0" {
		t.Errorf("numeric-string defaults wrong: %q %q %q %q",
			s.TechnicalScore, s.FundamentalScore, s.OverallScore, s.Confidence)
	}
	if s.TechnicalSignal != "Neutral" {
		t.Errorf("TechnicalSignal = %q, want Neutral", s.TechnicalSignal)
	}
	if s.FundamentalAssessment != "N/A" {
		t.Errorf("FundamentalAssessment = %q, want N/A", s.FundamentalAssessment)
	}
	if s.Recommendation != "Hold" {
		t.Errorf("Recommendation = %q, want Hold", s.Recommendation)
	}
	if s.ConflictingSignals != "" {
		t.Errorf("ConflictingSignals = %q, want empty", s.ConflictingSignals)
	}
	if len(s.TechnicalHighlights) != 0 || len(s.FundamentalHighlights) != 0 || len(s.RiskFactors) != 0 {
		t.Error("highlight defaults should be empty")
	}
}

func TestNormalizeStampsTimestamp(t *testing.T) {
	payload := decode(t, `{"stocks":[],"timestamp":"1999-01-01T00:00:00Z"}`)
	before := time.Now()
	result, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if result.Timestamp.Before(before) {
		t.Errorf("Timestamp = %v, want stamped at normalization time, not taken from agent", result.Timestamp)
	}
}

func TestNormalizeNonSequenceStocks(t *testing.T) {
	payload := decode(t, `{"stocks":"none","analysis_summary":"quiet day"}`)
	result, err := Normalize(payload)
	if err != nil {
		t.Fatalf("a non-sequence stocks field must not fail the record: %v", err)
	}
	if len(result.Stocks) != 0 {
		t.Errorf("got %d stocks, want 0", len(result.Stocks))
	}
	if result.AnalysisSummary != "quiet day" {
		t.Errorf("AnalysisSummary = %q", result.AnalysisSummary)
	}
}

func TestNormalizeSkipsNonMapStockElements(t *testing.T) {
	payload := decode(t, `{"stocks":[{"ticker":"A"},"junk",7,null,{"ticker":"B"}]}`)
	result, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(result.Stocks) != 2 || result.Stocks[0].Ticker != "A" || result.Stocks[1].Ticker != "B" {
		t.Errorf("stocks = %+v, want A and B in order", result.Stocks)
	}
}

func TestNormalizeStringifiesNumericFields(t *testing.T) {
	payload := decode(t, `{"stocks":[{"ticker":"X","technical_score":85,"confidence":72.5,"overall_score":0}]}`)
	result, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	s := result.Stocks[0]
	if s.TechnicalScore != "85" {
		t.Errorf("TechnicalScore = %q, want 85", s.TechnicalScore)
	}
	if s.Confidence != "72.5" {
		t.Errorf("Confidence = %q, want 72.5", s.Confidence)
	}
	if s.OverallScore != "0" {
		t.Errorf("OverallScore = %q, want 0", s.OverallScore)
	}
}

func TestNormalizeDropsNonStringHighlights(t *testing.T) {
	payload := decode(t, `{"stocks":[{"ticker":"X","technical_highlights":["up",1,null,"down"],"risk_factors":"volatile"}]}`)
	result, err := Normalize(payload)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	s := result.Stocks[0]
	if !reflect.DeepEqual(s.TechnicalHighlights, []string{"up", "down"}) {
		t.Errorf("TechnicalHighlights = %v", s.TechnicalHighlights)
	}
	if len(s.RiskFactors) != 0 {
		t.Errorf("RiskFactors = %v, want empty for non-sequence", s.RiskFactors)
	}
}

func TestNormalizeEndToEndFromEnvelope(t *testing.T) {
	candidate := envelope.ParseBytes([]byte(`{"response":{"result":{"stocks":[{"ticker":"AAPL"}],"analysis_summary":"ok"}}}`))
	result, err := Normalize(candidate)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(result.Stocks) != 1 || result.Stocks[0].Ticker != "AAPL" {
		t.Fatalf("stocks = %+v", result.Stocks)
	}
	if result.Stocks[0].CompanyName != "AAPL" || result.Stocks[0].TechnicalScore != "0" || result.Stocks[0].Recommendation != "Hold" {
		t.Errorf("defaults not applied: %+v", result.Stocks[0])
	}
	if result.AnalysisSummary != "ok" {
		t.Errorf("AnalysisSummary = %q", result.AnalysisSummary)
	}

	// The raw_response JSON-string variant must also normalize cleanly.
	candidate = envelope.ParseBytes([]byte(`{"raw_response":"{\"result\":{\"stocks\":[]}}"}`))
	result, err = Normalize(candidate)
	if err != nil {
		t.Fatalf("raw_response variant: %v", err)
	}
	if len(result.Stocks) != 0 {
		t.Errorf("got %d stocks, want 0", len(result.Stocks))
	}
}
