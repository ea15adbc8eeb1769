// Package normalize turns an unwrapped candidate payload into a canonical
// AnalysisResult. It only reshapes and fills defaults; score computation
// is entirely the external agent's responsibility.
package normalize

import (
	"strconv"
	"time"

	"stockpulse/internal/coerce"
	"stockpulse/internal/errors"
	"stockpulse/internal/models"
)

// Normalize builds an AnalysisResult from the envelope unwrapper's output.
// It fails with ErrUnparseableResponse when the candidate is nil, not a
// structured value, or lacks a stocks field. A stocks field that is not a
// sequence yields a valid result with an empty stock list.
func Normalize(candidate any) (*models.AnalysisResult, error) {
	payload, ok := candidate.(map[string]any)
	if !ok {
		return nil, errors.ErrUnparseableResponse
	}
	rawStocks, ok := payload["stocks"]
	if !ok {
		return nil, errors.ErrUnparseableResponse
	}

	result := &models.AnalysisResult{
		Stocks:          normalizeStocks(rawStocks),
		AnalysisSummary: stringField(payload, "analysis_summary", ""),
		MarketContext:   stringField(payload, "market_context", ""),
		// Stamped here, overriding anything the agent supplied.
		Timestamp: time.Now(),
	}
	return result, nil
}

func normalizeStocks(raw any) []models.StockAnalysis {
	seq, ok := raw.([]any)
	if !ok {
		return []models.StockAnalysis{}
	}
	stocks := make([]models.StockAnalysis, 0, len(seq))
	for _, el := range seq {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		stocks = append(stocks, normalizeStock(m))
	}
	return stocks
}

func normalizeStock(m map[string]any) models.StockAnalysis {
	ticker := stringField(m, "ticker", "")
	return models.StockAnalysis{
		Ticker:                ticker,
		CompanyName:           stringField(m, "company_name", ticker),
		CurrentPrice:          stringField(m, "current_price", "N/A"),
		TechnicalScore:        stringField(m, "technical_score", "0"),
		TechnicalSignal:       stringField(m, "technical_signal", "Neutral"),
		FundamentalScore:      stringField(m, "fundamental_score", "0"),
		FundamentalAssessment: stringField(m, "fundamental_assessment", "N/A"),
		OverallScore:          stringField(m, "overall_score", "0"),
		Recommendation:        stringField(m, "recommendation", "Hold"),
		Confidence:            stringField(m, "confidence", "0"),
		TechnicalHighlights:   coerce.SafeArray(m["technical_highlights"]),
		FundamentalHighlights: coerce.SafeArray(m["fundamental_highlights"]),
		RiskFactors:           coerce.SafeArray(m["risk_factors"]),
		ConflictingSignals:    stringField(m, "conflicting_signals", ""),
	}
}

// stringField reads m[key] as a display string. Agents emit numeric fields
// both as strings and as JSON numbers; numbers are formatted without a
// trailing exponent or superfluous zeros. Absent, empty, or unusable
// values yield def.
func stringField(m map[string]any, key, def string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		if s == "" {
			return def
		}
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return def
	}
}
