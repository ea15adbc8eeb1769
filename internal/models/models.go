// Package models defines the core data types for stock analysis records.
package models

import "time"

// StockAnalysis holds the agent's analysis of a single stock.
// Score and confidence fields are numeric strings on a 0-100 scale; they
// are display values and are never parsed back except through coercion.
// Immutable once constructed by the normalizer.
type StockAnalysis struct {
	Ticker                string   `json:"ticker"`
	CompanyName           string   `json:"company_name"`
	CurrentPrice          string   `json:"current_price"`
	TechnicalScore        string   `json:"technical_score"`
	TechnicalSignal       string   `json:"technical_signal"`
	FundamentalScore      string   `json:"fundamental_score"`
	FundamentalAssessment string   `json:"fundamental_assessment"`
	OverallScore          string   `json:"overall_score"`
	Recommendation        string   `json:"recommendation"`
	Confidence            string   `json:"confidence"`
	TechnicalHighlights   []string `json:"technical_highlights"`
	FundamentalHighlights []string `json:"fundamental_highlights"`
	RiskFactors           []string `json:"risk_factors"`
	ConflictingSignals    string   `json:"conflicting_signals"`
}

// AnalysisResult is one normalized agent response. Stock order follows the
// agent's emission order. Timestamp is assigned by the normalizer, never
// taken from the agent.
type AnalysisResult struct {
	Stocks          []StockAnalysis `json:"stocks"`
	AnalysisSummary string          `json:"analysis_summary"`
	MarketContext   string          `json:"market_context"`
	Timestamp       time.Time       `json:"timestamp"`
}

// HasTicker reports whether the result contains a stock with the exact ticker.
func (r *AnalysisResult) HasTicker(ticker string) bool {
	for _, s := range r.Stocks {
		if s.Ticker == ticker {
			return true
		}
	}
	return false
}

// AlertHistoryItem is one entry in the alert history ledger. Date is set at
// construction and never changed; EmailSent/EmailRecipient are the only
// fields updated after creation.
type AlertHistoryItem struct {
	ID             string         `json:"id"`
	Date           time.Time      `json:"date"`
	Analysis       AnalysisResult `json:"analysis"`
	EmailSent      bool           `json:"emailSent"`
	EmailRecipient string         `json:"emailRecipient,omitempty"`
}

// Criteria holds the screening thresholds sent to the analysis agent.
type Criteria struct {
	RSIThreshold     float64 `json:"rsi_threshold"`
	MACrossover      string  `json:"ma_crossover"`
	VolumeSpike      float64 `json:"volume_spike"`
	MaxPE            float64 `json:"max_pe"`
	MinRevenueGrowth float64 `json:"min_revenue_growth"`
	MaxDebtToEquity  float64 `json:"max_debt_to_equity"`
}
