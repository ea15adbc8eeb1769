package agent

import (
	"fmt"
	"strings"

	"stockpulse/internal/models"
)

// BuildAnalysisInstruction renders the watch-list and screening criteria
// into the natural-language instruction the analysis coordinator expects.
func BuildAnalysisInstruction(tickers []string, c models.Criteria) string {
	return fmt.Sprintf(`Analyze the following stocks: %s.
Technical criteria: RSI below %g, look for %s crossover patterns, volume spike above %g%%.
Fundamental criteria: P/E under %g, revenue growth above %g%%, debt-to-equity below %g.
Provide a comprehensive analysis with buy/hold/sell recommendations for each stock.`,
		strings.Join(tickers, ", "),
		c.RSIThreshold, c.MACrossover, c.VolumeSpike,
		c.MaxPE, c.MinRevenueGrowth, c.MaxDebtToEquity)
}

// BuildAlertInstruction renders one stock analysis into the alert
// instruction for the notification agent. format is "detailed" or
// "summary"; anything else falls back to detailed.
func BuildAlertInstruction(stock models.StockAnalysis, email, format string) string {
	if format == "summary" {
		return fmt.Sprintf(`Send the following stock analysis alert to %s:

Stock: %s (%s)
Current Price: %s
Recommendation: %s
Confidence: %s
Overall Score: %s/100

Please format this as a brief professional investment alert email and send it to %s.`,
			email,
			stock.Ticker, stock.CompanyName,
			stock.CurrentPrice,
			stock.Recommendation,
			stock.Confidence,
			stock.OverallScore,
			email)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Send the following stock analysis alert to %s:\n\n", email)
	fmt.Fprintf(&b, "Stock: %s (%s)\n", stock.Ticker, stock.CompanyName)
	fmt.Fprintf(&b, "Current Price: %s\n", stock.CurrentPrice)
	fmt.Fprintf(&b, "Recommendation: %s\n", stock.Recommendation)
	fmt.Fprintf(&b, "Confidence: %s\n", stock.Confidence)
	fmt.Fprintf(&b, "Technical Score: %s/100 - Signal: %s\n", stock.TechnicalScore, stock.TechnicalSignal)
	fmt.Fprintf(&b, "Fundamental Score: %s/100 - Assessment: %s\n", stock.FundamentalScore, stock.FundamentalAssessment)
	fmt.Fprintf(&b, "Overall Score: %s/100\n", stock.OverallScore)

	b.WriteString("\nTechnical Highlights:\n")
	writeBullets(&b, stock.TechnicalHighlights)
	b.WriteString("\nFundamental Highlights:\n")
	writeBullets(&b, stock.FundamentalHighlights)
	b.WriteString("\nRisk Factors:\n")
	writeBullets(&b, stock.RiskFactors)

	if stock.ConflictingSignals != "" {
		fmt.Fprintf(&b, "\nConflicting Signals: %s\n", stock.ConflictingSignals)
	}
	fmt.Fprintf(&b, "\nPlease format this as a professional investment alert email and send it to %s.", email)
	return b.String()
}

func writeBullets(b *strings.Builder, lines []string) {
	for _, line := range lines {
		fmt.Fprintf(b, "- %s\n", line)
	}
}
