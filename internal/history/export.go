package history

import (
	"io"

	"github.com/gocarina/gocsv"

	"stockpulse/internal/models"
)

// ExportRow is one flattened (history item, stock) pair. This flattening,
// not the ledger itself, is the unit exported to CSV.
type ExportRow struct {
	Date           string `csv:"Date"`
	Ticker         string `csv:"Ticker"`
	Company        string `csv:"Company"`
	Recommendation string `csv:"Recommendation"`
	Confidence     string `csv:"Confidence"`
	OverallScore   string `csv:"Overall Score"`
	EmailSent      string `csv:"Email Sent"`
}

// exportDateFormat renders the item's local calendar date.
const exportDateFormat = "2006-01-02"

// ExportRows flattens items into one row per contained stock. Row order is
// ledger order outer, stock-sequence order inner.
func ExportRows(items []*models.AlertHistoryItem) []*ExportRow {
	rows := make([]*ExportRow, 0, len(items))
	for _, item := range items {
		sent := "No"
		if item.EmailSent {
			sent = "Yes"
		}
		for _, s := range item.Analysis.Stocks {
			rows = append(rows, &ExportRow{
				Date:           item.Date.Local().Format(exportDateFormat),
				Ticker:         s.Ticker,
				Company:        s.CompanyName,
				Recommendation: s.Recommendation,
				Confidence:     s.Confidence,
				OverallScore:   s.OverallScore,
				EmailSent:      sent,
			})
		}
	}
	return rows
}

// WriteCSV writes the flattened rows for items to w with a header row.
// Fields containing the delimiter, quotes, or newlines are quote-escaped.
func WriteCSV(w io.Writer, items []*models.AlertHistoryItem) error {
	return gocsv.Marshal(ExportRows(items), w)
}
