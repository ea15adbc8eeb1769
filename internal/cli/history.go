package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"stockpulse/internal/history"
)

const filterDateLayout = "2006-01-02"

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query and export the alert history",
	}
	cmd.AddCommand(newHistoryListCmd(app))
	cmd.AddCommand(newHistoryExportCmd(app))
	return cmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("ticker", "", "Filter by ticker (case-insensitive substring)")
	cmd.Flags().String("recommendation", history.RecommendationAll, "Filter by recommendation (Buy, Hold, Sell, All)")
	cmd.Flags().String("from", "", "Include items dated on or after this day (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Include items dated on or before this day (YYYY-MM-DD)")
}

func filterFromFlags(cmd *cobra.Command) (history.Filter, error) {
	f := history.Filter{}
	f.Ticker, _ = cmd.Flags().GetString("ticker")
	f.Recommendation, _ = cmd.Flags().GetString("recommendation")

	if from, _ := cmd.Flags().GetString("from"); from != "" {
		t, err := time.ParseInLocation(filterDateLayout, from, time.Local)
		if err != nil {
			return f, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		f.From = t
	}
	if to, _ := cmd.Flags().GetString("to"); to != "" {
		t, err := time.ParseInLocation(filterDateLayout, to, time.Local)
		if err != nil {
			return f, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		f.To = t
	}
	return f, nil
}

func newHistoryListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past analysis records",
		Example: `  stockpulse history list
  stockpulse history list --ticker aapl
  stockpulse history list --recommendation Buy --from 2026-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			filter, err := filterFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			items := app.Ledger.Filtered(filter)
			if output.IsJSON() {
				return output.JSON(items)
			}
			if len(items) == 0 {
				output.Dim("No history yet. Run 'stockpulse analyze' to create your first record.")
				return nil
			}

			output.Printf("%-12s %-8s %-28s %-6s %-7s %-6s\n",
				"DATE", "TICKER", "COMPANY", "RATING", "SCORE", "EMAIL")
			for _, item := range items {
				sent := "No"
				if item.EmailSent {
					sent = "Yes"
				}
				for _, s := range item.Analysis.Stocks {
					output.Printf("%-12s %-8s %-28s %-6s %-7s %-6s\n",
						item.Date.Local().Format(filterDateLayout),
						s.Ticker,
						truncate(s.CompanyName, 28),
						output.RecommendationBadge(s.Recommendation),
						s.OverallScore,
						sent)
				}
			}
			return nil
		},
	}
	addFilterFlags(cmd)
	return cmd
}

func newHistoryExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the alert history as CSV",
		Long: `Flatten the alert history into one row per (record, stock) pair and
write it as CSV. Fields containing the delimiter are quote-escaped.`,
		Example: `  stockpulse history export
  stockpulse history export --out history.csv --ticker AAPL`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			filter, err := filterFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			items := app.Ledger.Filtered(filter)

			outPath, _ := cmd.Flags().GetString("out")
			if outPath == "" {
				return history.WriteCSV(cmd.OutOrStdout(), items)
			}

			f, err := os.Create(outPath)
			if err != nil {
				output.Error("Failed to create %s: %v", outPath, err)
				return err
			}
			defer f.Close()
			if err := history.WriteCSV(f, items); err != nil {
				output.Error("Export failed: %v", err)
				return err
			}
			output.Success("Exported %d record(s) to %s", len(items), outPath)
			return nil
		},
	}
	addFilterFlags(cmd)
	cmd.Flags().String("out", "", "Output file (default stdout)")
	return cmd
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
