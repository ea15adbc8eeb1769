package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stockpulse/internal/errors"
	"stockpulse/internal/models"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <ticker>...",
		Short: "Run an agent analysis over a watch-list",
		Long: `Submit a watch-list and screening criteria to the analysis agent,
normalize the response, and append the result to the alert history.

Criteria default to the values saved in settings; flags override per run.`,
		Example: `  stockpulse analyze AAPL
  stockpulse analyze AAPL MSFT --rsi 25 --max-pe 20
  stockpulse analyze NVDA --ma-crossover "Golden Cross"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
			defer cancel()

			tickers := buildWatchlist(args)
			if len(tickers) == 0 {
				output.Error("Please add at least one stock ticker to analyze.")
				return errors.ErrEmptyWatchlist
			}

			criteria := criteriaFromFlags(cmd, app.Config.Settings.Criteria())

			output.Info("Analyzing %s...", strings.Join(tickers, ", "))
			item, err := app.Service.RunAnalysis(ctx, tickers, criteria)
			if err != nil {
				var agentErr *errors.AgentError
				if errors.As(err, &agentErr) {
					output.Error("%s", agentErr.UserMessage())
				} else if errors.Is(err, errors.ErrUnparseableResponse) {
					output.Error("Unable to parse analysis results. The agent returned an unexpected format. Please try again.")
				} else {
					output.Error("%v", err)
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(item)
			}
			renderResult(output, &item.Analysis)
			return nil
		},
	}

	cmd.Flags().Float64("rsi", 0, "RSI oversold threshold")
	cmd.Flags().String("ma-crossover", "", "MA crossover type (Any, Golden Cross, Death Cross)")
	cmd.Flags().Float64("volume-spike", 0, "Volume spike percentage")
	cmd.Flags().Float64("max-pe", 0, "Maximum P/E ratio")
	cmd.Flags().Float64("min-revenue-growth", 0, "Minimum revenue growth percentage")
	cmd.Flags().Float64("max-debt-to-equity", 0, "Maximum debt-to-equity ratio")

	return cmd
}

// buildWatchlist uppercases, trims, and dedupes the ticker arguments,
// preserving first-seen order.
func buildWatchlist(args []string) []string {
	seen := make(map[string]bool, len(args))
	tickers := make([]string, 0, len(args))
	for _, arg := range args {
		t := strings.ToUpper(strings.TrimSpace(arg))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	return tickers
}

func criteriaFromFlags(cmd *cobra.Command, defaults models.Criteria) models.Criteria {
	c := defaults
	if cmd.Flags().Changed("rsi") {
		c.RSIThreshold, _ = cmd.Flags().GetFloat64("rsi")
	}
	if cmd.Flags().Changed("ma-crossover") {
		c.MACrossover, _ = cmd.Flags().GetString("ma-crossover")
	}
	if cmd.Flags().Changed("volume-spike") {
		c.VolumeSpike, _ = cmd.Flags().GetFloat64("volume-spike")
	}
	if cmd.Flags().Changed("max-pe") {
		c.MaxPE, _ = cmd.Flags().GetFloat64("max-pe")
	}
	if cmd.Flags().Changed("min-revenue-growth") {
		c.MinRevenueGrowth, _ = cmd.Flags().GetFloat64("min-revenue-growth")
	}
	if cmd.Flags().Changed("max-debt-to-equity") {
		c.MaxDebtToEquity, _ = cmd.Flags().GetFloat64("max-debt-to-equity")
	}
	return c
}

func renderResult(output *Output, result *models.AnalysisResult) {
	if result.AnalysisSummary != "" {
		output.Bold("Analysis Summary")
		output.Println(result.AnalysisSummary)
		if result.MarketContext != "" {
			output.Dim("%s", result.MarketContext)
		}
		output.Println()
	}

	if len(result.Stocks) == 0 {
		output.Warning("No stocks in this analysis.")
		return
	}

	for _, stock := range result.Stocks {
		output.Bold("%s  %s", stock.Ticker, output.RecommendationBadge(stock.Recommendation))
		output.Dim("%s", stock.CompanyName)
		output.Printf("  Price: %s  Confidence: %s%%\n", stock.CurrentPrice, stock.Confidence)
		output.Printf("  Technical: %s/100 (%s)  Fundamental: %s/100 (%s)  Overall: %s/100\n",
			stock.TechnicalScore, stock.TechnicalSignal,
			stock.FundamentalScore, stock.FundamentalAssessment,
			stock.OverallScore)

		printSection(output, "Technical Highlights", stock.TechnicalHighlights)
		printSection(output, "Fundamental Highlights", stock.FundamentalHighlights)
		printSection(output, "Risk Factors", stock.RiskFactors)

		if stock.ConflictingSignals != "" && !strings.EqualFold(stock.ConflictingSignals, "none") {
			output.Warning("  Conflicting signals: %s", stock.ConflictingSignals)
		}
		output.Println()
	}
}

func printSection(output *Output, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	output.Printf("  %s:\n", title)
	for _, line := range lines {
		output.Printf("    - %s\n", line)
	}
}
