package cli

import (
	"context"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"stockpulse/internal/errors"
	"stockpulse/internal/models"
)

func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify <ticker>",
		Short: "Send an email alert for a stock from the latest matching analysis",
		Long: `Send the most recent unnotified analysis of a ticker to a recipient via
the notification agent. On success the owning history record is marked as
notified; a failed notification leaves the history untouched.`,
		Example: `  stockpulse notify AAPL --to you@example.com
  stockpulse notify MSFT --format summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			ticker := strings.ToUpper(strings.TrimSpace(args[0]))
			recipient, _ := cmd.Flags().GetString("to")
			if recipient == "" {
				recipient = app.Config.Settings.RecipientEmail
			}
			if strings.TrimSpace(recipient) == "" {
				output.Error("No recipient. Pass --to or set one with 'stockpulse settings set --recipient'.")
				return errors.ErrRecipientRequired
			}
			format, _ := cmd.Flags().GetString("format")
			if format == "" {
				format = app.Config.Settings.EmailFormat
			}

			stock, ok := latestStock(app, ticker)
			if !ok {
				output.Error("No analysis of %s found in history.", ticker)
				return errors.ErrHistoryItemNotFound
			}

			output.Info("Sending alert for %s to %s...", ticker, recipient)
			item, err := app.Service.SendAlert(ctx, stock, recipient, format)
			if err != nil {
				var notifyErr *errors.NotificationError
				var agentErr *errors.AgentError
				switch {
				case errors.As(err, &notifyErr):
					reason := notifyErr.Reason
					if reason == "" {
						reason = "Failed to send email"
					}
					output.Error("%s: %s", ticker, reason)
				case errors.As(err, &agentErr):
					output.Error("%s", agentErr.UserMessage())
				default:
					output.Error("%v", err)
				}
				return err
			}

			if item == nil {
				// Alert went out but every matching record was already notified.
				output.Success("Alert sent to %s", recipient)
				return nil
			}
			if output.IsJSON() {
				return output.JSON(item)
			}
			output.Success("Alert sent to %s", recipient)
			return nil
		},
	}

	cmd.Flags().String("to", "", "Recipient email address (defaults to settings)")
	cmd.Flags().String("format", "", "Alert format: detailed or summary (defaults to settings)")
	return cmd
}

// latestStock finds the most recent analysis of ticker in the ledger, in
// canonical most-recent-first order.
func latestStock(app *App, ticker string) (models.StockAnalysis, bool) {
	for _, item := range app.Ledger.Items() {
		for _, s := range item.Analysis.Stocks {
			if s.Ticker == ticker {
				return s, true
			}
		}
	}
	return models.StockAnalysis{}, false
}
