package cli

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockpulse/internal/agent"
	"stockpulse/internal/config"
	"stockpulse/internal/history"
	"stockpulse/internal/logging"
	"stockpulse/internal/store"
)

// Version information
const Version = "0.1.0"

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	ConfigDir string
	Logger    zerolog.Logger
	Ledger    *history.Ledger
	Store     store.HistoryStore
	Service   *agent.Service
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, configDir string, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		Logger:    logger,
	}
	if app.ConfigDir == "" {
		app.ConfigDir = config.DefaultConfigDir()
	}

	// Seed the ledger from the store; load failures degrade to an empty
	// ledger, never a startup crash.
	historyStore, err := store.NewSQLiteStore(filepath.Join(app.ConfigDir, "stockpulse.db"))
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to open history store, history will not persist")
		app.Ledger = history.NewLedger()
	} else {
		app.Store = historyStore
		items, err := historyStore.LoadItems(context.Background())
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to load history, starting empty")
			items = nil
		}
		app.Ledger = history.NewLedgerFromItems(items)
		logger.Debug().Int("items", app.Ledger.Len()).Msg("History store initialized")
	}

	var transport agent.Transport
	if cfg.Credentials.OpenAI.APIKey != "" {
		transport = agent.NewOpenAIClient(
			cfg.Credentials.OpenAI.APIKey,
			cfg.Credentials.OpenAI.Model,
			cfg.Credentials.Agents.AnalysisCoordinator,
			cfg.Credentials.Agents.EmailAlert,
			logger,
		)
		logger.Debug().Str("model", cfg.Credentials.OpenAI.Model).Msg("Agent transport initialized")
	}
	app.Service = agent.NewService(transport, app.Ledger, app.Store, logger)

	rootCmd := &cobra.Command{
		Use:   "stockpulse",
		Short: "StockPulse - AI market analysis and alert history",
		Long: `StockPulse submits a watch-list to a remote analysis agent, normalizes
the response into canonical records, and keeps an append-only alert history.

Use 'stockpulse analyze' to run an analysis, 'stockpulse history' to query
and export past results, and 'stockpulse notify' to send an email alert.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logging.SetDebugLevel()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newNotifyCmd(app))
	rootCmd.AddCommand(newSettingsCmd(app))

	return rootCmd
}
