package main

import (
	"fmt"
	"os"

	"stockpulse/internal/cli"
	"stockpulse/internal/config"
	"stockpulse/internal/logging"
)

func main() {
	configDir := os.Getenv("STOCKPULSE_CONFIG_DIR")

	cfg, err := config.Load(configDir)
	logger := logging.NewLogger()
	if err != nil {
		// Load degrades to defaults; the error is advisory only.
		logger.Warn().Err(err).Msg("Config load degraded to defaults")
	}

	rootCmd := cli.NewRootCmd(cfg, configDir, logger)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
