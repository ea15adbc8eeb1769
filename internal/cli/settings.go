package cli

import (
	"github.com/spf13/cobra"

	"stockpulse/internal/config"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change saved settings",
	}
	cmd.AddCommand(newSettingsShowCmd(app))
	cmd.AddCommand(newSettingsSetCmd(app))
	cmd.AddCommand(newSettingsInitCmd(app))
	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			s := app.Config.Settings
			if output.IsJSON() {
				return output.JSON(s)
			}
			output.Bold("Email")
			output.Printf("  Recipient: %s\n", orUnset(s.RecipientEmail))
			output.Printf("  Format:    %s\n", s.EmailFormat)
			output.Bold("Default Criteria")
			output.Printf("  RSI threshold:       %g\n", s.DefaultCriteria.RSIThreshold)
			output.Printf("  MA crossover:        %s\n", s.DefaultCriteria.MACrossover)
			output.Printf("  Volume spike %%:      %g\n", s.DefaultCriteria.VolumeSpike)
			output.Printf("  Max P/E:             %g\n", s.DefaultCriteria.MaxPE)
			output.Printf("  Min revenue growth:  %g\n", s.DefaultCriteria.MinRevenueGrowth)
			output.Printf("  Max debt-to-equity:  %g\n", s.DefaultCriteria.MaxDebtToEquity)
			return nil
		},
	}
}

func newSettingsSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings and save them",
		Example: `  stockpulse settings set --recipient you@example.com
  stockpulse settings set --format summary --rsi 25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			s := &app.Config.Settings

			if cmd.Flags().Changed("recipient") {
				s.RecipientEmail, _ = cmd.Flags().GetString("recipient")
			}
			if cmd.Flags().Changed("format") {
				s.EmailFormat, _ = cmd.Flags().GetString("format")
			}
			if cmd.Flags().Changed("rsi") {
				s.DefaultCriteria.RSIThreshold, _ = cmd.Flags().GetFloat64("rsi")
			}
			if cmd.Flags().Changed("ma-crossover") {
				s.DefaultCriteria.MACrossover, _ = cmd.Flags().GetString("ma-crossover")
			}
			if cmd.Flags().Changed("volume-spike") {
				s.DefaultCriteria.VolumeSpike, _ = cmd.Flags().GetFloat64("volume-spike")
			}
			if cmd.Flags().Changed("max-pe") {
				s.DefaultCriteria.MaxPE, _ = cmd.Flags().GetFloat64("max-pe")
			}
			if cmd.Flags().Changed("min-revenue-growth") {
				s.DefaultCriteria.MinRevenueGrowth, _ = cmd.Flags().GetFloat64("min-revenue-growth")
			}
			if cmd.Flags().Changed("max-debt-to-equity") {
				s.DefaultCriteria.MaxDebtToEquity, _ = cmd.Flags().GetFloat64("max-debt-to-equity")
			}

			if err := config.SaveSettings(app.ConfigDir, *s); err != nil {
				output.Error("Failed to save settings: %v", err)
				return err
			}
			output.Success("Settings saved successfully")
			return nil
		},
	}

	cmd.Flags().String("recipient", "", "Recipient email address")
	cmd.Flags().String("format", "", "Email format: detailed or summary")
	cmd.Flags().Float64("rsi", 0, "RSI oversold threshold")
	cmd.Flags().String("ma-crossover", "", "MA crossover type (Any, Golden Cross, Death Cross)")
	cmd.Flags().Float64("volume-spike", 0, "Volume spike percentage")
	cmd.Flags().Float64("max-pe", 0, "Maximum P/E ratio")
	cmd.Flags().Float64("min-revenue-growth", 0, "Minimum revenue growth percentage")
	cmd.Flags().Float64("max-debt-to-equity", 0, "Maximum debt-to-equity ratio")

	return cmd
}

func newSettingsInitCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create template config files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := config.Init(app.ConfigDir); err != nil {
				output.Error("Failed to create config templates: %v", err)
				return err
			}
			output.Success("Config templates written to %s", app.ConfigDir)
			return nil
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
