package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# StockPulse Configuration

[settings]
# Email address alerts are sent to by default
recipient_email = ""
# Alert email format: "detailed" or "summary"
email_format = "detailed"

[settings.default_criteria]
# RSI oversold threshold
rsi_threshold = 30.0
# Moving-average crossover type: Any, Golden Cross, Death Cross
ma_crossover = "Any"
# Volume spike percentage
volume_spike = 50.0
# Maximum P/E ratio
max_pe = 25.0
# Minimum revenue growth percentage
min_revenue_growth = 10.0
# Maximum debt-to-equity ratio
max_debt_to_equity = 1.5
`

const credentialsTemplate = `# StockPulse Credentials
# Keep this file private (chmod 600).

[openai]
api_key = ""
model = "gpt-4o"

[agents]
# Identifiers of the remote analysis and notification agents
analysis_coordinator = "analysis-coordinator"
email_alert = "email-alert"
`

// Init creates the config directory and template files for any that do
// not exist yet. Existing files are left untouched.
func Init(configDir string) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	templates := map[string]struct {
		content string
		mode    os.FileMode
	}{
		"config.toml":      {configTemplate, 0644},
		"credentials.toml": {credentialsTemplate, 0600},
	}
	for name, tmpl := range templates {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(tmpl.content), tmpl.mode); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}
