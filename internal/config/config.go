// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"stockpulse/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Settings    Settings    `mapstructure:"settings"`
	Credentials Credentials `mapstructure:"-"` // Loaded separately
}

// Settings holds the user-facing settings record: recipient email, report
// format, and the default screening criteria thresholds.
type Settings struct {
	RecipientEmail  string          `mapstructure:"recipient_email"`
	EmailFormat     string          `mapstructure:"email_format"` // "detailed", "summary"
	DefaultCriteria DefaultCriteria `mapstructure:"default_criteria"`
}

// DefaultCriteria holds the default analysis criteria thresholds.
type DefaultCriteria struct {
	RSIThreshold     float64 `mapstructure:"rsi_threshold"`
	MACrossover      string  `mapstructure:"ma_crossover"` // Any, Golden Cross, Death Cross
	VolumeSpike      float64 `mapstructure:"volume_spike"`
	MaxPE            float64 `mapstructure:"max_pe"`
	MinRevenueGrowth float64 `mapstructure:"min_revenue_growth"`
	MaxDebtToEquity  float64 `mapstructure:"max_debt_to_equity"`
}

// Credentials holds API credentials and agent identifiers.
type Credentials struct {
	OpenAI OpenAICredentials `mapstructure:"openai"`
	Agents AgentIDs          `mapstructure:"agents"`
}

// OpenAICredentials holds OpenAI API credentials.
type OpenAICredentials struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AgentIDs holds the identifiers of the two remote agents.
type AgentIDs struct {
	AnalysisCoordinator string `mapstructure:"analysis_coordinator"`
	EmailAlert          string `mapstructure:"email_alert"`
}

// DefaultSettings returns the settings used before any are saved.
func DefaultSettings() Settings {
	return Settings{
		RecipientEmail: "",
		EmailFormat:    "detailed",
		DefaultCriteria: DefaultCriteria{
			RSIThreshold:     30,
			MACrossover:      "Any",
			VolumeSpike:      50,
			MaxPE:            25,
			MinRevenueGrowth: 10,
			MaxDebtToEquity:  1.5,
		},
	}
}

// Criteria converts the default thresholds into a models.Criteria.
func (s Settings) Criteria() models.Criteria {
	return models.Criteria{
		RSIThreshold:     s.DefaultCriteria.RSIThreshold,
		MACrossover:      s.DefaultCriteria.MACrossover,
		VolumeSpike:      s.DefaultCriteria.VolumeSpike,
		MaxPE:            s.DefaultCriteria.MaxPE,
		MinRevenueGrowth: s.DefaultCriteria.MinRevenueGrowth,
		MaxDebtToEquity:  s.DefaultCriteria.MaxDebtToEquity,
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stockpulse"
	}
	return filepath.Join(home, ".config", "stockpulse")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. Load never fails hard: any
// read or decode problem degrades to default settings, and the returned
// error is advisory for logging.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{Settings: DefaultSettings()}

	var loadErr error
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		cfg.Settings = DefaultSettings()
		loadErr = fmt.Errorf("loading config.toml: %w", err)
	}
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil && loadErr == nil {
		loadErr = fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	applySettingsDefaults(&cfg.Settings)

	return cfg, loadErr
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Credentials.OpenAI.APIKey = v
	}
	if v := os.Getenv("STOCKPULSE_RECIPIENT"); v != "" {
		cfg.Settings.RecipientEmail = v
	}
}

// applySettingsDefaults fills fields a partially-written config file left
// zero, so a truncated save still yields usable settings.
func applySettingsDefaults(s *Settings) {
	def := DefaultSettings()
	if s.EmailFormat != "detailed" && s.EmailFormat != "summary" {
		s.EmailFormat = def.EmailFormat
	}
	if s.DefaultCriteria.RSIThreshold == 0 {
		s.DefaultCriteria.RSIThreshold = def.DefaultCriteria.RSIThreshold
	}
	if s.DefaultCriteria.MACrossover == "" {
		s.DefaultCriteria.MACrossover = def.DefaultCriteria.MACrossover
	}
	if s.DefaultCriteria.VolumeSpike == 0 {
		s.DefaultCriteria.VolumeSpike = def.DefaultCriteria.VolumeSpike
	}
	if s.DefaultCriteria.MaxPE == 0 {
		s.DefaultCriteria.MaxPE = def.DefaultCriteria.MaxPE
	}
	if s.DefaultCriteria.MinRevenueGrowth == 0 {
		s.DefaultCriteria.MinRevenueGrowth = def.DefaultCriteria.MinRevenueGrowth
	}
	if s.DefaultCriteria.MaxDebtToEquity == 0 {
		s.DefaultCriteria.MaxDebtToEquity = def.DefaultCriteria.MaxDebtToEquity
	}
}

// SaveSettings writes the settings record back to config.toml in configDir.
func SaveSettings(configDir string, s Settings) error {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("settings.recipient_email", s.RecipientEmail)
	v.Set("settings.email_format", s.EmailFormat)
	v.Set("settings.default_criteria.rsi_threshold", s.DefaultCriteria.RSIThreshold)
	v.Set("settings.default_criteria.ma_crossover", s.DefaultCriteria.MACrossover)
	v.Set("settings.default_criteria.volume_spike", s.DefaultCriteria.VolumeSpike)
	v.Set("settings.default_criteria.max_pe", s.DefaultCriteria.MaxPE)
	v.Set("settings.default_criteria.min_revenue_growth", s.DefaultCriteria.MinRevenueGrowth)
	v.Set("settings.default_criteria.max_debt_to_equity", s.DefaultCriteria.MaxDebtToEquity)

	return v.WriteConfigAs(filepath.Join(configDir, "config.toml"))
}
