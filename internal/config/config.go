// Package config centralizes runtime configuration. Values come from, in
// increasing precedence: built-in defaults, an optional config file, and
// LEDGERFLOW_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"ledgerflow/ingest/internal/duplicate"
)

// Config carries every tunable of the ingestion pipeline.
type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // text or json

	DefaultCurrency string `mapstructure:"default_currency"`

	Duplicate struct {
		WindowDays int               `mapstructure:"window_days"`
		Threshold  float64           `mapstructure:"threshold"`
		MaxMatches int               `mapstructure:"max_matches"`
		Weights    duplicate.Weights `mapstructure:"weights"`
	} `mapstructure:"duplicate"`

	Categorizer struct {
		HistoryLimit int `mapstructure:"history_limit"`
	} `mapstructure:"categorizer"`

	Enricher struct {
		MinConfidence float64 `mapstructure:"min_confidence"`
		RatePerSecond float64 `mapstructure:"rate_per_second"` // 0 disables limiting
	} `mapstructure:"enricher"`

	Batch struct {
		Workers int `mapstructure:"workers"`
	} `mapstructure:"batch"`

	FeedbackPath string `mapstructure:"feedback_path"` // empty keeps feedback in memory
}

// Load reads configuration. A .env file in the working directory is loaded
// silently when present; a missing config file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("ledgerflow")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("$HOME/.config/ledgerflow")

	v.SetEnvPrefix("LEDGERFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("default_currency", "GBP")

	w := duplicate.DefaultWeights()
	v.SetDefault("duplicate.window_days", 3)
	v.SetDefault("duplicate.threshold", 0.8)
	v.SetDefault("duplicate.max_matches", 5)
	v.SetDefault("duplicate.weights.amount", w.Amount)
	v.SetDefault("duplicate.weights.date", w.Date)
	v.SetDefault("duplicate.weights.description", w.Description)
	v.SetDefault("duplicate.weights.merchant", w.Merchant)
	v.SetDefault("duplicate.weights.external_id", w.ExternalID)

	v.SetDefault("categorizer.history_limit", 100)

	v.SetDefault("enricher.min_confidence", 0.3)
	v.SetDefault("enricher.rate_per_second", 0.0)

	v.SetDefault("batch.workers", 4)

	v.SetDefault("feedback_path", "")
}

// Validate rejects configurations that would silently disable or distort the
// pipeline.
func (c *Config) Validate() error {
	if c.Duplicate.WindowDays <= 0 {
		return fmt.Errorf("duplicate.window_days must be positive, got %d", c.Duplicate.WindowDays)
	}
	if c.Duplicate.Threshold <= 0 || c.Duplicate.Threshold > 1 {
		return fmt.Errorf("duplicate.threshold must be in (0,1], got %v", c.Duplicate.Threshold)
	}
	if c.Duplicate.MaxMatches <= 0 {
		return fmt.Errorf("duplicate.max_matches must be positive, got %d", c.Duplicate.MaxMatches)
	}
	if c.Categorizer.HistoryLimit <= 0 {
		return fmt.Errorf("categorizer.history_limit must be positive, got %d", c.Categorizer.HistoryLimit)
	}
	if c.Enricher.MinConfidence < 0 || c.Enricher.MinConfidence >= 1 {
		return fmt.Errorf("enricher.min_confidence must be in [0,1), got %v", c.Enricher.MinConfidence)
	}
	if c.Enricher.RatePerSecond < 0 {
		return fmt.Errorf("enricher.rate_per_second must not be negative, got %v", c.Enricher.RatePerSecond)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive, got %d", c.Batch.Workers)
	}
	return nil
}

// DuplicateOptions converts the config block into detector options.
func (c *Config) DuplicateOptions() duplicate.Options {
	return duplicate.Options{
		WindowDays: c.Duplicate.WindowDays,
		Threshold:  c.Duplicate.Threshold,
		MaxMatches: c.Duplicate.MaxMatches,
		Weights:    c.Duplicate.Weights,
	}
}
