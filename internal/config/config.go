// Package config loads and persists the application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/42port/marketfeed/internal/news"
)

// Config is the persistent application configuration
type Config struct {
	// Feed settings
	Feed FeedConfig `json:"feed"`

	// Finnhub API settings
	Finnhub FinnhubConfig `json:"finnhub"`

	// DBPath overrides the default database location when set
	DBPath string `json:"db_path,omitempty"`
}

// FeedConfig holds feed pagination settings
type FeedConfig struct {
	Ticker           string `json:"ticker"`             // Default ticker shown on launch
	PageSize         int    `json:"page_size"`          // Articles per page query
	ScrollRefreshGap int    `json:"scroll_refresh_gap"` // Near-end trigger distance
	Source           string `json:"source"`             // Source label filter
}

// FinnhubConfig holds ingest settings for the Finnhub news API
type FinnhubConfig struct {
	BaseURL      string   `json:"base_url"`
	APIKeyEnv    string   `json:"api_key_env"` // Env var holding the API key
	Tickers      []string `json:"tickers"`     // Symbols to backfill
	LookbackDays int      `json:"lookback_days"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			Ticker:           "AAPL",
			PageSize:         news.PageSize,
			ScrollRefreshGap: news.ScrollRefreshGap,
			Source:           news.DefaultSource,
		},
		Finnhub: FinnhubConfig{
			BaseURL:      "https://finnhub.io/api/v1",
			APIKeyEnv:    "FINNHUB_API_KEY",
			Tickers:      []string{"AAPL", "MSFT", "NVDA"},
			LookbackDays: 7,
		},
	}
}

// Path returns the config file location (~/.marketfeed/config.json)
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".marketfeed", "config.json"), nil
}

// Load reads the config file, falling back to defaults if it doesn't exist.
// Missing fields are filled in from the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Feed.Ticker == "" {
		c.Feed.Ticker = def.Feed.Ticker
	}
	if c.Feed.PageSize <= 0 {
		c.Feed.PageSize = def.Feed.PageSize
	}
	if c.Feed.ScrollRefreshGap <= 0 {
		c.Feed.ScrollRefreshGap = def.Feed.ScrollRefreshGap
	}
	if c.Feed.Source == "" {
		c.Feed.Source = def.Feed.Source
	}
	if c.Finnhub.BaseURL == "" {
		c.Finnhub.BaseURL = def.Finnhub.BaseURL
	}
	if c.Finnhub.APIKeyEnv == "" {
		c.Finnhub.APIKeyEnv = def.Finnhub.APIKeyEnv
	}
	if c.Finnhub.LookbackDays <= 0 {
		c.Finnhub.LookbackDays = def.Finnhub.LookbackDays
	}
}
