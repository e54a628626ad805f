package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Feed.PageSize != 5 {
		t.Errorf("expected default PageSize of 5, got %d", cfg.Feed.PageSize)
	}
	if cfg.Feed.ScrollRefreshGap != 3 {
		t.Errorf("expected default ScrollRefreshGap of 3, got %d", cfg.Feed.ScrollRefreshGap)
	}
	if cfg.Feed.Source != "Finnhub News" {
		t.Errorf("expected default source %q, got %q", "Finnhub News", cfg.Feed.Source)
	}
	if cfg.Finnhub.APIKeyEnv != "FINNHUB_API_KEY" {
		t.Errorf("expected default api key env FINNHUB_API_KEY, got %q", cfg.Finnhub.APIKeyEnv)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Feed.PageSize != 5 {
		t.Errorf("expected defaults for missing file, got PageSize %d", cfg.Feed.PageSize)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Feed.Ticker = "TSLA"
	cfg.Feed.PageSize = 10
	cfg.DBPath = "/tmp/feed.db"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Feed.Ticker != "TSLA" {
		t.Errorf("Ticker = %q, want TSLA", loaded.Feed.Ticker)
	}
	if loaded.Feed.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", loaded.Feed.PageSize)
	}
	if loaded.DBPath != "/tmp/feed.db" {
		t.Errorf("DBPath = %q, want /tmp/feed.db", loaded.DBPath)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"feed":{"ticker":"NVDA"}}`), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Feed.Ticker != "NVDA" {
		t.Errorf("Ticker = %q, want NVDA", cfg.Feed.Ticker)
	}
	if cfg.Feed.PageSize != 5 {
		t.Errorf("missing PageSize should fill from defaults, got %d", cfg.Feed.PageSize)
	}
	if cfg.Finnhub.BaseURL == "" {
		t.Error("missing Finnhub section should fill from defaults")
	}
}
