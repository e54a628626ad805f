// Command backfill fetches recent Finnhub company news for the configured
// tickers and stores it in the local database.
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/42port/marketfeed/internal/config"
	"github.com/42port/marketfeed/internal/ingest"
	"github.com/42port/marketfeed/internal/store"
)

func main() {
	// .env is optional; the API key can come from the environment directly.
	_ = godotenv.Load()

	cfgPath, err := config.Path()
	if err != nil {
		log.Fatalf("Failed to locate config: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	apiKey := os.Getenv(cfg.Finnhub.APIKeyEnv)
	if apiKey == "" {
		log.Fatalf("Missing API key: set %s", cfg.Finnhub.APIKeyEnv)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir := filepath.Join(homeDir, ".marketfeed")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, "marketfeed.db")
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	tickers := cfg.Finnhub.Tickers
	if len(os.Args) > 1 {
		tickers = os.Args[1:]
	}

	client := ingest.NewClient(cfg.Finnhub.BaseURL, apiKey)
	to := time.Now()
	from := to.AddDate(0, 0, -cfg.Finnhub.LookbackDays)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	total := 0
	for _, ticker := range tickers {
		articles, err := client.CompanyNews(ctx, ticker, from, to)
		if err != nil {
			log.Printf("Fetch failed for %s: %v", ticker, err)
			continue
		}

		saved, err := st.SaveArticles(articles)
		if err != nil {
			log.Printf("Save failed for %s: %v", ticker, err)
			continue
		}

		log.Printf("%s: fetched %d, %d new", ticker, len(articles), saved)
		total += saved
	}

	log.Printf("Backfill complete: %d new articles", total)
}
