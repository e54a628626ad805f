package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/42port/marketfeed/internal/config"
	"github.com/42port/marketfeed/internal/controller"
	"github.com/42port/marketfeed/internal/logging"
	"github.com/42port/marketfeed/internal/store"
	"github.com/42port/marketfeed/internal/ui"
)

func main() {
	if err := logging.Init(); err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer logging.Close()

	cfgPath, err := config.Path()
	if err != nil {
		log.Fatalf("Failed to locate config: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ticker from CLI arg overrides config.
	ticker := cfg.Feed.Ticker
	if len(os.Args) > 1 {
		ticker = os.Args[1]
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

	ctrl := controller.New(st, controller.Config{
		PageSize:         cfg.Feed.PageSize,
		ScrollRefreshGap: cfg.Feed.ScrollRefreshGap,
		Source:           cfg.Feed.Source,
	})

	ctx := context.Background()
	updates := ctrl.Subscribe()

	app := ui.NewApp(
		ticker,
		func(forceRefresh bool) tea.Cmd {
			return func() tea.Msg {
				ctrl.Load(ctx, ticker, forceRefresh)
				return nil
			}
		},
		func() tea.Cmd {
			return func() tea.Msg {
				ctrl.Retry(ctx)
				return nil
			}
		},
		func(lastVisibleIndex, totalCount int) tea.Cmd {
			return func() tea.Msg {
				ctrl.OnScrollNear(ctx, lastVisibleIndex, totalCount)
				return nil
			}
		},
		func() tea.Cmd {
			return func() tea.Msg {
				return ui.FeedUpdated{Result: <-updates}
			}
		},
	)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logging.Error("program exited with error", "error", err)
		log.Fatalf("Error: %v", err)
	}
}
