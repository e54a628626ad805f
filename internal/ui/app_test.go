package ui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/42port/marketfeed/internal/controller"
	"github.com/42port/marketfeed/internal/news"
)

// intentRecorder captures which intents the app forwards.
type intentRecorder struct {
	loads       []bool
	retries     int
	scrollNears [][2]int
}

func (r *intentRecorder) app(ticker string) App {
	return NewApp(
		ticker,
		func(force bool) tea.Cmd {
			r.loads = append(r.loads, force)
			return nil
		},
		func() tea.Cmd {
			r.retries++
			return nil
		},
		func(last, total int) tea.Cmd {
			r.scrollNears = append(r.scrollNears, [2]int{last, total})
			return nil
		},
		func() tea.Cmd { return nil },
	)
}

func loadedResult(n int) controller.FeedResult {
	articles := make([]news.Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, news.Article{
			ID:        fmt.Sprintf("a-%d", i),
			Headline:  fmt.Sprintf("Headline %d", i),
			Impact:    "neutral",
			EventTime: time.Now().Add(-time.Duration(i) * time.Hour),
		})
	}
	return controller.FeedLoaded{State: controller.FeedState{Articles: articles}}
}

func sized(m tea.Model) tea.Model {
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func TestInitForcesRefresh(t *testing.T) {
	rec := &intentRecorder{}
	app := rec.app("AAPL")

	app.Init()

	if len(rec.loads) != 1 || !rec.loads[0] {
		t.Errorf("Init should issue one forced load, got %v", rec.loads)
	}
}

func TestCursorMoveForwardsScrollIntent(t *testing.T) {
	rec := &intentRecorder{}
	m := sized(rec.app("AAPL"))
	m, _ = m.Update(FeedUpdated{Result: loadedResult(5)})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	if len(rec.scrollNears) != 1 {
		t.Fatalf("expected 1 scroll intent, got %d", len(rec.scrollNears))
	}
	if got := rec.scrollNears[0]; got != [2]int{1, 5} {
		t.Errorf("scroll intent = %v, want [1 5]", got)
	}
}

func TestRefreshKey(t *testing.T) {
	rec := &intentRecorder{}
	m := sized(rec.app("AAPL"))
	m, _ = m.Update(FeedUpdated{Result: loadedResult(5)})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if len(rec.loads) != 1 || !rec.loads[0] {
		t.Errorf("r should issue a forced load, got %v", rec.loads)
	}
}

func TestEnterRetriesOnlyOnError(t *testing.T) {
	rec := &intentRecorder{}
	m := sized(rec.app("AAPL"))
	m, _ = m.Update(FeedUpdated{Result: loadedResult(5)})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if rec.retries != 0 {
		t.Errorf("enter without error should not retry, got %d", rec.retries)
	}

	errResult := controller.FeedLoaded{State: controller.FeedState{
		NextPageError: "Something went wrong. Please try again.",
	}}
	m, _ = m.Update(FeedUpdated{Result: errResult})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if rec.retries != 1 {
		t.Errorf("enter on error should retry once, got %d", rec.retries)
	}
}

func TestViewShowsFailureScreen(t *testing.T) {
	rec := &intentRecorder{}
	m := sized(rec.app("AAPL"))
	m, _ = m.Update(FeedUpdated{Result: controller.FeedFailed{
		Message: "Network error. Please check your connection.",
	}})

	view := m.View()
	if !strings.Contains(view, "Network error") {
		t.Error("failure view should show the error message")
	}
	if strings.Contains(view, "Market News") {
		t.Error("failure view should replace the feed entirely")
	}
}

func TestViewShowsInlineError(t *testing.T) {
	rec := &intentRecorder{}
	m := sized(rec.app("AAPL"))

	loaded := loadedResult(3).(controller.FeedLoaded)
	loaded.State.NextPageError = "Something went wrong. Please try again."
	m, _ = m.Update(FeedUpdated{Result: loaded})

	view := m.View()
	if !strings.Contains(view, "Headline 0") {
		t.Error("inline error view should keep the loaded articles")
	}
	if !strings.Contains(view, "Something went wrong") {
		t.Error("inline error view should show the error message")
	}
}

func TestViewShowsEndOfFeed(t *testing.T) {
	rec := &intentRecorder{}
	m := sized(rec.app("AAPL"))

	loaded := loadedResult(2).(controller.FeedLoaded)
	loaded.State.EndReached = true
	m, _ = m.Update(FeedUpdated{Result: loaded})

	if !strings.Contains(m.View(), "end of feed") {
		t.Error("expected end-of-feed marker")
	}
}

func TestCursorClampedOnShrink(t *testing.T) {
	rec := &intentRecorder{}
	m := sized(rec.app("AAPL"))
	m, _ = m.Update(FeedUpdated{Result: loadedResult(5)})

	// Move to the last row.
	for i := 0; i < 4; i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}

	// Refresh shrinks the list; the cursor must follow.
	m, _ = m.Update(FeedUpdated{Result: loadedResult(2)})
	app := m.(App)
	if app.cursor != 1 {
		t.Errorf("cursor should clamp to 1, got %d", app.cursor)
	}
}
