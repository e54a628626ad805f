package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/42port/marketfeed/internal/controller"
	"github.com/42port/marketfeed/internal/news"
)

// App is the root Bubble Tea model for the feed screen.
// IMPORTANT: App does NOT hold the controller. It receives snapshots via
// FeedUpdated messages and forwards intents through the injected Cmd
// factories, keeping the render side a pure consumer of published state.
type App struct {
	ticker        string
	load          func(forceRefresh bool) tea.Cmd
	retry         func() tea.Cmd
	scrollNear    func(lastVisibleIndex, totalCount int) tea.Cmd
	waitForUpdate func() tea.Cmd

	result controller.FeedResult
	cursor int
	spin   spinner.Model
	width  int
	height int
	ready  bool
}

// NewApp creates the feed screen for one ticker session.
// load: returns a Cmd invoking the controller's Load
// retry: returns a Cmd invoking Retry after an inline error
// scrollNear: returns a Cmd invoking OnScrollNear
// waitForUpdate: returns a Cmd that blocks for the next published snapshot
func NewApp(
	ticker string,
	load func(forceRefresh bool) tea.Cmd,
	retry func() tea.Cmd,
	scrollNear func(lastVisibleIndex, totalCount int) tea.Cmd,
	waitForUpdate func() tea.Cmd,
) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return App{
		ticker:        ticker,
		load:          load,
		retry:         retry,
		scrollNear:    scrollNear,
		waitForUpdate: waitForUpdate,
		result:        controller.FeedLoaded{},
		spin:          sp,
	}
}

// Init mounts the screen: subscribe to snapshots and force the first load.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spin.Tick, a.waitForUpdate(), a.load(true))
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case FeedUpdated:
		a.result = msg.Result
		if loaded, ok := a.result.(controller.FeedLoaded); ok {
			if n := len(loaded.State.Articles); a.cursor >= n && n > 0 {
				a.cursor = n - 1
			}
			if n := len(loaded.State.Articles); n == 0 {
				a.cursor = 0
			}
		}
		// Re-arm the subscription for the next snapshot.
		return a, a.waitForUpdate()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "r":
		// Pull-to-refresh equivalent.
		a.cursor = 0
		return a, a.load(true)

	case "enter":
		if loaded, ok := a.result.(controller.FeedLoaded); ok && loaded.State.NextPageError != "" {
			return a, a.retry()
		}
		return a, nil

	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "down", "j":
		loaded, ok := a.result.(controller.FeedLoaded)
		if !ok {
			return a, nil
		}
		total := len(loaded.State.Articles)
		if a.cursor < total-1 {
			a.cursor++
		}
		// Scroll-position watcher: ask for more when near the bottom.
		return a, a.scrollNear(a.cursor, total)
	}

	return a, nil
}

// View renders the feed screen.
func (a App) View() string {
	if !a.ready {
		return "loading..."
	}

	if failed, ok := a.result.(controller.FeedFailed); ok {
		box := failureStyle.Render(failed.Message + "\n\npress r to retry, q to quit")
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
	}

	loaded := a.result.(controller.FeedLoaded)
	st := loaded.State

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Market News — %s", a.ticker)))
	b.WriteString("\n\n")

	switch {
	case st.LoadingInitial:
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s fetching latest news...", a.spin.View())))
		b.WriteString("\n")
	case len(st.Articles) == 0:
		b.WriteString(dimStyle.Render("  no news for this ticker"))
		b.WriteString("\n")
	default:
		for i, article := range st.Articles {
			b.WriteString(a.renderRow(i, article))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(a.renderFooter(st))
	return b.String()
}

func (a App) renderRow(i int, article news.Article) string {
	age := relativeTime(article.EventTime)
	line := fmt.Sprintf("%s %s  %s", impactBadge(article.Impact), article.Headline, dimStyle.Render(age))
	if i == a.cursor {
		return selectedStyle.Render("> " + line)
	}
	return headlineStyle.Render("  " + line)
}

func (a App) renderFooter(st controller.FeedState) string {
	switch {
	case st.LoadingNext:
		return dimStyle.Render(fmt.Sprintf("  %s loading more...", a.spin.View()))
	case st.NextPageError != "":
		return errorStyle.Render("  "+st.NextPageError) + dimStyle.Render("  (enter to retry)")
	case st.EndReached && len(st.Articles) > 0:
		return dimStyle.Render("  — end of feed —")
	default:
		return helpStyle.Render("j/k move · r refresh · q quit")
	}
}

// relativeTime renders an article age like "5m" or "3h".
func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
