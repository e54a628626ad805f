package ui

import "github.com/charmbracelet/lipgloss"

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#58a6ff")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#c9d1d9")).
			Background(lipgloss.Color("#21262d"))

	headlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c9d1d9"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f85149"))

	failureStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#f85149")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#f85149")).
			Padding(1, 3)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e")).
			Padding(0, 1)
)

// Impact badge colors keyed by classifier label.
var impactColors = map[string]lipgloss.Color{
	"bullish": lipgloss.Color("#3fb950"), // green
	"bearish": lipgloss.Color("#f85149"), // red
	"neutral": lipgloss.Color("#8b949e"), // gray
}

func impactBadge(impact string) string {
	color, ok := impactColors[impact]
	if !ok {
		color = impactColors["neutral"]
	}
	return lipgloss.NewStyle().Foreground(color).Render("●")
}
