package ingest

import "strings"

// Keyword lists for the naive headline impact classifier. Matching is
// substring-based after lowercasing, so "upgraded" hits "upgrade".
var (
	bullishWords = []string{
		"beats", "beat estimates", "surge", "soars", "rally", "upgrade",
		"record high", "raises guidance", "buyback", "outperform",
		"tops expectations", "jumps",
	}
	bearishWords = []string{
		"misses", "miss estimates", "plunge", "tumbles", "downgrade",
		"lawsuit", "recall", "cuts guidance", "layoff", "underperform",
		"falls short", "sinks", "probe", "investigation",
	}
)

// ClassifyImpact assigns a coarse market-impact label to a headline.
// It is a display hint, not an analysis signal.
func ClassifyImpact(headline string) string {
	h := strings.ToLower(headline)

	score := 0
	for _, w := range bullishWords {
		if strings.Contains(h, w) {
			score++
		}
	}
	for _, w := range bearishWords {
		if strings.Contains(h, w) {
			score--
		}
	}

	switch {
	case score > 0:
		return "bullish"
	case score < 0:
		return "bearish"
	default:
		return "neutral"
	}
}
