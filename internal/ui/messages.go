// Package ui provides the Bubble Tea TUI for marketfeed.
package ui

import "github.com/42port/marketfeed/internal/controller"

// FeedUpdated is sent whenever the controller publishes a new snapshot.
type FeedUpdated struct {
	Result controller.FeedResult
}
