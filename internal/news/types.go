// Package news defines the market-news domain types shared by the store,
// the paged feed controller, and the ingest pipeline.
package news

import (
	"context"
	"time"
)

// Design constants for the paged feed.
const (
	// PageSize is the number of articles fetched per query.
	PageSize = 5

	// ScrollRefreshGap is how close to the end of the visible list the
	// cursor must be before the next page is requested.
	ScrollRefreshGap = 3

	// DefaultSource is the source label every feed query filters on.
	DefaultSource = "Finnhub News"

	// Collection is the document collection holding market-news articles.
	Collection = "market-news"
)

// Article is a single market-news record. Immutable once stored; the feed
// only cares about EventTime (sort/cursor key), ID (tiebreak) and Ticker
// (filter key) — everything else is display payload.
type Article struct {
	ID        string
	Ticker    string
	Source    string // "Finnhub News"
	Headline  string
	Summary   string
	URL       string
	ImageURL  string
	Category  string // "company", "earnings", ...
	Impact    string // "bullish", "bearish", "neutral"
	EventTime time.Time
	Fetched   time.Time
}

// Cursor resumes a descending-time query after a specific article.
// A nil *Cursor means "start from the beginning".
//
// EventTime alone is not unique, so the article ID breaks ties the same way
// a document store's start-after-document does.
type Cursor struct {
	EventTime time.Time
	ID        string
}

// CursorFor returns the resumption cursor for the last article of a page.
func CursorFor(a Article) *Cursor {
	return &Cursor{EventTime: a.EventTime, ID: a.ID}
}

// QuerySpec describes one bounded, filtered, ordered page query.
// Ordering is always event time descending (ID ascending on ties).
type QuerySpec struct {
	Collection string
	Ticker     string
	Source     string
	Limit      int
	StartAfter *Cursor
}

// Page is the result of a single query: at most Limit articles, newest
// first. The last article's identity is usable as the next cursor.
type Page struct {
	Articles []Article
}

// IsEmpty reports whether the page contains no articles.
func (p Page) IsEmpty() bool {
	return len(p.Articles) == 0
}

// QueryService is the narrow interface the feed controller uses to reach
// the document store. Implementations must honor the spec's ordering and
// must fail a whole page rather than return partially decoded rows.
type QueryService interface {
	Query(ctx context.Context, spec QuerySpec) (Page, error)
}
