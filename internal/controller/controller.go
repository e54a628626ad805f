// Package controller implements the pagination core of marketfeed.
//
// The controller sits between the document store and the view, deciding
// what the feed shows. The view renders whatever snapshot the controller
// publishes and forwards two intents back in: "refresh" and "near end of
// visible list".
//
// # Architecture
//
//	┌─────────┐     ┌────────────────────┐     ┌──────┐
//	│  Store  │ ──> │ PagedFeedController │ ──> │ View │
//	│ (Query) │     │  (cursor + state)   │     │ (UI) │
//	└─────────┘     └────────────────────┘     └──────┘
//
// # Single flight
//
// At most one page fetch is outstanding per controller. A Load issued while
// another is in flight is rejected, not queued; rapid scroll events or
// overlapping refresh taps never produce duplicate page queries.
//
// # Subscription
//
// Subscribe returns a single-slot latest-value channel of FeedResult.
// Publishing replaces any unconsumed value, so a slow subscriber always
// sees the newest snapshot and never a backlog of stale ones.
package controller

import (
	"context"
	"sync"

	"github.com/42port/marketfeed/internal/logging"
	"github.com/42port/marketfeed/internal/news"
)

// FeedState is the renderer-facing snapshot of the feed.
type FeedState struct {
	// Articles is the accumulated list, newest first. Grows append-only
	// between refreshes.
	Articles []news.Article

	// LoadingInitial is true only while the very first page of the current
	// refresh cycle is in flight.
	LoadingInitial bool

	// LoadingNext is true only while a subsequent page is in flight.
	// Never true together with LoadingInitial.
	LoadingNext bool

	// EndReached is set once a page came back shorter than the page size.
	// Monotonic until a refresh resets the state.
	EndReached bool

	// NextPageError holds the message for a failed non-initial fetch.
	// Empty means no error. Only meaningful when Articles is non-empty;
	// a first-page failure produces FeedFailed instead.
	NextPageError string
}

// FeedResult is the outcome of a feed session: either a live snapshot or a
// full-screen failure. Closed sum - the two variants below are the only
// implementations.
type FeedResult interface {
	feedResult()
}

// FeedLoaded carries the current feed snapshot.
type FeedLoaded struct {
	State FeedState
}

// FeedFailed replaces the whole view after a first-page failure.
type FeedFailed struct {
	Message string
}

func (FeedLoaded) feedResult() {}
func (FeedFailed) feedResult() {}

// Config configures a PagedFeedController.
type Config struct {
	PageSize         int    // Articles per query (default: news.PageSize)
	ScrollRefreshGap int    // Near-end trigger distance (default: news.ScrollRefreshGap)
	Source           string // Source filter (default: news.DefaultSource)
	Collection       string // Document collection (default: news.Collection)
}

// DefaultConfig returns the feed's design constants.
func DefaultConfig() Config {
	return Config{
		PageSize:         news.PageSize,
		ScrollRefreshGap: news.ScrollRefreshGap,
		Source:           news.DefaultSource,
		Collection:       news.Collection,
	}
}

// PagedFeedController owns the pagination state for one ticker session.
//
// # Thread Safety
//
// Safe for concurrent use. All state transitions are serialized by an
// internal mutex; the query itself runs outside the lock, and the busy
// guard rejects overlapping Loads while it is in flight.
//
// # Lifecycle
//
// One controller per ticker subscription. A ticker change means a fresh
// controller instance (no cancellation of in-flight queries), per the
// session contract.
type PagedFeedController struct {
	svc news.QueryService
	cfg Config

	mu      sync.Mutex
	ticker  string
	cursor  *news.Cursor
	result  FeedResult
	updates chan FeedResult
}

// New creates a controller over the given query service.
func New(svc news.QueryService, cfg Config) *PagedFeedController {
	// Validate config
	if cfg.PageSize <= 0 {
		cfg.PageSize = news.PageSize
	}
	if cfg.ScrollRefreshGap <= 0 {
		cfg.ScrollRefreshGap = news.ScrollRefreshGap
	}
	if cfg.Source == "" {
		cfg.Source = news.DefaultSource
	}
	if cfg.Collection == "" {
		cfg.Collection = news.Collection
	}

	return &PagedFeedController{
		svc:     svc,
		cfg:     cfg,
		result:  FeedLoaded{},
		updates: make(chan FeedResult, 1),
	}
}

// Subscribe returns the update channel. Subscribers receive the latest
// FeedResult after every state transition; unconsumed values are replaced,
// never queued. The channel is never closed - it lives for the lifetime of
// the controller.
func (c *PagedFeedController) Subscribe() <-chan FeedResult {
	return c.updates
}

// Result returns the current snapshot.
func (c *PagedFeedController) Result() FeedResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Load fetches one page of news for ticker and merges it into the feed.
//
// No-ops: returns immediately if a fetch is already in flight, or if
// forceRefresh is false and the end of the feed was already reached.
//
// A forced refresh discards the cursor, the accumulated articles and the
// end-of-feed flag before fetching, so the renderer shows a clean loading
// view instead of stale data.
//
// Blocks until the fetch completes. Callers observe progress through the
// subscription channel: an in-flight snapshot is published before the query
// is issued and a final one after it resolves.
func (c *PagedFeedController) Load(ctx context.Context, ticker string, forceRefresh bool) {
	c.mu.Lock()

	st := c.stateLocked()
	if st.LoadingInitial || st.LoadingNext {
		c.mu.Unlock()
		return
	}
	if !forceRefresh && st.EndReached {
		c.mu.Unlock()
		return
	}

	if forceRefresh {
		c.cursor = nil
		st.Articles = nil
		st.EndReached = false
	}
	c.ticker = ticker

	// Fetch kind follows cursor presence: no cursor means first page.
	initial := c.cursor == nil
	st.LoadingInitial = initial
	st.LoadingNext = !initial
	st.NextPageError = ""
	c.result = FeedLoaded{State: st}
	cursor := c.cursor
	c.publishLocked()
	c.mu.Unlock()

	page, err := c.svc.Query(ctx, news.QuerySpec{
		Collection: c.cfg.Collection,
		Ticker:     ticker,
		Source:     c.cfg.Source,
		Limit:      c.cfg.PageSize,
		StartAfter: cursor,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		logging.Error("feed page fetch failed", "ticker", ticker, "initial", initial, "error", err)
		if initial {
			c.result = FeedFailed{Message: news.UserMessage(err)}
		} else {
			st.LoadingInitial = false
			st.LoadingNext = false
			st.NextPageError = news.UserMessage(err)
			c.result = FeedLoaded{State: st}
		}
		c.publishLocked()
		return
	}

	st.LoadingInitial = false
	st.LoadingNext = false

	if page.IsEmpty() {
		// Degenerate short page: nothing more to fetch, list unchanged.
		st.EndReached = true
	} else {
		last := page.Articles[len(page.Articles)-1]
		c.cursor = news.CursorFor(last)
		st.EndReached = len(page.Articles) < c.cfg.PageSize
		st.Articles = append(st.Articles, page.Articles...)
	}

	logging.Debug("feed page loaded",
		"ticker", ticker,
		"fetched", len(page.Articles),
		"total", len(st.Articles),
		"end_reached", st.EndReached,
	)

	c.result = FeedLoaded{State: st}
	c.publishLocked()
}

// Retry re-attempts the next page after an inline error.
func (c *PagedFeedController) Retry(ctx context.Context) {
	c.Load(ctx, c.currentTicker(), false)
}

// OnNearEndOfList fetches the next page. Invoked by the renderer's
// scroll-position watcher.
func (c *PagedFeedController) OnNearEndOfList(ctx context.Context) {
	c.Load(ctx, c.currentTicker(), false)
}

// OnScrollNear fetches the next page when the last visible row is within
// the configured gap of the end of the list.
func (c *PagedFeedController) OnScrollNear(ctx context.Context, lastVisibleIndex, totalCount int) {
	if totalCount-lastVisibleIndex <= c.cfg.ScrollRefreshGap {
		c.OnNearEndOfList(ctx)
	}
}

func (c *PagedFeedController) currentTicker() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker
}

// stateLocked returns a copy of the current FeedState. After a first-page
// failure the session carries no articles or cursor, so a zero state is the
// correct base for the refresh that escapes FeedFailed.
// Caller must hold c.mu.
func (c *PagedFeedController) stateLocked() FeedState {
	if loaded, ok := c.result.(FeedLoaded); ok {
		return loaded.State
	}
	return FeedState{}
}

// publishLocked replaces the unconsumed value in the single-slot update
// channel with the current result. Never blocks. Caller must hold c.mu.
func (c *PagedFeedController) publishLocked() {
	select {
	case <-c.updates:
	default:
	}
	c.updates <- c.result
}
