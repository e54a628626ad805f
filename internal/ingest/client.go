// Package ingest retrieves company news from the Finnhub API and converts
// it to news.Article records for persistence.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/42port/marketfeed/internal/news"
)

// DefaultBaseURL is the Finnhub REST endpoint.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Client fetches company news from Finnhub.
// Requests are rate limited to stay inside the free-tier quota (30/min).
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client. An empty baseURL selects the public API.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// finnhubNewsItem is the wire format of one company-news entry.
type finnhubNewsItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // Unix seconds
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"` // Ticker symbol
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// CompanyNews retrieves news for one symbol in the [from, to] date window.
// Does NOT store articles - caller decides what to do with them.
//
// The function respects context cancellation and will return early
// if the context is cancelled.
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]news.Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))
	q.Set("token", c.apiKey)

	endpoint := c.baseURL + "/company-news?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var raw []finnhubNewsItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	now := time.Now()
	articles := make([]news.Article, 0, len(raw))
	for _, item := range raw {
		articles = append(articles, convertNewsItem(item, symbol, now))
	}

	return articles, nil
}

// convertNewsItem converts a wire entry to a news.Article.
func convertNewsItem(item finnhubNewsItem, symbol string, fetchTime time.Time) news.Article {
	// Deterministic ID from Finnhub's numeric id; random fallback when
	// the API omits it.
	id := fmt.Sprintf("finnhub-%d", item.ID)
	if item.ID == 0 {
		id = "finnhub-" + uuid.NewString()
	}

	ticker := item.Related
	if ticker == "" {
		ticker = symbol
	}

	eventTime := fetchTime
	if item.Datetime > 0 {
		eventTime = time.Unix(item.Datetime, 0).UTC()
	}

	return news.Article{
		ID:        id,
		Ticker:    ticker,
		Source:    news.DefaultSource,
		Headline:  item.Headline,
		Summary:   item.Summary,
		URL:       item.URL,
		ImageURL:  item.Image,
		Category:  item.Category,
		Impact:    ClassifyImpact(item.Headline),
		EventTime: eventTime,
		Fetched:   fetchTime,
	}
}
