// Package store provides SQLite persistence for marketfeed.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/42port/marketfeed/internal/news"
)

// Store is the document store backing the feed. NOT an interface - concrete
// type; it satisfies news.QueryService.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex // Protects all database operations
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist.
// Uses WAL mode for better concurrent read performance (file-based DBs only).
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// For in-memory databases, use shared cache mode so all connections
		// in the pool see the same database
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// For in-memory databases, limit to 1 connection to avoid issues
	// with multiple connections getting different databases
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}

	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

// createTables creates the required tables and indexes if they don't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		ticker TEXT NOT NULL,
		source TEXT NOT NULL,
		headline TEXT NOT NULL,
		summary TEXT,
		url TEXT,
		image_url TEXT,
		category TEXT,
		impact TEXT,
		event_time DATETIME NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_articles_feed ON articles(ticker, source, event_time DESC, id ASC);
	CREATE INDEX IF NOT EXISTS idx_articles_event ON articles(event_time DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
// Thread-safe: acquires write lock to prevent closing during in-flight operations.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveArticles stores articles, returning count of new rows inserted.
// Duplicates (by ID) are silently ignored via INSERT OR IGNORE.
// Thread-safe: acquires write lock.
func (s *Store) SaveArticles(articles []news.Article) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(articles) == 0 {
		return 0, nil
	}

	stmt, err := s.db.Prepare(`
		INSERT OR IGNORE INTO articles (
			id, ticker, source, headline, summary, url, image_url,
			category, impact, event_time, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	newCount := 0
	for _, a := range articles {
		result, err := stmt.Exec(
			a.ID,
			a.Ticker,
			a.Source,
			a.Headline,
			a.Summary,
			a.URL,
			a.ImageURL,
			a.Category,
			a.Impact,
			a.EventTime,
			a.Fetched,
		)
		if err != nil {
			return newCount, err
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return newCount, err
		}
		if affected > 0 {
			newCount++
		}
	}

	return newCount, nil
}

// Query executes one bounded feed page query: ticker+source filtered,
// event time descending (id ascending on ties), resuming after the cursor
// when present. Implements news.QueryService.
//
// A row that fails to scan fails the whole page as an unknown QueryError;
// partially decoded pages are never returned.
// Thread-safe: acquires read lock.
func (s *Store) Query(ctx context.Context, spec news.QuerySpec) (news.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if spec.Collection != "" && spec.Collection != news.Collection {
		return news.Page{}, news.Classify(fmt.Errorf("unknown collection %q", spec.Collection))
	}
	if spec.Limit <= 0 {
		spec.Limit = news.PageSize
	}

	query := `
		SELECT id, ticker, source, headline, summary, url, image_url,
			category, impact, event_time, fetched_at
		FROM articles
		WHERE ticker = ? AND source = ?
	`
	args := []any{spec.Ticker, spec.Source}

	if c := spec.StartAfter; c != nil {
		query += " AND (event_time < ? OR (event_time = ? AND id > ?))"
		args = append(args, c.EventTime, c.EventTime, c.ID)
	}

	query += " ORDER BY event_time DESC, id ASC LIMIT ?"
	args = append(args, spec.Limit)

	articles, err := s.queryArticles(ctx, query, args...)
	if err != nil {
		return news.Page{}, news.Classify(err)
	}

	return news.Page{Articles: articles}, nil
}

// ArticleCount returns total stored article count.
// Thread-safe: acquires read lock.
func (s *Store) ArticleCount() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

// TickerCount returns the article count for one ticker and source.
// Thread-safe: acquires read lock.
func (s *Store) TickerCount(ticker, source string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM articles WHERE ticker = ? AND source = ?",
		ticker, source,
	).Scan(&count)
	return count, err
}

// PruneOlderThan deletes articles with an event time before cutoff,
// returning the number of rows removed.
// Thread-safe: acquires write lock.
func (s *Store) PruneOlderThan(cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM articles WHERE event_time < ?", cutoff)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	return int(affected), err
}

// queryArticles is a helper that executes a query and scans results.
// Caller must hold s.mu (read lock is sufficient).
func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]news.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []news.Article
	for rows.Next() {
		var a news.Article
		err := rows.Scan(
			&a.ID,
			&a.Ticker,
			&a.Source,
			&a.Headline,
			&a.Summary,
			&a.URL,
			&a.ImageURL,
			&a.Category,
			&a.Impact,
			&a.EventTime,
			&a.Fetched,
		)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}
