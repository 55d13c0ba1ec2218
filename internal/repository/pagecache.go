// Package repository provides SQLite-backed storage. The only table answerd
// keeps is a best-effort cache of fetched page text; sessions themselves are
// held in memory and do not survive a restart.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// PageCache memoizes extracted page text by URL.
type PageCache struct {
	db *sql.DB
}

// NewPageCache opens the cache database and runs migrations.
func NewPageCache(dsn string) (*PageCache, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	cache := &PageCache{db: db}
	if err := cache.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return cache, nil
}

func (c *PageCache) migrate() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS pages (
		url TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Get returns the cached content for a URL if it was fetched within maxAge.
// A stale or missing entry reports ok=false with no error.
func (c *PageCache) Get(ctx context.Context, url string, maxAge time.Duration) (string, bool, error) {
	var content string
	var fetchedAt time.Time
	err := c.db.QueryRowContext(ctx,
		"SELECT content, fetched_at FROM pages WHERE url = ?", url,
	).Scan(&content, &fetchedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read page cache: %w", err)
	}
	if time.Since(fetchedAt) > maxAge {
		return "", false, nil
	}
	return content, true, nil
}

// Put stores or refreshes the content for a URL.
func (c *PageCache) Put(ctx context.Context, url, content string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO pages (url, content, fetched_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(url) DO UPDATE SET content = excluded.content, fetched_at = CURRENT_TIMESTAMP`,
		url, content,
	)
	if err != nil {
		return fmt.Errorf("failed to write page cache: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *PageCache) Close() error {
	return c.db.Close()
}
