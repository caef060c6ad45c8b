package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/contribsnake/pkg/debug"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS calendars (
	username   TEXT PRIMARY KEY,
	fetched_at INTEGER NOT NULL,
	weeks      TEXT NOT NULL
);`

// Cache stores fetched calendars in sqlite so repeated runs do not hit the
// API.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache opens (and creates if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open cache: %w", err)
	}
	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache schema: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the cached calendar for username if it is younger than maxAge.
// maxAge <= 0 accepts any age. The bool reports a hit.
func (c *Cache) Get(ctx context.Context, username string, maxAge time.Duration, now time.Time) ([]Week, time.Time, bool, error) {
	var fetchedAt int64
	var payload string
	err := c.db.QueryRowContext(ctx,
		`SELECT fetched_at, weeks FROM calendars WHERE username = ?`, cacheKey(username),
	).Scan(&fetchedAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("reading cache: %w", err)
	}

	at := time.Unix(fetchedAt, 0)
	if maxAge > 0 && now.Sub(at) > maxAge {
		debug.Log("datasource: cache entry for %s is stale (%v old)", username, now.Sub(at).Round(time.Second))
		return nil, at, false, nil
	}

	var weeks []Week
	if err := json.Unmarshal([]byte(payload), &weeks); err != nil {
		return nil, at, false, fmt.Errorf("decoding cached calendar: %w", err)
	}
	return weeks, at, true, nil
}

// Put stores the calendar for username, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, username string, weeks []Week, at time.Time) error {
	payload, err := json.Marshal(weeks)
	if err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO calendars (username, fetched_at, weeks) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET fetched_at = excluded.fetched_at, weeks = excluded.weeks`,
		cacheKey(username), at.Unix(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	return nil
}

// GitHub logins are case-insensitive.
func cacheKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
