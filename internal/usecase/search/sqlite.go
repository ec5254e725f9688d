package search

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"searchkit/internal/domain"
)

// SQLiteCache is a Cache backed by a SQLite database, for hosts that want
// search results to survive restarts. Values are stored as JSON; the TTL is
// enforced at read time and Sweep deletes stale rows.
type SQLiteCache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time // for testing
}

// NewSQLiteCache opens (or creates) the database at path and runs the schema
// migration. Non-positive ttl falls back to DefaultCacheTTL.
func NewSQLiteCache(path string, ttl time.Duration, logger *slog.Logger) (*SQLiteCache, error) {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// WAL mode for better concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &SQLiteCache{db: db, ttl: ttl, logger: logger, now: time.Now}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS search_cache (
			key         TEXT PRIMARY KEY,
			value       TEXT NOT NULL,
			inserted_at INTEGER NOT NULL
		)
	`)
	return err
}

// Close closes the underlying database connection.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the cached results for key if present and fresh. Storage
// errors degrade to a miss so the caller falls through to the provider.
func (c *SQLiteCache) Get(key string) ([]domain.SearchResult, bool) {
	var value string
	var insertedAt int64
	err := c.db.QueryRow(
		"SELECT value, inserted_at FROM search_cache WHERE key = ?", key,
	).Scan(&value, &insertedAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return nil, false
	}

	if c.now().Sub(time.Unix(0, insertedAt)) >= c.ttl {
		return nil, false
	}

	var results []domain.SearchResult
	if err := json.Unmarshal([]byte(value), &results); err != nil {
		c.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return results, true
}

// Put upserts results under key. Storage errors are logged, not returned:
// a failed write only costs a future provider call.
func (c *SQLiteCache) Put(key string, results []domain.SearchResult) {
	value, err := json.Marshal(results)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	_, err = c.db.Exec(`
		INSERT INTO search_cache (key, value, inserted_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, inserted_at = excluded.inserted_at
	`, key, string(value), c.now().UnixNano())
	if err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Sweep deletes expired rows.
func (c *SQLiteCache) Sweep() int {
	cutoff := c.now().Add(-c.ttl).UnixNano()
	res, err := c.db.Exec("DELETE FROM search_cache WHERE inserted_at <= ?", cutoff)
	if err != nil {
		c.logger.Warn("cache sweep failed", "error", err)
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}

// Len returns the number of stored rows.
func (c *SQLiteCache) Len() int {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM search_cache").Scan(&n); err != nil {
		return 0
	}
	return n
}

var _ Cache = (*SQLiteCache)(nil)
