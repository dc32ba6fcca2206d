// Package cache is a SQLite-backed TTL cache for upstream payloads that are
// expensive to refetch. Only slow-moving data belongs here (the catalog
// listing, free-text search hits); price payloads are never cached.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DB manages the SQLite connection used for caching.
type DB struct {
	db  *sql.DB
	mu  sync.RWMutex
	ttl time.Duration
}

// Open opens (or creates) the cache database at path and initializes all
// cache tables. Entries older than ttl are treated as misses.
func Open(path string, ttl time.Duration) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	c := &DB{db: db, ttl: ttl}
	for _, schema := range allSchemas {
		if _, err := db.Exec(schema); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to create cache table: %w", err)
		}
	}
	return c, nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get retrieves a cached value. Returns the raw data and whether a live
// (non-expired) entry was found.
func (c *DB) Get(table, key string) (string, bool, error) {
	if err := validateTable(table); err != nil {
		return "", false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	query := fmt.Sprintf(`SELECT data, cached_at FROM %s WHERE cache_key = ?`, table)

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(query, key).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query cache: %w", err)
	}

	if age := time.Now().UTC().Sub(cachedAt); age > c.ttl {
		slog.Debug("Cache entry expired", "table", table, "key", key, "age", age)
		return "", false, nil
	}
	return data, true, nil
}

// Set stores a value in the cache, replacing any previous entry.
func (c *DB) Set(table, key, data string) error {
	if err := validateTable(table); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	query := fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (cache_key, data, cached_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`, table)
	if _, err := c.db.Exec(query, key, data); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Invalidate deletes all entries from the given cache table and returns the
// number of rows removed.
func (c *DB) Invalidate(table string) (int64, error) {
	if err := validateTable(table); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.Exec(fmt.Sprintf("DELETE FROM %s", table))
	if err != nil {
		return 0, fmt.Errorf("failed to delete cache entries: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	slog.Debug("Cache table cleared", "table", table, "rows_deleted", rows)
	return rows, nil
}

// FetchFunc fetches data from an external source on cache miss.
type FetchFunc[T any] func() (T, error)

// GetOrFetch returns the cached value for key, or calls fetch and caches the
// result. A nil cache DB degrades to a plain fetch. shouldCache (optional)
// can veto storing a fetched value, e.g. to avoid caching empty results.
func GetOrFetch[T any](c *DB, table, key string, fetch FetchFunc[T], shouldCache func(T) bool) (T, bool, error) {
	var zero T

	if c == nil {
		data, err := fetch()
		return data, false, err
	}

	cached, hit, err := c.Get(table, key)
	if err == nil && hit {
		var result T
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			slog.Debug("Cache hit", "table", table, "key", key)
			return result, true, nil
		}
		slog.Warn("Failed to unmarshal cached data, refetching", "table", table, "key", key)
	}

	slog.Debug("Cache miss, fetching", "table", table, "key", key)
	data, err := fetch()
	if err != nil {
		return zero, false, err
	}

	if shouldCache != nil && !shouldCache(data) {
		slog.Debug("Skipping cache store per policy", "table", table, "key", key)
		return data, false, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to marshal data for caching", "table", table, "key", key, "error", err)
		return data, false, nil
	}
	if err := c.Set(table, key, string(jsonData)); err != nil {
		// Caching failure must not fail the fetch.
		slog.Warn("Failed to cache data", "table", table, "key", key, "error", err)
	}
	return data, false, nil
}
