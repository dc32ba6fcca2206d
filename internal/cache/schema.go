package cache

import "fmt"

// Cache table names. All tables share the cache_key/data/cached_at layout.
const (
	// AppListTable caches the full Steam catalog listing between runs.
	AppListTable = "applist_cache"
	// StoreSearchTable caches free-text store search results.
	StoreSearchTable = "storesearch_cache"
)

const appListSchema = `
CREATE TABLE IF NOT EXISTS applist_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_applist_cached_at ON applist_cache(cached_at);
`

const storeSearchSchema = `
CREATE TABLE IF NOT EXISTS storesearch_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_storesearch_cached_at ON storesearch_cache(cached_at);
`

var allSchemas = []string{
	appListSchema,
	storeSearchSchema,
}

// validTables is the whitelist of table names that may be interpolated into
// SQL statements.
var validTables = map[string]bool{
	AppListTable:     true,
	StoreSearchTable: true,
}

func validateTable(table string) error {
	if !validTables[table] {
		return fmt.Errorf("invalid cache table name: %s", table)
	}
	return nil
}
