// Package config centralizes viper defaults and typed accessors for the
// gamedeals configuration.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default retry and timeout policy. Fixed delays, no exponential growth.
const (
	// CatalogLoadAttempts is how many times the catalog listing fetch is
	// tried before resolution gives up.
	CatalogLoadAttempts = 3
	// CatalogRetryDelay is the fixed pause between catalog load attempts.
	CatalogRetryDelay = 2 * time.Second
	// RateLimitBackoff is the fixed pause before the single retry after an
	// HTTP 429 from the detail endpoint.
	RateLimitBackoff = 5 * time.Second
)

// SetDefaults registers all configuration defaults with viper.
func SetDefaults() {
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("history.dbfile", "./gamedeals.db")
	viper.SetDefault("aggregator.timeout", "20s")
	viper.SetDefault("aggregator.bulk_concurrency", 4)
	viper.SetDefault("resolver.limit", 10)
	viper.SetDefault("resolver.aliases", "")
	viper.SetDefault("steam.rate_limit", 3)
	viper.SetDefault("server.addr", ":8080")
}

// CacheDBFile returns the path to the SQLite cache database.
func CacheDBFile() string {
	return viper.GetString("cache.dbfile")
}

// CacheTTL returns the cache time-to-live, falling back to 24h on bad input.
func CacheTTL() time.Duration {
	ttl, err := time.ParseDuration(viper.GetString("cache.ttl"))
	if err != nil || ttl <= 0 {
		return 24 * time.Hour
	}
	return ttl
}

// HistoryDBFile returns the path to the price history database.
func HistoryDBFile() string {
	return viper.GetString("history.dbfile")
}

// AggregatorTimeout returns the overall deadline for one fan-out call.
func AggregatorTimeout() time.Duration {
	d, err := time.ParseDuration(viper.GetString("aggregator.timeout"))
	if err != nil || d <= 0 {
		return 20 * time.Second
	}
	return d
}

// BulkConcurrency returns how many detail fetches a bulk search may run at once.
func BulkConcurrency() int {
	n := viper.GetInt("aggregator.bulk_concurrency")
	if n < 1 {
		return 1
	}
	return n
}

// ResolverLimit returns the default candidate cap for resolution.
func ResolverLimit() int {
	n := viper.GetInt("resolver.limit")
	if n < 1 {
		return 1
	}
	return n
}

// AliasFile returns the optional path to a YAML alias override file.
func AliasFile() string {
	return viper.GetString("resolver.aliases")
}

// SteamRateLimit returns the Steam store API requests-per-second budget.
func SteamRateLimit() float64 {
	rps := viper.GetFloat64("steam.rate_limit")
	if rps <= 0 {
		return 3
	}
	return rps
}

// ServerAddr returns the listen address for the HTTP API.
func ServerAddr() string {
	return viper.GetString("server.addr")
}
