package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	assert.Equal(t, "./cache.db", CacheDBFile())
	assert.Equal(t, 24*time.Hour, CacheTTL())
	assert.Equal(t, 20*time.Second, AggregatorTimeout())
	assert.Equal(t, 4, BulkConcurrency())
	assert.Equal(t, 10, ResolverLimit())
	assert.Equal(t, 3.0, SteamRateLimit())
	assert.Equal(t, ":8080", ServerAddr())
}

func TestInvalidDurationsFallBack(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("cache.ttl", "not-a-duration")
	viper.Set("aggregator.timeout", "-5s")

	assert.Equal(t, 24*time.Hour, CacheTTL())
	assert.Equal(t, 20*time.Second, AggregatorTimeout())
}

func TestOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("aggregator.timeout", "5s")
	viper.Set("aggregator.bulk_concurrency", 8)
	viper.Set("resolver.limit", 3)

	assert.Equal(t, 5*time.Second, AggregatorTimeout())
	assert.Equal(t, 8, BulkConcurrency())
	assert.Equal(t, 3, ResolverLimit())
}
