package cmd

import (
	"log/slog"

	"github.com/lepinkainen/gamedeals/internal/aggregator"
	"github.com/lepinkainen/gamedeals/internal/cache"
	"github.com/lepinkainen/gamedeals/internal/catalog"
	"github.com/lepinkainen/gamedeals/internal/config"
	"github.com/lepinkainen/gamedeals/internal/httpapi"
	"github.com/lepinkainen/gamedeals/internal/pricestore"
	"github.com/lepinkainen/gamedeals/internal/steam"
	"github.com/lepinkainen/gamedeals/internal/stores"
)

// app holds the wired dependency graph for one command invocation.
type app struct {
	cache      *cache.DB
	history    *pricestore.Store
	steam      *steam.Client
	resolver   *catalog.Resolver
	aggregator *aggregator.Aggregator
}

// newApp builds the full dependency graph from the current configuration.
// The cache and history databases are optional: failing to open either
// degrades the feature instead of failing the command.
func newApp() *app {
	cacheDB, err := cache.Open(config.CacheDBFile(), config.CacheTTL())
	if err != nil {
		slog.Warn("Cache unavailable, continuing without it", "dbfile", config.CacheDBFile(), "error", err)
		cacheDB = nil
	}

	client := steam.NewClient(steam.WithCache(cacheDB))
	index := catalog.NewIndex(client)

	aliases := catalog.DefaultAliases()
	if path := config.AliasFile(); path != "" {
		extra, err := catalog.LoadAliasFile(path)
		if err != nil {
			slog.Warn("Failed to load alias file, using defaults", "path", path, "error", err)
		} else {
			aliases.Merge(extra)
		}
	}

	resolver := catalog.NewResolver(index, aliases, client)

	agg := aggregator.New(config.AggregatorTimeout(),
		steam.NewAdapter(client, resolver),
		stores.NewGOG(nil, ""),
		stores.NewEpic(nil, ""),
		stores.NewPlayStation(nil, ""),
		stores.NewXbox(nil, ""),
		stores.NewNintendo(nil, ""),
	)

	history, err := pricestore.Open(config.HistoryDBFile())
	if err != nil {
		slog.Warn("Price history unavailable, lookups will not be recorded", "dbfile", config.HistoryDBFile(), "error", err)
		history = nil
	}

	return &app{
		cache:      cacheDB,
		history:    history,
		steam:      client,
		resolver:   resolver,
		aggregator: agg,
	}
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			slog.Warn("Failed to close cache", "error", err)
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Warn("Failed to close history database", "error", err)
		}
	}
}

// historyStore adapts the optional concrete store to the API's interface
// without producing a non-nil interface around a nil pointer.
func (a *app) historyStore() httpapi.HistoryStore {
	if a.history == nil {
		return nil
	}
	return a.history
}
