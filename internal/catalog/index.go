package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lepinkainen/gamedeals/internal/config"
	gderrors "github.com/lepinkainen/gamedeals/internal/errors"
)

// Lister fetches the full catalog listing from the primary storefront.
type Lister interface {
	AppList(ctx context.Context) ([]Entry, error)
}

// Index holds the in-memory catalog listing. The listing is loaded once per
// process and shared read-only by all concurrent resolve calls; concurrent
// callers during the initial load share a single in-flight fetch.
type Index struct {
	lister Lister
	group  singleflight.Group

	attempts   int
	retryDelay time.Duration

	mu      sync.RWMutex
	entries []Entry
}

// NewIndex creates an Index over the given lister. The listing is fetched
// lazily on first use.
func NewIndex(lister Lister) *Index {
	return &Index{
		lister:     lister,
		attempts:   config.CatalogLoadAttempts,
		retryDelay: config.CatalogRetryDelay,
	}
}

// Entries returns the catalog listing, loading it on first use. Load
// failures are not cached: a later call starts a fresh load attempt.
func (ix *Index) Entries(ctx context.Context) ([]Entry, error) {
	ix.mu.RLock()
	entries := ix.entries
	ix.mu.RUnlock()
	if entries != nil {
		return entries, nil
	}

	v, err, _ := ix.group.Do("applist", func() (any, error) {
		return ix.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

// Loaded reports whether the listing is resident in memory.
func (ix *Index) Loaded() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.entries != nil
}

func (ix *Index) load(ctx context.Context) ([]Entry, error) {
	var lastErr error
	for attempt := 1; attempt <= ix.attempts; attempt++ {
		entries, err := ix.lister.AppList(ctx)
		if err == nil {
			if entries == nil {
				entries = []Entry{}
			}
			slog.Info("Catalog listing loaded", "entries", len(entries), "attempt", attempt)
			ix.mu.Lock()
			ix.entries = entries
			ix.mu.Unlock()
			return entries, nil
		}

		lastErr = err
		slog.Warn("Catalog load failed", "attempt", attempt, "error", err)

		if attempt < ix.attempts {
			select {
			case <-time.After(ix.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, gderrors.NewCatalogUnavailableError(ix.attempts, lastErr)
}
