// Package aggregator fans a title query out to every configured storefront
// adapter and merges whatever comes back before the shared deadline.
package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lepinkainen/gamedeals/internal/pricing"
)

// Adapter is one storefront capable of quoting a single title.
type Adapter interface {
	Name() string
	Search(ctx context.Context, title string) (*pricing.Quote, error)
}

// BulkAdapter can additionally quote several catalog candidates for one query.
type BulkAdapter interface {
	Adapter
	SearchMany(ctx context.Context, title string, limit int) ([]pricing.Quote, error)
}

// Aggregator runs adapters concurrently under one deadline. A slow or failing
// storefront never blocks the others; its result is simply absent.
type Aggregator struct {
	timeout  time.Duration
	adapters []Adapter
}

// New creates an aggregator over the given adapters. A zero timeout falls
// back to 20 seconds.
func New(timeout time.Duration, adapters ...Adapter) *Aggregator {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Aggregator{timeout: timeout, adapters: adapters}
}

type searchResult struct {
	name  string
	quote *pricing.Quote
	err   error
}

// GetPrices queries every adapter for the title and returns the merged,
// URL-deduplicated quotes. Adapter errors are logged and skipped. An error is
// returned only when the deadline expired and nothing at all came back.
func (a *Aggregator) GetPrices(ctx context.Context, title string) (pricing.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	results := make(chan searchResult, len(a.adapters))
	for _, adapter := range a.adapters {
		go func(adapter Adapter) {
			quote, err := adapter.Search(ctx, title)
			results <- searchResult{name: adapter.Name(), quote: quote, err: err}
		}(adapter)
	}

	var quotes []pricing.Quote
	remaining := len(a.adapters)
	for remaining > 0 {
		select {
		case r := <-results:
			remaining--
			switch {
			case r.err != nil:
				slog.Warn("storefront search failed", "platform", r.name, "title", title, "error", r.err)
			case r.quote != nil:
				quotes = append(quotes, *r.quote)
			default:
				slog.Debug("storefront had no listing", "platform", r.name, "title", title)
			}
		case <-ctx.Done():
			// Stragglers keep their buffered slot and are abandoned.
			slog.Warn("price lookup deadline hit", "title", title, "pending", remaining)
			remaining = 0
		}
	}

	if len(quotes) == 0 && ctx.Err() != nil {
		return nil, fmt.Errorf("price lookup timed out after %s: %w", a.timeout, ctx.Err())
	}
	return pricing.Dedupe(quotes), nil
}

// GetMultiple returns up to limit quotes per platform for the query. Only
// adapters with bulk support contribute candidates; the rest report an empty
// list so callers can tell "no support" from "not queried".
func (a *Aggregator) GetMultiple(ctx context.Context, title string, limit int) (map[string]pricing.Result, error) {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	out := make(map[string]pricing.Result, len(a.adapters))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, adapter := range a.adapters {
		bulk, ok := adapter.(BulkAdapter)
		if !ok {
			out[adapter.Name()] = pricing.Result{}
			continue
		}

		wg.Add(1)
		go func(bulk BulkAdapter) {
			defer wg.Done()
			quotes, err := bulk.SearchMany(ctx, title, limit)
			if err != nil {
				slog.Warn("bulk storefront search failed", "platform", bulk.Name(), "title", title, "error", err)
				quotes = nil
			}
			mu.Lock()
			out[bulk.Name()] = pricing.Dedupe(quotes)
			mu.Unlock()
		}(bulk)
	}

	wg.Wait()
	return out, nil
}
