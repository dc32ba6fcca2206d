package steam

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lepinkainen/gamedeals/internal/catalog"
	"github.com/lepinkainen/gamedeals/internal/config"
	"github.com/lepinkainen/gamedeals/internal/pricing"
)

// PlatformName is the adapter name reported in quotes.
const PlatformName = "Steam"

// Adapter chains the resolver and the detail client into the aggregator's
// search contract. It is the only adapter with bulk search support.
type Adapter struct {
	client          *Client
	resolver        *catalog.Resolver
	bulkConcurrency int
}

// NewAdapter creates the primary storefront adapter.
func NewAdapter(client *Client, resolver *catalog.Resolver) *Adapter {
	return &Adapter{
		client:          client,
		resolver:        resolver,
		bulkConcurrency: config.BulkConcurrency(),
	}
}

// Name returns the platform name.
func (a *Adapter) Name() string {
	return PlatformName
}

// Search resolves the title and fetches the quote for the best candidate.
// A candidate without an obtainable price terminates the request; it does
// not fall back to the next resolution tier.
func (a *Adapter) Search(ctx context.Context, title string) (*pricing.Quote, error) {
	res, err := a.resolver.Resolve(ctx, title, 1)
	if err != nil {
		return nil, err
	}
	if !res.Found() {
		slog.Debug("No catalog match", "title", title)
		return nil, nil
	}

	slog.Debug("Resolved title", "title", title, "kind", res.Kind, "appid", res.Candidates[0].AppID)
	return a.client.AppDetails(ctx, res.Candidates[0].AppID)
}

// SearchMany resolves up to limit candidates and fetches their quotes with
// bounded concurrency, preserving candidate order in the result.
func (a *Adapter) SearchMany(ctx context.Context, title string, limit int) ([]pricing.Quote, error) {
	res, err := a.resolver.Resolve(ctx, title, limit)
	if err != nil {
		return nil, err
	}
	if !res.Found() {
		return nil, nil
	}

	quotes := make([]*pricing.Quote, len(res.Candidates))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.bulkConcurrency)
	for i, candidate := range res.Candidates {
		g.Go(func() error {
			quote, err := a.client.AppDetails(ctx, candidate.AppID)
			if err != nil {
				return err
			}
			mu.Lock()
			quotes[i] = quote
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]pricing.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q != nil {
			out = append(out, *q)
		}
	}
	return out, nil
}
