// Package steam implements the primary storefront: catalog listing, store
// search and per-app price details from the Steam APIs.
package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/gamedeals/internal/cache"
	"github.com/lepinkainen/gamedeals/internal/catalog"
	"github.com/lepinkainen/gamedeals/internal/config"
	gderrors "github.com/lepinkainen/gamedeals/internal/errors"
	"github.com/lepinkainen/gamedeals/internal/normalize"
	"github.com/lepinkainen/gamedeals/internal/pricing"
	"github.com/lepinkainen/gamedeals/internal/ratelimit"
)

const (
	defaultStoreBaseURL = "https://store.steampowered.com"
	defaultAPIBaseURL   = "https://api.steampowered.com"

	// appPageURL is the public store page, used as the quote URL and the
	// dedupe key. Not an API endpoint, so base URL overrides don't touch it.
	appPageURL = "https://store.steampowered.com/app/%d"
)

// Client talks to the Steam Web API and Store API.
type Client struct {
	httpClient *http.Client
	storeBase  string
	apiBase    string
	limiter    *ratelimit.Limiter
	cache      *cache.DB
	backoff    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs overrides the store and web API base URLs, mainly for tests.
func WithBaseURLs(storeBase, apiBase string) ClientOption {
	return func(c *Client) {
		c.storeBase = strings.TrimRight(storeBase, "/")
		c.apiBase = strings.TrimRight(apiBase, "/")
	}
}

// WithCache attaches a persistent cache for the catalog listing and search
// results. Price details are never cached.
func WithCache(db *cache.DB) ClientOption {
	return func(c *Client) { c.cache = db }
}

// WithRateLimitBackoff overrides the pause before the single 429 retry.
func WithRateLimitBackoff(d time.Duration) ClientOption {
	return func(c *Client) { c.backoff = d }
}

// NewClient creates a Steam client with the configured rate limit.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		storeBase:  defaultStoreBaseURL,
		apiBase:    defaultAPIBaseURL,
		limiter:    ratelimit.New("steam", config.SteamRateLimit()),
		backoff:    config.RateLimitBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AppList fetches the full catalog listing (tens of thousands of entries).
// The result is cached persistently when a cache is attached; the in-memory
// single-flight semantics live in catalog.Index.
func (c *Client) AppList(ctx context.Context) ([]catalog.Entry, error) {
	type cachedList struct {
		Entries []catalog.Entry `json:"entries"`
	}

	cached, _, err := cache.GetOrFetch(c.cache, cache.AppListTable, "applist",
		func() (*cachedList, error) {
			entries, fetchErr := c.fetchAppList(ctx)
			if fetchErr != nil {
				return nil, fetchErr
			}
			return &cachedList{Entries: entries}, nil
		},
		func(list *cachedList) bool {
			return list != nil && len(list.Entries) > 0
		})
	if err != nil {
		return nil, err
	}
	return cached.Entries, nil
}

func (c *Client) fetchAppList(ctx context.Context) ([]catalog.Entry, error) {
	listURL := c.apiBase + "/ISteamApps/GetAppList/v2/?format=json"

	body, err := c.get(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch app list: %w", err)
	}

	var resp appListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse app list response: %w", err)
	}
	return resp.AppList.Apps, nil
}

// StoreSearch issues a free-text search against the store search endpoint.
// Non-empty result sets are cached under the normalized query.
func (c *Client) StoreSearch(ctx context.Context, term string) ([]catalog.Entry, error) {
	type cachedSearch struct {
		Hits []catalog.Entry `json:"hits"`
	}

	cacheKey := strings.ReplaceAll(normalize.Title(term), " ", "_")
	cached, _, err := cache.GetOrFetch(c.cache, cache.StoreSearchTable, cacheKey,
		func() (*cachedSearch, error) {
			hits, fetchErr := c.fetchStoreSearch(ctx, term)
			if fetchErr != nil {
				return nil, fetchErr
			}
			return &cachedSearch{Hits: hits}, nil
		},
		func(res *cachedSearch) bool {
			// Only cache searches that found something.
			return res != nil && len(res.Hits) > 0
		})
	if err != nil {
		return nil, err
	}
	return cached.Hits, nil
}

func (c *Client) fetchStoreSearch(ctx context.Context, term string) ([]catalog.Entry, error) {
	searchURL := fmt.Sprintf("%s/api/storesearch/?term=%s&l=english&cc=US",
		c.storeBase, url.QueryEscape(term))

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch store search: %w", err)
	}

	var resp storeSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse store search response: %w", err)
	}

	hits := make([]catalog.Entry, len(resp.Items))
	for i, item := range resp.Items {
		hits[i] = catalog.Entry{AppID: item.ID, Name: item.Name}
	}
	return hits, nil
}

// AppDetails fetches the price quote for one app ID. A nil quote with a nil
// error means the item has no obtainable price (missing, unreleased,
// delisted, or the endpoint misbehaved); only context cancellation is
// surfaced as an error.
func (c *Client) AppDetails(ctx context.Context, appID int) (*pricing.Quote, error) {
	detailsURL := fmt.Sprintf("%s/api/appdetails?appids=%d&cc=us&l=en", c.storeBase, appID)

	body, err := c.fetchDetails(ctx, detailsURL)
	var rlErr *gderrors.RateLimitError
	if errors.As(err, &rlErr) {
		slog.Warn("Rate limit hit, backing off before retry", "appid", appID, "backoff", rlErr.RetryAfter)
		select {
		case <-time.After(rlErr.RetryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		body, err = c.fetchDetails(ctx, detailsURL)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// A second rate limit or any upstream failure means no quote, never
		// a surfaced error.
		slog.Warn("App details request failed", "appid", appID, "error", err)
		return nil, nil
	}

	return parseAppDetails(appID, body), nil
}

// fetchDetails performs one appdetails request. An HTTP 429 is reported as a
// RateLimitError carrying the configured backoff so the caller can decide
// whether to retry.
func (c *Client) fetchDetails(ctx context.Context, detailsURL string) ([]byte, error) {
	resp, err := c.getResponse(ctx, detailsURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		drain(resp)
		return nil, gderrors.NewRateLimitErrorWithRetry("app details rate limited", c.backoff)
	}

	body, err := readAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read app details response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// parseAppDetails maps an appdetails payload to a quote. Malformed or
// incomplete payloads yield nil.
func parseAppDetails(appID int, body []byte) *pricing.Quote {
	var result map[string]appDetailsEntry
	if err := json.Unmarshal(body, &result); err != nil {
		slog.Warn("Failed to parse app details response", "appid", appID, "error", err)
		return nil
	}

	entry, ok := result[strconv.Itoa(appID)]
	if !ok || !entry.Success || entry.Data == nil {
		return nil
	}
	data := entry.Data

	quote := &pricing.Quote{
		Platform:   PlatformName,
		Title:      data.Name,
		Currency:   "USD",
		URL:        fmt.Sprintf(appPageURL, appID),
		Genres:     genreDescriptions(data.Genres),
		Platforms:  data.Platforms,
		Categories: categoryDescriptions(data.Categories),
	}

	switch {
	case data.PriceOverview != nil:
		po := data.PriceOverview
		quote.Price = pricing.FromCents(po.Final)
		if po.Currency != "" {
			quote.Currency = po.Currency
		}
		if po.DiscountPercent > 0 {
			initial := pricing.FromCents(po.Initial)
			quote.InitialPrice = &initial
			quote.DiscountPercent = po.DiscountPercent
			quote.IsSale = true
		}
	case data.IsFree:
		quote.Price = pricing.FromCents(0)
	default:
		// Unpriced and not free-to-play: nothing to quote.
		return nil
	}
	return quote
}

func genreDescriptions(genres []genre) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		out = append(out, g.Description)
	}
	return out
}

func categoryDescriptions(categories []category) []string {
	out := make([]string, 0, len(categories))
	for _, cat := range categories {
		out = append(out, cat.Description)
	}
	return out
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	resp, err := c.getResponse(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	body, err := readAll(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *Client) getResponse(ctx context.Context, reqURL string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.httpClient.Do(req)
}

func readAll(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
