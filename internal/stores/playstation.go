package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lepinkainen/gamedeals/internal/pricing"
)

const playStationDefaultBaseURL = "https://store.playstation.com"

type psnSearchResponse struct {
	Games []psnGame `json:"games"`
}

type psnGame struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Price psnPrice `json:"price"`
}

// psnPrice uses json.Number so major-unit amounts survive as decimals.
type psnPrice struct {
	BasePrice       json.Number `json:"basePrice"`
	DiscountedPrice json.Number `json:"discountedPrice"`
}

// PlayStation searches the PlayStation Store games API.
type PlayStation struct {
	httpClient *http.Client
	baseURL    string
}

// NewPlayStation creates the PlayStation Store adapter.
func NewPlayStation(hc *http.Client, baseURL string) *PlayStation {
	if hc == nil {
		hc = defaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = playStationDefaultBaseURL
	}
	return &PlayStation{httpClient: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the platform name.
func (p *PlayStation) Name() string { return "PlayStation Store" }

// Search returns a quote for the first game matching the title.
func (p *PlayStation) Search(ctx context.Context, title string) (*pricing.Quote, error) {
	searchURL := fmt.Sprintf("%s/api/v1/search/games?q=%s&region=US",
		p.baseURL, url.QueryEscape(title))

	var resp psnSearchResponse
	if err := getJSON(ctx, p.httpClient, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("playstation search: %w", err)
	}
	if len(resp.Games) == 0 {
		return nil, nil
	}

	game := resp.Games[0]
	base, err := decimal.NewFromString(game.Price.BasePrice.String())
	if err != nil {
		slog.Warn("PlayStation price not parseable", "title", game.Name, "price", game.Price.BasePrice)
		return nil, nil
	}

	quote := &pricing.Quote{
		Platform: p.Name(),
		Title:    game.Name,
		Price:    base,
		Currency: "USD",
		URL:      fmt.Sprintf("%s/product/%s", playStationDefaultBaseURL, game.ID),
	}
	if discounted, err := decimal.NewFromString(game.Price.DiscountedPrice.String()); err == nil && discounted.LessThan(base) {
		quote.Price = discounted
		quote.InitialPrice = &base
		quote.IsSale = true
		if base.IsPositive() {
			quote.DiscountPercent = int(base.Sub(discounted).Div(base).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		}
	}
	return quote, nil
}
