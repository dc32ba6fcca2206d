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

const xboxDefaultBaseURL = "https://xbox-store-api.com"

type xboxSearchResponse struct {
	Products []xboxProduct `json:"products"`
}

type xboxProduct struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Price    json.Number `json:"price"`
	IsOnSale bool        `json:"isOnSale"`
}

// Xbox searches the Xbox store search API.
type Xbox struct {
	httpClient *http.Client
	baseURL    string
}

// NewXbox creates the Xbox Store adapter.
func NewXbox(hc *http.Client, baseURL string) *Xbox {
	if hc == nil {
		hc = defaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = xboxDefaultBaseURL
	}
	return &Xbox{httpClient: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the platform name.
func (x *Xbox) Name() string { return "Xbox Store" }

// Search returns a quote for the first product matching the title.
func (x *Xbox) Search(ctx context.Context, title string) (*pricing.Quote, error) {
	searchURL := fmt.Sprintf("%s/api/games/search?q=%s&market=US",
		x.baseURL, url.QueryEscape(title))

	var resp xboxSearchResponse
	if err := getJSON(ctx, x.httpClient, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("xbox search: %w", err)
	}
	if len(resp.Products) == 0 {
		return nil, nil
	}

	product := resp.Products[0]
	price, err := decimal.NewFromString(product.Price.String())
	if err != nil {
		slog.Warn("Xbox price not parseable", "title", product.Title, "price", product.Price)
		return nil, nil
	}

	return &pricing.Quote{
		Platform: x.Name(),
		Title:    product.Title,
		Price:    price,
		Currency: "USD",
		IsSale:   product.IsOnSale,
		URL:      fmt.Sprintf("https://www.xbox.com/games/store/%s", product.ID),
	}, nil
}
