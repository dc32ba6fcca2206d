package stores

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lepinkainen/gamedeals/internal/pricing"
)

const gogDefaultBaseURL = "https://www.gog.com"

// gogSearchResponse is the filtered catalog search payload.
type gogSearchResponse struct {
	Products []gogProduct `json:"products"`
}

type gogProduct struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Price gogPrice `json:"price"`
}

// gogPrice reports amounts as decimal strings.
type gogPrice struct {
	Amount       string `json:"amount"`
	BaseAmount   string `json:"baseAmount"`
	Currency     string `json:"symbol"`
	IsDiscounted bool   `json:"isDiscounted"`
}

// GOG searches the GOG filtered-catalog endpoint.
type GOG struct {
	httpClient *http.Client
	baseURL    string
}

// NewGOG creates the GOG adapter. baseURL overrides are for tests; pass ""
// for the live endpoint.
func NewGOG(hc *http.Client, baseURL string) *GOG {
	if hc == nil {
		hc = defaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = gogDefaultBaseURL
	}
	return &GOG{httpClient: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the platform name.
func (g *GOG) Name() string { return "GOG" }

// Search returns a quote for the first product matching the title, or nil
// when nothing matched.
func (g *GOG) Search(ctx context.Context, title string) (*pricing.Quote, error) {
	searchURL := fmt.Sprintf("%s/games/ajax/filtered?mediaType=game&search=%s",
		g.baseURL, url.QueryEscape(title))

	var resp gogSearchResponse
	if err := getJSON(ctx, g.httpClient, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("gog search: %w", err)
	}
	if len(resp.Products) == 0 {
		return nil, nil
	}

	product := resp.Products[0]
	price, err := decimal.NewFromString(product.Price.Amount)
	if err != nil {
		slog.Warn("GOG price not parseable", "title", product.Title, "amount", product.Price.Amount)
		return nil, nil
	}

	currency := product.Price.Currency
	if currency == "" {
		currency = "USD"
	}

	quote := &pricing.Quote{
		Platform: g.Name(),
		Title:    product.Title,
		Price:    price,
		Currency: currency,
		IsSale:   product.Price.IsDiscounted,
		URL:      gogDefaultBaseURL + product.URL,
	}
	if product.Price.IsDiscounted {
		if base, err := decimal.NewFromString(product.Price.BaseAmount); err == nil {
			quote.InitialPrice = &base
			if base.IsPositive() {
				quote.DiscountPercent = int(base.Sub(price).Div(base).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
			}
		}
	}
	return quote, nil
}
