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

const nintendoDefaultBaseURL = "https://api.ec.nintendo.com"

type nintendoSearchResponse struct {
	Games []nintendoGame `json:"games"`
}

type nintendoGame struct {
	ID    string        `json:"id"`
	Title string        `json:"title"`
	Price nintendoPrice `json:"price"`
}

type nintendoPrice struct {
	RegularPrice  json.Number `json:"regular_price"`
	DiscountPrice json.Number `json:"discount_price"`
}

// Nintendo searches the Nintendo eShop API.
type Nintendo struct {
	httpClient *http.Client
	baseURL    string
}

// NewNintendo creates the Nintendo eShop adapter.
func NewNintendo(hc *http.Client, baseURL string) *Nintendo {
	if hc == nil {
		hc = defaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = nintendoDefaultBaseURL
	}
	return &Nintendo{httpClient: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the platform name.
func (n *Nintendo) Name() string { return "Nintendo eShop" }

// Search returns a quote for the first game matching the title.
func (n *Nintendo) Search(ctx context.Context, title string) (*pricing.Quote, error) {
	searchURL := fmt.Sprintf("%s/v1/search?q=%s&country=US",
		n.baseURL, url.QueryEscape(title))

	var resp nintendoSearchResponse
	if err := getJSON(ctx, n.httpClient, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("nintendo search: %w", err)
	}
	if len(resp.Games) == 0 {
		return nil, nil
	}

	game := resp.Games[0]
	regular, err := decimal.NewFromString(game.Price.RegularPrice.String())
	if err != nil {
		slog.Warn("Nintendo price not parseable", "title", game.Title, "price", game.Price.RegularPrice)
		return nil, nil
	}

	quote := &pricing.Quote{
		Platform: n.Name(),
		Title:    game.Title,
		Price:    regular,
		Currency: "USD",
		URL:      fmt.Sprintf("https://www.nintendo.com/store/products/%s", game.ID),
	}
	if discount, err := decimal.NewFromString(game.Price.DiscountPrice.String()); err == nil && discount.IsPositive() && discount.LessThan(regular) {
		quote.Price = discount
		quote.InitialPrice = &regular
		quote.IsSale = true
		if regular.IsPositive() {
			quote.DiscountPercent = int(regular.Sub(discount).Div(regular).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
		}
	}
	return quote, nil
}
