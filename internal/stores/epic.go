package stores

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lepinkainen/gamedeals/internal/pricing"
)

const (
	epicDefaultBaseURL = "https://store.epicgames.com"

	// epicSearchQuery is the storefront GraphQL search, trimmed to the
	// fields the quote needs.
	epicSearchQuery = `
query searchStoreQuery($searchString: String!) {
    Catalog {
        searchStore(keywords: $searchString) {
            elements {
                title
                price {
                    totalPrice {
                        discountPrice
                        originalPrice
                        currencyCode
                    }
                }
                catalogNs {
                    mappings(pageType: "productHome") {
                        pageSlug
                    }
                }
            }
        }
    }
}`
)

type epicSearchResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []epicElement `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type epicElement struct {
	Title string `json:"title"`
	Price struct {
		TotalPrice struct {
			// Minor units.
			DiscountPrice int64  `json:"discountPrice"`
			OriginalPrice int64  `json:"originalPrice"`
			CurrencyCode  string `json:"currencyCode"`
		} `json:"totalPrice"`
	} `json:"price"`
	CatalogNs struct {
		Mappings []struct {
			PageSlug string `json:"pageSlug"`
		} `json:"mappings"`
	} `json:"catalogNs"`
}

// Epic searches the Epic Games Store GraphQL endpoint.
type Epic struct {
	httpClient *http.Client
	baseURL    string
}

// NewEpic creates the Epic Games Store adapter.
func NewEpic(hc *http.Client, baseURL string) *Epic {
	if hc == nil {
		hc = defaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = epicDefaultBaseURL
	}
	return &Epic{httpClient: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the platform name.
func (e *Epic) Name() string { return "Epic Games" }

// Search returns a quote for the first catalog element matching the title.
func (e *Epic) Search(ctx context.Context, title string) (*pricing.Quote, error) {
	payload := map[string]any{
		"query":     epicSearchQuery,
		"variables": map[string]string{"searchString": title},
	}

	var resp epicSearchResponse
	if err := postJSON(ctx, e.httpClient, e.baseURL+"/graphql", payload, &resp); err != nil {
		return nil, fmt.Errorf("epic search: %w", err)
	}

	elements := resp.Data.Catalog.SearchStore.Elements
	if len(elements) == 0 {
		return nil, nil
	}
	el := elements[0]
	total := el.Price.TotalPrice

	currency := total.CurrencyCode
	if currency == "" {
		currency = "USD"
	}

	quote := &pricing.Quote{
		Platform: e.Name(),
		Title:    el.Title,
		Price:    pricing.FromCents(total.DiscountPrice),
		Currency: currency,
		URL:      e.productURL(el),
	}
	if total.OriginalPrice > total.DiscountPrice {
		initial := pricing.FromCents(total.OriginalPrice)
		quote.InitialPrice = &initial
		quote.IsSale = true
		quote.DiscountPercent = int((total.OriginalPrice - total.DiscountPrice) * 100 / total.OriginalPrice)
	}
	return quote, nil
}

func (e *Epic) productURL(el epicElement) string {
	if len(el.CatalogNs.Mappings) > 0 && el.CatalogNs.Mappings[0].PageSlug != "" {
		return fmt.Sprintf("%s/en-US/p/%s", epicDefaultBaseURL, el.CatalogNs.Mappings[0].PageSlug)
	}
	return fmt.Sprintf("%s/search/%s", epicDefaultBaseURL, url.PathEscape(el.Title))
}
