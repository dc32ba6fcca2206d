// Package pricing holds the storefront-neutral price quote model shared by
// all platform adapters and the aggregator.
package pricing

import (
	"github.com/shopspring/decimal"
)

// Quote is a priced snapshot of one listing on one storefront.
// Prices are decimal to avoid float drift when converting minor units.
type Quote struct {
	Platform        string           `json:"platform"`
	Title           string           `json:"title"`
	Price           decimal.Decimal  `json:"price"`
	InitialPrice    *decimal.Decimal `json:"initial_price,omitempty"`
	Currency        string           `json:"currency"`
	DiscountPercent int              `json:"discount_percent"`
	IsSale          bool             `json:"is_sale"`
	URL             string           `json:"url"`
	Genres          []string         `json:"genres,omitempty"`
	Categories      []string         `json:"categories,omitempty"`
	Platforms       map[string]bool  `json:"platforms,omitempty"`
}

// FromCents converts an upstream minor-unit integer (e.g. Steam's
// price_overview.final) into a decimal major-unit price.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Result is an ordered collection of quotes, at most one per URL.
type Result []Quote

// Dedupe returns the quotes with duplicate URLs removed, keeping the first
// occurrence. Quotes without a URL are always kept.
func Dedupe(quotes []Quote) Result {
	seen := make(map[string]bool, len(quotes))
	out := make(Result, 0, len(quotes))
	for _, q := range quotes {
		if q.URL != "" {
			if seen[q.URL] {
				continue
			}
			seen[q.URL] = true
		}
		out = append(out, q)
	}
	return out
}
