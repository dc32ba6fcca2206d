package steam

import "github.com/lepinkainen/gamedeals/internal/catalog"

// appListResponse is the ISteamApps/GetAppList/v2 payload.
type appListResponse struct {
	AppList struct {
		Apps []catalog.Entry `json:"apps"`
	} `json:"applist"`
}

// storeSearchItem is one hit from the store search endpoint.
type storeSearchItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	TinyImage string `json:"tiny_image"`
}

// storeSearchResponse is the storesearch payload.
type storeSearchResponse struct {
	Total int               `json:"total"`
	Items []storeSearchItem `json:"items"`
}

// priceOverview carries minor-unit prices unless the _formatted variants
// are used.
type priceOverview struct {
	Currency         string `json:"currency"`
	Initial          int64  `json:"initial"`
	Final            int64  `json:"final"`
	DiscountPercent  int    `json:"discount_percent"`
	InitialFormatted string `json:"initial_formatted"`
	FinalFormatted   string `json:"final_formatted"`
}

type genre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type category struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// appDetailsData is the data object of a successful appdetails response.
// PriceOverview is absent for free and unreleased items.
type appDetailsData struct {
	Name          string          `json:"name"`
	IsFree        bool            `json:"is_free"`
	PriceOverview *priceOverview  `json:"price_overview"`
	Platforms     map[string]bool `json:"platforms"`
	Genres        []genre         `json:"genres"`
	Categories    []category      `json:"categories"`
}

// appDetailsEntry is one value of the appdetails response map, which is
// keyed by app ID.
type appDetailsEntry struct {
	Success bool            `json:"success"`
	Data    *appDetailsData `json:"data"`
}
