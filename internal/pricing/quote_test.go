package pricing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromCents(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{"regular price", 5999, "59.99"},
		{"free", 0, "0"},
		{"single cent", 1, "0.01"},
		{"round price", 6000, "60"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, FromCents(tt.cents).Equal(want),
				"FromCents(%d) = %s, want %s", tt.cents, FromCents(tt.cents), want)
		})
	}
}

func TestDedupe(t *testing.T) {
	quotes := []Quote{
		{Platform: "Steam", URL: "https://store.steampowered.com/app/730"},
		{Platform: "GOG", URL: "https://www.gog.com/game/csgo"},
		{Platform: "Steam", URL: "https://store.steampowered.com/app/730"},
		{Platform: "Epic Games", URL: ""},
		{Platform: "Xbox Store", URL: ""},
	}

	result := Dedupe(quotes)
	require.Len(t, result, 4)
	assert.Equal(t, "Steam", result[0].Platform)
	assert.Equal(t, "GOG", result[1].Platform)
	// Quotes without URLs are never collapsed together.
	assert.Equal(t, "Epic Games", result[2].Platform)
	assert.Equal(t, "Xbox Store", result[3].Platform)
}

func TestQuoteJSONOmitsEmptyInitialPrice(t *testing.T) {
	q := Quote{
		Platform: "Steam",
		Title:    "Test Game",
		Price:    FromCents(1999),
		Currency: "USD",
	}

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "initial_price")
}
