package cmd

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/gamedeals/internal/config"
	"github.com/lepinkainen/gamedeals/internal/pricing"
)

func resetCmdState(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	config.SetDefaults()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"gamedeals"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("gamedeals"),
		kong.Description("Find and track game prices across storefronts."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)
	return cli, ctx
}

func TestParsePriceCommand(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "price", "the", "witcher", "3")
	assert.Equal(t, "price <title>", ctx.Command())
	assert.Equal(t, []string{"the", "witcher", "3"}, cli.Price.Title)
}

func TestParseSearchFlags(t *testing.T) {
	resetCmdState(t)

	cli, ctx := parseCLI(t, "search", "--limit", "5", "--interactive", "hades")
	assert.Equal(t, "search <title>", ctx.Command())
	assert.Equal(t, 5, cli.Search.Limit)
	assert.True(t, cli.Search.Interactive)
}

func TestParseSearchDefaults(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search", "hades")
	assert.Equal(t, 10, cli.Search.Limit)
	assert.False(t, cli.Search.Interactive)
}

func TestParseHistoryFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "history", "--platform", "Steam", "-n", "5", "hades")
	assert.Equal(t, "Steam", cli.History.Platform)
	assert.Equal(t, 5, cli.History.Limit)
}

func TestUpdateGlobalConfig(t *testing.T) {
	resetCmdState(t)

	cli := &CLI{
		CacheDBFile: "/tmp/cache.db",
		CacheTTL:    "12h",
		HistoryDB:   "/tmp/history.db",
		Timeout:     "5s",
	}
	updateGlobalConfig(cli)

	assert.Equal(t, "/tmp/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "12h", viper.GetString("cache.ttl"))
	assert.Equal(t, "/tmp/history.db", viper.GetString("history.dbfile"))
	assert.Equal(t, "5s", viper.GetString("aggregator.timeout"))
}

func TestUnchangedFlagsDeferToConfigFile(t *testing.T) {
	resetCmdState(t)

	// Values as if read from config.yaml.
	viper.Set("cache.dbfile", "/data/cache.db")
	viper.Set("aggregator.timeout", "45s")

	cli := &CLI{
		CacheDBFile: "./cache.db",
		CacheTTL:    "24h",
		HistoryDB:   "/tmp/history.db",
		Timeout:     "20s",
	}
	updateGlobalConfig(cli)

	// Flags at their defaults leave config file values alone.
	assert.Equal(t, "/data/cache.db", viper.GetString("cache.dbfile"))
	assert.Equal(t, "45s", viper.GetString("aggregator.timeout"))
	// A changed flag still wins.
	assert.Equal(t, "/tmp/history.db", viper.GetString("history.dbfile"))
}

func TestFormatQuote(t *testing.T) {
	price, err := decimal.NewFromString("9.99")
	require.NoError(t, err)
	initial, err := decimal.NewFromString("39.99")
	require.NoError(t, err)

	plain := formatQuote(pricing.Quote{
		Platform: "GOG", Price: price, Currency: "USD",
		URL: "https://www.gog.com/game/example",
	})
	assert.Contains(t, plain, "GOG")
	assert.Contains(t, plain, "9.99 USD")
	assert.NotContains(t, plain, "from")

	sale := formatQuote(pricing.Quote{
		Platform: "Steam", Price: price, InitialPrice: &initial,
		Currency: "EUR", DiscountPercent: 75, IsSale: true,
	})
	assert.Contains(t, sale, "-75% from 39.99")
}
