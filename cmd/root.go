// Package cmd implements the gamedeals command line interface.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/gamedeals/internal/config"
	gderrors "github.com/lepinkainen/gamedeals/internal/errors"
	"github.com/lepinkainen/gamedeals/internal/httpapi"
	"github.com/lepinkainen/gamedeals/internal/pricing"
	"github.com/lepinkainen/gamedeals/internal/tui"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

// CLI represents the complete command structure for the gamedeals application
type CLI struct {
	// Global flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 24h)" default:"24h"`
	HistoryDB   string `help:"Path to price history SQLite database file" default:"./gamedeals.db"`
	Timeout     string `help:"Overall deadline for one price lookup" default:"20s"`

	Price   PriceCmd   `cmd:"" help:"Look up the current price of a game across storefronts"`
	Search  SearchCmd  `cmd:"" help:"Search the Steam catalog and list candidate prices"`
	History HistoryCmd `cmd:"" help:"Show recorded price history for a game"`
	Serve   ServeCmd   `cmd:"" help:"Run the HTTP price API"`
}

// PriceCmd looks up one title on every storefront.
type PriceCmd struct {
	Title []string `arg:"" required:"" help:"Game title to look up"`
}

// SearchCmd resolves a title against the Steam catalog.
type SearchCmd struct {
	Title       []string `arg:"" required:"" help:"Game title to search for"`
	Limit       int      `short:"n" help:"Maximum number of candidates" default:"10"`
	Interactive bool     `short:"i" help:"Pick a candidate interactively and fetch its price"`
}

// HistoryCmd prints recorded observations for a title.
type HistoryCmd struct {
	Title    []string `arg:"" required:"" help:"Game title to show history for"`
	Platform string   `short:"p" help:"Only show observations from this platform"`
	Limit    int      `short:"n" help:"Maximum number of observations" default:"20"`
}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr string `help:"Listen address, e.g. :8080 (defaults to server.addr config)"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gamedeals"),
		kong.Description("Find and track game prices across storefronts."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		if gderrors.IsUserAbort(err) {
			slog.Info("Aborted", "reason", err.Error())
			return
		}
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("No config file found, using defaults")
		} else {
			slog.Error("Fatal error reading config file", "error", err)
			os.Exit(1)
		}
	}
}

// updateGlobalConfig applies CLI flags on top of file and env configuration.
// A flag left at its default defers to the config file, so only changed
// flags are written.
func updateGlobalConfig(cli *CLI) {
	setIfChanged("cache.dbfile", cli.CacheDBFile, "./cache.db")
	setIfChanged("cache.ttl", cli.CacheTTL, "24h")
	setIfChanged("history.dbfile", cli.HistoryDB, "./gamedeals.db")
	setIfChanged("aggregator.timeout", cli.Timeout, "20s")
}

func setIfChanged(key, value, flagDefault string) {
	if value != flagDefault {
		viper.Set(key, value)
	}
}

// Run methods for each command

func (p *PriceCmd) Run() error {
	a := newApp()
	defer a.close()

	title := strings.Join(p.Title, " ")
	quotes, err := a.aggregator.GetPrices(context.Background(), title)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		fmt.Printf("No prices found for %q\n", title)
		return nil
	}

	if a.history != nil {
		if err := a.history.SaveQuotes(context.Background(), title, quotes); err != nil {
			slog.Warn("Failed to record price history", "title", title, "error", err)
		}
	}

	fmt.Printf("Prices for %q:\n", title)
	for _, q := range quotes {
		fmt.Println(formatQuote(q))
	}
	return nil
}

func (s *SearchCmd) Run() error {
	a := newApp()
	defer a.close()

	title := strings.Join(s.Title, " ")
	res, err := a.resolver.Resolve(context.Background(), title, s.Limit)
	if err != nil {
		return err
	}
	if !res.Found() {
		fmt.Printf("No catalog match for %q\n", title)
		return nil
	}

	if !s.Interactive {
		fmt.Printf("Catalog matches for %q (%s):\n", title, res.Kind)
		for _, entry := range res.Candidates {
			fmt.Printf("  %8d  %s\n", entry.AppID, entry.Name)
		}
		return nil
	}

	selection, err := tui.SelectCandidate(title, res.Candidates)
	if err != nil {
		return err
	}
	switch selection.Action {
	case tui.ActionStopped:
		return gderrors.NewUserAbortError("selection aborted")
	case tui.ActionSelected:
	default:
		fmt.Println("No candidate selected")
		return nil
	}

	quote, err := a.steam.AppDetails(context.Background(), selection.Entry.AppID)
	if err != nil {
		return err
	}
	if quote == nil {
		fmt.Printf("%s has no obtainable price\n", selection.Entry.Name)
		return nil
	}
	fmt.Println(formatQuote(*quote))
	return nil
}

func (h *HistoryCmd) Run() error {
	a := newApp()
	defer a.close()

	if a.history == nil {
		return fmt.Errorf("price history database could not be opened")
	}

	title := strings.Join(h.Title, " ")
	records, err := a.history.History(context.Background(), title, h.Platform, h.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Printf("No recorded history for %q\n", title)
		return nil
	}

	fmt.Printf("Price history for %q:\n", title)
	for _, rec := range records {
		line := fmt.Sprintf("  %s  %-18s %8s %s",
			rec.RecordedAt.Format("2006-01-02 15:04"), rec.Platform,
			rec.Price.StringFixed(2), rec.Currency)
		if rec.IsSale {
			line += fmt.Sprintf("  (-%d%%)", rec.DiscountPercent)
		}
		fmt.Println(line)
	}

	lowest, err := a.history.LowestPrice(context.Background(), title, h.Platform)
	if err == nil && lowest != nil {
		fmt.Printf("Lowest recorded: %s %s on %s (%s)\n",
			lowest.Price.StringFixed(2), lowest.Currency, lowest.Platform,
			lowest.RecordedAt.Format("2006-01-02"))
	}
	return nil
}

func (s *ServeCmd) Run() error {
	a := newApp()
	defer a.close()

	addr := s.Addr
	if addr == "" {
		addr = config.ServerAddr()
	}

	server := httpapi.NewServer(a.aggregator, a.historyStore())
	return server.Run(addr)
}

// formatQuote renders one quote as a single aligned output line.
func formatQuote(q pricing.Quote) string {
	price := fmt.Sprintf("%s %s", q.Price.StringFixed(2), q.Currency)
	if q.IsSale && q.InitialPrice != nil {
		price = fmt.Sprintf("%s (-%d%% from %s)", price, q.DiscountPercent, q.InitialPrice.StringFixed(2))
	}
	line := fmt.Sprintf("  %-18s %s", q.Platform, price)
	if q.URL != "" {
		line += "  " + q.URL
	}
	return line
}

func initLogging() {
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
