// Package httpapi exposes the aggregator over a small JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lepinkainen/gamedeals/internal/pricing"
	"github.com/lepinkainen/gamedeals/internal/pricestore"
)

// PriceFinder is the aggregator surface the API depends on.
type PriceFinder interface {
	GetPrices(ctx context.Context, title string) (pricing.Result, error)
	GetMultiple(ctx context.Context, title string, limit int) (map[string]pricing.Result, error)
}

// HistoryStore persists and queries past observations. Optional.
type HistoryStore interface {
	SaveQuotes(ctx context.Context, title string, quotes []pricing.Quote) error
	History(ctx context.Context, title, platform string, limit int) ([]pricestore.Record, error)
}

// Server wires the HTTP routes to the aggregator and history store.
type Server struct {
	finder  PriceFinder
	history HistoryStore
	router  *gin.Engine
}

// NewServer builds the router. history may be nil, which disables the
// history endpoint and the best-effort persistence of lookups.
func NewServer(finder PriceFinder, history HistoryStore) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{finder: finder, history: history, router: router}

	router.GET("/healthz", s.handleHealth)
	api := router.Group("/api")
	api.GET("/prices", s.handlePrices)
	api.GET("/prices/multiple", s.handleMultiple)
	api.GET("/history", s.handleHistory)

	return s
}

// Router returns the handler for serving or testing.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	slog.Info("Starting HTTP API", "addr", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handlePrices(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}

	quotes, err := s.finder.GetPrices(c.Request.Context(), title)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	s.saveHistory(c.Request.Context(), title, quotes)

	c.JSON(http.StatusOK, gin.H{
		"title":  title,
		"count":  len(quotes),
		"prices": quotes,
	})
}

func (s *Server) handleMultiple(c *gin.Context) {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}
	limit := intQuery(c, "limit", 10)

	byPlatform, err := s.finder.GetMultiple(c.Request.Context(), title, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":     title,
		"platforms": byPlatform,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "price history is not enabled"})
		return
	}

	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}
	platform := strings.TrimSpace(c.Query("platform"))
	limit := intQuery(c, "limit", 20)

	records, err := s.history.History(c.Request.Context(), title, platform, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []pricestore.Record{}
	}

	c.JSON(http.StatusOK, gin.H{
		"title":   title,
		"count":   len(records),
		"history": records,
	})
}

// saveHistory records the lookup without failing the request.
func (s *Server) saveHistory(ctx context.Context, title string, quotes pricing.Result) {
	if s.history == nil || len(quotes) == 0 {
		return
	}
	if err := s.history.SaveQuotes(ctx, title, quotes); err != nil {
		slog.Warn("Failed to save price history", "title", title, "error", err)
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
