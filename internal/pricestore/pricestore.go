// Package pricestore persists observed price quotes so lookups build a
// history over time. Amounts are stored as decimal strings, never floats.
package pricestore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/lepinkainen/gamedeals/internal/pricing"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL,
	title TEXT NOT NULL,
	platform TEXT NOT NULL,
	price TEXT NOT NULL,
	initial_price TEXT,
	currency TEXT NOT NULL,
	discount_percent INTEGER NOT NULL DEFAULT 0,
	is_sale INTEGER NOT NULL DEFAULT 0,
	url TEXT NOT NULL DEFAULT '',
	recorded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_history_slug ON price_history(slug, recorded_at);
CREATE INDEX IF NOT EXISTS idx_history_slug_platform ON price_history(slug, platform, recorded_at);
`

// Record is one stored price observation.
type Record struct {
	ID              int64            `json:"id"`
	Slug            string           `json:"slug"`
	Title           string           `json:"title"`
	Platform        string           `json:"platform"`
	Price           decimal.Decimal  `json:"price"`
	InitialPrice    *decimal.Decimal `json:"initial_price,omitempty"`
	Currency        string           `json:"currency"`
	DiscountPercent int              `json:"discount_percent"`
	IsSale          bool             `json:"is_sale"`
	URL             string           `json:"url"`
	RecordedAt      time.Time        `json:"recorded_at"`
}

// Store manages the SQLite price history database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Slug is the canonical history key for a queried title.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-")
}

// SaveQuotes records one observation per quote under the queried title.
func (s *Store) SaveQuotes(ctx context.Context, title string, quotes []pricing.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_history (slug, title, platform, price, initial_price, currency, discount_percent, is_sale, url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	slug := Slug(title)
	for _, q := range quotes {
		var initial sql.NullString
		if q.InitialPrice != nil {
			initial = sql.NullString{String: q.InitialPrice.String(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, slug, q.Title, q.Platform, q.Price.String(),
			initial, q.Currency, q.DiscountPercent, q.IsSale, q.URL); err != nil {
			return fmt.Errorf("failed to insert price record: %w", err)
		}
	}
	return tx.Commit()
}

// History returns the most recent observations for a title, newest first.
// An empty platform matches all platforms.
func (s *Store) History(ctx context.Context, title, platform string, limit int) ([]Record, error) {
	if limit < 1 {
		limit = 20
	}

	query := `
		SELECT id, slug, title, platform, price, initial_price, currency, discount_percent, is_sale, url, recorded_at
		FROM price_history
		WHERE slug = ?
	`
	args := []any{Slug(title)}
	if platform != "" {
		query += " AND platform = ?"
		args = append(args, platform)
	}
	query += " ORDER BY recorded_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LowestPrice returns the cheapest recorded observation for a title, or nil
// when no history exists. An empty platform matches all platforms.
func (s *Store) LowestPrice(ctx context.Context, title, platform string) (*Record, error) {
	query := `
		SELECT id, slug, title, platform, price, initial_price, currency, discount_percent, is_sale, url, recorded_at
		FROM price_history
		WHERE slug = ?
	`
	args := []any{Slug(title)}
	if platform != "" {
		query += " AND platform = ?"
		args = append(args, platform)
	}
	// Prices are stored as decimal text; CAST keeps the comparison numeric.
	query += " ORDER BY CAST(price AS REAL) ASC, recorded_at DESC LIMIT 1"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query lowest price: %w", err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return nil, rows.Err()
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var rec Record
	var price string
	var initial sql.NullString
	if err := rows.Scan(&rec.ID, &rec.Slug, &rec.Title, &rec.Platform, &price,
		&initial, &rec.Currency, &rec.DiscountPercent, &rec.IsSale, &rec.URL, &rec.RecordedAt); err != nil {
		return Record{}, fmt.Errorf("failed to scan price record: %w", err)
	}

	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return Record{}, fmt.Errorf("corrupt price in history row %d: %w", rec.ID, err)
	}
	rec.Price = parsed

	if initial.Valid {
		ip, err := decimal.NewFromString(initial.String)
		if err != nil {
			return Record{}, fmt.Errorf("corrupt initial price in history row %d: %w", rec.ID, err)
		}
		rec.InitialPrice = &ip
	}
	return rec, nil
}
