package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/gamedeals/internal/normalize"
)

// excludedTerms marks catalog entries that are not standalone games.
// Matching entries are invisible to every resolution tier.
var excludedTerms = []string{
	"skin",
	"soundtrack",
	"dlc",
	"trailer",
	"demo",
	"server",
	"dedicated",
	"test",
}

func isExcluded(name string) bool {
	lower := strings.ToLower(name)
	for _, term := range excludedTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// Searcher issues a live free-text search against the storefront, used as
// the last resolution tier before giving up.
type Searcher interface {
	StoreSearch(ctx context.Context, term string) ([]Entry, error)
}

// Resolver maps a raw query to catalog candidates using, in order: direct
// app ID, alias table, exact name match, substring match, remote search.
type Resolver struct {
	index   *Index
	aliases Aliases
	search  Searcher
}

// NewResolver creates a Resolver. search may be nil, in which case the
// remote fallback tier is skipped.
func NewResolver(index *Index, aliases Aliases, search Searcher) *Resolver {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Resolver{index: index, aliases: aliases, search: search}
}

// Resolve matches query against the catalog, returning at most limit
// candidates. A CatalogUnavailableError is returned when the listing cannot
// be loaded; an empty result is reported as MatchNotFound, not an error.
func (r *Resolver) Resolve(ctx context.Context, query string, limit int) (Resolution, error) {
	if limit < 1 {
		limit = 1
	}
	res := Resolution{Query: query, Kind: MatchNotFound, Candidates: []Entry{}}

	// A numeric query is an app ID: no catalog lookup needed.
	if normalize.IsAppID(query) {
		res.Kind = MatchDirect
		res.Candidates = []Entry{{AppID: normalize.AppID(query)}}
		return res, nil
	}

	normalized := normalize.Title(query)
	if id, ok := r.aliases.Lookup(normalized); ok {
		slog.Debug("Alias hit", "query", query, "appid", id)
		res.Kind = MatchAlias
		res.Candidates = []Entry{{AppID: id, Name: query}}
		return res, nil
	}

	entries, err := r.index.Entries(ctx)
	if err != nil {
		return res, fmt.Errorf("resolve %q: %w", query, err)
	}

	if exact := scan(entries, normalized, limit, matchesExactly); len(exact) > 0 {
		res.Kind = MatchExact
		res.Candidates = exact
		return res, nil
	}

	if sub := scan(entries, normalized, limit, containsQuery); len(sub) > 0 {
		res.Kind = MatchSubstring
		res.Candidates = sub
		return res, nil
	}

	if r.search != nil {
		hits, err := r.search.StoreSearch(ctx, query)
		if err != nil {
			// Remote fallback failure is not fatal, the query is just unresolved.
			slog.Warn("Store search fallback failed", "query", query, "error", err)
			return res, nil
		}
		if len(hits) > 0 {
			res.Kind = MatchRemoteFallback
			res.Candidates = []Entry{hits[0]}
			return res, nil
		}
	}

	return res, nil
}

func matchesExactly(entryName, normalizedQuery string) bool {
	return normalize.Title(entryName) == normalizedQuery
}

func containsQuery(entryName, normalizedQuery string) bool {
	return strings.Contains(normalize.Title(entryName), normalizedQuery)
}

// scan walks the listing in catalog order. No secondary ranking is applied
// within a tier.
func scan(entries []Entry, normalizedQuery string, limit int, match func(string, string) bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if isExcluded(e.Name) {
			continue
		}
		if match(e.Name, normalizedQuery) {
			out = append(out, e)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}
