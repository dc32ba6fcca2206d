// Package catalog maps free-text game queries to entries in the primary
// storefront's catalog listing.
package catalog

// Entry is one identifier/name pair from the catalog listing.
type Entry struct {
	AppID int    `json:"appid"`
	Name  string `json:"name"`
}

// MatchKind identifies which resolution tier produced the candidates.
type MatchKind string

const (
	// MatchDirect means the query itself was a numeric app ID.
	MatchDirect MatchKind = "direct"
	// MatchAlias means the query hit the static alias table.
	MatchAlias MatchKind = "alias"
	// MatchExact means the normalized query equalled a catalog name.
	MatchExact MatchKind = "exact"
	// MatchSubstring means the normalized query was contained in a catalog name.
	MatchSubstring MatchKind = "substring"
	// MatchRemoteFallback means the live store search supplied the candidate.
	MatchRemoteFallback MatchKind = "remote_fallback"
	// MatchNotFound means no tier produced a candidate.
	MatchNotFound MatchKind = "not_found"
)

// Resolution is the outcome of matching one query against the catalog.
// Candidates are ordered: exact matches always precede substring matches,
// and within a tier the catalog listing order is preserved.
type Resolution struct {
	Query      string    `json:"query"`
	Kind       MatchKind `json:"kind"`
	Candidates []Entry   `json:"candidates"`
}

// Found reports whether the resolution produced at least one candidate.
func (r Resolution) Found() bool {
	return r.Kind != MatchNotFound && len(r.Candidates) > 0
}
