package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gderrors "github.com/lepinkainen/gamedeals/internal/errors"
)

type fakeSearcher struct {
	hits  []Entry
	err   error
	calls int
}

func (f *fakeSearcher) StoreSearch(ctx context.Context, term string) ([]Entry, error) {
	f.calls++
	return f.hits, f.err
}

func testCatalog() []Entry {
	return []Entry{
		{AppID: 292030, Name: "The Witcher 3"},
		{AppID: 123456, Name: "The Witcher 3: Wild Hunt - Complete Edition"},
		{AppID: 999001, Name: "The Witcher 3 Soundtrack"},
		{AppID: 730, Name: "Counter-Strike: Global Offensive"},
		{AppID: 999002, Name: "CSGO Prime Skin Pack"},
		{AppID: 440, Name: "Team Fortress 2"},
		{AppID: 999003, Name: "Team Fortress 2 Dedicated Server"},
	}
}

func newTestResolver(t *testing.T, search Searcher) *Resolver {
	t.Helper()
	ix := newTestIndex(&fakeLister{entries: testCatalog()})
	return NewResolver(ix, nil, search)
}

func TestResolveDirectAppID(t *testing.T) {
	// Direct IDs bypass the catalog entirely: the lister always fails here.
	ix := newTestIndex(&fakeLister{errs: []error{errors.New("down"), errors.New("down"), errors.New("down")}})
	r := NewResolver(ix, nil, nil)

	res, err := r.Resolve(context.Background(), "730", 5)
	require.NoError(t, err)
	assert.Equal(t, MatchDirect, res.Kind)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 730, res.Candidates[0].AppID)
}

func TestResolveAlias(t *testing.T) {
	r := newTestResolver(t, nil)

	res1, err := r.Resolve(context.Background(), "csgo", 5)
	require.NoError(t, err)
	res2, err := r.Resolve(context.Background(), "cs:go", 5)
	require.NoError(t, err)

	assert.Equal(t, MatchAlias, res1.Kind)
	assert.Equal(t, MatchAlias, res2.Kind)
	require.Len(t, res1.Candidates, 1)
	require.Len(t, res2.Candidates, 1)
	assert.Equal(t, res1.Candidates[0].AppID, res2.Candidates[0].AppID)
}

func TestResolveExactBeforeSubstring(t *testing.T) {
	r := newTestResolver(t, nil)

	res, err := r.Resolve(context.Background(), "the witcher 3", 5)
	require.NoError(t, err)
	assert.Equal(t, MatchExact, res.Kind)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 292030, res.Candidates[0].AppID)
}

func TestResolveSubstringTier(t *testing.T) {
	r := newTestResolver(t, nil)

	res, err := r.Resolve(context.Background(), "witcher", 5)
	require.NoError(t, err)
	assert.Equal(t, MatchSubstring, res.Kind)
	require.Len(t, res.Candidates, 2)
	// Catalog order within the tier; the soundtrack entry is excluded.
	assert.Equal(t, 292030, res.Candidates[0].AppID)
	assert.Equal(t, 123456, res.Candidates[1].AppID)
}

func TestResolveExcludesNonGameEntries(t *testing.T) {
	r := newTestResolver(t, nil)

	res, err := r.Resolve(context.Background(), "csgo prime", 5)
	require.NoError(t, err)
	assert.Equal(t, MatchNotFound, res.Kind)
	assert.Empty(t, res.Candidates)
}

func TestResolveLimitCapsCandidates(t *testing.T) {
	r := newTestResolver(t, nil)

	res, err := r.Resolve(context.Background(), "witcher", 1)
	require.NoError(t, err)
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 292030, res.Candidates[0].AppID)
}

func TestResolveRemoteFallback(t *testing.T) {
	search := &fakeSearcher{hits: []Entry{
		{AppID: 1091500, Name: "Cyberpunk 2077"},
		{AppID: 1091501, Name: "Cyberpunk 2077 Bonus"},
	}}
	r := newTestResolver(t, search)

	res, err := r.Resolve(context.Background(), "cyberpunk twenty", 5)
	require.NoError(t, err)
	assert.Equal(t, MatchRemoteFallback, res.Kind)
	// Only the first remote hit is used.
	require.Len(t, res.Candidates, 1)
	assert.Equal(t, 1091500, res.Candidates[0].AppID)
	assert.Equal(t, 1, search.calls)
}

func TestResolveRemoteFallbackErrorMeansNotFound(t *testing.T) {
	search := &fakeSearcher{err: errors.New("search endpoint down")}
	r := newTestResolver(t, search)

	res, err := r.Resolve(context.Background(), "totally unknown title", 5)
	require.NoError(t, err)
	assert.Equal(t, MatchNotFound, res.Kind)
}

func TestResolveNotFound(t *testing.T) {
	search := &fakeSearcher{}
	r := newTestResolver(t, search)

	res, err := r.Resolve(context.Background(), "totally unknown title", 5)
	require.NoError(t, err)
	assert.Equal(t, MatchNotFound, res.Kind)
	assert.False(t, res.Found())
}

func TestResolveCatalogUnavailable(t *testing.T) {
	boom := errors.New("listing down")
	ix := newTestIndex(&fakeLister{errs: []error{boom, boom, boom}})
	r := NewResolver(ix, nil, &fakeSearcher{})

	_, err := r.Resolve(context.Background(), "the witcher 3", 5)
	require.Error(t, err)
	assert.True(t, gderrors.IsCatalogUnavailable(err))
}

func TestIsExcluded(t *testing.T) {
	assert.True(t, isExcluded("Half-Life 2: Soundtrack"))
	assert.True(t, isExcluded("CSGO Skin Pack"))
	assert.True(t, isExcluded("Game DLC Bundle"))
	assert.False(t, isExcluded("Half-Life 2"))
}
