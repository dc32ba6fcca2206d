package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, ttl time.Duration) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"), ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSetAndGet(t *testing.T) {
	db := openTestDB(t, time.Hour)

	require.NoError(t, db.Set(AppListTable, "applist", `{"entries":[]}`))

	data, hit, err := db.Get(AppListTable, "applist")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, `{"entries":[]}`, data)
}

func TestGetMissingKey(t *testing.T) {
	db := openTestDB(t, time.Hour)

	_, hit, err := db.Get(AppListTable, "nope")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInvalidTableRejected(t *testing.T) {
	db := openTestDB(t, time.Hour)

	err := db.Set("users; DROP TABLE applist_cache", "k", "v")
	require.Error(t, err)

	_, _, err = db.Get("bogus_table", "k")
	require.Error(t, err)
}

func TestGetOrFetchCachesResult(t *testing.T) {
	db := openTestDB(t, time.Hour)

	type payload struct {
		Value string `json:"value"`
	}

	calls := 0
	fetch := func() (payload, error) {
		calls++
		return payload{Value: "fresh"}, nil
	}

	got, fromCache, err := GetOrFetch(db, StoreSearchTable, "witcher", fetch, nil)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "fresh", got.Value)

	got, fromCache, err = GetOrFetch(db, StoreSearchTable, "witcher", fetch, nil)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, "fresh", got.Value)
	assert.Equal(t, 1, calls)
}

func TestGetOrFetchPolicySkipsStore(t *testing.T) {
	db := openTestDB(t, time.Hour)

	type results struct {
		Items []string `json:"items"`
	}

	calls := 0
	fetch := func() (results, error) {
		calls++
		return results{}, nil
	}
	nonEmpty := func(r results) bool { return len(r.Items) > 0 }

	_, _, err := GetOrFetch(db, StoreSearchTable, "unknown", fetch, nonEmpty)
	require.NoError(t, err)

	// Empty result was not cached, so the fetch runs again.
	_, fromCache, err := GetOrFetch(db, StoreSearchTable, "unknown", fetch, nonEmpty)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 2, calls)
}

func TestGetOrFetchPropagatesFetchError(t *testing.T) {
	db := openTestDB(t, time.Hour)

	wantErr := errors.New("upstream down")
	_, _, err := GetOrFetch(db, AppListTable, "applist", func() (string, error) {
		return "", wantErr
	}, nil)
	require.ErrorIs(t, err, wantErr)
}

func TestGetOrFetchNilDB(t *testing.T) {
	got, fromCache, err := GetOrFetch(nil, AppListTable, "k", func() (int, error) {
		return 42, nil
	}, nil)
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, 42, got)
}

func TestInvalidate(t *testing.T) {
	db := openTestDB(t, time.Hour)

	require.NoError(t, db.Set(AppListTable, "a", "1"))
	require.NoError(t, db.Set(AppListTable, "b", "2"))

	rows, err := db.Invalidate(AppListTable)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)

	_, hit, err := db.Get(AppListTable, "a")
	require.NoError(t, err)
	assert.False(t, hit)
}
