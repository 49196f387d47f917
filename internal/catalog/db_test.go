package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testChannels = []Channel{
	{ID: 101, Name: "News 24", Group: "News", Catchup: true, CatchupDays: 7},
	{ID: 102, Name: "World News", Group: "News"},
	{ID: 103, Name: "Sports One", Group: "Sport", Catchup: true, CatchupDays: 3},
	{ID: 104, Name: "Cinema", Group: "Movies"},
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "channels.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestReplaceAndCount(t *testing.T) {
	db := openTestDB(t)

	n, err := db.Count()
	require.NoError(t, err)
	require.Equal(t, 0, n)

	require.NoError(t, db.Replace(testChannels, time.Now()))
	n, err = db.Count()
	require.NoError(t, err)
	require.Equal(t, 4, n)

	// a second snapshot fully replaces the first
	require.NoError(t, db.Replace(testChannels[:2], time.Now()))
	n, err = db.Count()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestStale(t *testing.T) {
	db := openTestDB(t)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	require.True(t, db.Stale(24*time.Hour, now), "empty cache is stale")

	require.NoError(t, db.Replace(testChannels, now.Add(-2*time.Hour)))
	require.False(t, db.Stale(24*time.Hour, now))
	require.True(t, db.Stale(time.Hour, now))

	fetched, err := db.FetchedAt()
	require.NoError(t, err)
	require.Equal(t, now.Add(-2*time.Hour).Unix(), fetched.Unix())
}

func TestFilter(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Replace(testChannels, time.Now()))

	all, err := db.Filter(Options{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	// ordered by group then name
	require.Equal(t, "Cinema", all[0].Name)

	news, err := db.Filter(Options{Query: "News"})
	require.NoError(t, err)
	require.Len(t, news, 2)

	sport, err := db.Filter(Options{Group: "Sport"})
	require.NoError(t, err)
	require.Len(t, sport, 1)
	require.Equal(t, "Sports One", sport[0].Name)
	require.True(t, sport[0].Catchup)
	require.Equal(t, 3, sport[0].CatchupDays)

	limited, err := db.Filter(Options{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestLookup(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Replace(testChannels, time.Now()))

	byID, err := db.Lookup("103")
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.Equal(t, "Sports One", byID.Name)

	byName, err := db.Lookup("cinema")
	require.NoError(t, err)
	require.NotNil(t, byName)
	require.Equal(t, 104, byName.ID)

	// substring matching two channels without an exact hit is ambiguous
	_, err = db.Lookup("News")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ambiguous")

	// an exact name wins over substring ambiguity
	exact, err := db.Lookup("news 24")
	require.NoError(t, err)
	require.NotNil(t, exact)
	require.Equal(t, 101, exact.ID)

	missing, err := db.Lookup("does not exist")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestGroups(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Replace(testChannels, time.Now()))

	groups, err := db.Groups()
	require.NoError(t, err)
	require.Equal(t, []string{"Movies", "News", "Sport"}, groups)
}
