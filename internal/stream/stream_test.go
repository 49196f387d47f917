package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vlahn/rewindtv/internal/catalog"
)

var (
	now       = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	archived  = catalog.Channel{ID: 101, Name: "News 24", Catchup: true, CatchupDays: 7}
	liveOnly  = catalog.Channel{ID: 102, Name: "World News"}
	base      = "https://api.rewind.tv"
	baseSlash = "https://api.rewind.tv/"
)

func TestLiveURL(t *testing.T) {
	u, err := URL(base, "tok", archived, 0, 0, now)
	require.NoError(t, err)
	require.Equal(t, "https://api.rewind.tv/stream/101/index.m3u8?token=tok", u)
}

func TestTrailingSlashTrimmed(t *testing.T) {
	u, err := URL(baseSlash, "tok", archived, 0, 0, now)
	require.NoError(t, err)
	require.Equal(t, "https://api.rewind.tv/stream/101/index.m3u8?token=tok", u)
}

func TestCatchupURL(t *testing.T) {
	at := now.Add(-2 * time.Hour).Unix()
	u, err := URL(base, "tok", archived, at, 0, now)
	require.NoError(t, err)
	require.Equal(t, "https://api.rewind.tv/stream/101/index.m3u8?token=tok&utc=1718445600", u)
}

func TestCatchupWindowURL(t *testing.T) {
	at := now.Add(-3 * time.Hour).Unix()
	until := now.Add(-time.Hour).Unix()
	u, err := URL(base, "tok", archived, at, until, now)
	require.NoError(t, err)
	require.Equal(t,
		"https://api.rewind.tv/stream/101/index.m3u8?token=tok&utc=1718442000&utc_end=1718449200",
		u)
}

func TestCatchupRefusedForLiveOnlyChannel(t *testing.T) {
	_, err := URL(base, "tok", liveOnly, now.Add(-time.Hour).Unix(), 0, now)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no catchup archive")
}

func TestEndBeforeStartRejected(t *testing.T) {
	at := now.Add(-time.Hour).Unix()
	_, err := URL(base, "tok", archived, at, at, now)
	require.Error(t, err)

	_, err = URL(base, "tok", archived, at, at-60, now)
	require.Error(t, err)
}

func TestEndWithoutStartRejected(t *testing.T) {
	_, err := URL(base, "tok", archived, 0, now.Unix(), now)
	require.Error(t, err)
}

func TestArchiveDepthEnforced(t *testing.T) {
	tooOld := now.AddDate(0, 0, -8).Unix()
	_, err := URL(base, "tok", archived, tooOld, 0, now)
	require.Error(t, err)
	require.Contains(t, err.Error(), "7-day archive")

	justInside := now.AddDate(0, 0, -6).Unix()
	_, err = URL(base, "tok", archived, justInside, 0, now)
	require.NoError(t, err)
}

func TestTokenEscaped(t *testing.T) {
	u, err := URL(base, "a b&c", archived, 0, 0, now)
	require.NoError(t, err)
	require.Contains(t, u, "token=a+b%26c")
}
