package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v2/device/activate", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ABC123", body["code"])
		require.Equal(t, "dev-1", body["device_id"])
		require.Equal(t, "testbox", body["device_name"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"token": "tok-1",
			"account": map[string]interface{}{
				"plan":         "premium",
				"expires_at":   "2025-06-15T00:00:00Z",
				"catchup_days": 7,
			},
		})
	}))
	defer srv.Close()

	act, err := New(srv.URL, srv.Client()).Activate("ABC123", "dev-1", "testbox")
	require.NoError(t, err)
	require.Equal(t, "tok-1", act.Token)
	require.Equal(t, "premium", act.Account.Plan)
	require.Equal(t, 7, act.Account.CatchupDays)
}

func TestActivateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "code already used"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Activate("ABC123", "dev-1", "testbox")
	require.Error(t, err)
	require.Contains(t, err.Error(), "code already used")
}

func TestActivateMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Activate("ABC123", "dev-1", "testbox")
	require.Error(t, err)
}

func TestChannels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v2/channels", r.URL.Path)
		require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 101, "name": "News 24", "group": "News", "catchup": true, "catchup_days": 7},
			{"id": 102, "name": "", "group": "News"}, // nameless entries are dropped
			{"id": 103, "name": "Sports One", "group": "Sport"},
		})
	}))
	defer srv.Close()

	channels, err := New(srv.URL, srv.Client()).Channels("tok-1")
	require.NoError(t, err)
	require.Len(t, channels, 2)
	require.Equal(t, 101, channels[0].ID)
	require.Equal(t, "News 24", channels[0].Name)
	require.True(t, channels[0].Catchup)
	require.Equal(t, 7, channels[0].CatchupDays)
	require.False(t, channels[1].Catchup)
}

func TestChannelsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Channels("stale")
	require.Error(t, err)
	require.Contains(t, err.Error(), "re-run activation")
}

func TestChannelsBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Channels("tok-1")
	require.Error(t, err)
}
