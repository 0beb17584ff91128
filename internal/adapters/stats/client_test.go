package stats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Hit(t *testing.T) {
	var got hitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/hit", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "eventboard", srv.Client(), testLogger())
	ts := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	client.Hit(context.Background(), "/events/42", "192.0.2.1", ts)

	require.Equal(t, "eventboard", got.App)
	require.Equal(t, "/events/42", got.URI)
	require.Equal(t, "192.0.2.1", got.IP)
	require.Equal(t, "2026-03-01 12:30:00", got.Timestamp)
}

func TestClient_Hit_serverDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	// Must not panic or surface an error.
	client := NewClient(srv.URL, "eventboard", nil, testLogger())
	client.Hit(context.Background(), "/events/1", "192.0.2.1", time.Now())
}

func TestClient_Views(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stats", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "2000-01-01 00:00:00", q.Get("start"))
		require.Equal(t, "true", q.Get("unique"))
		require.ElementsMatch(t, []string{"/events/1", "/events/2"}, q["uris"])

		json.NewEncoder(w).Encode([]viewStats{
			{App: "eventboard", URI: "/events/1", Hits: 17},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "eventboard", srv.Client(), testLogger())
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	views := client.Views(context.Background(), []string{"/events/1", "/events/2"}, start, end, true)

	require.Equal(t, int64(17), views["/events/1"])
	require.Equal(t, int64(0), views["/events/2"])
}

func TestClient_Views_serverError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "eventboard", srv.Client(), testLogger())
	views := client.Views(context.Background(), []string{"/events/1"}, time.Now().Add(-time.Hour), time.Now(), false)

	require.Equal(t, map[string]int64{"/events/1": 0}, views)
}
