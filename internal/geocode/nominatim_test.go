package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBueno99/bueno-dashboard/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.GeocodeConfig{
		BaseURL:   srv.URL,
		UserAgent: "dashboard-test",
		Timeout:   2 * time.Second,
	})
}

func TestReverse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "dashboard-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "52.52", r.URL.Query().Get("lat"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"display_name": "Unter den Linden, Berlin, Germany",
			"address": {"road": "Unter den Linden", "city": "Berlin", "country": "Germany"}
		}`))
	})

	place, err := client.Reverse(context.Background(), 52.52, 13.405)
	require.NoError(t, err)
	assert.Equal(t, "Unter den Linden, Berlin, Germany", place.DisplayName)
	assert.Equal(t, "Berlin", place.City)
	assert.Equal(t, "Germany", place.Country)
}

func TestReverse_TownFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"display_name": "Somewhere",
			"address": {"town": "Smalltown", "country": "Nowhere"}
		}`))
	})

	place, err := client.Reverse(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Smalltown", place.City)
}

func TestReverse_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Reverse(context.Background(), 1, 2)
	assert.Error(t, err)
}
