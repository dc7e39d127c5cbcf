package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

const topArtistsBody = `{
	"items": [
		{"id": "a1", "name": "Artist One", "genres": ["mpb", "bossa nova"], "popularity": 80, "images": [{"url": "https://img/a1"}]},
		{"id": "a2", "name": "Artist Two", "genres": ["mpb", "samba"], "popularity": 70, "images": []},
		{"id": "a3", "name": "Artist Three", "genres": ["mpb", "samba", "forro"], "popularity": 60, "images": [{"url": "https://img/a3"}]}
	]
}`

const recentlyPlayedBody = `{
	"items": [
		{
			"played_at": "2026-08-29T21:14:05.000Z",
			"track": {
				"name": "Track One",
				"artists": [{"name": "Artist One"}, {"name": "Artist Two"}],
				"album": {"name": "Album One", "images": [{"url": "https://img/album1"}]}
			}
		}
	]
}`

func newTestClient(t *testing.T, apiHandler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	api := httptest.NewServer(apiHandler)
	t.Cleanup(api.Close)

	token := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "refresh_token":
			assert.Equal(t, "stored-refresh", r.PostForm.Get("refresh_token"))
			_, _ = w.Write([]byte(`{"access_token": "fresh-access", "token_type": "Bearer", "expires_in": 3600}`))
		case "authorization_code":
			assert.Equal(t, "the-code", r.PostForm.Get("code"))
			_, _ = w.Write([]byte(`{"access_token": "acc", "token_type": "Bearer", "refresh_token": "new-refresh", "expires_in": 3600}`))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(token.Close)

	client := NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://dash.example/api/v1/spotify/callback",
		Timeout:      time.Second,
		APIBaseURL:   api.URL,
		TokenURL:     token.URL,
		AuthURL:      "https://accounts.spotify.com/authorize",
	}, zerolog.Nop())
	return client, api
}

func TestAuthCodeURL(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	raw := client.AuthCodeURL("state-123")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.spotify.com", parsed.Host)
	assert.Equal(t, "code", parsed.Query().Get("response_type"))
	assert.Equal(t, "client-id", parsed.Query().Get("client_id"))
	assert.Equal(t, "state-123", parsed.Query().Get("state"))
	assert.Contains(t, parsed.Query().Get("scope"), "user-top-read")
}

func TestExchange(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	refresh, err := client.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "new-refresh", refresh)
}

func TestFetchListeningData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer fresh-access", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/me/top/artists":
			assert.Equal(t, "short_term", r.URL.Query().Get("time_range"))
			assert.Equal(t, "10", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(topArtistsBody))
		case "/me/player/recently-played":
			_, _ = w.Write([]byte(recentlyPlayedBody))
		default:
			http.NotFound(w, r)
		}
	})

	artists, genres, tracks, err := client.FetchListeningData(context.Background(), "stored-refresh")
	require.NoError(t, err)

	require.Len(t, artists, 3)
	assert.Equal(t, "Artist One", artists[0].Name)
	assert.Equal(t, "https://img/a1", artists[0].ImageURL)
	assert.Empty(t, artists[1].ImageURL, "artist without images keeps an empty url")

	require.Len(t, genres, 4)
	assert.Equal(t, models.SpotifyGenre{Name: "mpb", Count: 3}, genres[0])
	assert.Equal(t, models.SpotifyGenre{Name: "samba", Count: 2}, genres[1])

	require.Len(t, tracks, 1)
	assert.Equal(t, "Track One", tracks[0].Name)
	assert.Equal(t, []string{"Artist One", "Artist Two"}, tracks[0].Artists)
	assert.Equal(t, "Album One", tracks[0].Album)
	assert.Equal(t, "https://img/album1", tracks[0].ImageURL)
	assert.Equal(t, "2026-08-29T21:14:05.000Z", tracks[0].PlayedAt)
}

func TestTopGenresKeepsFive(t *testing.T) {
	artists := []models.SpotifyArtist{
		{Genres: []string{"a", "b", "c", "d", "e", "f"}},
		{Genres: []string{"a", "b", "c"}},
		{Genres: []string{"a"}},
	}
	genres := topGenres(artists)
	require.Len(t, genres, 5)
	assert.Equal(t, models.SpotifyGenre{Name: "a", Count: 3}, genres[0])
	assert.Equal(t, models.SpotifyGenre{Name: "b", Count: 2}, genres[1])
	assert.Equal(t, models.SpotifyGenre{Name: "c", Count: 2}, genres[2])
}

func TestFetchListeningDataUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, _, err := client.FetchListeningData(context.Background(), "stored-refresh")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
