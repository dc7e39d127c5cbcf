package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

const (
	defaultAPIBaseURL = "https://api.spotify.com/v1"
	defaultAuthURL    = "https://accounts.spotify.com/authorize"
	defaultTokenURL   = "https://accounts.spotify.com/api/token"

	topArtistsLimit     = 10
	topGenresLimit      = 5
	recentlyPlayedLimit = 10
)

var scopes = []string{"user-read-private", "user-read-email", "user-top-read", "user-read-recently-played"}

// Client wraps the Spotify Web API plus the authorization-code OAuth flow.
// Access tokens are minted per call from the stored refresh token.
type Client struct {
	oauth      oauth2.Config
	apiBaseURL string
	timeout    time.Duration
	log        zerolog.Logger
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration

	// Test seams; empty means the public Spotify endpoints.
	APIBaseURL string
	AuthURL    string
	TokenURL   string
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = defaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}

	return &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		apiBaseURL: cfg.APIBaseURL,
		timeout:    cfg.Timeout,
		log:        log,
	}
}

// AuthCodeURL builds the consent URL the dashboard redirects the owner to.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for a refresh token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	token, err := c.oauth.Exchange(c.httpContext(ctx), code)
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	if token.RefreshToken == "" {
		return "", fmt.Errorf("no refresh token returned")
	}
	return token.RefreshToken, nil
}

type topArtistsResponse struct {
	Items []struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Genres     []string `json:"genres"`
		Popularity int      `json:"popularity"`
		Images     []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"items"`
}

type recentlyPlayedResponse struct {
	Items []struct {
		PlayedAt string `json:"played_at"`
		Track    struct {
			Name    string `json:"name"`
			Artists []struct {
				Name string `json:"name"`
			} `json:"artists"`
			Album struct {
				Name   string `json:"name"`
				Images []struct {
					URL string `json:"url"`
				} `json:"images"`
			} `json:"album"`
		} `json:"track"`
	} `json:"items"`
}

// FetchListeningData pulls the user's short-term top artists and recent
// tracks, and derives the top genres from the artist list.
func (c *Client) FetchListeningData(ctx context.Context, refreshToken string) ([]models.SpotifyArtist, []models.SpotifyGenre, []models.SpotifyTrack, error) {
	httpClient := c.oauth.Client(c.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken})

	var artistsRaw topArtistsResponse
	endpoint := fmt.Sprintf("%s/me/top/artists?time_range=short_term&limit=%d", c.apiBaseURL, topArtistsLimit)
	if err := getJSON(ctx, httpClient, endpoint, &artistsRaw); err != nil {
		return nil, nil, nil, fmt.Errorf("top artists: %w", err)
	}

	artists := make([]models.SpotifyArtist, 0, len(artistsRaw.Items))
	for _, item := range artistsRaw.Items {
		artist := models.SpotifyArtist{
			ID:         item.ID,
			Name:       item.Name,
			Genres:     item.Genres,
			Popularity: item.Popularity,
		}
		if len(item.Images) > 0 {
			artist.ImageURL = item.Images[0].URL
		}
		artists = append(artists, artist)
	}

	var tracksRaw recentlyPlayedResponse
	endpoint = fmt.Sprintf("%s/me/player/recently-played?limit=%d", c.apiBaseURL, recentlyPlayedLimit)
	if err := getJSON(ctx, httpClient, endpoint, &tracksRaw); err != nil {
		return nil, nil, nil, fmt.Errorf("recently played: %w", err)
	}

	tracks := make([]models.SpotifyTrack, 0, len(tracksRaw.Items))
	for _, item := range tracksRaw.Items {
		track := models.SpotifyTrack{
			Name:     item.Track.Name,
			Album:    item.Track.Album.Name,
			PlayedAt: item.PlayedAt,
		}
		for _, artist := range item.Track.Artists {
			track.Artists = append(track.Artists, artist.Name)
		}
		if len(item.Track.Album.Images) > 0 {
			track.ImageURL = item.Track.Album.Images[0].URL
		}
		tracks = append(tracks, track)
	}

	return artists, topGenres(artists), tracks, nil
}

// topGenres tallies genre occurrences across the artists and keeps the five
// most frequent.
func topGenres(artists []models.SpotifyArtist) []models.SpotifyGenre {
	counts := make(map[string]int)
	for _, artist := range artists {
		for _, genre := range artist.Genres {
			counts[genre]++
		}
	}

	genres := make([]models.SpotifyGenre, 0, len(counts))
	for name, count := range counts {
		genres = append(genres, models.SpotifyGenre{Name: name, Count: count})
	}
	sort.Slice(genres, func(i, j int) bool {
		if genres[i].Count != genres[j].Count {
			return genres[i].Count > genres[j].Count
		}
		return genres[i].Name < genres[j].Name
	})
	if len(genres) > topGenresLimit {
		genres = genres[:topGenresLimit]
	}
	return genres
}

// httpContext pins the oauth2 transport to a timeout-bounded base client.
func (c *Client) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: c.timeout})
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
