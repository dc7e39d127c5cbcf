package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

const (
	defaultBaseURL = "https://api.steampowered.com"
	csAppID        = 730

	iconURLFormat   = "https://media.steampowered.com/steamcommunity/public/images/apps/%d/%s.jpg"
	headerURLFormat = "https://cdn.cloudflare.steamstatic.com/steam/apps/%d/header.jpg"
)

// Client talks to the Steam Web API with per-user credentials supplied on
// each call.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// NewClientWithBaseURL is used by tests to point at a stub server.
func NewClientWithBaseURL(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	c := NewClient(timeout, log)
	c.baseURL = baseURL
	return c
}

type recentGamesResponse struct {
	Response struct {
		TotalCount int `json:"total_count"`
		Games      []struct {
			AppID           int    `json:"appid"`
			Name            string `json:"name"`
			Playtime2Weeks  int    `json:"playtime_2weeks"`
			PlaytimeForever int    `json:"playtime_forever"`
			ImgIconURL      string `json:"img_icon_url"`
			ImgLogoURL      string `json:"img_logo_url"`
		} `json:"games"`
	} `json:"response"`
}

type userStatsResponse struct {
	PlayerStats struct {
		Stats []struct {
			Name  string `json:"name"`
			Value int    `json:"value"`
		} `json:"stats"`
	} `json:"playerstats"`
}

// FetchAccountData pulls the user's recently played games, and when
// Counter-Strike shows up among them, the lifetime CS stats as well. A CS
// stats failure is logged and dropped; the games still come back.
func (c *Client) FetchAccountData(ctx context.Context, apiKey, steamID string) ([]models.SteamGame, *models.CSStats, error) {
	recent, err := c.recentlyPlayed(ctx, apiKey, steamID)
	if err != nil {
		return nil, nil, err
	}

	games := make([]models.SteamGame, 0, len(recent.Response.Games))
	playedCS := false
	for _, game := range recent.Response.Games {
		if game.AppID == csAppID {
			playedCS = true
		}
		games = append(games, models.SteamGame{
			AppID:           strconv.Itoa(game.AppID),
			Name:            game.Name,
			Playtime2Weeks:  game.Playtime2Weeks,
			PlaytimeForever: game.PlaytimeForever,
			ImgIconURL:      fmt.Sprintf(iconURLFormat, game.AppID, game.ImgIconURL),
			ImgLogoURL:      fmt.Sprintf(iconURLFormat, game.AppID, game.ImgLogoURL),
			HeaderImageURL:  fmt.Sprintf(headerURLFormat, game.AppID),
		})
	}

	var csStats *models.CSStats
	if playedCS {
		csStats, err = c.csStats(ctx, apiKey, steamID)
		if err != nil {
			c.log.Warn().Err(err).Msg("cs stats fetch failed, keeping games only")
			csStats = nil
		}
	}

	return games, csStats, nil
}

func (c *Client) recentlyPlayed(ctx context.Context, apiKey, steamID string) (*recentGamesResponse, error) {
	query := url.Values{}
	query.Set("key", apiKey)
	query.Set("steamid", steamID)
	query.Set("format", "json")

	endpoint := c.baseURL + "/IPlayerService/GetRecentlyPlayedGames/v0001/?" + query.Encode()
	var out recentGamesResponse
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, fmt.Errorf("recently played games: %w", err)
	}
	return &out, nil
}

func (c *Client) csStats(ctx context.Context, apiKey, steamID string) (*models.CSStats, error) {
	query := url.Values{}
	query.Set("appid", strconv.Itoa(csAppID))
	query.Set("key", apiKey)
	query.Set("steamid", steamID)

	endpoint := c.baseURL + "/ISteamUserStats/GetUserStatsForGame/v0002/?" + query.Encode()
	var out userStatsResponse
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	stats := models.CSStats{}
	for _, stat := range out.PlayerStats.Stats {
		switch stat.Name {
		case "total_kills":
			stats.Kills = stat.Value
		case "total_deaths":
			stats.Deaths = stat.Value
		case "total_time_played":
			stats.TimePlayed = stat.Value
		case "total_wins":
			stats.Wins = stat.Value
		}
	}
	return &stats, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
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
