package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/CarlosBueno99/bueno-dashboard/internal/ids"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
	"github.com/CarlosBueno99/bueno-dashboard/internal/service"
)

// SteamAPI is the Steam client slice the refresher needs.
type SteamAPI interface {
	FetchAccountData(ctx context.Context, apiKey, steamID string) ([]models.SteamGame, *models.CSStats, error)
}

// SpotifyAPI is the Spotify client slice the refresher needs.
type SpotifyAPI interface {
	FetchListeningData(ctx context.Context, refreshToken string) ([]models.SpotifyArtist, []models.SpotifyGenre, []models.SpotifyTrack, error)
}

type SettingsReader interface {
	GetByUserID(ctx context.Context, userID string) (models.WebsiteSettings, error)
}

type SnapshotStore interface {
	UpsertSteam(ctx context.Context, id string, snapshot models.SteamSnapshot) error
	UpsertSpotify(ctx context.Context, id string, snapshot models.SpotifySnapshot) error
}

// SnapshotCache mirrors fresh snapshots into redis for cheap reads.
type SnapshotCache interface {
	SetSteam(ctx context.Context, snapshot models.SteamSnapshot) error
	SetSpotify(ctx context.Context, snapshot models.SpotifySnapshot) error
}

// Refresher pulls third-party data and replaces the stored snapshot. A
// failed pull leaves the previous snapshot in place. Concurrent refreshes
// of the same user and kind collapse into one upstream call.
type Refresher struct {
	settings  SettingsReader
	snapshots SnapshotStore
	cache     SnapshotCache
	steam     SteamAPI
	spotify   SpotifyAPI
	group     singleflight.Group
	log       zerolog.Logger
}

func NewRefresher(
	settings SettingsReader,
	snapshots SnapshotStore,
	cache SnapshotCache,
	steam SteamAPI,
	spotify SpotifyAPI,
	log zerolog.Logger,
) *Refresher {
	return &Refresher{
		settings:  settings,
		snapshots: snapshots,
		cache:     cache,
		steam:     steam,
		spotify:   spotify,
		log:       log,
	}
}

// RefreshSteam replaces the user's Steam snapshot with fresh data.
func (r *Refresher) RefreshSteam(ctx context.Context, userID string) (models.SteamSnapshot, error) {
	result, err, _ := r.group.Do("steam:"+userID, func() (any, error) {
		return r.refreshSteam(ctx, userID)
	})
	if err != nil {
		return models.SteamSnapshot{}, err
	}
	return result.(models.SteamSnapshot), nil
}

func (r *Refresher) refreshSteam(ctx context.Context, userID string) (models.SteamSnapshot, error) {
	settings, err := r.loadSettings(ctx, userID)
	if err != nil {
		return models.SteamSnapshot{}, err
	}
	if settings.SteamAPIKey == nil || *settings.SteamAPIKey == "" || settings.SteamID == nil || *settings.SteamID == "" {
		return models.SteamSnapshot{}, fmt.Errorf("%w: steam credentials not configured", service.ErrValidation)
	}

	games, csStats, err := r.steam.FetchAccountData(ctx, *settings.SteamAPIKey, *settings.SteamID)
	if err != nil {
		return models.SteamSnapshot{}, fmt.Errorf("%w: %v", service.ErrUpstream, err)
	}

	snapshot := models.SteamSnapshot{
		UserID:      userID,
		RecentGames: games,
		CSStats:     csStats,
		RefreshedAt: time.Now().UTC(),
	}
	if err := r.snapshots.UpsertSteam(ctx, ids.New(), snapshot); err != nil {
		return models.SteamSnapshot{}, fmt.Errorf("store steam snapshot: %w", err)
	}
	if err := r.cache.SetSteam(ctx, snapshot); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("steam cache write failed")
	}

	r.log.Info().
		Str("user_id", userID).
		Int("games", len(games)).
		Bool("cs_stats", csStats != nil).
		Msg("steam snapshot refreshed")
	return snapshot, nil
}

// RefreshSpotify replaces the user's Spotify snapshot with fresh data.
func (r *Refresher) RefreshSpotify(ctx context.Context, userID string) (models.SpotifySnapshot, error) {
	result, err, _ := r.group.Do("spotify:"+userID, func() (any, error) {
		return r.refreshSpotify(ctx, userID)
	})
	if err != nil {
		return models.SpotifySnapshot{}, err
	}
	return result.(models.SpotifySnapshot), nil
}

func (r *Refresher) refreshSpotify(ctx context.Context, userID string) (models.SpotifySnapshot, error) {
	settings, err := r.loadSettings(ctx, userID)
	if err != nil {
		return models.SpotifySnapshot{}, err
	}
	if settings.SpotifyRefreshToken == nil || *settings.SpotifyRefreshToken == "" {
		return models.SpotifySnapshot{}, fmt.Errorf("%w: spotify not connected", service.ErrValidation)
	}

	artists, genres, tracks, err := r.spotify.FetchListeningData(ctx, *settings.SpotifyRefreshToken)
	if err != nil {
		return models.SpotifySnapshot{}, fmt.Errorf("%w: %v", service.ErrUpstream, err)
	}

	snapshot := models.SpotifySnapshot{
		UserID:         userID,
		TopArtists:     artists,
		TopGenres:      genres,
		RecentlyPlayed: tracks,
		RefreshedAt:    time.Now().UTC(),
	}
	if err := r.snapshots.UpsertSpotify(ctx, ids.New(), snapshot); err != nil {
		return models.SpotifySnapshot{}, fmt.Errorf("store spotify snapshot: %w", err)
	}
	if err := r.cache.SetSpotify(ctx, snapshot); err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Msg("spotify cache write failed")
	}

	r.log.Info().
		Str("user_id", userID).
		Int("artists", len(artists)).
		Int("tracks", len(tracks)).
		Msg("spotify snapshot refreshed")
	return snapshot, nil
}

func (r *Refresher) loadSettings(ctx context.Context, userID string) (models.WebsiteSettings, error) {
	settings, err := r.settings.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return models.WebsiteSettings{}, fmt.Errorf("%w: no settings for user %s", service.ErrValidation, userID)
		}
		return models.WebsiteSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return settings, nil
}
