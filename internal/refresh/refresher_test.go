package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
	"github.com/CarlosBueno99/bueno-dashboard/internal/service"
)

type fakeSettings struct {
	byUserID map[string]models.WebsiteSettings
}

func (f *fakeSettings) GetByUserID(_ context.Context, userID string) (models.WebsiteSettings, error) {
	settings, ok := f.byUserID[userID]
	if !ok {
		return models.WebsiteSettings{}, repository.ErrSettingsNotFound
	}
	return settings, nil
}

type fakeSnapshots struct {
	mu      sync.Mutex
	steam   map[string]models.SteamSnapshot
	spotify map[string]models.SpotifySnapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{
		steam:   make(map[string]models.SteamSnapshot),
		spotify: make(map[string]models.SpotifySnapshot),
	}
}

func (f *fakeSnapshots) UpsertSteam(_ context.Context, _ string, snapshot models.SteamSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steam[snapshot.UserID] = snapshot
	return nil
}

func (f *fakeSnapshots) UpsertSpotify(_ context.Context, _ string, snapshot models.SpotifySnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spotify[snapshot.UserID] = snapshot
	return nil
}

type fakeCache struct {
	mu           sync.Mutex
	steamWrites  int
	spotifyWrite int
	err          error
}

func (f *fakeCache) SetSteam(_ context.Context, _ models.SteamSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.steamWrites++
	return f.err
}

func (f *fakeCache) SetSpotify(_ context.Context, _ models.SpotifySnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spotifyWrite++
	return f.err
}

type fakeSteamAPI struct {
	games   []models.SteamGame
	csStats *models.CSStats
	err     error
}

func (f *fakeSteamAPI) FetchAccountData(_ context.Context, _, _ string) ([]models.SteamGame, *models.CSStats, error) {
	return f.games, f.csStats, f.err
}

type fakeSpotifyAPI struct {
	artists []models.SpotifyArtist
	genres  []models.SpotifyGenre
	tracks  []models.SpotifyTrack
	err     error
}

func (f *fakeSpotifyAPI) FetchListeningData(_ context.Context, _ string) ([]models.SpotifyArtist, []models.SpotifyGenre, []models.SpotifyTrack, error) {
	return f.artists, f.genres, f.tracks, f.err
}

func configuredSettings() *fakeSettings {
	key := "steam-key"
	steamID := "765"
	token := "spotify-refresh"
	return &fakeSettings{byUserID: map[string]models.WebsiteSettings{
		"u-1": {UserID: "u-1", SteamAPIKey: &key, SteamID: &steamID, SpotifyRefreshToken: &token},
	}}
}

func TestRefreshSteam(t *testing.T) {
	ctx := context.Background()
	snapshots := newFakeSnapshots()
	cache := &fakeCache{}
	steamAPI := &fakeSteamAPI{
		games:   []models.SteamGame{{AppID: "730", Name: "Counter-Strike 2"}},
		csStats: &models.CSStats{Kills: 10},
	}
	r := NewRefresher(configuredSettings(), snapshots, cache, steamAPI, &fakeSpotifyAPI{}, zerolog.Nop())

	snapshot, err := r.RefreshSteam(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", snapshot.UserID)
	assert.Len(t, snapshot.RecentGames, 1)
	require.NotNil(t, snapshot.CSStats)
	assert.False(t, snapshot.RefreshedAt.IsZero())

	assert.Contains(t, snapshots.steam, "u-1")
	assert.Equal(t, 1, cache.steamWrites)
}

func TestRefreshSteamMissingCredentials(t *testing.T) {
	ctx := context.Background()
	settings := &fakeSettings{byUserID: map[string]models.WebsiteSettings{"u-1": {UserID: "u-1"}}}
	snapshots := newFakeSnapshots()
	r := NewRefresher(settings, snapshots, &fakeCache{}, &fakeSteamAPI{}, &fakeSpotifyAPI{}, zerolog.Nop())

	_, err := r.RefreshSteam(ctx, "u-1")
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = r.RefreshSteam(ctx, "u-unknown")
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Empty(t, snapshots.steam)
}

func TestRefreshFailureKeepsPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	snapshots := newFakeSnapshots()
	previous := models.SteamSnapshot{UserID: "u-1", RecentGames: []models.SteamGame{{Name: "old"}}}
	snapshots.steam["u-1"] = previous

	steamAPI := &fakeSteamAPI{err: errors.New("steam is down")}
	r := NewRefresher(configuredSettings(), snapshots, &fakeCache{}, steamAPI, &fakeSpotifyAPI{}, zerolog.Nop())

	_, err := r.RefreshSteam(ctx, "u-1")
	assert.ErrorIs(t, err, service.ErrUpstream)
	assert.Equal(t, previous, snapshots.steam["u-1"], "failed refresh must not clobber the stored snapshot")
}

func TestRefreshSpotify(t *testing.T) {
	ctx := context.Background()
	snapshots := newFakeSnapshots()
	cache := &fakeCache{}
	spotifyAPI := &fakeSpotifyAPI{
		artists: []models.SpotifyArtist{{ID: "a1", Name: "Artist"}},
		genres:  []models.SpotifyGenre{{Name: "mpb", Count: 2}},
		tracks:  []models.SpotifyTrack{{Name: "Track"}},
	}
	r := NewRefresher(configuredSettings(), snapshots, cache, &fakeSteamAPI{}, spotifyAPI, zerolog.Nop())

	snapshot, err := r.RefreshSpotify(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, snapshot.TopArtists, 1)
	assert.Len(t, snapshot.TopGenres, 1)
	assert.Len(t, snapshot.RecentlyPlayed, 1)
	assert.Contains(t, snapshots.spotify, "u-1")
	assert.Equal(t, 1, cache.spotifyWrite)
}

func TestRefreshSpotifyNotConnected(t *testing.T) {
	settings := &fakeSettings{byUserID: map[string]models.WebsiteSettings{"u-1": {UserID: "u-1"}}}
	r := NewRefresher(settings, newFakeSnapshots(), &fakeCache{}, &fakeSteamAPI{}, &fakeSpotifyAPI{}, zerolog.Nop())

	_, err := r.RefreshSpotify(context.Background(), "u-1")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRefreshTreatsCacheWriteAsBestEffort(t *testing.T) {
	ctx := context.Background()
	snapshots := newFakeSnapshots()
	cache := &fakeCache{err: errors.New("redis down")}
	r := NewRefresher(configuredSettings(), snapshots, cache, &fakeSteamAPI{}, &fakeSpotifyAPI{}, zerolog.Nop())

	_, err := r.RefreshSteam(ctx, "u-1")
	require.NoError(t, err, "cache failure must not fail the refresh")
	assert.Contains(t, snapshots.steam, "u-1")
}
