package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

type fakeSnapshotGetter struct {
	steam   map[string]models.SteamSnapshot
	spotify map[string]models.SpotifySnapshot
	calls   int
}

func (f *fakeSnapshotGetter) GetSteam(_ context.Context, userID string) (models.SteamSnapshot, error) {
	f.calls++
	snapshot, ok := f.steam[userID]
	if !ok {
		return models.SteamSnapshot{}, repository.ErrSnapshotNotFound
	}
	return snapshot, nil
}

func (f *fakeSnapshotGetter) GetSpotify(_ context.Context, userID string) (models.SpotifySnapshot, error) {
	f.calls++
	snapshot, ok := f.spotify[userID]
	if !ok {
		return models.SpotifySnapshot{}, repository.ErrSnapshotNotFound
	}
	return snapshot, nil
}

type fakeSnapshotCache struct {
	steam   map[string]models.SteamSnapshot
	spotify map[string]models.SpotifySnapshot
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{
		steam:   make(map[string]models.SteamSnapshot),
		spotify: make(map[string]models.SpotifySnapshot),
	}
}

func (f *fakeSnapshotCache) GetSteam(_ context.Context, userID string) (models.SteamSnapshot, error) {
	snapshot, ok := f.steam[userID]
	if !ok {
		return models.SteamSnapshot{}, errors.New("miss")
	}
	return snapshot, nil
}

func (f *fakeSnapshotCache) GetSpotify(_ context.Context, userID string) (models.SpotifySnapshot, error) {
	snapshot, ok := f.spotify[userID]
	if !ok {
		return models.SpotifySnapshot{}, errors.New("miss")
	}
	return snapshot, nil
}

func (f *fakeSnapshotCache) SetSteam(_ context.Context, snapshot models.SteamSnapshot) error {
	f.steam[snapshot.UserID] = snapshot
	return nil
}

func (f *fakeSnapshotCache) SetSpotify(_ context.Context, snapshot models.SpotifySnapshot) error {
	f.spotify[snapshot.UserID] = snapshot
	return nil
}

func TestSnapshotReadsThroughCache(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	viewer := models.User{ID: "u-viewer"}
	roles.roles[viewer.ID] = authz.RoleViewer

	getter := &fakeSnapshotGetter{
		steam: map[string]models.SteamSnapshot{
			"u-owner": {UserID: "u-owner", RecentGames: []models.SteamGame{{Name: "CS2"}}},
		},
	}
	cache := newFakeSnapshotCache()
	svc := NewSnapshotService(getter, cache, roles, zerolog.Nop())

	snapshot, err := svc.Steam(ctx, viewer, "u-owner")
	require.NoError(t, err)
	assert.Len(t, snapshot.RecentGames, 1)
	assert.Equal(t, 1, getter.calls)
	assert.Contains(t, cache.steam, "u-owner", "miss backfills the cache")

	_, err = svc.Steam(ctx, viewer, "u-owner")
	require.NoError(t, err)
	assert.Equal(t, 1, getter.calls, "second read is served from cache")
}

func TestSnapshotRequiresLadderRole(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	relative := models.User{ID: "u-relative"}
	roles.roles[relative.ID] = authz.RoleRelatives

	svc := NewSnapshotService(&fakeSnapshotGetter{}, newFakeSnapshotCache(), roles, zerolog.Nop())

	_, err := svc.Steam(ctx, relative, "u-owner")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Spotify(ctx, models.User{ID: "u-stranger"}, "u-owner")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSnapshotMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	viewer := models.User{ID: "u-viewer"}
	roles.roles[viewer.ID] = authz.RoleViewer

	svc := NewSnapshotService(&fakeSnapshotGetter{}, newFakeSnapshotCache(), roles, zerolog.Nop())

	_, err := svc.Steam(ctx, viewer, "u-owner")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Spotify(ctx, viewer, "u-owner")
	assert.ErrorIs(t, err, ErrNotFound)
}
