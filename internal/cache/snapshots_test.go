package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

func newTestCache(t *testing.T) *SnapshotCache {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshotCache(client)
}

func TestSnapshotCache_SteamRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	snapshot := models.SteamSnapshot{
		UserID: "u1",
		RecentGames: []models.SteamGame{
			{AppID: "730", Name: "Counter-Strike 2", Playtime2Weeks: 120},
		},
		CSStats:     &models.CSStats{Kills: 100, Deaths: 80, Wins: 12},
		RefreshedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, c.SetSteam(ctx, snapshot))

	got, err := c.GetSteam(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, snapshot.RecentGames, got.RecentGames)
	assert.Equal(t, snapshot.CSStats, got.CSStats)
}

func TestSnapshotCache_Miss(t *testing.T) {
	c := newTestCache(t)

	_, err := c.GetSpotify(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestSnapshotCache_FullReplace(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	first := models.SpotifySnapshot{
		UserID:     "u1",
		TopArtists: []models.SpotifyArtist{{ID: "a1", Name: "Old Artist"}},
		TopGenres:  []models.SpotifyGenre{{Name: "rock", Count: 3}},
	}
	require.NoError(t, c.SetSpotify(ctx, first))

	second := models.SpotifySnapshot{
		UserID:     "u1",
		TopArtists: []models.SpotifyArtist{{ID: "a2", Name: "New Artist"}},
	}
	require.NoError(t, c.SetSpotify(ctx, second))

	got, err := c.GetSpotify(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got.TopArtists, 1)
	assert.Equal(t, "a2", got.TopArtists[0].ID)
	assert.Empty(t, got.TopGenres)
}
