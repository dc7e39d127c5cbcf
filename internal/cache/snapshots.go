package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

// ErrMiss is returned when no cached snapshot exists for the user.
var ErrMiss = errors.New("cache miss")

const snapshotTTL = 2 * time.Hour

// SnapshotCache keeps the latest Steam/Spotify snapshots per user so the
// dashboard read path rarely hits postgres. Entries are fully replaced on
// refresh, matching the snapshot semantics.
type SnapshotCache struct {
	client *redis.Client
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

func steamKey(userID string) string   { return "snapshot:steam:" + userID }
func spotifyKey(userID string) string { return "snapshot:spotify:" + userID }

func (c *SnapshotCache) SetSteam(ctx context.Context, snapshot models.SteamSnapshot) error {
	return c.set(ctx, steamKey(snapshot.UserID), snapshot)
}

func (c *SnapshotCache) GetSteam(ctx context.Context, userID string) (models.SteamSnapshot, error) {
	var snapshot models.SteamSnapshot
	if err := c.get(ctx, steamKey(userID), &snapshot); err != nil {
		return models.SteamSnapshot{}, err
	}
	return snapshot, nil
}

func (c *SnapshotCache) SetSpotify(ctx context.Context, snapshot models.SpotifySnapshot) error {
	return c.set(ctx, spotifyKey(snapshot.UserID), snapshot)
}

func (c *SnapshotCache) GetSpotify(ctx context.Context, userID string) (models.SpotifySnapshot, error) {
	var snapshot models.SpotifySnapshot
	if err := c.get(ctx, spotifyKey(userID), &snapshot); err != nil {
		return models.SpotifySnapshot{}, err
	}
	return snapshot, nil
}

func (c *SnapshotCache) set(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, snapshotTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (c *SnapshotCache) get(ctx context.Context, key string, out any) error {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return nil
}
