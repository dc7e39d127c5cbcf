package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// UpsertSteam fully replaces the user's Steam snapshot. A failed refresh
// never reaches this point, so the previous snapshot survives failures.
func (r *SnapshotRepository) UpsertSteam(ctx context.Context, id string, snapshot models.SteamSnapshot) error {
	return r.upsert(ctx, "steam_snapshots", id, snapshot.UserID, snapshot, snapshot.RefreshedAt)
}

func (r *SnapshotRepository) GetSteam(ctx context.Context, userID string) (models.SteamSnapshot, error) {
	var snapshot models.SteamSnapshot
	if err := r.get(ctx, "steam_snapshots", userID, &snapshot); err != nil {
		return models.SteamSnapshot{}, err
	}
	return snapshot, nil
}

func (r *SnapshotRepository) UpsertSpotify(ctx context.Context, id string, snapshot models.SpotifySnapshot) error {
	return r.upsert(ctx, "spotify_snapshots", id, snapshot.UserID, snapshot, snapshot.RefreshedAt)
}

func (r *SnapshotRepository) GetSpotify(ctx context.Context, userID string) (models.SpotifySnapshot, error) {
	var snapshot models.SpotifySnapshot
	if err := r.get(ctx, "spotify_snapshots", userID, &snapshot); err != nil {
		return models.SpotifySnapshot{}, err
	}
	return snapshot, nil
}

func (r *SnapshotRepository) upsert(ctx context.Context, table string, id string, userID string, payload any, refreshedAt time.Time) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, payload, refreshed_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET payload = EXCLUDED.payload, refreshed_at = EXCLUDED.refreshed_at
	`, table)

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, id, userID, encoded, refreshedAt)
	return err
}

func (r *SnapshotRepository) get(ctx context.Context, table string, userID string, out any) error {
	query := fmt.Sprintf(`SELECT payload FROM %s WHERE user_id = $1`, table)

	var payload []byte
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSnapshotNotFound
		}
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return nil
}
