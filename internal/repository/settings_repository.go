package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

var ErrSettingsNotFound = errors.New("settings not found")

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) GetByUserID(ctx context.Context, userID string) (models.WebsiteSettings, error) {
	const query = `
		SELECT id, user_id, steam_api_key, steam_id, spotify_refresh_token, location_password_hash, created_at, updated_at
		FROM website_settings WHERE user_id = $1
	`

	row := r.pool.QueryRow(ctx, query, userID)
	var settings models.WebsiteSettings
	if err := row.Scan(
		&settings.ID,
		&settings.UserID,
		&settings.SteamAPIKey,
		&settings.SteamID,
		&settings.SpotifyRefreshToken,
		&settings.LocationPasswordHash,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.WebsiteSettings{}, ErrSettingsNotFound
		}
		return models.WebsiteSettings{}, err
	}
	return settings, nil
}

// SettingsPatch carries only the fields being changed; nil leaves the stored
// value alone.
type SettingsPatch struct {
	SteamAPIKey          *string
	SteamID              *string
	SpotifyRefreshToken  *string
	LocationPasswordHash []byte
}

// Upsert creates or patches a user's settings row in a single statement.
func (r *SettingsRepository) Upsert(ctx context.Context, id string, userID string, patch SettingsPatch) error {
	const query = `
		INSERT INTO website_settings (
			id, user_id, steam_api_key, steam_id, spotify_refresh_token, location_password_hash, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
		ON CONFLICT (user_id) DO UPDATE SET
			steam_api_key = COALESCE(EXCLUDED.steam_api_key, website_settings.steam_api_key),
			steam_id = COALESCE(EXCLUDED.steam_id, website_settings.steam_id),
			spotify_refresh_token = COALESCE(EXCLUDED.spotify_refresh_token, website_settings.spotify_refresh_token),
			location_password_hash = COALESCE(EXCLUDED.location_password_hash, website_settings.location_password_hash),
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		id,
		userID,
		patch.SteamAPIKey,
		patch.SteamID,
		patch.SpotifyRefreshToken,
		patch.LocationPasswordHash,
	)
	return err
}
