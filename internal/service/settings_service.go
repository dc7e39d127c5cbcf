package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/ids"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
	"github.com/CarlosBueno99/bueno-dashboard/internal/security"
)

type SettingsStore interface {
	SettingsGetter
	Upsert(ctx context.Context, id string, userID string, patch repository.SettingsPatch) error
}

// SettingsService is the one place that reads and writes per-user
// third-party credentials; everything that needs them takes this service as
// a dependency instead of fetching rows ad hoc.
type SettingsService struct {
	settings SettingsStore
	log      zerolog.Logger
}

func NewSettingsService(settings SettingsStore, log zerolog.Logger) *SettingsService {
	return &SettingsService{settings: settings, log: log}
}

// MaskedSettings is what the settings form sees: presence flags and masked
// key tails, never full credentials.
type MaskedSettings struct {
	SteamAPIKey         string
	SteamID             string
	HasSpotifyToken     bool
	HasLocationPassword bool
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func (s *SettingsService) Get(ctx context.Context, actor models.User) (MaskedSettings, error) {
	settings, err := s.settings.GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return MaskedSettings{}, nil
		}
		return MaskedSettings{}, fmt.Errorf("load settings: %w", err)
	}

	masked := MaskedSettings{
		HasSpotifyToken:     settings.SpotifyRefreshToken != nil && *settings.SpotifyRefreshToken != "",
		HasLocationPassword: len(settings.LocationPasswordHash) > 0,
	}
	if settings.SteamAPIKey != nil {
		masked.SteamAPIKey = maskKey(*settings.SteamAPIKey)
	}
	if settings.SteamID != nil {
		masked.SteamID = *settings.SteamID
	}
	return masked, nil
}

// Raw returns the unmasked settings for internal use (refresh, intake auth).
func (s *SettingsService) Raw(ctx context.Context, userID string) (models.WebsiteSettings, error) {
	return s.settings.GetByUserID(ctx, userID)
}

type SaveSettingsInput struct {
	SteamAPIKey *string
	SteamID     *string
}

// Save patches the caller's Steam credentials; absent fields keep their
// stored values.
func (s *SettingsService) Save(ctx context.Context, actor models.User, input SaveSettingsInput) error {
	patch := repository.SettingsPatch{
		SteamAPIKey: input.SteamAPIKey,
		SteamID:     input.SteamID,
	}
	if err := s.settings.Upsert(ctx, ids.New(), actor.ID, patch); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetSpotifyRefreshToken stores the refresh token obtained by the OAuth
// callback.
func (s *SettingsService) SetSpotifyRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("%w: empty refresh token", ErrValidation)
	}
	patch := repository.SettingsPatch{SpotifyRefreshToken: &refreshToken}
	if err := s.settings.Upsert(ctx, ids.New(), userID, patch); err != nil {
		return fmt.Errorf("save spotify token: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("spotify refresh token stored")
	return nil
}

// SetLocationPassword hashes and stores the intake password.
func (s *SettingsService) SetLocationPassword(ctx context.Context, actor models.User, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: location password must be at least 8 characters", ErrValidation)
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	patch := repository.SettingsPatch{LocationPasswordHash: hash}
	if err := s.settings.Upsert(ctx, ids.New(), actor.ID, patch); err != nil {
		return fmt.Errorf("save location password: %w", err)
	}
	return nil
}
