package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

type SnapshotGetter interface {
	GetSteam(ctx context.Context, userID string) (models.SteamSnapshot, error)
	GetSpotify(ctx context.Context, userID string) (models.SpotifySnapshot, error)
}

// SnapshotCacheStore fronts the snapshot tables. Any cache error reads as a
// miss; the table is the source of truth.
type SnapshotCacheStore interface {
	GetSteam(ctx context.Context, userID string) (models.SteamSnapshot, error)
	GetSpotify(ctx context.Context, userID string) (models.SpotifySnapshot, error)
	SetSteam(ctx context.Context, snapshot models.SteamSnapshot) error
	SetSpotify(ctx context.Context, snapshot models.SpotifySnapshot) error
}

// SnapshotService serves the dashboard's Steam and Spotify panels,
// cache-aside over the stored snapshots.
type SnapshotService struct {
	snapshots SnapshotGetter
	cache     SnapshotCacheStore
	roles     RoleStore
	log       zerolog.Logger
}

func NewSnapshotService(snapshots SnapshotGetter, cache SnapshotCacheStore, roles RoleStore, log zerolog.Logger) *SnapshotService {
	return &SnapshotService{snapshots: snapshots, cache: cache, roles: roles, log: log}
}

func (s *SnapshotService) authorize(ctx context.Context, actor models.User) error {
	role, err := roleOf(ctx, s.roles, actor.ID)
	if err != nil {
		return err
	}
	if authz.Level(role) < authz.Level(authz.RoleViewer) {
		return fmt.Errorf("%w: viewer role required", ErrForbidden)
	}
	return nil
}

// Steam returns the target user's Steam snapshot.
func (s *SnapshotService) Steam(ctx context.Context, actor models.User, targetUserID string) (models.SteamSnapshot, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return models.SteamSnapshot{}, err
	}

	if s.cache != nil {
		if snapshot, err := s.cache.GetSteam(ctx, targetUserID); err == nil {
			return snapshot, nil
		}
	}

	snapshot, err := s.snapshots.GetSteam(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return models.SteamSnapshot{}, fmt.Errorf("%w: no steam snapshot", ErrNotFound)
		}
		return models.SteamSnapshot{}, fmt.Errorf("load steam snapshot: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetSteam(ctx, snapshot); err != nil {
			s.log.Warn().Err(err).Msg("steam cache backfill failed")
		}
	}
	return snapshot, nil
}

// Spotify returns the target user's Spotify snapshot.
func (s *SnapshotService) Spotify(ctx context.Context, actor models.User, targetUserID string) (models.SpotifySnapshot, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return models.SpotifySnapshot{}, err
	}

	if s.cache != nil {
		if snapshot, err := s.cache.GetSpotify(ctx, targetUserID); err == nil {
			return snapshot, nil
		}
	}

	snapshot, err := s.snapshots.GetSpotify(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return models.SpotifySnapshot{}, fmt.Errorf("%w: no spotify snapshot", ErrNotFound)
		}
		return models.SpotifySnapshot{}, fmt.Errorf("load spotify snapshot: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetSpotify(ctx, snapshot); err != nil {
			s.log.Warn().Err(err).Msg("spotify cache backfill failed")
		}
	}
	return snapshot, nil
}
