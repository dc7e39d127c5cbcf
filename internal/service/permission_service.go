package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/ids"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

type PermissionStore interface {
	RoleStore
	Upsert(ctx context.Context, id string, userID string, role authz.Role) error
	FindOwnerUserID(ctx context.Context) (string, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

// PermissionService wraps role reads and the policy-gated role mutation.
type PermissionService struct {
	permissions PermissionStore
	users       UserGetter
	log         zerolog.Logger
}

func NewPermissionService(permissions PermissionStore, users UserGetter, log zerolog.Logger) *PermissionService {
	return &PermissionService{permissions: permissions, users: users, log: log}
}

// GetRole returns the user's role, or the empty role when none is assigned.
func (s *PermissionService) GetRole(ctx context.Context, userID string) (authz.Role, error) {
	return roleOf(ctx, s.permissions, userID)
}

// SetRole assigns newRole to the target user. At most one read (the target's
// existing role) and one write.
func (s *PermissionService) SetRole(ctx context.Context, actor models.User, targetUserID string, newRole authz.Role) error {
	if !authz.Valid(newRole) {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, newRole)
	}

	actingRole, err := roleOf(ctx, s.permissions, actor.ID)
	if err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, targetUserID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, targetUserID)
		}
		return fmt.Errorf("load target user: %w", err)
	}

	targetRole, err := roleOf(ctx, s.permissions, targetUserID)
	if err != nil {
		return err
	}

	if !authz.CanManagePermissions(actingRole, targetRole, newRole) {
		return fmt.Errorf("%w: %s cannot change %s's role", ErrForbidden, actingRole, targetUserID)
	}

	if err := s.permissions.Upsert(ctx, ids.New(), targetUserID, newRole); err != nil {
		return fmt.Errorf("set role: %w", err)
	}

	s.log.Info().
		Str("actor_id", actor.ID).
		Str("target_id", targetUserID).
		Str("role", string(newRole)).
		Msg("role updated")
	return nil
}

// OwnerUserID returns the user id carrying the owner role, used by the
// public owner lookup and the scheduled refresh.
func (s *PermissionService) OwnerUserID(ctx context.Context) (string, error) {
	userID, err := s.permissions.FindOwnerUserID(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrPermissionNotFound) {
			return "", fmt.Errorf("%w: no owner assigned", ErrNotFound)
		}
		return "", fmt.Errorf("find owner: %w", err)
	}
	return userID, nil
}

// CanAccessPage applies the page-level minimum-role gates for the caller.
func (s *PermissionService) CanAccessPage(ctx context.Context, userID string, page authz.Page) (bool, error) {
	if !authz.KnownPage(page) {
		return false, fmt.Errorf("%w: unknown page %q", ErrValidation, page)
	}
	role, err := roleOf(ctx, s.permissions, userID)
	if err != nil {
		return false, err
	}
	return authz.CanAccessPage(role, page), nil
}
