package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

// RoleStore is the permission lookup every guard shares.
type RoleStore interface {
	GetByUserID(ctx context.Context, userID string) (models.Permission, error)
}

// roleOf returns the user's stored role, or the empty role (below viewer)
// when no permission row exists.
func roleOf(ctx context.Context, store RoleStore, userID string) (authz.Role, error) {
	permission, err := store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPermissionNotFound) {
			return authz.Role(""), nil
		}
		return authz.Role(""), fmt.Errorf("load role: %w", err)
	}
	return permission.Role, nil
}
