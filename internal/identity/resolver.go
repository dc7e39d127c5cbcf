package identity

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

// UserStore is the slice of the user repository the resolver needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByToken(ctx context.Context, tokenIdentifier string) (models.User, error)
}

// PermissionStore creates the default role assignment for new users.
type PermissionStore interface {
	CreateDefault(ctx context.Context, id string, userID string, role authz.Role) error
}

// Claims are the profile fields the auth provider supplies on sign-in.
type Claims struct {
	Name    string
	Email   string
	Picture string
}

// Resolver maps identity tokens to stored users, creating the user and its
// default viewer permission on first contact.
type Resolver struct {
	users       UserStore
	permissions PermissionStore
	log         zerolog.Logger
}

func NewResolver(users UserStore, permissions PermissionStore, log zerolog.Logger) *Resolver {
	return &Resolver{
		users:       users,
		permissions: permissions,
		log:         log,
	}
}

// Resolve looks up the user for an identity token.
func (r *Resolver) Resolve(ctx context.Context, tokenIdentifier string) (models.User, error) {
	return r.users.FindByToken(ctx, tokenIdentifier)
}

// Ensure returns the user for the token, creating it if needed. Safe under
// concurrent first sign-ins: the insert is a no-op on conflict with the
// unique token index, and the winner's row is re-read afterwards. The
// default permission insert is likewise conflict-tolerant, so exactly one
// user and one permission row exist per identity.
func (r *Resolver) Ensure(ctx context.Context, tokenIdentifier string, claims Claims) (models.User, error) {
	user, err := r.users.FindByToken(ctx, tokenIdentifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, fmt.Errorf("find user: %w", err)
	}

	candidate := models.User{
		ID:              ids.New(),
		TokenIdentifier: tokenIdentifier,
		Name:            claims.Name,
		Email:           claims.Email,
	}
	if claims.Picture != "" {
		picture := claims.Picture
		candidate.ImageURL = &picture
	}

	if err := r.users.Create(ctx, candidate); err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	// Re-read: a concurrent Ensure may have won the insert.
	user, err = r.users.FindByToken(ctx, tokenIdentifier)
	if err != nil {
		return models.User{}, fmt.Errorf("reload user: %w", err)
	}

	if err := r.permissions.CreateDefault(ctx, ids.New(), user.ID, authz.RoleViewer); err != nil {
		return models.User{}, fmt.Errorf("assign default role: %w", err)
	}

	r.log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("new user created")

	return user, nil
}
