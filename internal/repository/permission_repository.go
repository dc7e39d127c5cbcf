package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

var ErrPermissionNotFound = errors.New("permission not found")

type PermissionRepository struct {
	pool *pgxpool.Pool
}

func NewPermissionRepository(pool *pgxpool.Pool) *PermissionRepository {
	return &PermissionRepository{pool: pool}
}

func (r *PermissionRepository) GetByUserID(ctx context.Context, userID string) (models.Permission, error) {
	const query = `
		SELECT id, user_id, role, created_at, updated_at
		FROM permissions WHERE user_id = $1
	`

	row := r.pool.QueryRow(ctx, query, userID)
	var permission models.Permission
	if err := row.Scan(
		&permission.ID,
		&permission.UserID,
		&permission.Role,
		&permission.CreatedAt,
		&permission.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Permission{}, ErrPermissionNotFound
		}
		return models.Permission{}, err
	}
	return permission, nil
}

// CreateDefault assigns the initial role for a new user. A no-op when a
// permission row already exists, so concurrent first sign-ins produce
// exactly one assignment.
func (r *PermissionRepository) CreateDefault(ctx context.Context, id string, userID string, role authz.Role) error {
	const query = `
		INSERT INTO permissions (id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, id, userID, role)
	return err
}

// Upsert sets or replaces a user's role. One write, no read-modify-write.
func (r *PermissionRepository) Upsert(ctx context.Context, id string, userID string, role authz.Role) error {
	const query = `
		INSERT INTO permissions (id, user_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, id, userID, role)
	return err
}

// FindOwnerUserID returns the user id of the first owner-role assignment,
// used by the scheduled refresh and the public owner lookup.
func (r *PermissionRepository) FindOwnerUserID(ctx context.Context) (string, error) {
	const query = `
		SELECT user_id FROM permissions WHERE role = $1 ORDER BY created_at ASC LIMIT 1
	`
	var userID string
	if err := r.pool.QueryRow(ctx, query, authz.RoleOwner).Scan(&userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrPermissionNotFound
		}
		return "", err
	}
	return userID, nil
}
