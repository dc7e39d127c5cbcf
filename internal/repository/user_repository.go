package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user unless one already exists for the same token
// identifier. Concurrent first sign-ins race on the unique index, not on a
// read-then-write.
func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, token_identifier, name, email, image_url, onboarding_complete, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
		ON CONFLICT (token_identifier) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.TokenIdentifier,
		user.Name,
		user.Email,
		user.ImageURL,
		user.OnboardingComplete,
	)
	return err
}

func (r *UserRepository) FindByToken(ctx context.Context, tokenIdentifier string) (models.User, error) {
	const query = `
		SELECT id, token_identifier, name, email, image_url, onboarding_complete, created_at, updated_at
		FROM users WHERE token_identifier = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, tokenIdentifier))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT id, token_identifier, name, email, image_url, onboarding_complete, created_at, updated_at
		FROM users WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

type UserPatch struct {
	Name               *string
	ImageURL           *string
	OnboardingComplete *bool
}

func (r *UserRepository) Update(ctx context.Context, id string, patch UserPatch) error {
	const query = `
		UPDATE users
		SET name = COALESCE($2, name),
		    image_url = COALESCE($3, image_url),
		    onboarding_complete = COALESCE($4, onboarding_complete),
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, patch.Name, patch.ImageURL, patch.OnboardingComplete)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.TokenIdentifier,
		&user.Name,
		&user.Email,
		&user.ImageURL,
		&user.OnboardingComplete,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
