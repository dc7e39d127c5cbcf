package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

var ErrDemoNotFound = errors.New("demo not found")

type DemoRepository struct {
	pool *pgxpool.Pool
}

func NewDemoRepository(pool *pgxpool.Pool) *DemoRepository {
	return &DemoRepository{pool: pool}
}

// Upsert records an archived demo; re-uploading the same share code replaces
// the object reference.
func (r *DemoRepository) Upsert(ctx context.Context, demo models.Demo) error {
	const query = `
		INSERT INTO cs2_demos (id, share_code, bucket, object_key, size_bytes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (share_code) DO UPDATE SET
			bucket = EXCLUDED.bucket,
			object_key = EXCLUDED.object_key,
			size_bytes = EXCLUDED.size_bytes,
			updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query, demo.ID, demo.ShareCode, demo.Bucket, demo.ObjectKey, demo.SizeBytes)
	return err
}

func (r *DemoRepository) GetByShareCode(ctx context.Context, shareCode string) (models.Demo, error) {
	const query = `
		SELECT id, share_code, bucket, object_key, size_bytes, created_at, updated_at
		FROM cs2_demos WHERE share_code = $1
	`

	row := r.pool.QueryRow(ctx, query, shareCode)
	var demo models.Demo
	if err := row.Scan(
		&demo.ID,
		&demo.ShareCode,
		&demo.Bucket,
		&demo.ObjectKey,
		&demo.SizeBytes,
		&demo.CreatedAt,
		&demo.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Demo{}, ErrDemoNotFound
		}
		return models.Demo{}, err
	}
	return demo, nil
}

func (r *DemoRepository) List(ctx context.Context) ([]models.Demo, error) {
	const query = `
		SELECT id, share_code, bucket, object_key, size_bytes, created_at, updated_at
		FROM cs2_demos
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var demos []models.Demo
	for rows.Next() {
		var demo models.Demo
		if err := rows.Scan(
			&demo.ID,
			&demo.ShareCode,
			&demo.Bucket,
			&demo.ObjectKey,
			&demo.SizeBytes,
			&demo.CreatedAt,
			&demo.UpdatedAt,
		); err != nil {
			return nil, err
		}
		demos = append(demos, demo)
	}
	return demos, rows.Err()
}
