package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

type LocationRepository struct {
	pool *pgxpool.Pool
}

func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

// Create appends a location record. There is no update or delete path.
func (r *LocationRepository) Create(ctx context.Context, record models.LocationRecord) error {
	const query = `
		INSERT INTO locations (
			id, user_id, url, latitude, longitude, display_name, road, city, country, inserted_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`
	_, err := r.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.URL,
		record.Latitude,
		record.Longitude,
		record.DisplayName,
		record.Road,
		record.City,
		record.Country,
		record.InsertedAt,
	)
	return err
}

func (r *LocationRepository) ListByUser(ctx context.Context, userID string) ([]models.LocationRecord, error) {
	const query = `
		SELECT id, user_id, url, latitude, longitude, display_name, road, city, country, inserted_at
		FROM locations
		WHERE user_id = $1
		ORDER BY inserted_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.LocationRecord
	for rows.Next() {
		var record models.LocationRecord
		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.URL,
			&record.Latitude,
			&record.Longitude,
			&record.DisplayName,
			&record.Road,
			&record.City,
			&record.Country,
			&record.InsertedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
