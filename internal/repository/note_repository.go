package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

var ErrNoteNotFound = errors.New("note not found")

type NoteRepository struct {
	pool *pgxpool.Pool
}

func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) Create(ctx context.Context, note models.PrivateNote) error {
	const query = `
		INSERT INTO private_notes (id, user_id, title, content, access_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		note.AccessLevel,
		note.CreatedAt,
	)
	return err
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (models.PrivateNote, error) {
	const query = `
		SELECT id, user_id, title, content, access_level, created_at, updated_at
		FROM private_notes WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var note models.PrivateNote
	if err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&note.AccessLevel,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PrivateNote{}, ErrNoteNotFound
		}
		return models.PrivateNote{}, err
	}
	return note, nil
}

// List returns every note newest-first. Visibility filtering happens in the
// notes guard, which knows the caller's role.
func (r *NoteRepository) List(ctx context.Context) ([]models.PrivateNote, error) {
	const query = `
		SELECT id, user_id, title, content, access_level, created_at, updated_at
		FROM private_notes
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.PrivateNote
	for rows.Next() {
		var note models.PrivateNote
		if err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.Title,
			&note.Content,
			&note.AccessLevel,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM private_notes WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}
