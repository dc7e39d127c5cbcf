package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/ids"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

type NoteStore interface {
	Create(ctx context.Context, note models.PrivateNote) error
	GetByID(ctx context.Context, id string) (models.PrivateNote, error)
	List(ctx context.Context) ([]models.PrivateNote, error)
	Delete(ctx context.Context, id string) error
}

// NoteService guards private notes: visibility and deletion follow the
// role ladder, creation is capped at the creator's own level.
type NoteService struct {
	notes NoteStore
	roles RoleStore
	log   zerolog.Logger
}

func NewNoteService(notes NoteStore, roles RoleStore, log zerolog.Logger) *NoteService {
	return &NoteService{notes: notes, roles: roles, log: log}
}

// List returns every note the actor may read, newest first.
func (s *NoteService) List(ctx context.Context, actor models.User) ([]models.PrivateNote, error) {
	role, err := roleOf(ctx, s.roles, actor.ID)
	if err != nil {
		return nil, err
	}

	all, err := s.notes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	visible := make([]models.PrivateNote, 0, len(all))
	for _, note := range all {
		if authz.CanReadNote(actor.ID, role, note.UserID, note.AccessLevel) {
			visible = append(visible, note)
		}
	}
	return visible, nil
}

type CreateNoteInput struct {
	Title       string
	Content     string
	AccessLevel authz.Role
}

func (s *NoteService) Create(ctx context.Context, actor models.User, input CreateNoteInput) (models.PrivateNote, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.PrivateNote{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !authz.OnLadder(input.AccessLevel) {
		return models.PrivateNote{}, fmt.Errorf("%w: invalid access level %q", ErrValidation, input.AccessLevel)
	}

	role, err := roleOf(ctx, s.roles, actor.ID)
	if err != nil {
		return models.PrivateNote{}, err
	}
	if !authz.CanCreateNote(role, input.AccessLevel) {
		return models.PrivateNote{}, fmt.Errorf("%w: cannot create %s note with %s role", ErrForbidden, input.AccessLevel, role)
	}

	now := time.Now().UTC()
	note := models.PrivateNote{
		ID:          ids.New(),
		UserID:      actor.ID,
		Title:       input.Title,
		Content:     input.Content,
		AccessLevel: input.AccessLevel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		return models.PrivateNote{}, fmt.Errorf("create note: %w", err)
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, actor models.User, noteID string) error {
	note, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return fmt.Errorf("%w: note %s", ErrNotFound, noteID)
		}
		return fmt.Errorf("load note: %w", err)
	}

	role, err := roleOf(ctx, s.roles, actor.ID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteNote(actor.ID, role, note.UserID) {
		return fmt.Errorf("%w: cannot delete note %s", ErrForbidden, noteID)
	}

	if err := s.notes.Delete(ctx, noteID); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return fmt.Errorf("%w: note %s", ErrNotFound, noteID)
		}
		return fmt.Errorf("delete note: %w", err)
	}

	s.log.Info().
		Str("note_id", noteID).
		Str("actor_id", actor.ID).
		Msg("note deleted")
	return nil
}
