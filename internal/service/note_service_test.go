package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

func newNoteService(roles *fakeRoleStore, notes *fakeNoteStore) *NoteService {
	return NewNoteService(notes, roles, zerolog.Nop())
}

func TestNoteCreateCappedAtOwnLevel(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	notes := newFakeNoteStore()
	svc := newNoteService(roles, notes)

	viewer := models.User{ID: "u-viewer"}
	roles.roles[viewer.ID] = authz.RoleViewer

	_, err := svc.Create(ctx, viewer, CreateNoteInput{
		Title:       "secret",
		Content:     "not for you",
		AccessLevel: authz.RoleAdmin,
	})
	require.ErrorIs(t, err, ErrForbidden)

	stored, err := notes.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored, "rejected note must not be persisted")

	// A viewer cannot create notes at all; an editor can, up to editor.
	editor := models.User{ID: "u-editor"}
	roles.roles[editor.ID] = authz.RoleEditor

	_, err = svc.Create(ctx, viewer, CreateNoteInput{Title: "t", AccessLevel: authz.RoleViewer})
	assert.ErrorIs(t, err, ErrForbidden)

	note, err := svc.Create(ctx, editor, CreateNoteInput{Title: "t", AccessLevel: authz.RoleEditor})
	require.NoError(t, err)
	assert.Equal(t, editor.ID, note.UserID)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	_, err = svc.Create(ctx, editor, CreateNoteInput{Title: "t", AccessLevel: authz.RoleAdmin})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestNoteCreateValidation(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	svc := newNoteService(roles, newFakeNoteStore())

	owner := models.User{ID: "u-owner"}
	roles.roles[owner.ID] = authz.RoleOwner

	_, err := svc.Create(ctx, owner, CreateNoteInput{Title: "   ", AccessLevel: authz.RoleViewer})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, owner, CreateNoteInput{Title: "t", AccessLevel: authz.RoleRelatives})
	assert.ErrorIs(t, err, ErrValidation, "relatives is not a note access level")

	_, err = svc.Create(ctx, owner, CreateNoteInput{Title: "t", AccessLevel: authz.Role("root")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteListVisibility(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	notes := newFakeNoteStore()
	svc := newNoteService(roles, notes)

	owner := models.User{ID: "u-owner"}
	admin := models.User{ID: "u-admin"}
	editor := models.User{ID: "u-editor"}
	viewer := models.User{ID: "u-viewer"}
	relative := models.User{ID: "u-relative"}
	roles.roles[owner.ID] = authz.RoleOwner
	roles.roles[admin.ID] = authz.RoleAdmin
	roles.roles[editor.ID] = authz.RoleEditor
	roles.roles[viewer.ID] = authz.RoleViewer
	roles.roles[relative.ID] = authz.RoleRelatives

	_, err := svc.Create(ctx, owner, CreateNoteInput{Title: "public", AccessLevel: authz.RoleViewer})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, CreateNoteInput{Title: "staff", AccessLevel: authz.RoleAdmin})
	require.NoError(t, err)
	_, err = svc.Create(ctx, editor, CreateNoteInput{Title: "mine", AccessLevel: authz.RoleEditor})
	require.NoError(t, err)

	titles := func(u models.User) []string {
		visible, err := svc.List(ctx, u)
		require.NoError(t, err)
		out := make([]string, 0, len(visible))
		for _, n := range visible {
			out = append(out, n.Title)
		}
		return out
	}

	assert.ElementsMatch(t, []string{"public", "staff", "mine"}, titles(owner))
	assert.ElementsMatch(t, []string{"public", "staff", "mine"}, titles(admin))
	assert.ElementsMatch(t, []string{"public", "mine"}, titles(editor))
	assert.ElementsMatch(t, []string{"public"}, titles(viewer))
	assert.Empty(t, titles(relative), "relatives sits off the ladder")
}

func TestNoteListAuthorAlwaysSeesOwn(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	notes := newFakeNoteStore()
	svc := newNoteService(roles, notes)

	admin := models.User{ID: "u-admin"}
	roles.roles[admin.ID] = authz.RoleAdmin

	note, err := svc.Create(ctx, admin, CreateNoteInput{Title: "mine", AccessLevel: authz.RoleAdmin})
	require.NoError(t, err)

	// The author is later demoted below the note's access level.
	roles.roles[admin.ID] = authz.RoleViewer

	visible, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, note.ID, visible[0].ID)
}

func TestNoteDelete(t *testing.T) {
	ctx := context.Background()
	roles := newFakeRoleStore()
	notes := newFakeNoteStore()
	svc := newNoteService(roles, notes)

	editor := models.User{ID: "u-editor"}
	other := models.User{ID: "u-other"}
	admin := models.User{ID: "u-admin"}
	roles.roles[editor.ID] = authz.RoleEditor
	roles.roles[other.ID] = authz.RoleEditor
	roles.roles[admin.ID] = authz.RoleAdmin

	note, err := svc.Create(ctx, editor, CreateNoteInput{Title: "t", AccessLevel: authz.RoleViewer})
	require.NoError(t, err)

	err = svc.Delete(ctx, other, note.ID)
	assert.ErrorIs(t, err, ErrForbidden, "another editor may not delete someone else's note")

	err = svc.Delete(ctx, admin, note.ID)
	assert.NoError(t, err, "admin may delete any note")

	err = svc.Delete(ctx, admin, note.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	note2, err := svc.Create(ctx, editor, CreateNoteInput{Title: "t2", AccessLevel: authz.RoleViewer})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(ctx, editor, note2.ID), "author may delete their own note")
}
