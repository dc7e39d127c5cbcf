package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/service"
)

type noteResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AccessLevel string    `json:"accessLevel"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toNoteResponse(note models.PrivateNote) noteResponse {
	return noteResponse{
		ID:          note.ID,
		UserID:      note.UserID,
		Title:       note.Title,
		Content:     note.Content,
		AccessLevel: string(note.AccessLevel),
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
}

func (h HandlerSet) ListNotes(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	notes, err := h.notes.List(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		out = append(out, toNoteResponse(note))
	}
	c.JSON(http.StatusOK, gin.H{"notes": out})
}

type createNoteRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
	AccessLevel string `json:"accessLevel" binding:"required"`
}

func (h HandlerSet) CreateNote(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.Create(c.Request.Context(), user, service.CreateNoteInput{
		Title:       req.Title,
		Content:     req.Content,
		AccessLevel: authz.Role(req.AccessLevel),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toNoteResponse(note))
}

func (h HandlerSet) DeleteNote(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.notes.Delete(c.Request.Context(), user, c.Param("noteId")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
