package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

type demoResponse struct {
	ID        string    `json:"id"`
	ShareCode string    `json:"shareCode"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

func toDemoResponse(demo models.Demo) demoResponse {
	return demoResponse{
		ID:        demo.ID,
		ShareCode: demo.ShareCode,
		SizeBytes: demo.SizeBytes,
		CreatedAt: demo.CreatedAt,
	}
}

func (h HandlerSet) ListDemos(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	demos, err := h.demos.List(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]demoResponse, 0, len(demos))
	for _, demo := range demos {
		out = append(out, toDemoResponse(demo))
	}
	c.JSON(http.StatusOK, gin.H{"demos": out})
}

// ArchiveDemo accepts a multipart upload: a "file" part with the raw demo
// and a "shareCode" field naming the match.
func (h HandlerSet) ArchiveDemo(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	shareCode := c.PostForm("shareCode")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file part required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
		return
	}
	defer file.Close()

	demo, err := h.demos.Archive(c.Request.Context(), user, shareCode, file, fileHeader.Size)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDemoResponse(demo))
}

func (h HandlerSet) DownloadDemo(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	demo, body, err := h.demos.Open(c.Request.Context(), user, c.Param("shareCode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="`+demo.ShareCode+`.dem"`)
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.log.Error().Err(err).Str("share_code", demo.ShareCode).Msg("demo stream interrupted")
	}
}
