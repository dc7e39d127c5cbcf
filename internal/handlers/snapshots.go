package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
)

// snapshotTarget picks whose data the dashboard panels show: the owner's,
// falling back to the caller when no owner role is assigned yet.
func (h HandlerSet) snapshotTarget(c *gin.Context, user models.User) string {
	ownerID, err := h.permissions.OwnerUserID(c.Request.Context())
	if err != nil {
		return user.ID
	}
	return ownerID
}

func (h HandlerSet) requireRole(c *gin.Context, user models.User, minimum authz.Role) bool {
	role, err := h.permissions.GetRole(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return false
	}
	if authz.Level(role) < authz.Level(minimum) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return false
	}
	return true
}

func (h HandlerSet) SteamSnapshot(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	snapshot, err := h.snapshots.Steam(c.Request.Context(), user, h.snapshotTarget(c, user))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h HandlerSet) SpotifySnapshot(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	snapshot, err := h.snapshots.Spotify(c.Request.Context(), user, h.snapshotTarget(c, user))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// RefreshSteam pulls fresh Steam data for the caller using their stored
// credentials. Settings are admin territory, so is forcing a refresh.
func (h HandlerSet) RefreshSteam(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !h.requireRole(c, user, authz.RoleAdmin) {
		return
	}

	snapshot, err := h.refresher.RefreshSteam(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h HandlerSet) RefreshSpotify(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !h.requireRole(c, user, authz.RoleAdmin) {
		return
	}

	snapshot, err := h.refresher.RefreshSpotify(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h HandlerSet) SpotifyAuthURL(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !h.requireRole(c, user, authz.RoleAdmin) {
		return
	}

	state := uuid.NewString()
	c.JSON(http.StatusOK, gin.H{"url": h.spotify.AuthCodeURL(state), "state": state})
}

type spotifyCallbackRequest struct {
	Code string `json:"code" binding:"required"`
}

// SpotifyCallback finishes the OAuth dance: the authorization code becomes
// a refresh token stored in the caller's settings.
func (h HandlerSet) SpotifyCallback(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if !h.requireRole(c, user, authz.RoleAdmin) {
		return
	}

	var req spotifyCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	refreshToken, err := h.spotify.Exchange(c.Request.Context(), req.Code)
	if err != nil {
		h.log.Warn().Err(err).Msg("spotify code exchange failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream_failed"})
		return
	}

	if err := h.settings.SetSpotifyRefreshToken(c.Request.Context(), user.ID, refreshToken); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
