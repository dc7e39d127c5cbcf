package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CarlosBueno99/bueno-dashboard/internal/service"
)

type settingsResponse struct {
	SteamAPIKey         string `json:"steamApiKey"`
	SteamID             string `json:"steamId"`
	HasSpotifyToken     bool   `json:"hasSpotifyToken"`
	HasLocationPassword bool   `json:"hasLocationPassword"`
}

func (h HandlerSet) GetSettings(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	masked, err := h.settings.Get(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsResponse{
		SteamAPIKey:         masked.SteamAPIKey,
		SteamID:             masked.SteamID,
		HasSpotifyToken:     masked.HasSpotifyToken,
		HasLocationPassword: masked.HasLocationPassword,
	})
}

type saveSettingsRequest struct {
	SteamAPIKey *string `json:"steamApiKey"`
	SteamID     *string `json:"steamId"`
}

func (h HandlerSet) SaveSettings(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req saveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settings.Save(c.Request.Context(), user, service.SaveSettingsInput{
		SteamAPIKey: req.SteamAPIKey,
		SteamID:     req.SteamID,
	}); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setLocationPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) SetLocationPassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req setLocationPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settings.SetLocationPassword(c.Request.Context(), user, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
