package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/repository"
)

type userResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	ImageURL           *string `json:"imageUrl,omitempty"`
	OnboardingComplete bool    `json:"onboardingComplete"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		ID:                 user.ID,
		Name:               user.Name,
		Email:              user.Email,
		ImageURL:           user.ImageURL,
		OnboardingComplete: user.OnboardingComplete,
	}
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

type updateMeRequest struct {
	Name               *string `json:"name"`
	ImageURL           *string `json:"imageUrl"`
	OnboardingComplete *bool   `json:"onboardingComplete"`
}

func (h HandlerSet) UpdateMe(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := repository.UserPatch{
		Name:               req.Name,
		ImageURL:           req.ImageURL,
		OnboardingComplete: req.OnboardingComplete,
	}
	if err := h.users.Update(c.Request.Context(), user.ID, patch); err != nil {
		h.respondError(c, err)
		return
	}

	updated, err := h.users.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(updated))
}
