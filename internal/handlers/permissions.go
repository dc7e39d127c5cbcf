package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CarlosBueno99/bueno-dashboard/internal/authz"
)

type permissionResponse struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// MyPermission returns the caller's role; an empty role means no
// assignment yet.
func (h HandlerSet) MyPermission(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	role, err := h.permissions.GetRole(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, permissionResponse{UserID: user.ID, Role: string(role)})
}

// Owner resolves which user carries the owner role.
func (h HandlerSet) Owner(c *gin.Context) {
	ownerID, err := h.permissions.OwnerUserID(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	owner, err := h.users.GetByID(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(owner))
}

type setPermissionRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h HandlerSet) SetPermission(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req setPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID := c.Param("userId")
	if err := h.permissions.SetRole(c.Request.Context(), user, targetID, authz.Role(req.Role)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, permissionResponse{UserID: targetID, Role: req.Role})
}

type pageAccessResponse struct {
	Page    string `json:"page"`
	Allowed bool   `json:"allowed"`
}

func (h HandlerSet) PageAccess(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	page := authz.Page(c.Param("page"))
	allowed, err := h.permissions.CanAccessPage(c.Request.Context(), user.ID, page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageAccessResponse{Page: string(page), Allowed: allowed})
}
