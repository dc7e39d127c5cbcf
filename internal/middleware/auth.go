package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/CarlosBueno99/bueno-dashboard/internal/config"
	"github.com/CarlosBueno99/bueno-dashboard/internal/identity"
	"github.com/CarlosBueno99/bueno-dashboard/internal/models"
	"github.com/CarlosBueno99/bueno-dashboard/internal/security"
)

const (
	// CurrentUserKey is where Auth stores the resolved user in the gin
	// context.
	CurrentUserKey = "current_user"
)

// Auth verifies the identity provider's bearer token and resolves it to a
// local user, provisioning one with the default role on first sign-in.
func Auth(cfg *config.AppConfig, resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseIdentityToken(tokenStr, cfg.Auth.JWTSecret, cfg.Auth.Issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := resolver.Ensure(c.Request.Context(), claims.Subject, identity.Claims{
			Name:    claims.Name,
			Email:   claims.Email,
			Picture: claims.Picture,
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_resolution_failed"})
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser pulls the authenticated user out of the gin context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
