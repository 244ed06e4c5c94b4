package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/teampulse/feedback-backend/internal/models"
	"github.com/teampulse/feedback-backend/internal/service"
	"github.com/teampulse/feedback-backend/internal/types"
)

// CookieName is the auth cookie carrying the access token.
const CookieName = "access_token"

const userContextKey = "currentUser"

// IdentityResolver turns a bearer token into an authenticated user.
type IdentityResolver interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// tokenFromRequest reads the access token from the auth cookie first and
// falls back to the Authorization header.
func tokenFromRequest(c *gin.Context) (string, bool) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie, true
	}
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func resolveUser(c *gin.Context, resolver IdentityResolver) (*models.User, error) {
	token, ok := tokenFromRequest(c)
	if !ok {
		return nil, &service.Error{Status: http.StatusUnauthorized, Message: "Not authenticated"}
	}
	claims, err := resolver.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return resolver.GetUser(c.Request.Context(), claims.UserID)
}

// Auth authenticates every request on the group, storing the user in the
// gin context.
func Auth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, resolver)
		if err != nil {
			status := http.StatusUnauthorized
			var svcErr *service.Error
			if errors.As(err, &svcErr) {
				status = svcErr.Status
			}
			c.JSON(status, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth resolves an identity on a best-effort basis: any
// authentication failure degrades to "no identity" instead of a 401.
func OptionalAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, err := resolveUser(c, resolver); err == nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by Auth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
