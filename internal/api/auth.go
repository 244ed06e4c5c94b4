package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teampulse/feedback-backend/internal/middleware"
	"github.com/teampulse/feedback-backend/internal/service"
	"github.com/teampulse/feedback-backend/internal/types"
)

type AuthHandler struct {
	auth         *service.AuthService
	cookieDomain string
}

func NewAuthHandler(auth *service.AuthService, cookieDomain string) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		cookieDomain: cookieDomain,
	}
}

// setAuthCookie stores the access token in a cross-site cookie. SameSite
// must be None (and therefore Secure) because the frontend is served from
// another origin.
func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.CookieName, token, int(service.TokenTTL.Seconds()), "/", h.cookieDomain, true, true)
}

func (h *AuthHandler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", h.cookieDomain, true, true)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         user,
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": gin.H{
			"id":          user.ID.String(),
			"email":       user.Email,
			"full_name":   user.FullName,
			"role":        user.Role,
			"employee_id": user.EmployeeID,
		},
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	token, err := h.auth.GenerateToken(user)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"message":      "Token refreshed successfully",
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) TeamMembers(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	members, err := h.auth.TeamMembers(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// Managers serves the registration page's manager picker. Identity here is
// best-effort; the route sits behind OptionalAuth.
func (h *AuthHandler) Managers(c *gin.Context) {
	options, err := h.auth.Managers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}
