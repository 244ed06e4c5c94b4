package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teampulse/feedback-backend/internal/service"
)

// respondError writes a service error with its own status, and anything
// else as a 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.JSON(svcErr.Status, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
