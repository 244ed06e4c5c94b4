package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teampulse/feedback-backend/internal/api"
	"github.com/teampulse/feedback-backend/internal/middleware"
)

// Options carries everything the route table needs.
type Options struct {
	Auth         *api.AuthHandler
	Feedback     *api.FeedbackHandler
	Forms        *api.FormHandler
	Dashboard    *api.DashboardHandler
	Identity     middleware.IdentityResolver
	LoginLimiter *middleware.RateLimiter // nil disables login rate limiting
	CORSOrigins  []string
}

// Setup configures the application routes.
func Setup(opts Options) *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Feedback Management System API"})
	})
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	apiGroup := router.Group("/api")

	// Public auth routes
	auth := apiGroup.Group("/auth")
	{
		auth.POST("/register", opts.Auth.Register)
		if opts.LoginLimiter != nil {
			auth.POST("/login", opts.LoginLimiter.Middleware(), opts.Auth.Login)
		} else {
			auth.POST("/login", opts.Auth.Login)
		}
		auth.POST("/logout", opts.Auth.Logout)
		// Manager picker is best-effort identity: auth failures degrade
		// to an anonymous caller.
		auth.GET("/manager", middleware.OptionalAuth(opts.Identity), opts.Auth.Managers)
	}

	// Protected routes
	protected := apiGroup.Group("")
	protected.Use(middleware.Auth(opts.Identity))
	{
		protectedAuth := protected.Group("/auth")
		{
			protectedAuth.GET("/me", opts.Auth.Me)
			protectedAuth.GET("/check-auth", opts.Auth.CheckAuth)
			protectedAuth.GET("/team-members", opts.Auth.TeamMembers)
			protectedAuth.POST("/refresh", opts.Auth.Refresh)
		}

		feedback := protected.Group("/feedback")
		{
			feedback.POST("", opts.Feedback.Create)
			feedback.GET("", opts.Feedback.List)
			feedback.GET("/:id", opts.Feedback.Get)
			feedback.PUT("/:id", opts.Feedback.Update)
			feedback.POST("/:id/acknowledge", opts.Feedback.Acknowledge)
			feedback.DELETE("/:id", opts.Feedback.Delete)
		}

		forms := protected.Group("/forms")
		{
			forms.POST("", opts.Forms.Create)
			forms.GET("", opts.Forms.List)
			forms.GET("/active/list", opts.Forms.ListActive)
			forms.GET("/:id", opts.Forms.Get)
			forms.PUT("/:id", opts.Forms.Update)
			forms.DELETE("/:id", opts.Forms.Delete)
			forms.POST("/:id/submit", opts.Forms.Submit)
			forms.GET("/:id/submissions", opts.Forms.Submissions)
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/manager", opts.Dashboard.Manager)
			dashboard.GET("/employee", opts.Dashboard.Employee)
			dashboard.GET("/stats", opts.Dashboard.Stats)
		}
	}

	return router
}
