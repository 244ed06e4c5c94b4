package server

import (
	"context"
	"log"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/teampulse/feedback-backend/config"
	"github.com/teampulse/feedback-backend/internal/api"
	"github.com/teampulse/feedback-backend/internal/middleware"
	"github.com/teampulse/feedback-backend/internal/router"
	"github.com/teampulse/feedback-backend/internal/service"
)

// Server wires services and handlers into an HTTP server.
type Server struct {
	http *http.Server
}

// New builds the full service/handler graph. redisClient may be nil, in
// which case login rate limiting is disabled.
func New(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	feedbackService := service.NewFeedbackService(db)
	formService := service.NewFormService(db)
	dashboardService := service.NewDashboardService(db)

	var limiter *middleware.RateLimiter
	if redisClient != nil {
		limiter = middleware.NewLoginRateLimiter(redisClient)
	} else {
		log.Println("Redis not configured, login rate limiting disabled")
	}

	engine := router.Setup(router.Options{
		Auth:         api.NewAuthHandler(authService, cfg.CookieDomain),
		Feedback:     api.NewFeedbackHandler(feedbackService),
		Forms:        api.NewFormHandler(formService),
		Dashboard:    api.NewDashboardHandler(dashboardService),
		Identity:     authService,
		LoginLimiter: limiter,
		CORSOrigins:  cfg.CORSOrigins,
	})

	return &Server{
		http: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: engine,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
