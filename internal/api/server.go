// Package api provides the HTTP API server for Servium. It uses the Echo
// framework to serve the catalog REST endpoints behind JWT bearer
// authentication and role-based write gating.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"evalgo.org/servium/internal/auth"
	"evalgo.org/servium/internal/config"
	"evalgo.org/servium/internal/metrics"
	"evalgo.org/servium/internal/storage"
	"evalgo.org/servium/internal/validation"
)

// Server represents the Servium API server.
type Server struct {
	echo       *echo.Echo
	storage    *storage.Storage
	config     *config.Config
	authMiddle *auth.Middleware
	validator  *validation.Validator
}

// New creates a new API server instance.
func New(cfg *config.Config, store *storage.Storage) *Server {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	e.HTTPErrorHandler = HTTPErrorHandler

	server := &Server{
		echo:       e,
		storage:    store,
		config:     cfg,
		authMiddle: auth.NewMiddleware(auth.NewVerifier(cfg)),
		validator:  validation.New(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${time_rfc3339}] ${status} ${method} ${uri} (${latency_human})\n",
	}))

	s.echo.Use(middleware.Recover())

	s.echo.Use(SecurityHeaders)

	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	s.echo.Use(middleware.RequestID())

	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}

	s.echo.Use(ValidateContentType)
	s.echo.Use(ValidateAcceptHeader)
	s.echo.Use(metrics.Middleware())
}

// setupRoutes configures API routes. Every /services route runs the
// credential verifier first and the write-role gate second, so invalid
// credentials are rejected with 401 before the gate and before any store
// access, and a valid credential without the write role gets 403 on
// mutations.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", metrics.Exposer())

	services := s.echo.Group("/services",
		s.authMiddle.RequireAuth,
		s.authMiddle.RequireWriteOnMutation,
	)
	services.GET("", s.listServices)
	services.GET("/:uuid", s.getService)
	services.POST("", s.createService)
	services.PATCH("/:uuid", s.updateService)
	services.DELETE("/:uuid", s.deleteService)
	services.POST("/:uuid/versions", s.createVersion)
	services.DELETE("/:uuid/versions/:number", s.deleteVersion)
}

// healthCheck handles health check requests.
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	log.WithFields(log.Fields{
		"addr":     addr,
		"database": s.config.Database.Driver,
		"debug":    s.config.Server.Debug,
	}).Info("starting http server")

	srv := &http.Server{
		Addr:         addr,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}
	return s.echo.StartServer(srv)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
