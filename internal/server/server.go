package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/server/cache"
	"github.com/agentstation/factmerge/internal/server/middleware"
	"github.com/agentstation/factmerge/pkg/errors"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app         application.Application
	cache       *cache.Cache
	rateLimiter *middleware.RateLimiter
	logger      *zerolog.Logger
	config      Config
	startTime   time.Time
}

// New creates a new server instance with the given configuration. It fails
// if the application cannot build a merger, so misconfiguration surfaces
// before the listener starts.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()
	cfg = cfg.withDefaults()
	cfg.PathPrefix = "/" + strings.Trim(cfg.PathPrefix, "/")

	if _, err := app.Merger(); err != nil {
		return nil, errors.NewConfigError("server", "cannot create merger", err)
	}

	s := &Server{
		app:       app,
		cache:     cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	logger.Debug().
		Str("prefix", cfg.PathPrefix).
		Dur("cache_ttl", cfg.CacheTTL).
		Int("rate_limit", cfg.RateLimit).
		Msg("Server instance created")
	return s, nil
}

// Handler returns the configured http.Handler with middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops background work and drops cached results.
func (s *Server) Shutdown(_ context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.cache.Clear()
	return nil
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	return s.config
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
