package server

import (
	"net/http"

	"github.com/agentstation/factmerge/internal/server/handlers"
	"github.com/agentstation/factmerge/internal/server/middleware"
	"github.com/agentstation/factmerge/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.app,
		s.cache,
		s.logger,
		handlers.Limits{
			MaxFileSize:    s.config.MaxFileSize,
			MaxFiles:       s.config.MaxFiles,
			MaxRequestSize: s.config.MaxRequestSize,
		},
		s.startTime,
	)

	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes. Handlers check the method
// themselves so that a wrong method gets a 405 in the response envelope.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/health", h.HandleHealth)
	mux.HandleFunc(prefix+"/ready", h.HandleReady)

	mux.HandleFunc(prefix+"/merge", h.HandleMerge)
	mux.HandleFunc(prefix+"/fields", h.HandleFields)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found", r.URL.Path)
	})
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if s.rateLimiter != nil {
		handler = middleware.RateLimit(s.rateLimiter)(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	// Logging and recovery (always enabled)
	handler = middleware.Logger(s.logger)(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}
