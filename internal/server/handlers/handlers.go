// Package handlers provides HTTP request handlers for the factmerge API.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/server/cache"
)

// Limits bounds a merge upload.
type Limits struct {
	MaxFileSize    int64 // bytes per file
	MaxFiles       int
	MaxRequestSize int64 // bytes per request body
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	app       application.Application
	cache     *cache.Cache
	logger    *zerolog.Logger
	limits    Limits
	startTime time.Time
}

// New creates a new Handlers instance.
func New(
	app application.Application,
	cache *cache.Cache,
	logger *zerolog.Logger,
	limits Limits,
	startTime time.Time,
) *Handlers {
	return &Handlers{
		app:       app,
		cache:     cache,
		logger:    logger,
		limits:    limits,
		startTime: startTime,
	}
}
