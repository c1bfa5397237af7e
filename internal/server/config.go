package server

import (
	"time"

	"github.com/agentstation/factmerge/pkg/constants"
)

// Config holds server configuration.
type Config struct {
	// Server settings
	Host string
	Port int

	// API settings
	PathPrefix string

	// CORS settings
	CORSEnabled bool
	CORSOrigins []string

	// Performance settings
	RateLimit int // Requests per minute per IP (0 to disable)
	CacheTTL  time.Duration

	// Upload limits
	MaxFileSize    int64
	MaxFiles       int
	MaxRequestSize int64

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           8080,
		PathPrefix:     "/api/v1",
		CORSEnabled:    false,
		CORSOrigins:    []string{},
		RateLimit:      60,
		CacheTTL:       constants.DefaultCacheTTL,
		MaxFileSize:    constants.MaxFileSize,
		MaxFiles:       constants.MaxFiles,
		MaxRequestSize: constants.MaxRequestSize,
		ReadTimeout:    5 * time.Minute,
		WriteTimeout:   5 * time.Minute,
		IdleTimeout:    120 * time.Second,
	}
}

// withDefaults fills unset fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = d.MaxFileSize
	}
	if c.MaxFiles <= 0 {
		c.MaxFiles = d.MaxFiles
	}
	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = d.MaxRequestSize
	}
	if c.PathPrefix == "" {
		c.PathPrefix = d.PathPrefix
	}
	return c
}
