// Package app provides the application context and dependency management
// for the factmerge CLI. It centralizes configuration, logging and the
// merger so commands receive their dependencies instead of building them.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/factmerge"
	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/fields"
)

// App represents the factmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Lazily built from config, reset when flags change it
	mu     sync.RWMutex
	tables *fields.Tables
	merger *factmerge.Merger
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment
// that can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.NewConfigError("app", "loading configuration", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Tables returns the field tables, loading the configured override file on
// first use.
func (a *App) Tables() (*fields.Tables, error) {
	a.mu.RLock()
	if a.tables != nil {
		t := a.tables
		a.mu.RUnlock()
		return t, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadTables()
}

// loadTables must be called with the write lock held.
func (a *App) loadTables() (*fields.Tables, error) {
	if a.tables != nil {
		return a.tables, nil
	}

	if a.config.TablesPath == "" {
		a.tables = fields.DefaultTables()
		return a.tables, nil
	}

	t, err := fields.LoadTables(a.config.TablesPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("path", a.config.TablesPath).
		Int("fields", len(t.Fields())).
		Msg("Loaded field tables")
	a.tables = t
	return t, nil
}

// Merger returns the merger built from the configuration. Without options
// the instance is created once and shared; with options a new merger is
// returned whose options are applied after the configured ones.
func (a *App) Merger(opts ...factmerge.Option) (*factmerge.Merger, error) {
	if len(opts) == 0 {
		a.mu.RLock()
		if a.merger != nil {
			m := a.merger
			a.mu.RUnlock()
			return m, nil
		}
		a.mu.RUnlock()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if len(opts) == 0 && a.merger != nil {
		return a.merger, nil
	}

	configured, err := a.mergerOptions()
	if err != nil {
		return nil, err
	}
	m, err := factmerge.New(append(configured, opts...)...)
	if err != nil {
		return nil, errors.NewConfigError("merger", "invalid merge settings", err)
	}

	if len(opts) == 0 {
		a.merger = m
	}
	return m, nil
}

// mergerOptions must be called with the write lock held.
func (a *App) mergerOptions() ([]factmerge.Option, error) {
	tables, err := a.loadTables()
	if err != nil {
		return nil, err
	}

	return []factmerge.Option{
		factmerge.WithTables(tables),
		factmerge.WithRegion(a.config.Region),
		factmerge.WithThreshold(a.config.Threshold),
		factmerge.WithWorkers(a.config.Workers),
		factmerge.WithAudit(a.config.Audit),
	}, nil
}

// reset drops everything derived from the configuration.
func (a *App) reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tables = nil
	a.merger = nil
}

// Shutdown releases application resources. Merges hold nothing between
// calls, so it only drops the cached merger.
func (a *App) Shutdown(_ context.Context) error {
	a.reset()
	a.logger.Debug().Msg("Application shut down")
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		logger := NewLogger(config)
		a.logger = &logger
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithTables sets the field tables, bypassing the configured override file.
func WithTables(tables *fields.Tables) Option {
	return func(a *App) error {
		a.tables = tables
		return nil
	}
}
