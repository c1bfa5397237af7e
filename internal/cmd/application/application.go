// Package application defines what commands and the HTTP server need from
// the factmerge application.
//
// Commands accept the Application interface rather than the concrete
// app.App so they can be tested with Mock:
//
//	mock := &application.Mock{
//	    TablesFunc: func() (*fields.Tables, error) {
//	        return testTables, nil
//	    },
//	}
//	cmd := fields.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/factmerge"
	"github.com/agentstation/factmerge/pkg/fields"
)

// Application provides the application interface that commands need.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Merger returns a merger built from the configuration. Options are
	// applied after the configured ones, so they take precedence. Without
	// options the same cached instance is returned on every call.
	Merger(opts ...factmerge.Option) (*factmerge.Merger, error)

	// Tables returns the field tables: the override file when one is
	// configured, otherwise the embedded defaults.
	Tables() (*fields.Tables, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
