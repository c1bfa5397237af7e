package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/factmerge"
	"github.com/agentstation/factmerge/pkg/fields"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a working default.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    MergerFunc: func(opts ...factmerge.Option) (*factmerge.Merger, error) {
//	        return factmerge.New(append(opts, factmerge.WithWorkers(1))...)
//	    },
//	}
//	cmd := merge.NewCommand(mock)
type Mock struct {
	MergerFunc       func(opts ...factmerge.Option) (*factmerge.Merger, error)
	TablesFunc       func() (*fields.Tables, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Merger returns a merger using the mock function or a default merger.
func (m *Mock) Merger(opts ...factmerge.Option) (*factmerge.Merger, error) {
	if m.MergerFunc != nil {
		return m.MergerFunc(opts...)
	}
	return factmerge.New(opts...)
}

// Tables returns tables using the mock function or the embedded defaults.
func (m *Mock) Tables() (*fields.Tables, error) {
	if m.TablesFunc != nil {
		return m.TablesFunc()
	}
	return fields.DefaultTables(), nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
