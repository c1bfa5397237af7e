// Package constants holds values shared by the factmerge CLI, server and merge service.
package constants

import "time"

// File permission constants
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0o755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0o644
)

// Reconciliation defaults
const (
	// DefaultRegion is the region assumed when a phone number carries no country code
	DefaultRegion = "US"

	// DefaultFuzzyThreshold is the minimum similarity for merging name/address values
	DefaultFuzzyThreshold = 0.85

	// DefaultWorkers bounds how many files are extracted concurrently
	DefaultWorkers = 4
)

// Upload limits, matching what the merge endpoint accepts
const (
	// MaxFileSize is the largest single upload accepted (100MB)
	MaxFileSize = 100 << 20

	// MaxFiles is the most files accepted in one merge request
	MaxFiles = 1000

	// MaxRequestSize is the largest merge request body accepted (256MB)
	MaxRequestSize = 256 << 20
)

// Timeouts
const (
	// ShutdownTimeout bounds graceful shutdown of the CLI and server
	ShutdownTimeout = 5 * time.Second

	// DefaultCacheTTL is how long the server keeps a merge result for identical uploads
	DefaultCacheTTL = 5 * time.Minute
)
