package factmerge

import (
	"github.com/agentstation/factmerge/pkg/constants"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/fields"
)

// config holds the settings of a Merger.
type config struct {
	tables      *fields.Tables
	region      string
	threshold   float64
	workers     int
	audit       bool
	maxFileSize int64
}

func defaultConfig() *config {
	return &config{
		tables:      fields.DefaultTables(),
		region:      constants.DefaultRegion,
		threshold:   constants.DefaultFuzzyThreshold,
		workers:     constants.DefaultWorkers,
		maxFileSize: constants.MaxFileSize,
	}
}

// Option is a function that configures a Merger.
type Option func(*config) error

// WithTables sets the field synonym, category and abbreviation tables.
func WithTables(tables *fields.Tables) Option {
	return func(c *config) error {
		if tables == nil {
			return &errors.ValidationError{Field: "tables", Message: "cannot be nil"}
		}
		c.tables = tables
		return nil
	}
}

// WithRegion sets the region assumed for phone numbers without a country
// code.
func WithRegion(region string) Option {
	return func(c *config) error {
		c.region = region
		return nil
	}
}

// WithThreshold sets the minimum similarity for fuzzy merges of names and
// addresses.
func WithThreshold(threshold float64) Option {
	return func(c *config) error {
		c.threshold = threshold
		return nil
	}
}

// WithWorkers sets how many files are extracted concurrently.
func WithWorkers(workers int) Option {
	return func(c *config) error {
		if workers < 1 {
			return &errors.ValidationError{Field: "workers", Value: workers, Message: "must be at least 1"}
		}
		c.workers = workers
		return nil
	}
}

// WithAudit enables the source-conservation audit after every merge.
func WithAudit(enabled bool) Option {
	return func(c *config) error {
		c.audit = enabled
		return nil
	}
}

// WithMaxFileSize sets the largest file, in bytes, that will be extracted.
func WithMaxFileSize(size int64) Option {
	return func(c *config) error {
		if size < 1 {
			return &errors.ValidationError{Field: "maxFileSize", Value: size, Message: "must be positive"}
		}
		c.maxFileSize = size
		return nil
	}
}
