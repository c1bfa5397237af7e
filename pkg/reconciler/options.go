package reconciler

import (
	"github.com/agentstation/factmerge/pkg/constants"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/fields"
)

// options configures a reconciler.
type options struct {
	canonicalizer *fields.Canonicalizer
	threshold     float64
}

func defaultOptions() *options {
	return &options{
		canonicalizer: fields.Default(),
		threshold:     constants.DefaultFuzzyThreshold,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithThreshold sets the minimum similarity for a fuzzy merge.
func WithThreshold(threshold float64) Option {
	return func(o *options) error {
		if threshold <= 0 || threshold > 1 {
			return &errors.ValidationError{
				Field:   "threshold",
				Value:   threshold,
				Message: "must be greater than 0 and at most 1",
			}
		}
		o.threshold = threshold
		return nil
	}
}

// WithCanonicalizer sets the canonicalizer that decides fuzzy eligibility.
func WithCanonicalizer(c *fields.Canonicalizer) Option {
	return func(o *options) error {
		if c == nil {
			return &errors.ValidationError{
				Field:   "canonicalizer",
				Message: "cannot be nil",
			}
		}
		o.canonicalizer = c
		return nil
	}
}
