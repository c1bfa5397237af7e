package normalize

import (
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/agentstation/factmerge/pkg/constants"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/fields"
)

type options struct {
	canonicalizer *fields.Canonicalizer
	region        string
}

func defaultOptions() *options {
	return &options{
		canonicalizer: fields.Default(),
		region:        constants.DefaultRegion,
	}
}

// Option configures a Normalizer.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithCanonicalizer sets the canonicalizer used to look up field categories
// and address abbreviations.
func WithCanonicalizer(c *fields.Canonicalizer) Option {
	return func(o *options) error {
		if c == nil {
			return &errors.ValidationError{Field: "canonicalizer", Message: "cannot be nil"}
		}
		o.canonicalizer = c
		return nil
	}
}

// WithTables is shorthand for WithCanonicalizer(fields.NewCanonicalizer(t)).
func WithTables(t *fields.Tables) Option {
	return WithCanonicalizer(fields.NewCanonicalizer(t))
}

// WithRegion sets the region assumed for phone numbers written without a
// country code, as an ISO 3166-1 alpha-2 code.
func WithRegion(region string) Option {
	return func(o *options) error {
		region = strings.ToUpper(strings.TrimSpace(region))
		if phonenumbers.GetCountryCodeForRegion(region) == 0 {
			return &errors.ValidationError{Field: "region", Value: region, Message: "unknown region"}
		}
		o.region = region
		return nil
	}
}
