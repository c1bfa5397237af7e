// Package normalize converts raw field values into comparable forms.
//
// Each field category has its own Strategy. Strategies never fail: a value
// that cannot be parsed degrades to a cleaned-up form of itself, so two
// observations of the same unparseable value still compare equal.
package normalize

import (
	"strings"

	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/fields"
)

// Strategy normalizes a non-blank value.
type Strategy func(value string) string

// Normalizer dispatches values to the strategy for their field's category.
// It is immutable and safe for concurrent use.
type Normalizer struct {
	canonicalizer *fields.Canonicalizer
	region        string
	strategies    map[facts.FieldCategory]Strategy
}

// New creates a Normalizer.
func New(opts ...Option) (*Normalizer, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	n := &Normalizer{
		canonicalizer: o.canonicalizer,
		region:        o.region,
	}
	address := newAddressExpander(o.canonicalizer.Tables().Abbreviations())
	n.strategies = map[facts.FieldCategory]Strategy{
		facts.CategoryPhone:    func(v string) string { return Phone(v, n.region) },
		facts.CategoryDate:     Date,
		facts.CategoryCurrency: Currency,
		facts.CategoryAddress:  address.normalize,
		facts.CategoryEmail:    Email,
		facts.CategoryName:     Name,
		facts.CategoryID:       ID,
		facts.CategoryGeneric:  Generic,
	}
	return n, nil
}

// Default returns a Normalizer over the built-in tables and region.
func Default() *Normalizer {
	n, _ := New()
	return n
}

// Region returns the default phone region.
func (n *Normalizer) Region() string {
	return n.region
}

// Canonicalizer returns the canonicalizer used for category lookups.
func (n *Normalizer) Canonicalizer() *fields.Canonicalizer {
	return n.canonicalizer
}

// Normalize returns the normalized form of value for a canonical field.
// Blank values normalize to the empty string.
func (n *Normalizer) Normalize(value, canonicalField string) string {
	return n.NormalizeCategory(value, n.canonicalizer.Category(canonicalField))
}

// NormalizeCategory normalizes value with the strategy for category.
// Unknown categories are treated as generic.
func (n *Normalizer) NormalizeCategory(value string, category facts.FieldCategory) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	strategy, ok := n.strategies[category]
	if !ok {
		strategy = Generic
	}
	return strategy(value)
}

// Generic lowercases and trims.
func Generic(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// Email lowercases and trims.
func Email(value string) string {
	return Generic(value)
}

// Name lowercases, trims and collapses internal whitespace.
func Name(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

// ID lowercases and drops whitespace and dashes.
func ID(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || isSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(value))
}
