// Package fields maps free-form field labels onto canonical field ids and
// their categories.
package fields

import (
	"strings"
	"unicode"

	"github.com/agentstation/factmerge/pkg/facts"
)

// Canonicalizer resolves labels using a set of Tables.
type Canonicalizer struct {
	tables *Tables
}

// NewCanonicalizer returns a canonicalizer over tables, or over the
// built-in tables when tables is nil.
func NewCanonicalizer(tables *Tables) *Canonicalizer {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Canonicalizer{tables: tables}
}

// Default returns a canonicalizer over the built-in tables.
func Default() *Canonicalizer {
	return NewCanonicalizer(nil)
}

// Tables returns the tables backing c.
func (c *Canonicalizer) Tables() *Tables {
	return c.tables
}

// Canonicalize maps a raw label to its canonical field id. Labels are
// compared case-insensitively with runs of whitespace and underscores
// treated as a single underscore. Unknown labels come back collapsed.
func (c *Canonicalizer) Canonicalize(label string) string {
	collapsed := collapse(label)
	if id, ok := c.tables.lookup(collapsed); ok {
		return id
	}
	return collapsed
}

// Category returns the category of a canonical field.
func (c *Canonicalizer) Category(field string) facts.FieldCategory {
	return c.tables.Category(field)
}

// FuzzyEligible reports whether values of field may be matched on
// similarity.
func (c *Canonicalizer) FuzzyEligible(field string) bool {
	return c.Category(field).FuzzyEligible()
}

// collapse lowercases and trims s, then folds each run of whitespace or
// underscores into a single underscore.
func collapse(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))

	var b strings.Builder
	b.Grow(len(s))
	inRun := false
	for _, r := range s {
		if isSeparator(r) {
			if !inRun {
				b.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || unicode.IsSpace(r)
}
