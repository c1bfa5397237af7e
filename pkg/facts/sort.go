package facts

import (
	"cmp"
	"slices"
)

// Sort returns a new slice ordered by canonical field, then normalized value.
// Comparison is byte-wise and ties keep their input order. The input is not
// modified.
func Sort(facts []Fact) []Fact {
	sorted := slices.Clone(facts)
	if sorted == nil {
		sorted = []Fact{}
	}
	slices.SortStableFunc(sorted, func(a, b Fact) int {
		return cmp.Or(
			cmp.Compare(a.CanonicalField, b.CanonicalField),
			cmp.Compare(a.NormalizedValue, b.NormalizedValue),
		)
	})
	return sorted
}
