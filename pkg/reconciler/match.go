package reconciler

import (
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/fields"
	"github.com/agentstation/factmerge/pkg/similarity"
)

// MatchType describes how an incoming fact matched an accepted one.
type MatchType string

// String returns the string representation of a match type.
func (m MatchType) String() string {
	return string(m)
}

const (
	// MatchNone means no accepted fact is equivalent.
	MatchNone MatchType = "none"
	// MatchExact means the normalized values are equal.
	MatchExact MatchType = "exact"
	// MatchFuzzy means the normalized values are similar enough for a
	// fuzzy-eligible field.
	MatchFuzzy MatchType = "fuzzy"
)

// matcher decides fact equivalence.
type matcher struct {
	canonicalizer *fields.Canonicalizer
	threshold     float64
}

// match compares a candidate against one accepted fact.
func (m *matcher) match(accepted, candidate facts.Fact) MatchType {
	if accepted.CanonicalField != candidate.CanonicalField {
		return MatchNone
	}
	if accepted.NormalizedValue == candidate.NormalizedValue {
		return MatchExact
	}
	if m.canonicalizer.FuzzyEligible(candidate.CanonicalField) &&
		similarity.Dice(accepted.NormalizedValue, candidate.NormalizedValue) >= m.threshold {
		return MatchFuzzy
	}
	return MatchNone
}

// find returns the first accepted fact matching candidate.
func (m *matcher) find(accepted []facts.Fact, candidate facts.Fact) (int, MatchType) {
	for i := range accepted {
		if kind := m.match(accepted[i], candidate); kind != MatchNone {
			return i, kind
		}
	}
	return -1, MatchNone
}
