// Package reconciler merges equivalent facts and reports conflicting values.
//
// Facts are processed in a single forward pass. Each incoming fact is merged
// into the first already-accepted fact it matches, so the outcome depends on
// input order. A fact that matches nothing but shares its canonical field
// with an accepted fact is a conflict signal; conflicts are reported for
// every field that ends up with two or more distinct normalized values.
package reconciler

import (
	"context"

	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/logging"
)

// Reconciler merges facts.
type Reconciler interface {
	// Facts merges equivalent facts and collects conflicts. It never fails;
	// ctx only carries the logger.
	Facts(ctx context.Context, in []facts.Fact) *Result
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	matcher *matcher
}

// New creates a new Reconciler with options.
func New(opts ...Option) (Reconciler, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &reconciler{
		matcher: &matcher{
			canonicalizer: options.canonicalizer,
			threshold:     options.threshold,
		},
	}, nil
}

// Default returns a reconciler with the built-in tables and threshold.
func Default() Reconciler {
	r, _ := New()
	return r
}

// Facts implements Reconciler.
func (r *reconciler) Facts(ctx context.Context, in []facts.Fact) *Result {
	result := NewResult()
	result.Metadata.Threshold = r.matcher.threshold
	stats := &result.Metadata.Stats
	stats.InputFacts = len(in)

	merged := make([]facts.Fact, 0, len(in))
	conflicts := newConflictIndex()

	for _, f := range in {
		i, kind := r.matcher.find(merged, f)
		switch kind {
		case MatchExact:
			stats.ExactMerges++
		case MatchFuzzy:
			stats.FuzzyMerges++
		}
		if kind != MatchNone {
			merged[i] = merged[i].WithSources(f.Sources...)
			continue
		}

		if j := firstWithField(merged, f.CanonicalField); j >= 0 {
			conflicts.signal(merged[j], f)
		}
		merged = append(merged, f.WithSources())
	}

	result.MergedFacts = merged
	result.Conflicts = conflicts.conflicts()
	stats.MergedFacts = len(merged)
	stats.ConflictFields = len(result.Conflicts)
	result.Finalize()

	logging.FromContext(ctx).Debug().
		Int("input_facts", stats.InputFacts).
		Int("merged_facts", stats.MergedFacts).
		Int("exact_merges", stats.ExactMerges).
		Int("fuzzy_merges", stats.FuzzyMerges).
		Int("conflict_fields", stats.ConflictFields).
		Dur("duration", result.Metadata.Duration).
		Msg("Reconciled facts")

	return result
}

// firstWithField returns the index of the first fact for field, or -1.
func firstWithField(merged []facts.Fact, field string) int {
	for i := range merged {
		if merged[i].CanonicalField == field {
			return i
		}
	}
	return -1
}

// Facts reconciles in with the default reconciler.
func Facts(ctx context.Context, in []facts.Fact) *Result {
	return Default().Facts(ctx, in)
}

