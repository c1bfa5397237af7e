package reconciler

import (
	"fmt"
	"time"

	"github.com/agentstation/factmerge/pkg/facts"
)

// Result represents the outcome of a reconciliation pass.
type Result struct {
	// MergedFacts in acceptance order; use facts.Sort for output order.
	MergedFacts []facts.Fact

	// Conflicts in order of the first conflict signal for each field.
	Conflicts []facts.Conflict

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the reconciliation pass.
type ResultMetadata struct {
	// StartTime when reconciliation started
	StartTime time.Time

	// EndTime when reconciliation completed
	EndTime time.Time

	// Duration of the reconciliation
	Duration time.Duration

	// Threshold used for fuzzy matches
	Threshold float64

	// Statistics about the reconciliation
	Stats ResultStatistics
}

// ResultStatistics contains statistics about the reconciliation.
type ResultStatistics struct {
	InputFacts     int
	MergedFacts    int
	ExactMerges    int
	FuzzyMerges    int
	ConflictFields int
}

// HasConflicts returns true if any field has competing values.
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	summary := fmt.Sprintf("Reconciled %d facts into %d (%d exact, %d fuzzy merges)",
		s.InputFacts, s.MergedFacts, s.ExactMerges, s.FuzzyMerges)
	if r.HasConflicts() {
		return fmt.Sprintf("%s with conflicts in %d fields.", summary, s.ConflictFields)
	}
	return summary + "."
}

// NewResult creates a new result with defaults.
func NewResult() *Result {
	return &Result{
		MergedFacts: []facts.Fact{},
		Conflicts:   []facts.Conflict{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// Finalize calculates duration and marks completion.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}
