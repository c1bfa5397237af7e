package provenance

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/agentstation/factmerge/pkg/facts"
)

// lowConfidence is the confidence below which a merged value draws a
// warning.
const lowConfidence = 0.5

// AuditResult contains audit findings.
type AuditResult struct {
	Valid         bool
	Issues        []string
	Warnings      []string
	InputSources  int // Sources across the input facts
	OutputSources int // Sources across the merged facts
	Conflicts     int // Number of fields with conflicting values
}

// Audit checks a merge result against the facts it was built from: every
// input source appears in exactly one merged fact, conflicts list at least
// two distinct values of a merged field, and the totals agree.
func Audit(input []facts.Fact, result *facts.MergeResult) *AuditResult {
	audit := &AuditResult{Valid: true, Issues: []string{}, Warnings: []string{}}
	if result == nil {
		audit.fail("result is nil")
		return audit
	}

	want := make(map[facts.Source]int)
	for _, f := range input {
		for _, s := range f.Sources {
			want[s]++
			audit.InputSources++
		}
	}

	got := make(map[facts.Source]int)
	mergedValues := make(map[string]map[string]bool)
	for _, f := range result.MergedFacts {
		if len(f.Sources) == 0 {
			audit.fail(fmt.Sprintf("merged fact %s=%q has no sources", f.CanonicalField, f.Value))
		}
		for _, s := range f.Sources {
			got[s]++
			audit.OutputSources++
		}
		if mergedValues[f.CanonicalField] == nil {
			mergedValues[f.CanonicalField] = make(map[string]bool)
		}
		mergedValues[f.CanonicalField][f.NormalizedValue] = true

		if conf := maxConfidence(f.Sources); len(f.Sources) > 0 && conf < lowConfidence {
			audit.Warnings = append(audit.Warnings,
				fmt.Sprintf("%s=%q is only supported at confidence %.2f", f.CanonicalField, f.Value, conf))
		}
	}

	for _, s := range sortedSources(want, got) {
		switch w, g := want[s], got[s]; {
		case g < w:
			audit.fail(fmt.Sprintf("source %s %s dropped %d time(s)", s.FileName, s.Location, w-g))
		case g > w:
			audit.fail(fmt.Sprintf("source %s %s duplicated %d time(s)", s.FileName, s.Location, g-w))
		}
	}

	audit.Conflicts = len(result.Conflicts)
	for _, c := range result.Conflicts {
		if len(c.Values) < 2 {
			audit.fail(fmt.Sprintf("conflict for %s has %d value(s)", c.CanonicalField, len(c.Values)))
		}
		seen := make(map[string]bool, len(c.Values))
		for _, v := range c.Values {
			if seen[v.NormalizedValue] {
				audit.fail(fmt.Sprintf("conflict for %s repeats value %q", c.CanonicalField, v.NormalizedValue))
			}
			seen[v.NormalizedValue] = true
			if !mergedValues[c.CanonicalField][v.NormalizedValue] {
				audit.Warnings = append(audit.Warnings,
					fmt.Sprintf("conflict value %s=%q has no merged fact", c.CanonicalField, v.NormalizedValue))
			}
		}
	}

	if result.TotalFactsExtracted != len(input) {
		audit.fail(fmt.Sprintf("totalFactsExtracted is %d, expected %d", result.TotalFactsExtracted, len(input)))
	}
	if result.TotalFactsMerged != len(result.MergedFacts) {
		audit.fail(fmt.Sprintf("totalFactsMerged is %d, expected %d", result.TotalFactsMerged, len(result.MergedFacts)))
	}

	return audit
}

func (a *AuditResult) fail(issue string) {
	a.Valid = false
	a.Issues = append(a.Issues, issue)
}

func maxConfidence(sources []facts.Source) float64 {
	best := 0.0
	for _, s := range sources {
		best = max(best, s.Confidence)
	}
	return best
}

// sortedSources returns the union of keys in a stable order so issues are
// reported deterministically.
func sortedSources(a, b map[facts.Source]int) []facts.Source {
	keys := make([]facts.Source, 0, len(a))
	for s := range a {
		keys = append(keys, s)
	}
	for s := range b {
		if _, ok := a[s]; !ok {
			keys = append(keys, s)
		}
	}
	slices.SortFunc(keys, func(x, y facts.Source) int {
		return cmp.Or(
			cmp.Compare(x.FileName, y.FileName),
			cmp.Compare(x.Location, y.Location),
			cmp.Compare(x.Confidence, y.Confidence),
			cmp.Compare(x.FileType, y.FileType),
		)
	})
	return keys
}
