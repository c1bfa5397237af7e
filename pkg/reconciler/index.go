package reconciler

import (
	"slices"

	"github.com/agentstation/factmerge/pkg/facts"
)

// conflictIndex collects, per canonical field, the distinct normalized
// values that were seen competing. Fields keep the order of their first
// signal and values the order in which they were first seen.
type conflictIndex struct {
	fields  []string
	byField map[string]*fieldValues
}

type fieldValues struct {
	values  []facts.ConflictValue
	byValue map[string]int
}

func newConflictIndex() *conflictIndex {
	return &conflictIndex{byField: make(map[string]*fieldValues)}
}

func (idx *conflictIndex) field(name string) *fieldValues {
	fv, ok := idx.byField[name]
	if !ok {
		fv = &fieldValues{byValue: make(map[string]int)}
		idx.byField[name] = fv
		idx.fields = append(idx.fields, name)
	}
	return fv
}

// signal records that incoming competed with the accepted fact for the same
// field. The accepted fact's value is inserted if absent; the incoming
// fact's value is inserted, or gains its sources if already present.
func (idx *conflictIndex) signal(accepted, incoming facts.Fact) {
	fv := idx.field(accepted.CanonicalField)
	if _, ok := fv.byValue[accepted.NormalizedValue]; !ok {
		fv.insert(accepted)
	}
	if i, ok := fv.byValue[incoming.NormalizedValue]; ok {
		fv.values[i].Sources = appendSources(fv.values[i].Sources, incoming.Sources)
		return
	}
	fv.insert(incoming)
}

func appendSources(dst, more []facts.Source) []facts.Source {
	out := make([]facts.Source, 0, len(dst)+len(more))
	out = append(out, dst...)
	return append(out, more...)
}

func (fv *fieldValues) insert(f facts.Fact) {
	fv.byValue[f.NormalizedValue] = len(fv.values)
	fv.values = append(fv.values, facts.ConflictValue{
		Value:           f.Value,
		NormalizedValue: f.NormalizedValue,
		Sources:         slices.Clone(f.Sources),
	})
}

// conflicts returns one Conflict for every field with at least two distinct
// values.
func (idx *conflictIndex) conflicts() []facts.Conflict {
	out := make([]facts.Conflict, 0, len(idx.fields))
	for _, name := range idx.fields {
		fv := idx.byField[name]
		if len(fv.values) < 2 {
			continue
		}
		out = append(out, facts.Conflict{
			CanonicalField: name,
			Values:         slices.Clone(fv.values),
		})
	}
	return out
}
