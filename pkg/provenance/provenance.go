// Package provenance reports where merged facts came from and audits that a
// merge neither lost nor invented any source.
package provenance

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/factmerge/pkg/constants"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
)

// Provenance records one observation of a value.
type Provenance struct {
	File       string         `json:"file" yaml:"file"`
	FileType   facts.FileType `json:"fileType" yaml:"fileType"`
	Location   string         `json:"location" yaml:"location"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	Value      string         `json:"value" yaml:"value"` // Value as written in the source
}

// Report is a per-field view of a merge result.
type Report struct {
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field lists the values observed for one canonical field.
type Field struct {
	Name     string  `json:"name" yaml:"name"`
	Values   []Value `json:"values" yaml:"values"`
	Conflict bool    `json:"conflict" yaml:"conflict"`
}

// Value is one merged value and the observations behind it.
type Value struct {
	Value           string       `json:"value" yaml:"value"`
	NormalizedValue string       `json:"normalizedValue" yaml:"normalizedValue"`
	Observations    []Provenance `json:"observations" yaml:"observations"`
}

// Confidence returns the highest source confidence behind the value.
func (v Value) Confidence() float64 {
	best := 0.0
	for _, o := range v.Observations {
		best = max(best, o.Confidence)
	}
	return best
}

// GenerateReport groups the merged facts of a result by field. Fields and
// values appear in the order of the (sorted) merged facts.
func GenerateReport(result *facts.MergeResult) *Report {
	report := &Report{Fields: []Field{}}
	if result == nil {
		return report
	}

	conflicted := make(map[string]bool, len(result.Conflicts))
	for _, c := range result.Conflicts {
		conflicted[c.CanonicalField] = true
	}

	index := make(map[string]int)
	for _, f := range result.MergedFacts {
		i, ok := index[f.CanonicalField]
		if !ok {
			i = len(report.Fields)
			index[f.CanonicalField] = i
			report.Fields = append(report.Fields, Field{
				Name:     f.CanonicalField,
				Conflict: conflicted[f.CanonicalField],
			})
		}
		report.Fields[i].Values = append(report.Fields[i].Values, Value{
			Value:           f.Value,
			NormalizedValue: f.NormalizedValue,
			Observations:    observations(f),
		})
	}
	return report
}

func observations(f facts.Fact) []Provenance {
	out := make([]Provenance, len(f.Sources))
	for i, s := range f.Sources {
		out[i] = Provenance{
			File:       s.FileName,
			FileType:   s.FileType,
			Location:   s.Location,
			Confidence: s.Confidence,
			Value:      f.Value,
		}
	}
	return out
}

// Field returns the report entry for a canonical field.
func (r *Report) Field(name string) (Field, bool) {
	i := slices.IndexFunc(r.Fields, func(f Field) bool { return f.Name == name })
	if i < 0 {
		return Field{}, false
	}
	return r.Fields[i], true
}

// String generates a string representation of the provenance report.
func (r *Report) String() string {
	var sb strings.Builder

	sb.WriteString("Provenance Report\n")
	sb.WriteString("=================\n\n")

	for _, field := range r.Fields {
		sb.WriteString(field.Name)
		if field.Conflict {
			sb.WriteString(" (conflict)")
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 40))
		sb.WriteString("\n")

		for _, v := range field.Values {
			fmt.Fprintf(&sb, "  %s\n", v.Value)
			for _, o := range v.Observations {
				fmt.Fprintf(&sb, "    - %s, %s (confidence %.2f)\n", o.File, o.Location, o.Confidence)
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Save writes the report as YAML.
func (r *Report) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Load reads a report written by Save.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("report", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &r, nil
}
