// Package table converts merge results into rows for tabular CLI output.
package table

import (
	"fmt"
	"strings"

	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/fields"
	"github.com/agentstation/factmerge/pkg/provenance"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// maxValueWidth bounds the value column in narrow tables.
const maxValueWidth = 48

// FactsToTableData converts merged facts to table format.
// Wide output adds the original label and the full source list.
func FactsToTableData(merged []facts.Fact, wide bool) Data {
	headers := []string{"Field", "Value", "Normalized", "Sources"}
	if wide {
		headers = []string{"Field", "Label", "Value", "Normalized", "Sources"}
	}

	rows := make([][]string, 0, len(merged))
	for _, f := range merged {
		if wide {
			rows = append(rows, []string{
				f.CanonicalField,
				f.Field,
				f.Value,
				f.NormalizedValue,
				SourcesString(f.Sources),
			})
			continue
		}
		rows = append(rows, []string{
			f.CanonicalField,
			Truncate(f.Value, maxValueWidth),
			Truncate(f.NormalizedValue, maxValueWidth),
			fmt.Sprintf("%d", len(f.Sources)),
		})
	}

	data := Data{Headers: headers, Rows: rows}
	if !wide {
		data.ColumnAlignment = []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight}
	}
	return data
}

// ConflictsToTableData converts conflicts to table format with one row per
// competing value. The field name is only shown on the first row of a group.
func ConflictsToTableData(conflicts []facts.Conflict) Data {
	var rows [][]string
	for _, c := range conflicts {
		for i, v := range c.Values {
			field := ""
			if i == 0 {
				field = c.CanonicalField
			}
			rows = append(rows, []string{
				field,
				v.Value,
				v.NormalizedValue,
				SourcesString(v.Sources),
			})
		}
	}
	return Data{
		Headers: []string{"Field", "Value", "Normalized", "Sources"},
		Rows:    rows,
	}
}

// FieldsToTableData converts canonical field definitions to table format.
func FieldsToTableData(list []fields.Field) Data {
	rows := make([][]string, 0, len(list))
	for _, f := range list {
		rows = append(rows, []string{
			f.ID,
			string(f.Category),
			strings.Join(f.Synonyms, ", "),
		})
	}
	return Data{
		Headers: []string{"Field", "Category", "Synonyms"},
		Rows:    rows,
	}
}

// ReportToTableData flattens a provenance report to one row per value.
func ReportToTableData(report *provenance.Report) Data {
	var rows [][]string
	for _, field := range report.Fields {
		for i, v := range field.Values {
			name, marker := "", ""
			if i == 0 {
				name = field.Name
				if field.Conflict {
					marker = "⚠"
				}
			}
			rows = append(rows, []string{
				name,
				marker,
				v.Value,
				fmt.Sprintf("%d", len(v.Observations)),
				fmt.Sprintf("%.0f%%", v.Confidence()*100),
			})
		}
	}
	return Data{
		Headers:         []string{"Field", "", "Value", "Sources", "Confidence"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignCenter, AlignLeft, AlignRight, AlignRight},
	}
}

// SourcesString renders sources as "file:location" joined by "; ".
func SourcesString(sources []facts.Source) string {
	parts := make([]string, len(sources))
	for i, s := range sources {
		parts[i] = s.FileName + ":" + s.Location
	}
	return strings.Join(parts, "; ")
}

// Truncate shortens s to at most width runes, ending with "...".
func Truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width || width < 4 {
		return s
	}
	return string(r[:width-3]) + "..."
}
