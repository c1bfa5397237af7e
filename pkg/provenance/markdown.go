package provenance

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"
)

// Markdown writes the report as a Markdown document with one table per
// field.
func (r *Report) Markdown(w io.Writer) error {
	doc := md.NewMarkdown(w).H1("Provenance Report")

	conflicts := 0
	for _, f := range r.Fields {
		if f.Conflict {
			conflicts++
		}
	}
	doc.PlainTextf("%d fields, %d with conflicting values.", len(r.Fields), conflicts).LF()

	for _, field := range r.Fields {
		heading := field.Name
		if field.Conflict {
			heading += " ⚠️"
		}
		doc.H2(heading)

		rows := make([][]string, 0, len(field.Values))
		for _, v := range field.Values {
			sources := make([]string, len(v.Observations))
			for i, o := range v.Observations {
				sources[i] = fmt.Sprintf("%s (%s)", o.File, o.Location)
			}
			rows = append(rows, []string{
				v.Value,
				md.Code(v.NormalizedValue),
				strings.Join(sources, ", "),
				fmt.Sprintf("%.2f", v.Confidence()),
			})
		}
		doc.Table(md.TableSet{
			Header: []string{"Value", "Normalized", "Sources", "Confidence"},
			Rows:   rows,
		})
	}

	return doc.Build()
}
