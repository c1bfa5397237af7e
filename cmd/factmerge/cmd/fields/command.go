// Package fields provides the fields command, which lists canonical fields
// and shows how labels map onto them.
package fields

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/cmd/output"
	"github.com/agentstation/factmerge/internal/cmd/table"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/fields"
)

// Resolution is the canonical field a label maps to.
type Resolution struct {
	Label     string              `json:"label"     yaml:"label"`
	Canonical string              `json:"canonical" yaml:"canonical"`
	Category  facts.FieldCategory `json:"category"  yaml:"category"`
	Known     bool                `json:"known"     yaml:"known"`
}

// NewCommand creates the fields command.
func NewCommand(app application.Application) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "fields [LABEL...]",
		GroupID: "reference",
		Short:   "List canonical fields or resolve field labels",
		Long: `Fields lists the canonical fields with their categories and synonyms.

Given labels, it shows the canonical field each label maps to. Labels that
match no synonym map to their lower-cased, underscore-joined form.`,
		Example: `  factmerge fields
  factmerge fields --category phone
  factmerge fields "E-mail Address" "Inv #" --format json
  factmerge fields --tables custom.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := app.Tables()
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			formatter := output.NewFormatter(format)

			if len(args) > 0 {
				resolutions := Resolve(tables, args)
				if isStructured(format) {
					return formatter.Format(cmd.OutOrStdout(), resolutions)
				}
				return formatter.Format(cmd.OutOrStdout(), resolutionsToTableData(resolutions))
			}

			list := filter(tables.Fields(), category)
			if isStructured(format) {
				return formatter.Format(cmd.OutOrStdout(), list)
			}
			return formatter.Format(cmd.OutOrStdout(), table.FieldsToTableData(list))
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list fields of this category (email, phone, date, currency, name, address, id, generic)")

	return cmd
}

// Resolve canonicalizes each label with tables.
func Resolve(tables *fields.Tables, labels []string) []Resolution {
	c := fields.NewCanonicalizer(tables)
	out := make([]Resolution, len(labels))
	for i, label := range labels {
		canonical := c.Canonicalize(label)
		_, known := tables.Field(canonical)
		out[i] = Resolution{
			Label:     label,
			Canonical: canonical,
			Category:  c.Category(canonical),
			Known:     known,
		}
	}
	return out
}

// filter keeps the fields of category, or all fields when it is empty.
func filter(list []fields.Field, category string) []fields.Field {
	if category == "" {
		return list
	}
	var out []fields.Field
	for _, f := range list {
		if strings.EqualFold(string(f.Category), category) {
			out = append(out, f)
		}
	}
	return out
}

func resolutionsToTableData(resolutions []Resolution) output.Data {
	rows := make([][]string, len(resolutions))
	for i, r := range resolutions {
		known := "no"
		if r.Known {
			known = "yes"
		}
		rows[i] = []string{r.Label, r.Canonical, string(r.Category), known}
	}
	return output.Data{
		Headers: []string{"Label", "Canonical", "Category", "Known"},
		Rows:    rows,
	}
}

// isStructured reports whether format serializes values rather than rows.
func isStructured(format output.Format) bool {
	return format == output.FormatJSON || format == output.FormatYAML
}
