// Package normalize provides the normalize command, which shows how a value
// is normalized for a field.
package normalize

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/cmd/output"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/facts"
	normalizer "github.com/agentstation/factmerge/pkg/normalize"
)

// Result is one normalized value.
type Result struct {
	Field           string              `json:"field"           yaml:"field"`
	CanonicalField  string              `json:"canonicalField"  yaml:"canonicalField"`
	Category        facts.FieldCategory `json:"category"        yaml:"category"`
	Value           string              `json:"value"           yaml:"value"`
	NormalizedValue string              `json:"normalizedValue" yaml:"normalizedValue"`
}

// NewCommand creates the normalize command.
func NewCommand(app application.Application) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "normalize FIELD VALUE",
		GroupID: "reference",
		Short:   "Normalize a value as it would be for a field",
		Long: `Normalize maps FIELD to its canonical field and prints VALUE in the
normalized form used to compare facts. With --format json or yaml the
canonical field and category are included.`,
		Example: `  factmerge normalize phone "(555) 123-4567"
  factmerge normalize "Date of Birth" "March 5, 1990"
  factmerge normalize total '$1,234.5' --format json
  factmerge normalize anything "12 Main St." --category address`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && !facts.FieldCategory(category).IsValid() {
				return &errors.ValidationError{Field: "category", Value: category, Message: "unknown category"}
			}

			merger, err := app.Merger()
			if err != nil {
				return err
			}
			result := Normalize(merger.Normalizer(), args[0], args[1], facts.FieldCategory(category))

			format := output.DetectFormat(app.OutputFormat())
			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), result)
			default:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), result.NormalizedValue)
				return err
			}
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "normalize with this category instead of the field's")

	return cmd
}

// Normalize canonicalizes field and normalizes value for it. A non-empty
// category replaces the field's own.
func Normalize(n *normalizer.Normalizer, field, value string, category facts.FieldCategory) Result {
	c := n.Canonicalizer()
	canonical := c.Canonicalize(field)
	if category == "" {
		category = c.Category(canonical)
	}
	return Result{
		Field:           field,
		CanonicalField:  canonical,
		Category:        category,
		Value:           value,
		NormalizedValue: n.NormalizeCategory(value, category),
	}
}
