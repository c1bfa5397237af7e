// Package version provides the version command.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/cmd/output"
)

// Info is the build information of the binary.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Date    string `json:"date"    yaml:"date"`
	BuiltBy string `json:"builtBy" yaml:"builtBy"`
}

// NewCommand creates the version command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := Info{
				Version: app.Version(),
				Commit:  app.Commit(),
				Date:    app.Date(),
				BuiltBy: app.BuiltBy(),
			}

			switch format := output.Format(app.OutputFormat()); format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(),
				"factmerge %s\n  commit:   %s\n  built:    %s\n  built by: %s\n",
				info.Version, info.Commit, info.Date, info.BuiltBy)
			return err
		},
	}
}
