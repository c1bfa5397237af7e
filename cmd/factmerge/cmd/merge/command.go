// Package merge provides the merge command, which extracts facts from files
// and reconciles them.
package merge

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/agentstation/factmerge"
	"github.com/agentstation/factmerge/internal/cmd/application"
	"github.com/agentstation/factmerge/internal/cmd/output"
	"github.com/agentstation/factmerge/pkg/constants"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/extract"
	"github.com/agentstation/factmerge/pkg/facts"
	"github.com/agentstation/factmerge/pkg/logging"
	"github.com/agentstation/factmerge/pkg/provenance"
)

// Flags holds the merge command flags.
type Flags struct {
	Export         string
	Recursive      bool
	Threshold      float64
	Workers        int
	Audit          bool
	Report         bool
	FailOnConflict bool
}

// ErrConflicts is returned with --fail-on-conflict when the merge found
// conflicting values.
var ErrConflicts = errors.New("conflicting values found")

// NewCommand creates the merge command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "merge FILE|DIR...",
		GroupID: "core",
		Short:   "Extract and merge facts from files",
		Long: `Merge extracts field/value facts from CSV, PDF and text files and
merges equivalent facts across them. Directories are expanded to the
supported files they contain.

Every merged fact keeps the sources it was seen in. Fields with more than
one distinct value are listed as conflicts.`,
		Example: `  factmerge merge customers.csv invoice.pdf notes.txt
  factmerge merge ./documents -r --format json
  factmerge merge ./documents --export merged.csv
  factmerge merge a.csv b.csv --report --format markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.Export, "export", "", "also write the result to a file, format chosen by extension (.csv, .txt, .md, .yaml, .json)")
	cmd.Flags().BoolVarP(&flags.Recursive, "recursive", "r", false, "include files in subdirectories")
	cmd.Flags().Float64Var(&flags.Threshold, "threshold", constants.DefaultFuzzyThreshold, "minimum similarity for merging names and addresses")
	cmd.Flags().IntVar(&flags.Workers, "workers", constants.DefaultWorkers, "files extracted concurrently")
	cmd.Flags().BoolVar(&flags.Audit, "audit", false, "check that every extracted source survives the merge")
	cmd.Flags().BoolVar(&flags.Report, "report", false, "print the provenance report instead of the merged facts")
	cmd.Flags().BoolVar(&flags.FailOnConflict, "fail-on-conflict", false, "exit with an error when conflicts are found")

	return cmd
}

// run collects the input files, merges them and writes the result.
func run(cmd *cobra.Command, app application.Application, args []string, flags *Flags) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	paths, err := collectFiles(args, flags.Recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return &errors.ValidationError{
			Field:   "files",
			Value:   args,
			Message: "no supported files found, expected " + strings.Join(extract.Extensions(), ", "),
		}
	}
	logger.Debug().Int("files", len(paths)).Msg("Collected input files")

	merger, err := app.Merger(mergerOptions(cmd, flags)...)
	if err != nil {
		return err
	}

	var skipped atomic.Int32
	merger.OnFileSkipped(func(string, error) {
		skipped.Add(1)
	})

	files := make([]factmerge.File, len(paths))
	for i, p := range paths {
		files[i] = factmerge.FromPath(p)
	}

	result, err := merger.Merge(ctx, files)
	if err != nil {
		return err
	}
	if n := skipped.Load(); n > 0 {
		logger.Warn().Int32("skipped", n).Msg("Some files could not be extracted")
	}

	var data any = result
	if flags.Report {
		data = provenance.GenerateReport(result)
	}

	if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), data); err != nil {
		return err
	}

	if flags.Export != "" {
		if err := export(flags.Export, result); err != nil {
			return err
		}
		logger.Info().Str("path", flags.Export).Msg("Exported merge result")
	}

	if flags.FailOnConflict && result.HasConflicts() {
		return fmt.Errorf("%w: %d fields", ErrConflicts, len(result.Conflicts))
	}
	return nil
}

// mergerOptions returns options for the flags given on the command line.
// Flags left at their defaults keep the configured values.
func mergerOptions(cmd *cobra.Command, flags *Flags) []factmerge.Option {
	var opts []factmerge.Option
	if cmd.Flags().Changed("threshold") {
		opts = append(opts, factmerge.WithThreshold(flags.Threshold))
	}
	if cmd.Flags().Changed("workers") {
		opts = append(opts, factmerge.WithWorkers(flags.Workers))
	}
	if cmd.Flags().Changed("audit") {
		opts = append(opts, factmerge.WithAudit(flags.Audit))
	}
	return opts
}

// export writes the result to path in the format its extension names.
func export(path string, result *facts.MergeResult) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()

	return output.NewFormatter(output.FormatFromPath(path)).Format(f, result)
}
