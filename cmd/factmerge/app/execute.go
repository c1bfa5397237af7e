package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/agentstation/factmerge/internal/server"
	"github.com/agentstation/factmerge/pkg/errors"
	"github.com/agentstation/factmerge/pkg/logging"

	fieldscmd "github.com/agentstation/factmerge/cmd/factmerge/cmd/fields"
	"github.com/agentstation/factmerge/cmd/factmerge/cmd/merge"
	"github.com/agentstation/factmerge/cmd/factmerge/cmd/normalize"
	"github.com/agentstation/factmerge/cmd/factmerge/cmd/serve"
	"github.com/agentstation/factmerge/cmd/factmerge/cmd/version"
)

// Execute runs the factmerge CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "factmerge",
		Short:   "Merge facts extracted from CSV, PDF and text files",
		Version: a.version,
		Long: `factmerge extracts field/value facts from CSV, PDF and text documents,
maps field labels to canonical fields, normalizes values and merges
equivalent facts across files while keeping every source.

Fields whose values disagree are reported as conflicts instead of being
silently resolved.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "reference",
		Title: "Reference Commands:",
	})

	// Flags default to the loaded configuration so they only override it
	// when given
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.factmerge.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", false, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, wide, json, yaml, csv, text, markdown")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.StringVar(&a.config.TablesPath, "tables", a.config.TablesPath, "YAML file replacing the field or abbreviation tables")
	flags.StringVar(&a.config.Region, "region", a.config.Region, "region assumed for phone numbers without a country code")

	rootCmd.SetVersionTemplate("factmerge {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()

	if flags.Changed("config") {
		if err := a.reloadConfig(flags); err != nil {
			return err
		}
	}

	// Reinitialize logger with the flag values
	logger := NewLogger(a.config)
	a.logger = &logger

	if flags.Changed("config") || flags.Changed("tables") || flags.Changed("region") {
		a.reset()
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// reloadConfig loads the file named by --config, then reapplies the flags
// given on the command line since they take precedence over the file.
func (a *App) reloadConfig(flags *pflag.FlagSet) error {
	given := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		given[f.Name] = f.Value.String()
	})

	config, err := LoadConfig(a.config.ConfigFile)
	if err != nil {
		return errors.NewConfigError("app", "reading "+a.config.ConfigFile, err)
	}
	*a.config = *config

	for name, value := range given {
		if err := flags.Set(name, value); err != nil {
			return errors.WrapValidation(name, err)
		}
	}
	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(merge.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a, a.serverConfig))

	// Reference commands
	rootCmd.AddCommand(fieldscmd.NewCommand(a))
	rootCmd.AddCommand(normalize.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}

// serverConfig returns the serve command defaults from the configuration.
// It is called again when the command runs, after --config was applied.
func (a *App) serverConfig() server.Config {
	cfg := server.DefaultConfig()
	s := a.config.Server
	if s.Host != "" {
		cfg.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Port = s.Port
	}
	if s.Prefix != "" {
		cfg.PathPrefix = s.Prefix
	}
	if s.CacheTTL > 0 {
		cfg.CacheTTL = s.CacheTTL
	}
	cfg.RateLimit = s.RateLimit
	if len(s.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
		cfg.CORSOrigins = s.CORSOrigins
	}
	return cfg
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
