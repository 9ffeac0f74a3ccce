package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the haccp CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "haccp",
		Short:   "HACCP survey-evaluation record reconciler",
		Version: a.version,
		Long: `haccp loads the 2024 HACCP survey-evaluation files, validates every
header against its column mapping, and right-joins entity registrations onto
per-round evaluation results.

The joined table can be printed, exported to CSV, XLSX or SQLite, and
rendered as charts and a markdown summary.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "figures",
		Title: "Figure Commands:",
	})

	f := a.flags
	rootCmd.PersistentFlags().StringVar(&f.ConfigFile, "config", "", "config file (default is $HOME/.haccp.yaml)")
	rootCmd.PersistentFlags().StringVar(&f.DataDir, "data-dir", "", "directory holding the input CSV files (default ./data)")
	rootCmd.PersistentFlags().StringVar(&f.ManifestPath, "manifest", "", "YAML manifest overriding the built-in file list")
	rootCmd.PersistentFlags().StringVar(&f.Encoding, "encoding", "", "input encoding: auto, utf-8, cp949")
	rootCmd.PersistentFlags().BoolVarP(&f.Verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolVarP(&f.Quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().BoolVar(&f.NoColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVarP(&f.Output, "output", "o", "", "output format: table, json, yaml, csv, wide")
	rootCmd.PersistentFlags().StringVar(&f.LogLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	// --format is a hidden alias for --output
	rootCmd.PersistentFlags().StringVar(&f.Output, "format", "", "")
	_ = rootCmd.PersistentFlags().MarkHidden("format")

	rootCmd.SetVersionTemplate("haccp {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It rereads the config
// file when --config is given and then applies the flags set explicitly.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// Subcommands may shadow a global flag name with a local one
	flags := cmd.Root().PersistentFlags()

	if flags.Changed("config") {
		config, err := LoadConfig(a.flags.ConfigFile)
		if err != nil {
			return err
		}
		a.config = config
	}

	changed := flags.Changed
	if flags.Changed("format") {
		changed = func(name string) bool { return name == "output" || flags.Changed(name) }
	}
	a.config.UpdateFromFlags(a.flags, changed)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError prints an error and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
