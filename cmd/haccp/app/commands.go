package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/cmd/haccp/cmd/chart"
	"github.com/haccpkit/haccp/cmd/haccp/cmd/completion"
	"github.com/haccpkit/haccp/cmd/haccp/cmd/export"
	"github.com/haccpkit/haccp/cmd/haccp/cmd/load"
	"github.com/haccpkit/haccp/cmd/haccp/cmd/report"
	"github.com/haccpkit/haccp/cmd/haccp/cmd/schema"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.CreateLoadCommand())
	rootCmd.AddCommand(a.CreateExportCommand())
	rootCmd.AddCommand(a.CreateSchemaCommand())

	// Figure commands
	rootCmd.AddCommand(a.CreateChartCommand())
	rootCmd.AddCommand(a.CreateReportCommand())

	// Utility commands
	rootCmd.AddCommand(a.CreateVersionCommand())
	rootCmd.AddCommand(a.CreateCompletionCommand())
}

// CreateLoadCommand creates the load command with app dependencies.
func (a *App) CreateLoadCommand() *cobra.Command {
	return load.NewCommand(a)
}

// CreateExportCommand creates the export command with app dependencies.
func (a *App) CreateExportCommand() *cobra.Command {
	return export.NewCommand(a)
}

// CreateSchemaCommand creates the schema command with app dependencies.
func (a *App) CreateSchemaCommand() *cobra.Command {
	return schema.NewCommand(a)
}

// CreateChartCommand creates the chart command with app dependencies.
func (a *App) CreateChartCommand() *cobra.Command {
	return chart.NewCommand(a)
}

// CreateReportCommand creates the report command with app dependencies.
func (a *App) CreateReportCommand() *cobra.Command {
	return report.NewCommand(a)
}

// CreateCompletionCommand creates the completion command.
func (a *App) CreateCompletionCommand() *cobra.Command {
	return completion.NewCommand(a)
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "haccp %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(out, "  commit:   %s\n", a.commit)
				fmt.Fprintf(out, "  built:    %s\n", a.date)
				fmt.Fprintf(out, "  built by: %s\n", a.builtBy)
				fmt.Fprintf(out, "  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
