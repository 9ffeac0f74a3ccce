// Package export provides the export command.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/internal/cmd/alerts"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/export"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
)

// AppContext defines what the export command needs from the app.
type AppContext interface {
	Load(ctx context.Context) (*reconcile.Result, error)
	Logger() *zerolog.Logger
	UseColor() bool
}

// Flags holds the export command flags.
type Flags struct {
	Format string
	Out    string
}

// NewCommand creates the export command.
func NewCommand(app AppContext) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "core",
		Short:   "Write the loaded tables to CSV, XLSX or SQLite",
		Long: `Export loads the evaluation files and writes the result to --out.

  csv     the joined table, UTF-8 with a BOM for spreadsheet tools
  xlsx    one sheet each for joined, registrations and evaluations
  sqlite  one table each for joined, registrations and evaluations

Without --format the format is inferred from the --out extension.`,
		Example: `  haccp export --out out/joined.csv
  haccp export --format xlsx --out out/haccp.xlsx
  haccp export --format sqlite --out out/haccp.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), app, flags, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "export format: csv, xlsx, sqlite (default: from --out extension)")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output file path")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// Run loads the result and writes it to flags.Out.
func Run(ctx context.Context, app AppContext, flags *Flags, errOut io.Writer) error {
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "export")
	if flags.Out == "" {
		return &errors.ValidationError{Field: "out", Message: "an output path is required"}
	}

	var (
		format export.Format
		err    error
	)
	if flags.Format != "" {
		format, err = export.ParseFormat(flags.Format)
	} else {
		format, err = export.FormatFromPath(flags.Out)
	}
	if err != nil {
		return err
	}

	result, err := app.Load(ctx)
	if err != nil {
		return err
	}

	if err := export.Export(ctx, format, flags.Out, result); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().
		Str("format", string(format)).
		Str("path", flags.Out).
		Int("joined", len(result.Joined)).
		Msg("Exported evaluation tables")

	return alerts.NewWriterTo(errOut, app.UseColor()).WriteAlert(
		alerts.NewSuccess(fmt.Sprintf("Wrote %d joined rows to %s", len(result.Joined), flags.Out)),
	)
}
