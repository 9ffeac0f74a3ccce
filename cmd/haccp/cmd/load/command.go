// Package load provides the load command, which runs the reconciler and
// prints the resulting tables.
package load

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/internal/cmd/alerts"
	"github.com/haccpkit/haccp/internal/cmd/output"
	"github.com/haccpkit/haccp/internal/cmd/table"
	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
)

// AppContext defines what the load command needs from the app.
type AppContext interface {
	Load(ctx context.Context) (*reconcile.Result, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	UseColor() bool
}

// Table names accepted by --table.
const (
	TableJoined        = "joined"
	TableRegistrations = "registrations"
	TableEvaluations   = "evaluations"
)

// Flags holds the load command flags.
type Flags struct {
	Limit       int
	FailOnEmpty bool
	Table       string
	StatsOnly   bool
}

// document is the structured (json/yaml) output of a load.
type document struct {
	Stats    reconcile.Stats `json:"stats" yaml:"stats"`
	Warnings []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Total    int             `json:"total" yaml:"total"`
	Rows     records.Table   `json:"rows" yaml:"rows"`
}

// NewCommand creates the load command.
func NewCommand(app AppContext) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "load",
		GroupID: "core",
		Short:   "Load, validate and join the evaluation files",
		Long: `Load reads every file of the manifest, validates each header against its
column mapping, and right-joins registrations onto evaluations.

Table output prints per-source row counts followed by the first --limit rows
of the selected table. JSON, YAML and CSV output contain every row unless
--limit is given.`,
		Example: `  haccp load                              # Stats and the first 20 joined rows
  haccp load -o wide --limit 100          # All joined columns
  haccp load --table evaluations -o csv   # Concatenated evaluations as CSV
  haccp load --stats -o yaml              # Row counts only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				format := output.DetectFormat(app.OutputFormat())
				if format != output.FormatTable && format != output.FormatWide {
					flags.Limit = 0
				}
			}
			return Run(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", constants.DefaultLimit, "maximum rows to print (0 for all)")
	cmd.Flags().BoolVar(&flags.FailOnEmpty, "fail-on-empty", false, "exit with an error when the join produces no rows")
	cmd.Flags().StringVar(&flags.Table, "table", TableJoined, "table to print: joined, registrations, evaluations")
	cmd.Flags().BoolVar(&flags.StatsOnly, "stats", false, "print load statistics only")

	return cmd
}

// Run executes a load and writes the selected table to out. Warnings go to errOut.
func Run(ctx context.Context, app AppContext, flags *Flags, out, errOut io.Writer) error {
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "load")

	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))

	result, err := app.Load(ctx)
	if err != nil {
		return err
	}
	if flags.FailOnEmpty && result.Empty() {
		return &errors.EmptyResultError{
			Registrations: len(result.Registrations),
			Evaluations:   len(result.Evaluations),
		}
	}

	t, err := Select(result, flags.Table)
	if err != nil {
		return err
	}
	total := len(t.Rows())
	limited := Head(t, flags.Limit)

	logging.FromContext(ctx).Debug().
		Str("table", flags.Table).
		Int("rows", total).
		Str("format", string(format)).
		Msg("Printing load result")

	formatter := output.NewFormatter(format)
	switch format {
	case output.FormatTable, output.FormatWide:
		if err := formatter.Format(out, table.StatsToTableData(result.Stats)); err != nil {
			return err
		}
		if !flags.StatsOnly {
			fmt.Fprintln(out)
			var data table.Data
			if joined, ok := limited.(records.Joined); ok {
				data = table.JoinedToTableData(joined, 0, format == output.FormatWide)
			} else {
				data = table.RecordsToTableData(limited, 0)
			}
			if err := formatter.Format(out, data); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d of %d %s rows\n", len(data.Rows), total, flags.Table)
		}
		writeWarnings(alerts.NewWriterTo(errOut, app.UseColor()), result.Warnings)
		return nil

	case output.FormatCSV:
		if flags.StatsOnly {
			return formatter.Format(out, table.StatsToTableData(result.Stats))
		}
		writeWarnings(alerts.NewWriterTo(errOut, app.UseColor()), result.Warnings)
		return formatter.Format(out, limited)
	}

	doc := document{Stats: result.Stats, Warnings: result.Warnings, Total: total}
	if !flags.StatsOnly {
		doc.Rows = limited
	}
	return formatter.Format(out, doc)
}

// Select returns the named table of a result.
func Select(result *reconcile.Result, name string) (records.Table, error) {
	switch name {
	case TableJoined, "":
		return result.Joined, nil
	case TableRegistrations:
		return result.Registrations, nil
	case TableEvaluations:
		return result.Evaluations, nil
	}
	return nil, &errors.ValidationError{
		Field:   "table",
		Value:   name,
		Message: "must be one of: joined, registrations, evaluations",
	}
}

// Head returns the first limit rows of a records table. A non-positive
// limit returns the table unchanged.
func Head(t records.Table, limit int) records.Table {
	if limit <= 0 {
		return t
	}
	switch v := t.(type) {
	case records.Joined:
		return v[:min(limit, len(v))]
	case records.Registrations:
		return v[:min(limit, len(v))]
	case records.Evaluations:
		return v[:min(limit, len(v))]
	}
	return t
}

func writeWarnings(w alerts.Writer, warnings []string) {
	for _, msg := range warnings {
		_ = w.WriteAlert(alerts.NewWarning(msg))
	}
}
