// Package schema provides the schema command: inspect, validate and write
// the file manifest.
package schema

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/internal/cmd/alerts"
	"github.com/haccpkit/haccp/internal/cmd/output"
	"github.com/haccpkit/haccp/internal/cmd/table"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

// AppContext defines what the schema commands need from the app.
type AppContext interface {
	Manifest() (*schema.Manifest, error)
	Reader() (sources.Reader, error)
	Logger() *zerolog.Logger
	OutputFormat() string
	UseColor() bool
}

// DefaultManifestFile is where init writes when no path is given.
const DefaultManifestFile = "haccp.yaml"

// NewCommand creates the schema command with its subcommands.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schema",
		GroupID: "core",
		Short:   "Inspect, validate and write the file manifest",
		Long: `The manifest lists every input file with its provenance tags and an
explicit mapping from the file's header names to canonical attributes.

Without --manifest the built-in manifest of the ten 2024 survey files is used.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newShowCommand(app))
	cmd.AddCommand(newValidateCommand(app))
	cmd.AddCommand(newInitCommand(app))

	return cmd
}

func newShowCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [source-id]",
		Short: "Print the manifest, or the column mapping of one source",
		Example: `  haccp schema show
  haccp schema show local-food-r1
  haccp schema show -o yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return Show(app, id, cmd.OutOrStdout())
		},
	}
}

func newValidateCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every file header against its mapping without loading",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Validate(cmd.Context(), app, cmd.OutOrStdout())
		},
	}
}

func newInitCommand(app AppContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the manifest as YAML for editing",
		Long: `Init writes the active manifest (the built-in one unless --manifest is
given) to path, default haccp.yaml. Pass the edited file back with
--manifest.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := DefaultManifestFile
			if len(args) == 1 {
				path = args[0]
			}
			return Init(app, path, force, cmd.ErrOrStderr())
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// Show prints the manifest, or the mapping of the source named id.
func Show(app AppContext, id string, out io.Writer) error {
	m, err := app.Manifest()
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	format = output.DetectFormat(string(format))
	formatter := output.NewFormatter(format)

	if id == "" {
		if format == output.FormatTable || format == output.FormatWide || format == output.FormatCSV {
			return formatter.Format(out, table.ManifestToTableData(m))
		}
		return formatter.Format(out, m)
	}

	src, ok := findSource(m, id)
	if !ok {
		return errors.NewNotFoundError("source", id)
	}
	if format == output.FormatJSON || format == output.FormatYAML {
		return formatter.Format(out, src)
	}
	rows := make([][]string, len(src.Columns))
	for i, c := range src.Columns {
		rows[i] = []string{c.Source, c.Canonical}
	}
	return formatter.Format(out, table.Data{Headers: []string{"Source column", "Canonical"}, Rows: rows})
}

// Validate reads every file header and checks it against its mapping. All
// sources are checked; the returned error counts the failures.
func Validate(ctx context.Context, app AppContext, out io.Writer) error {
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "schema")
	m, err := app.Manifest()
	if err != nil {
		return err
	}
	reader, err := app.Reader()
	if err != nil {
		return err
	}

	srcs := append(m.Registrations(), m.Evaluations()...)
	rows := make([][]string, 0, len(srcs))
	failed := 0
	for _, src := range srcs {
		path := src.Resolve(m.DataDir)
		status, detail := "ok", ""

		srcCtx := logging.WithSource(logging.WithGroup(ctx, src.Group), src.ID)
		frame, err := reader.Read(srcCtx, path)
		if err == nil {
			err = src.ValidateHeader(frame.Header)
			if err != nil {
				status = "mismatch"
			}
		} else {
			status = "unavailable"
		}
		if err != nil {
			if errors.IsCanceled(err) {
				return err
			}
			failed++
			detail = err.Error()
			logging.FromContext(srcCtx).Debug().Err(err).Msg("Source failed validation")
		}
		rows = append(rows, []string{src.ID, path, status, detail})
	}

	data := table.Data{Headers: []string{"Source", "Path", "Status", "Detail"}, Rows: rows}
	if err := output.NewFormatter(output.FormatTable).Format(out, data); err != nil {
		return err
	}
	if failed > 0 {
		return &errors.ValidationError{
			Field:   "manifest",
			Message: fmt.Sprintf("%d of %d sources failed validation", failed, len(srcs)),
		}
	}
	return alerts.NewWriterTo(out, app.UseColor()).WriteAlert(
		alerts.NewSuccess(fmt.Sprintf("All %d sources match their mappings", len(srcs))),
	)
}

// Init writes the active manifest to path. An existing file is kept unless force is set.
func Init(app AppContext, path string, force bool, errOut io.Writer) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.NewValidationError("path", path, "file exists; pass --force to overwrite")
		}
	}
	m, err := app.Manifest()
	if err != nil {
		return err
	}
	if err := m.Save(path); err != nil {
		return err
	}
	return alerts.NewWriterTo(errOut, app.UseColor()).WriteAlert(
		alerts.NewSuccess("Wrote manifest to " + path),
	)
}

func findSource(m *schema.Manifest, id string) (schema.Source, bool) {
	for _, src := range append(m.Registrations(), m.Evaluations()...) {
		if src.ID == id {
			return src, true
		}
	}
	return schema.Source{}, false
}
