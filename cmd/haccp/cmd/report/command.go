// Package report provides the report command, which draws the result-label
// charts and writes the markdown summary.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/internal/cmd/alerts"
	"github.com/haccpkit/haccp/internal/cmd/cmdutil"
	"github.com/haccpkit/haccp/pkg/chart"
	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/report"
)

// AppContext defines what the report command needs from the app.
type AppContext interface {
	Load(ctx context.Context) (*reconcile.Result, error)
	Logger() *zerolog.Logger
	FontPath() string
	UseColor() bool
}

// Report kinds.
const (
	KindPie     = "pie"
	KindBar     = "bar"
	KindHist    = "hist"
	KindViolin  = "violin"
	KindRatio   = "ratio"
	KindSummary = "summary"
)

// Kinds lists every report kind.
var Kinds = []string{KindPie, KindBar, KindHist, KindViolin, KindRatio, KindSummary}

// defaultColumns is the column each kind reads when --column is not given.
var defaultColumns = map[string]string{
	KindPie:    records.AttrEvaluationTarget,
	KindBar:    records.AttrEvaluationTarget,
	KindHist:   records.AttrTotalScore,
	KindViolin: records.AttrTotalScore,
	KindRatio:  records.AttrEvaluationTarget,
}

// Flags holds the report command flags.
type Flags struct {
	Column string
	Label  string
	Bins   int
	Style  *cmdutil.StyleFlags
}

// NewCommand creates the report command.
func NewCommand(app AppContext) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:       "report <pie|bar|hist|violin|ratio|summary>",
		GroupID:   "figures",
		Short:     "Draw result-label charts or write the summary",
		ValidArgs: Kinds,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Report groups the joined table by result label (적합 or 부적합; 적합종결
and 부적합종결 fold into them) and draws:

  pie      share of each --column value among rows with --label
  bar      count of each --column value among rows with --label
  hist     histogram of a numeric --column for --label, or both labels
  violin   a numeric --column compared between 적합 and 부적합
  ratio    stacked share of each raw result per --column value
  summary  markdown report of sources, rounds, join coverage and warnings

Summary output goes to --out, or stdout when --out is empty.`,
		Example: `  haccp report pie --column 평가대상 --label 부적합 --out out/pie.png
  haccp report hist --column 총점 --bins 10 --out out/hist.svg
  haccp report ratio --column 규모 --out out/ratio.png
  haccp report summary --out out/summary.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), app, args[0], flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&flags.Column, "column", "", "column to aggregate (default depends on the kind)")
	cmd.Flags().StringVar(&flags.Label, "label", "", "result label for pie, bar and hist (default 적합; hist: both)")
	cmd.Flags().IntVar(&flags.Bins, "bins", constants.DefaultBins, "histogram bin count")
	flags.Style = cmdutil.AddStyleFlags(cmd)

	return cmd
}

// Run loads the result and writes one report.
func Run(ctx context.Context, app AppContext, kind string, flags *Flags, out, errOut io.Writer) error {
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "report")
	if kind == KindSummary {
		return summary(ctx, app, flags.Style.Out, out, errOut)
	}
	if err := flags.Style.Validate(); err != nil {
		return err
	}

	result, err := app.Load(ctx)
	if err != nil {
		return err
	}
	fig, err := Build(result.Joined, kind, flags, app.FontPath())
	if err != nil {
		return err
	}
	if err := chart.Save(fig, flags.Style.Out); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().Str("kind", kind).Str("path", flags.Style.Out).Msg("Saved report chart")
	return alerts.NewWriterTo(errOut, app.UseColor()).WriteAlert(
		alerts.NewSuccess(fmt.Sprintf("Saved %s report to %s", kind, flags.Style.Out)),
	)
}

// Build draws one report chart over the joined table.
func Build(joined records.Joined, kind string, flags *Flags, fontPath string) (chart.Figure, error) {
	column := flags.Column
	if column == "" {
		column = defaultColumns[kind]
	}
	label := flags.Label
	if label == "" && kind != KindHist {
		label = report.LabelPass
	}
	st := flags.Style.Style(fontPath)

	switch kind {
	case KindPie:
		return report.PieByLabel(joined, column, label, st)
	case KindBar:
		return report.BarByLabel(joined, column, label, st)
	case KindHist:
		return report.HistByLabel(joined, column, label, flags.Bins, st)
	case KindViolin:
		return report.ViolinByLabel(joined, column, st)
	case KindRatio:
		return report.RatioBar(joined, column, st)
	}
	return nil, errors.NewValidationError("kind", kind, fmt.Sprintf("must be one of %v", Kinds))
}

// summary writes the markdown summary to path, or to out when path is empty.
func summary(ctx context.Context, app AppContext, path string, out, errOut io.Writer) error {
	result, err := app.Load(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		return report.Summary(result, out)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := report.Summary(result, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("write", path, err)
	}

	logging.FromContext(ctx).Info().Str("path", path).Msg("Wrote summary")
	return alerts.NewWriterTo(errOut, app.UseColor()).WriteAlert(
		alerts.NewSuccess("Wrote summary to " + path),
	)
}
