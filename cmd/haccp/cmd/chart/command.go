// Package chart provides the chart command, which draws exploratory charts
// over any loaded table.
package chart

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/cmd/haccp/cmd/load"
	"github.com/haccpkit/haccp/internal/cmd/alerts"
	"github.com/haccpkit/haccp/internal/cmd/cmdutil"
	"github.com/haccpkit/haccp/pkg/chart"
	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
)

// AppContext defines what the chart command needs from the app.
type AppContext interface {
	Load(ctx context.Context) (*reconcile.Result, error)
	Logger() *zerolog.Logger
	FontPath() string
	UseColor() bool
}

// Chart kinds.
const (
	KindLine   = "line"
	KindStrip  = "strip"
	KindViolin = "violin"
	KindBox    = "box"
	KindHist   = "hist"
	KindPie    = "pie"
	KindBar    = "bar"
)

// Kinds lists every chart kind.
var Kinds = []string{KindLine, KindStrip, KindViolin, KindBox, KindHist, KindPie, KindBar}

// Flags holds the chart command flags.
type Flags struct {
	X     string
	Y     string
	Hue   string
	Strip bool
	Bins  int
	Table string
	Style *cmdutil.StyleFlags
}

// NewCommand creates the chart command.
func NewCommand(app AppContext) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:       "chart <line|strip|violin|box|hist|pie|bar>",
		GroupID:   "figures",
		Short:     "Draw a chart from a loaded table",
		ValidArgs: Kinds,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Chart draws one figure from the joined table (or --table) and writes it
to --out. Columns are addressed by their canonical Korean names.

  line    mean of --y per --x, one line per --hue
  strip   jittered points of --y per --x
  violin  density of --y per --x, optional --strip overlay
  box     quartiles of --y per --x, optional --strip overlay
  hist    histogram of --x with --bins bins, one series per --hue
  pie     share of each --x value as a donut
  bar     mean of --y per --x and --hue, with value labels

Hangul labels need a font with Hangul glyphs: pass --font or set
HACCP_FONT.`,
		Example: `  haccp chart violin --x 평가차수 --y 총점 --strip --out out/violin.png
  haccp chart hist --x 총점 --hue 평가결과 --bins 30 --out out/hist.svg
  haccp chart pie --x 평가대상 --font NanumGothic.ttf --out out/pie.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), app, args[0], flags, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&flags.X, "x", "", "x column (category or numeric)")
	cmd.Flags().StringVar(&flags.Y, "y", "", "y column (numeric)")
	cmd.Flags().StringVar(&flags.Hue, "hue", "", "column splitting series by colour (default: --x)")
	cmd.Flags().BoolVar(&flags.Strip, "strip", false, "overlay jittered points on violin and box charts")
	cmd.Flags().IntVar(&flags.Bins, "bins", constants.DefaultBins, "histogram bin count")
	cmd.Flags().StringVar(&flags.Table, "table", load.TableJoined, "table to draw: joined, registrations, evaluations")
	flags.Style = cmdutil.AddStyleFlags(cmd)

	return cmd
}

// Run loads the result, builds the chart and saves it.
func Run(ctx context.Context, app AppContext, kind string, flags *Flags, errOut io.Writer) error {
	ctx = logging.WithOperation(logging.WithLogger(ctx, app.Logger()), "chart")
	if err := flags.Style.Validate(); err != nil {
		return err
	}

	result, err := app.Load(ctx)
	if err != nil {
		return err
	}
	t, err := load.Select(result, flags.Table)
	if err != nil {
		return err
	}

	fig, err := Build(t, kind, flags, app.FontPath())
	if err != nil {
		return err
	}
	if err := chart.Save(fig, flags.Style.Out); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().Str("kind", kind).Str("path", flags.Style.Out).Msg("Saved chart")
	return alerts.NewWriterTo(errOut, app.UseColor()).WriteAlert(
		alerts.NewSuccess(fmt.Sprintf("Saved %s chart to %s", kind, flags.Style.Out)),
	)
}

// Build draws one chart kind over t.
func Build(t records.Table, kind string, flags *Flags, fontPath string) (chart.Figure, error) {
	frame := chart.FromTable(t)
	aes := chart.Aes{X: flags.X, Y: flags.Y, Hue: flags.Hue}
	st := flags.Style.Style(fontPath)
	if st.XLabel == "" {
		st.XLabel = flags.X
	}
	if st.YLabel == "" {
		st.YLabel = flags.Y
	}

	switch kind {
	case KindLine:
		return chart.Line(frame, aes, st)
	case KindStrip:
		return chart.Strip(frame, aes, st)
	case KindViolin:
		return chart.Violin(frame, aes, st, flags.Strip)
	case KindBox:
		return chart.Box(frame, aes, st, flags.Strip)
	case KindHist:
		st.YLabel = flags.Style.YLabel
		return chart.Histogram(frame, aes, flags.Bins, st)
	case KindBar:
		return chart.Bar(frame, aes, st)
	case KindPie:
		return pie(frame, flags.X, st)
	}
	return nil, errors.NewValidationError("kind", kind, fmt.Sprintf("must be one of %v", Kinds))
}

// pie counts the non-null values of column x and draws their shares.
func pie(frame *chart.Frame, x string, st chart.Style) (chart.Figure, error) {
	if x == "" {
		return nil, &errors.ValidationError{Field: "x", Message: "pie needs an --x column"}
	}
	col, err := frame.Column(x)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, v := range col {
		if v != "" {
			counts[v]++
		}
	}
	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	colors := chart.HuePalette(values, chart.Set2)
	slices := make([]chart.Slice, len(values))
	for i, v := range values {
		slices[i] = chart.Slice{Label: v, Value: float64(counts[v]), Color: colors[v]}
	}
	center := st.Title
	if center == "" {
		center = x
	}
	st.Title = ""
	return chart.Pie(slices, center, st)
}
