package chart

import (
	"image/color"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/haccpkit/haccp/pkg/errors"
)

// Plot is a figure drawn with gonum/plot.
type Plot struct {
	plot   *plot.Plot
	style  Style
	fonts  typography
	colors []drawing.Color
	pinned map[string]drawing.Color

	categories []string
	marks      []mark
	legend     []legendEntry
	shown      int
	rotated    bool
}

// mark is where one category and hue group was drawn on the x axis.
type mark struct {
	category, hue string
	x             float64
}

func (p *Plot) mark(category, hue string, x float64) {
	p.marks = append(p.marks, mark{category: category, hue: hue, x: x})
}

type legendEntry struct {
	name  string
	color color.Color
}

// Categories returns the nominal x categories, if the x axis is nominal.
func (p *Plot) Categories() []string {
	return p.categories
}

// LegendEntries returns the number of legend entries drawn.
func (p *Plot) LegendEntries() int {
	return p.shown
}

// Rotated reports whether x tick labels are drawn vertically.
func (p *Plot) Rotated() bool {
	return p.rotated
}

// Render implements Figure.
func (p *Plot) Render(w io.Writer, format Format) error {
	width := vg.Length(p.style.Width) * vg.Inch
	height := vg.Length(p.style.Height) * vg.Inch
	wt, err := p.plot.WriterTo(width, height, string(format))
	if err != nil {
		return errors.WrapResource("render", "chart", string(format), err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.WrapIO("write", string(format), err)
	}
	return nil
}

// newPlot applies st to a fresh gonum plot.
func newPlot(st Style) (*Plot, error) {
	st = st.withDefaults()
	fonts, err := loadTypography(st)
	if err != nil {
		return nil, err
	}
	colors, err := st.colors()
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(st.Background)
	if err != nil {
		return nil, err
	}

	pinned := make(map[string]drawing.Color, len(st.HueColors))
	for hue, hex := range st.HueColors {
		if pinned[hue], err = ParseColor(hex); err != nil {
			return nil, err
		}
	}

	p := plot.New()
	p.TextHandler = fonts.handler
	p.BackgroundColor = bg

	p.Title.Text = st.Title
	p.Title.Padding = vg.Points(fonts.sizes.Tick / 2)
	p.Title.TextStyle = textStyle(fonts, fonts.bold(fonts.sizes.Title), draw.XCenter, draw.YTop)

	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle = textStyle(fonts, fonts.regular(fonts.sizes.Label), draw.XCenter, draw.YBottom)
		ax.Tick.Label = textStyle(fonts, fonts.regular(fonts.sizes.Tick), draw.XCenter, draw.YTop)
	}
	p.Y.Tick.Label.XAlign = draw.XRight
	p.Y.Tick.Label.YAlign = draw.YCenter
	p.X.Label.Text = st.XLabel
	p.Y.Label.Text = st.YLabel

	p.Legend.TextStyle = textStyle(fonts, fonts.regular(fonts.sizes.Tick), draw.XLeft, draw.YCenter)
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = color.White
	grid.Horizontal.Color = color.White
	grid.Vertical.Width = vg.Points(1)
	grid.Horizontal.Width = vg.Points(1)
	p.Add(grid)

	return &Plot{plot: p, style: st, fonts: fonts, colors: colors, pinned: pinned}, nil
}

func textStyle(t typography, f font.Font, x text.XAlignment, y text.YAlignment) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    f,
		XAlign:  x,
		YAlign:  y,
		Handler: t.handler,
	}
}

// nominalX makes the x axis categorical, rotating long labels.
func (p *Plot) nominalX(categories []string) {
	p.categories = categories
	if len(categories) == 0 {
		return
	}
	p.plot.NominalX(categories...)
	p.plot.X.Min = -0.5
	p.plot.X.Max = float64(len(categories)) - 0.5
	if shouldRotate(categories) {
		p.rotated = true
		p.plot.X.Tick.Label.Rotation = math.Pi / 2
		p.plot.X.Tick.Label.XAlign = draw.XRight
		p.plot.X.Tick.Label.YAlign = draw.YCenter
	}
}

// hueColors assigns palette colours to sorted hues, honouring pinned ones.
func (p *Plot) hueColors(hues []string) map[string]drawing.Color {
	out := huePalette(hues, p.colors)
	for h := range out {
		if c, ok := p.pinned[h]; ok {
			out[h] = c
		}
	}
	return out
}

// addLegend queues a legend entry.
func (p *Plot) addLegend(name string, c color.Color) {
	p.legend = append(p.legend, legendEntry{name: name, color: c})
}

// finish adds queued legend entries when the legend is shown.
func (p *Plot) finish() *Plot {
	if p.style.showLegend(len(p.legend)) {
		for _, e := range p.legend {
			p.plot.Legend.Add(e.name, swatch{color: e.color})
		}
		p.shown = len(p.legend)
	}
	return p
}

// swatch is a filled-square legend thumbnail.
type swatch struct {
	color color.Color
}

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonY(pts))
}

// withAlpha returns c with the given opacity.
func withAlpha(c drawing.Color, alpha float64) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
}
