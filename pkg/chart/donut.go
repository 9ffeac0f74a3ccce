package chart

import (
	"fmt"
	"io"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/haccpkit/haccp/pkg/errors"
)

// donutDPI is the resolution of go-chart output.
const donutDPI = 96

// Slice is one wedge of a Pie.
type Slice struct {
	Label string
	Value float64
	// Color is a hex colour; empty takes the palette colour at the slice's
	// position.
	Color string
}

// Donut is a pie chart with a hole and a centre caption, drawn with go-chart.
type Donut struct {
	chart  gochart.DonutChart
	labels []string
	center string
	sizes  FontSizes
}

// Pie builds a donut chart whose wedges are labelled "label: pct%".
// Non-positive slices are skipped; at least one positive slice is required.
func Pie(slices []Slice, center string, st Style) (*Donut, error) {
	st = st.withDefaults()
	colors, err := st.colors()
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(st.Background)
	if err != nil {
		return nil, err
	}
	fnt, err := loadTrueType(st.FontPath)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, s := range slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total <= 0 {
		return nil, &errors.ValidationError{Field: "slices", Message: "pie needs at least one positive value"}
	}

	sizes := st.FontSizes()
	edge := float64(int(st.Width*st.Height) / 20)
	d := &Donut{center: center, sizes: sizes}
	for i, s := range slices {
		if s.Value <= 0 {
			continue
		}
		fill := colors[i%len(colors)]
		if s.Color != "" {
			if fill, err = ParseColor(s.Color); err != nil {
				return nil, err
			}
		}
		label := fmt.Sprintf("%s: %.1f%%", s.Label, s.Value/total*100)
		d.labels = append(d.labels, label)
		d.chart.Values = append(d.chart.Values, gochart.Value{
			Label: label,
			Value: s.Value,
			Style: gochart.Style{
				FillColor:   fill,
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: edge,
				FontSize:    sizes.Tick,
				FontColor:   drawing.ColorBlack,
			},
		})
	}

	d.chart.Title = st.Title
	d.chart.TitleStyle = gochart.Style{FontSize: sizes.Title, FontColor: drawing.ColorBlack}
	d.chart.Width = int(st.Width * donutDPI)
	d.chart.Height = int(st.Height * donutDPI)
	d.chart.DPI = donutDPI
	d.chart.Background = gochart.Style{FillColor: bg}
	d.chart.Canvas = gochart.Style{FillColor: bg}
	d.chart.Font = fnt
	return d, nil
}

// Labels returns the wedge labels in drawing order.
func (d *Donut) Labels() []string {
	return d.labels
}

// Render implements Figure. Only PNG and SVG are supported.
func (d *Donut) Render(w io.Writer, format Format) error {
	var rp gochart.RendererProvider
	switch format {
	case FormatPNG:
		rp = gochart.PNG
	case FormatSVG:
		rp = gochart.SVG
	default:
		return errors.NewValidationError("format", format, "pie charts render to png or svg")
	}

	c := d.chart
	if c.Font == nil {
		fnt, err := gochart.GetDefaultFont()
		if err != nil {
			return errors.WrapResource("render", "chart", "pie", err)
		}
		c.Font = fnt
	}
	c.Elements = []gochart.Renderable{centerText(d.center, d.sizes.Label, c.Font)}
	if err := c.Render(rp, w); err != nil {
		return errors.WrapResource("render", "chart", "pie", err)
	}
	return nil
}

// centerText draws body in the middle of the canvas.
func centerText(body string, size float64, fnt *truetype.Font) gochart.Renderable {
	return func(r gochart.Renderer, box gochart.Box, _ gochart.Style) {
		if body == "" {
			return
		}
		r.SetFont(fnt)
		r.SetFontSize(size)
		r.SetFontColor(drawing.ColorBlack)
		cx, cy := box.Center()
		tb := r.MeasureText(body)
		r.Text(body, cx-tb.Width()/2, cy+tb.Height()/2)
	}
}
