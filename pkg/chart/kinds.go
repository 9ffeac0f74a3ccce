package chart

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

const (
	// boxWidth and violinWidth are fractions of one category slot.
	boxWidth    = 0.5
	violinWidth = 0.5
	barWidth    = 0.5

	stripJitter = 0.1
	stripRadius = 2.5

	// overlayAlpha is the fill opacity of boxes and violins under a strip.
	overlayAlpha = 0.6
	histAlpha    = 0.5
)

// Line draws the mean of y per x, one line per hue. A numeric x column is
// plotted on a continuous axis, anything else as sorted categories.
func Line(f *Frame, aes Aes, st Style) (*Plot, error) {
	obs, err := f.observations(aes, true)
	if err != nil {
		return nil, err
	}
	p, err := newPlot(st)
	if err != nil {
		return nil, err
	}

	hues := []string{""}
	if aes.Hue != "" {
		hues = distinct(obs, byHue)
	}
	colors := p.hueColors(hues)

	numeric := true
	for _, o := range obs {
		if _, ok := parseNumber(o.x); !ok {
			numeric = false
			break
		}
	}
	var cats []string
	position := func(x string) float64 {
		n, _ := parseNumber(x)
		return n
	}
	if !numeric {
		cats = distinct(obs, byX)
		idx := indexOf(cats)
		position = func(x string) float64 { return float64(idx[x]) }
	}

	for _, h := range hues {
		keys, means := meanBy(obs, func(o observation) bool { return h == "" || o.hue == h }, byX)
		xys := make(plotter.XYs, len(keys))
		for i, k := range keys {
			xys[i] = plotter.XY{X: position(k), Y: means[k]}
		}
		sort.Slice(xys, func(i, j int) bool { return xys[i].X < xys[j].X })

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, errors.WrapResource("render", "chart", "line", err)
		}
		line.Color = colors[h]
		line.Width = vg.Points(2)
		points.Color = colors[h]
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(3)
		p.plot.Add(line, points)
		if aes.Hue != "" {
			p.addLegend(h, colors[h])
		}
	}

	if !numeric {
		p.nominalX(cats)
	}
	return p.finish(), nil
}

// Strip draws every observation as a point, jittered horizontally within
// its x category.
func Strip(f *Frame, aes Aes, st Style) (*Plot, error) {
	obs, err := f.observations(aes, true)
	if err != nil {
		return nil, err
	}
	p, err := newPlot(st)
	if err != nil {
		return nil, err
	}

	cats := distinct(obs, byX)
	hues := distinct(obs, byHue)
	colors := p.hueColors(hues)
	if err := p.addStrip(obs, cats, hues, colors, newDodge(aes, hues, boxWidth)); err != nil {
		return nil, err
	}
	for _, h := range hues {
		p.addLegend(h, colors[h])
	}
	p.nominalX(cats)
	return p.finish(), nil
}

// Box draws a Tukey box per x category, optionally with the strip overlaid.
func Box(f *Frame, aes Aes, st Style, strip bool) (*Plot, error) {
	obs, err := f.observations(aes, true)
	if err != nil {
		return nil, err
	}
	p, err := newPlot(st)
	if err != nil {
		return nil, err
	}

	cats := distinct(obs, byX)
	hues := distinct(obs, byHue)
	colors := p.hueColors(hues)
	alpha := 1.0
	if strip {
		alpha = overlayAlpha
	}

	d := newDodge(aes, hues, boxWidth)
	width := p.slotWidth(len(cats), d.share())
	for i, cat := range cats {
		for _, h := range hues {
			vals := valuesFor(obs, cat, h)
			if len(vals) == 0 {
				continue
			}
			at := float64(i) + d.offset(h)
			b, err := plotter.NewBoxPlot(width, at, vals)
			if err != nil {
				return nil, errors.WrapResource("render", "chart", "box", err)
			}
			b.FillColor = withAlpha(colors[h], alpha)
			b.BoxStyle.Width = vg.Points(0.5)
			b.MedianStyle.Width = vg.Points(1)
			b.WhiskerStyle.Width = vg.Points(0.5)
			p.plot.Add(b)
			p.mark(cat, h, at)
		}
	}
	if strip {
		if err := p.addStrip(obs, cats, hues, colors, d); err != nil {
			return nil, err
		}
	}
	for _, h := range hues {
		p.addLegend(h, colors[h])
	}
	p.nominalX(cats)
	return p.finish(), nil
}

// Histogram bins a numeric x column into bins equal-width bins (default
// constants.DefaultBins) shared across hues, and draws one translucent layer
// per hue.
func Histogram(f *Frame, aes Aes, bins int, st Style) (*Plot, error) {
	if bins <= 0 {
		bins = constants.DefaultBins
	}
	if aes.X == "" {
		return nil, &errors.ValidationError{Field: "x", Message: "column is required"}
	}
	xs, err := f.Numeric(aes.X)
	if err != nil {
		return nil, err
	}
	hueCol := make([]string, len(xs))
	if aes.Hue != "" {
		if hueCol, err = f.Column(aes.Hue); err != nil {
			return nil, err
		}
	}

	layers := make(map[string][]float64)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, x := range xs {
		if math.IsNaN(x) || (aes.Hue != "" && hueCol[i] == "") {
			continue
		}
		layers[hueCol[i]] = append(layers[hueCol[i]], x)
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	if len(layers) == 0 {
		return nil, &errors.ValidationError{Field: aes.X, Message: "no rows to plot"}
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	if st.YLabel == "" {
		st.YLabel = "Count"
	}
	p, err := newPlot(st)
	if err != nil {
		return nil, err
	}

	hues := make([]string, 0, len(layers))
	for h := range layers {
		hues = append(hues, h)
	}
	sort.Strings(hues)
	colors := p.hueColors(hues)

	step := (hi - lo) / float64(bins)
	for _, h := range hues {
		hist := &plotter.Histogram{
			Bins:      make([]plotter.HistogramBin, bins),
			Width:     step,
			FillColor: withAlpha(colors[h], histAlpha),
			LineStyle: draw.LineStyle{Color: color.White, Width: vg.Points(0.5)},
		}
		for b := range hist.Bins {
			hist.Bins[b].Min = lo + float64(b)*step
			hist.Bins[b].Max = lo + float64(b+1)*step
		}
		for _, x := range layers[h] {
			b := int((x - lo) / step)
			if b >= bins {
				b = bins - 1
			}
			hist.Bins[b].Weight++
		}
		p.plot.Add(hist)
		if aes.Hue != "" {
			p.addLegend(h, colors[h])
		}
	}
	return p.finish(), nil
}

// Bar draws the mean of y per x category, labelled with its value to four
// decimals. Hues other than x sit side by side within the category.
func Bar(f *Frame, aes Aes, st Style) (*Plot, error) {
	obs, err := f.observations(aes, true)
	if err != nil {
		return nil, err
	}
	p, err := newPlot(st)
	if err != nil {
		return nil, err
	}

	cats := distinct(obs, byX)
	hues := distinct(obs, byHue)
	colors := p.hueColors(hues)
	d := newDodge(aes, hues, barWidth)
	width := p.slotWidth(len(cats), d.share())

	var (
		points plotter.XYs
		texts  []string
		top    float64
	)
	for i, cat := range cats {
		for _, h := range hues {
			vals := valuesFor(obs, cat, h)
			if len(vals) == 0 {
				continue
			}
			m := mean(vals)
			bar, err := plotter.NewBarChart(plotter.Values{m}, width)
			if err != nil {
				return nil, errors.WrapResource("render", "chart", "bar", err)
			}
			at := float64(i) + d.offset(h)
			bar.XMin = at
			bar.Color = colors[h]
			bar.LineStyle.Width = 0
			p.plot.Add(bar)
			p.mark(cat, h, at)

			points = append(points, plotter.XY{X: at, Y: m})
			texts = append(texts, fmt.Sprintf("%.4f", m))
			top = math.Max(top, m)
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: points, Labels: texts})
	if err != nil {
		return nil, errors.WrapResource("render", "chart", "bar", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i] = textStyle(p.fonts, p.fonts.regular(p.fonts.sizes.Label), draw.XCenter, draw.YBottom)
	}
	p.plot.Add(labels)
	if top > 0 {
		p.plot.Y.Max = top * 1.15
	}

	for _, h := range hues {
		p.addLegend(h, colors[h])
	}
	p.nominalX(cats)
	return p.finish(), nil
}

// Series is one stacked layer of a StackedBar.
type Series struct {
	Name   string
	Values []float64
	// Color is a hex colour; empty takes the next palette colour.
	Color string
}

// StackedBar stacks series on top of each other for every row label.
// Every series must have one value per row.
func StackedBar(rows []string, series []Series, st Style) (*Plot, error) {
	if len(rows) == 0 || len(series) == 0 {
		return nil, &errors.ValidationError{Field: "rows", Message: "nothing to plot"}
	}
	if st.YLabel == "" {
		st.YLabel = "%"
	}
	p, err := newPlot(st)
	if err != nil {
		return nil, err
	}

	width := p.slotWidth(len(rows), barWidth)
	var below *plotter.BarChart
	for i, s := range series {
		if len(s.Values) != len(rows) {
			return nil, &errors.ValidationError{
				Field:   "series",
				Value:   s.Name,
				Message: fmt.Sprintf("expected %d values, got %d", len(rows), len(s.Values)),
			}
		}
		c := p.colors[i%len(p.colors)]
		if s.Color != "" {
			if c, err = ParseColor(s.Color); err != nil {
				return nil, err
			}
		}
		bar, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return nil, errors.WrapResource("render", "chart", "stacked bar", err)
		}
		bar.Color = c
		bar.LineStyle.Width = 0
		if below != nil {
			bar.StackOn(below)
		}
		below = bar
		p.plot.Add(bar)
		p.addLegend(s.Name, c)
	}
	p.nominalX(rows)
	return p.finish(), nil
}

// addStrip overlays jittered points, one scatter per hue, each hue within
// its dodged part of the category.
func (p *Plot) addStrip(obs []observation, cats, hues []string, colors map[string]drawing.Color, d dodge) error {
	rng := rand.New(rand.NewPCG(p.style.Seed, uint64(len(obs))))
	idx := indexOf(cats)
	jitter := stripJitter / float64(d.n)
	layers := make(map[string]plotter.XYs, len(hues))
	for _, o := range obs {
		x := float64(idx[o.x]) + d.offset(o.hue) + (rng.Float64()*2-1)*jitter
		layers[o.hue] = append(layers[o.hue], plotter.XY{X: x, Y: o.y})
	}
	for _, h := range hues {
		if len(layers[h]) == 0 {
			continue
		}
		s, err := plotter.NewScatter(layers[h])
		if err != nil {
			return errors.WrapResource("render", "chart", "strip", err)
		}
		s.GlyphStyle = draw.GlyphStyle{Color: colors[h], Radius: vg.Points(stripRadius), Shape: draw.CircleGlyph{}}
		p.plot.Add(s)
	}
	return nil
}

// dodge splits a category slot between hues. When the hue column is the x
// column every category holds one hue, which keeps the whole slot.
type dodge struct {
	n     int
	units float64
	index map[string]int
}

func newDodge(aes Aes, hues []string, units float64) dodge {
	d := dodge{n: 1, units: units}
	if aes.Hue != "" && aes.Hue != aes.X && len(hues) > 1 {
		d.n = len(hues)
		d.index = indexOf(hues)
	}
	return d
}

// share is the width of one hue in category units.
func (d dodge) share() float64 {
	return d.units / float64(d.n)
}

// offset is the distance of hue h from the category centre.
func (d dodge) offset(h string) float64 {
	if d.n == 1 {
		return 0
	}
	return (float64(d.index[h]) - float64(d.n-1)/2) * d.share()
}

// slotWidth converts a width in category units to a drawing length for n
// categories.
func (p *Plot) slotWidth(n int, units float64) vg.Length {
	if n < 1 {
		n = 1
	}
	area := vg.Length(p.style.Width) * vg.Inch * 0.8
	return area * vg.Length(units/float64(n))
}

// meanBy averages y per key over the observations accepted by keep. Keys are
// returned in first-seen order.
func meanBy(obs []observation, keep func(observation) bool, key func(observation) string) ([]string, map[string]float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	var keys []string
	for _, o := range obs {
		if !keep(o) {
			continue
		}
		k := key(o)
		if counts[k] == 0 {
			keys = append(keys, k)
		}
		sums[k] += o.y
		counts[k]++
	}
	means := make(map[string]float64, len(keys))
	for _, k := range keys {
		means[k] = sums[k] / float64(counts[k])
	}
	return keys, means
}

// valuesFor returns the y values of one x category and hue.
func valuesFor(obs []observation, x, hue string) plotter.Values {
	var out plotter.Values
	for _, o := range obs {
		if o.x == x && o.hue == hue {
			out = append(out, o.y)
		}
	}
	return out
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
