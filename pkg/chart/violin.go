package chart

import (
	"image/color"
	"math"
	"sort"

	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/haccpkit/haccp/pkg/errors"
)

const (
	// kdeCut extends the density support this many bandwidths past the data.
	kdeCut    = 2.0
	kdePoints = 100
)

// Violin draws a kernel density outline per x category with the quartile
// box inside, optionally with the strip overlaid.
func Violin(f *Frame, aes Aes, st Style, strip bool) (*Plot, error) {
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

	d := newDodge(aes, hues, violinWidth)
	for i, cat := range cats {
		for _, h := range hues {
			vals := valuesFor(obs, cat, h)
			if len(vals) == 0 {
				continue
			}
			at := float64(i) + d.offset(h)
			parts, err := violinParts(at, d.share()/2, vals, colors[h], alpha)
			if err != nil {
				return nil, err
			}
			p.plot.Add(parts...)
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

// violinParts returns the outline polygon and inner box of one violin
// centred at x, at most half wide on either side.
func violinParts(x, half float64, vals []float64, c drawing.Color, alpha float64) ([]plot.Plotter, error) {
	k := newKDE(vals)
	ys := k.support(kdeCut, kdePoints)
	dens := make([]float64, len(ys))
	peak := 0.0
	for i, y := range ys {
		dens[i] = k.density(y)
		peak = math.Max(peak, dens[i])
	}

	outline := make(plotter.XYs, 0, 2*len(ys))
	for i, y := range ys {
		outline = append(outline, plotter.XY{X: x + half*dens[i]/peak, Y: y})
	}
	for i := len(ys) - 1; i >= 0; i-- {
		outline = append(outline, plotter.XY{X: x - half*dens[i]/peak, Y: ys[i]})
	}
	poly, err := plotter.NewPolygon(outline)
	if err != nil {
		return nil, errors.WrapResource("render", "chart", "violin", err)
	}
	poly.Color = withAlpha(c, alpha)
	poly.LineStyle = draw.LineStyle{Color: color.Gray{Y: 60}, Width: vg.Points(0.5)}

	q := k.quartiles()
	whisker, err := plotter.NewLine(plotter.XYs{{X: x, Y: q.lower}, {X: x, Y: q.upper}})
	if err != nil {
		return nil, errors.WrapResource("render", "chart", "violin", err)
	}
	whisker.Color = color.Gray{Y: 60}
	whisker.Width = vg.Points(1)

	box, err := plotter.NewLine(plotter.XYs{{X: x, Y: q.q1}, {X: x, Y: q.q3}})
	if err != nil {
		return nil, errors.WrapResource("render", "chart", "violin", err)
	}
	box.Color = color.Gray{Y: 60}
	box.Width = vg.Points(5)

	median, err := plotter.NewScatter(plotter.XYs{{X: x, Y: q.median}})
	if err != nil {
		return nil, errors.WrapResource("render", "chart", "violin", err)
	}
	median.GlyphStyle = draw.GlyphStyle{Color: color.White, Radius: vg.Points(2), Shape: draw.CircleGlyph{}}

	return []plot.Plotter{poly, whisker, box, median}, nil
}

// kde is a Gaussian kernel density estimate with Scott's bandwidth.
type kde struct {
	data      []float64
	bandwidth float64
}

func newKDE(vals []float64) kde {
	data := append([]float64(nil), vals...)
	sort.Float64s(data)
	bw := scottBandwidth(data)
	if !(bw > 0) {
		bw = math.Max(math.Abs(data[0])*0.05, 0.5)
	}
	return kde{data: data, bandwidth: bw}
}

// scottBandwidth is σ·n^(-1/5) with the sample standard deviation.
func scottBandwidth(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil) * math.Pow(float64(len(data)), -0.2)
}

func (k kde) density(x float64) float64 {
	var sum float64
	for _, d := range k.data {
		z := (x - d) / k.bandwidth
		sum += math.Exp(-0.5 * z * z)
	}
	return sum / (float64(len(k.data)) * k.bandwidth * math.Sqrt(2*math.Pi))
}

// support returns n evenly spaced points covering the data plus cut
// bandwidths on each side.
func (k kde) support(cut float64, n int) []float64 {
	lo := k.data[0] - cut*k.bandwidth
	hi := k.data[len(k.data)-1] + cut*k.bandwidth
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

type quartiles struct {
	lower, q1, median, q3, upper float64
}

// quartiles returns the quartiles and the Tukey whisker ends of the data.
func (k kde) quartiles() quartiles {
	q := quartiles{
		q1:     stat.Quantile(0.25, stat.LinInterp, k.data, nil),
		median: stat.Quantile(0.5, stat.LinInterp, k.data, nil),
		q3:     stat.Quantile(0.75, stat.LinInterp, k.data, nil),
	}
	iqr := q.q3 - q.q1
	q.lower, q.upper = q.q1, q.q3
	for _, v := range k.data {
		if v >= q.q1-1.5*iqr {
			q.lower = v
			break
		}
	}
	for i := len(k.data) - 1; i >= 0; i-- {
		if v := k.data[i]; v <= q.q3+1.5*iqr {
			q.upper = v
			break
		}
	}
	return q
}
