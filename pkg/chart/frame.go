// Package chart renders exploratory charts over tabular evaluation data.
//
// Every chart is built from a Frame and an explicit Style; nothing is read
// from package-level state, so two charts rendered with the same inputs and
// the same Style.Seed produce the same bytes.
//
// Most kinds are drawn with gonum.org/v1/plot and can be written as PNG, SVG
// or PDF. The donut (Pie) is drawn with go-chart and supports PNG and SVG.
//
// Example usage:
//
//	frame := chart.FromTable(result.Joined)
//	fig, err := chart.Violin(frame, chart.Aes{X: "평가차수", Y: "총점", Hue: "평가차수"}, chart.DefaultStyle(), true)
//	if err != nil {
//	    return err
//	}
//	return chart.Save(fig, "violin.png")
package chart

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/haccpkit/haccp/pkg/errors"
)

// Table is any row-oriented table with a header.
type Table interface {
	Columns() []string
	Rows() [][]string
}

// Frame is a read-only column-addressable view of a Table.
type Frame struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewFrame creates a Frame from a header and rows. Rows shorter than the
// header read as null in the missing columns.
func NewFrame(columns []string, rows [][]string) *Frame {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return &Frame{columns: columns, index: index, rows: rows}
}

// FromTable creates a Frame over t.
func FromTable(t Table) *Frame {
	return NewFrame(t.Columns(), t.Rows())
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.rows)
}

// Columns returns the header.
func (f *Frame) Columns() []string {
	return f.columns
}

// Column returns the values of the named column.
func (f *Frame) Column(name string) ([]string, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, &errors.NotFoundError{Resource: "column", ID: name}
	}
	out := make([]string, len(f.rows))
	for r, row := range f.rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out, nil
}

// Numeric returns the named column parsed as numbers. Values that do not
// parse are NaN. It fails when no value in the column is numeric.
func (f *Frame) Numeric(name string) ([]float64, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	valid := 0
	for i, v := range col {
		n, ok := parseNumber(v)
		if !ok {
			out[i] = math.NaN()
			continue
		}
		out[i] = n
		valid++
	}
	if valid == 0 && len(col) > 0 {
		return nil, &errors.ValidationError{Field: name, Message: "column has no numeric values"}
	}
	return out, nil
}

// Aes maps frame columns onto chart channels. Hue is optional.
type Aes struct {
	X   string
	Y   string
	Hue string
}

// observation is one usable row of a chart.
type observation struct {
	x   string
	y   float64
	hue string
}

// observations collects rows with non-null x, hue and (when wantY) a numeric
// y. An empty Hue falls back to X.
func (f *Frame) observations(aes Aes, wantY bool) ([]observation, error) {
	if aes.X == "" {
		return nil, &errors.ValidationError{Field: "x", Message: "column is required"}
	}
	xs, err := f.Column(aes.X)
	if err != nil {
		return nil, err
	}
	hueCol := aes.Hue
	if hueCol == "" {
		hueCol = aes.X
	}
	hues, err := f.Column(hueCol)
	if err != nil {
		return nil, err
	}
	var ys []float64
	if wantY {
		if aes.Y == "" {
			return nil, &errors.ValidationError{Field: "y", Message: "column is required"}
		}
		if ys, err = f.Numeric(aes.Y); err != nil {
			return nil, err
		}
	}

	out := make([]observation, 0, len(xs))
	for i := range xs {
		if xs[i] == "" || hues[i] == "" {
			continue
		}
		o := observation{x: xs[i], hue: hues[i]}
		if wantY {
			if math.IsNaN(ys[i]) {
				continue
			}
			o.y = ys[i]
		}
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil, &errors.ValidationError{Field: aes.X, Message: "no rows to plot"}
	}
	return out, nil
}

// distinct returns the sorted distinct values produced by key.
func distinct(obs []observation, key func(observation) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range obs {
		k := key(o)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func byX(o observation) string   { return o.x }
func byHue(o observation) string { return o.hue }

func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
