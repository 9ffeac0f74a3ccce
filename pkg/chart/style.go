package chart

import (
	"math"
	"unicode/utf8"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

// Style carries every presentation setting of a chart. The zero value is
// usable: zero fields take the defaults of DefaultStyle.
type Style struct {
	// Width and Height are the figure size in inches.
	Width  float64
	Height float64

	Title  string
	XLabel string
	YLabel string

	// HideLegend suppresses the legend. Legends are also hidden when a chart
	// has more than constants.MaxLegendEntries categories.
	HideLegend bool

	// Palette is a list of hex colours. Empty means Palette(Seed).
	Palette []string

	// HueColors pins hex colours to hue values ahead of the palette.
	HueColors map[string]string

	// Background is the hex fill behind the plot area.
	Background string

	// FontPath is an optional TrueType font, needed for Hangul glyphs.
	FontPath string

	// Seed drives the default palette order and strip jitter.
	Seed uint64
}

// DefaultStyle returns a 10x6 inch style on the #F0F0F0 background.
func DefaultStyle() Style {
	return Style{
		Width:      constants.DefaultChartWidth,
		Height:     constants.DefaultChartHeight,
		Background: constants.DefaultBackground,
	}
}

// withDefaults fills zero fields from DefaultStyle.
func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.Background == "" {
		s.Background = d.Background
	}
	if len(s.Palette) == 0 {
		s.Palette = Palette(s.Seed)
	}
	return s
}

// FontSizes are point sizes for chart text.
type FontSizes struct {
	Title float64
	Label float64
	Tick  float64
}

// FontSizes scales text with the smaller figure side: with
// s = min(w, h)² / 40 the sizes are 30s, 20s and 15s, rounded to one decimal.
func (s Style) FontSizes() FontSizes {
	s = s.withDefaults()
	minSize := math.Min(math.Trunc(s.Width), math.Trunc(s.Height))
	scale := minSize * minSize / 40
	return FontSizes{
		Title: round1(30 * scale),
		Label: round1(20 * scale),
		Tick:  round1(15 * scale),
	}
}

// colors parses the palette.
func (s Style) colors() ([]drawing.Color, error) {
	out := make([]drawing.Color, 0, len(s.Palette))
	for _, hex := range s.Palette {
		c, err := ParseColor(hex)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, &errors.ValidationError{Field: "palette", Message: "palette is empty"}
	}
	return out, nil
}

// shouldRotate reports whether category labels are long enough to be drawn
// vertically.
func shouldRotate(labels []string) bool {
	for _, l := range labels {
		if utf8.RuneCountInString(l) >= constants.RotateLabelRunes {
			return true
		}
	}
	return false
}

// showLegend reports whether a legend with n entries is drawn.
func (s Style) showLegend(n int) bool {
	return !s.HideLegend && n > 0 && n <= constants.MaxLegendEntries
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
