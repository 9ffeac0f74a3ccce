package chart_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp/pkg/chart"
	"github.com/haccpkit/haccp/pkg/errors"
)

func scores() *chart.Frame {
	return chart.NewFrame(
		[]string{"평가차수", "카테고리", "총점", "평가결과"},
		[][]string{
			{"1차", "축산물", "85", "적합"},
			{"1차", "축산물", "91.5", "적합"},
			{"1차", "식품", "62", "부적합"},
			{"2차", "축산물", "77", "적합"},
			{"2차", "식품", "", "적합"},
			{"2차", "식품", "n/a", "부적합"},
			{"3차", "식품", "1,000", "적합"},
			{"3차", "", "70", "적합"},
		},
	)
}

func render(t *testing.T, fig chart.Figure, format chart.Format) []byte {
	t.Helper()
	data, err := chart.Bytes(fig, format)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	return data
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestFontSizes(t *testing.T) {
	sizes := chart.DefaultStyle().FontSizes()
	assert.Equal(t, chart.FontSizes{Title: 27, Label: 18, Tick: 13.5}, sizes)

	small := chart.Style{Width: 4.9, Height: 8}.FontSizes()
	assert.Equal(t, chart.FontSizes{Title: 12, Label: 8, Tick: 6}, small)
}

func TestPaletteDeterministic(t *testing.T) {
	a := chart.Palette(7)
	b := chart.Palette(7)
	assert.Equal(t, a, b)
	assert.Len(t, a, 24)

	seen := make(map[string]bool)
	for _, c := range a {
		seen[c] = true
	}
	assert.Len(t, seen, 24, "each pastel colour appears once")
}

func TestHuePalette(t *testing.T) {
	got := chart.HuePalette([]string{"b", "a", "c", "a"}, []string{"#111111", "#222222"})
	assert.Equal(t, map[string]string{"a": "#111111", "b": "#222222", "c": "#111111"}, got)
}

func TestParseColor(t *testing.T) {
	c, err := chart.ParseColor("#F0F0F0")
	require.NoError(t, err)
	assert.Equal(t, uint8(0xF0), c.R)
	assert.Equal(t, uint8(255), c.A)

	_, err = chart.ParseColor("grey")
	assert.True(t, errors.IsValidationError(err))
}

func TestFrameColumn(t *testing.T) {
	f := scores()
	col, err := f.Column("평가결과")
	require.NoError(t, err)
	assert.Len(t, col, f.Len())

	_, err = f.Column("없는컬럼")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "없는컬럼")
}

func TestFrameNumeric(t *testing.T) {
	nums, err := scores().Numeric("총점")
	require.NoError(t, err)
	assert.Equal(t, 85.0, nums[0])
	assert.Equal(t, 1000.0, nums[6])
	assert.True(t, nums[4] != nums[4], "null is NaN")

	_, err = scores().Numeric("평가결과")
	assert.True(t, errors.IsValidationError(err))
}

func TestStripAndViolin(t *testing.T) {
	aes := chart.Aes{X: "평가차수", Y: "총점", Hue: "평가차수"}

	strip, err := chart.Strip(scores(), aes, chart.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, []string{"1차", "2차", "3차"}, strip.Categories())
	assert.True(t, bytes.HasPrefix(render(t, strip, chart.FormatPNG), pngMagic))

	violin, err := chart.Violin(scores(), aes, chart.DefaultStyle(), true)
	require.NoError(t, err)
	assert.Equal(t, 3, violin.LegendEntries())
	svg := render(t, violin, chart.FormatSVG)
	assert.Contains(t, string(svg), "<svg")
}

func TestStripDeterministic(t *testing.T) {
	aes := chart.Aes{X: "평가차수", Y: "총점"}
	st := chart.DefaultStyle()
	st.Seed = 42

	a, err := chart.Strip(scores(), aes, st)
	require.NoError(t, err)
	b, err := chart.Strip(scores(), aes, st)
	require.NoError(t, err)
	assert.Equal(t, render(t, a, chart.FormatSVG), render(t, b, chart.FormatSVG))
}

func TestBoxAndBar(t *testing.T) {
	aes := chart.Aes{X: "카테고리", Y: "총점"}

	box, err := chart.Box(scores(), aes, chart.DefaultStyle(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"식품", "축산물"}, box.Categories())
	render(t, box, chart.FormatPNG)

	bar, err := chart.Bar(scores(), aes, chart.DefaultStyle())
	require.NoError(t, err)
	svg := string(render(t, bar, chart.FormatSVG))
	assert.Contains(t, svg, "84.5000", "mean of 85, 91.5 and 77")
	assert.Contains(t, svg, "531.0000", "mean of 62 and 1000")
}

func TestLine(t *testing.T) {
	line, err := chart.Line(scores(), chart.Aes{X: "평가차수", Y: "총점", Hue: "카테고리"}, chart.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, 2, line.LegendEntries())
	assert.Equal(t, []string{"1차", "2차", "3차"}, line.Categories())
	render(t, line, chart.FormatPNG)

	numeric := chart.NewFrame([]string{"x", "y"}, [][]string{{"2", "4"}, {"1", "1"}, {"2", "6"}})
	l, err := chart.Line(numeric, chart.Aes{X: "x", Y: "y"}, chart.DefaultStyle())
	require.NoError(t, err)
	assert.Empty(t, l.Categories(), "numeric x is continuous")
	assert.Zero(t, l.LegendEntries())
	assert.True(t, bytes.HasPrefix(render(t, l, chart.FormatPDF), []byte("%PDF")))
}

func TestHistogram(t *testing.T) {
	hist, err := chart.Histogram(scores(), chart.Aes{X: "총점", Hue: "평가결과"}, 0, chart.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, 2, hist.LegendEntries())
	render(t, hist, chart.FormatPNG)

	flat := chart.NewFrame([]string{"v"}, [][]string{{"5"}, {"5"}})
	_, err = chart.Histogram(flat, chart.Aes{X: "v"}, 4, chart.DefaultStyle())
	require.NoError(t, err)
}

func TestLabelRotation(t *testing.T) {
	short := chart.NewFrame([]string{"k", "v"}, [][]string{{"적합", "1"}, {"부적합", "2"}})
	p, err := chart.Bar(short, chart.Aes{X: "k", Y: "v"}, chart.DefaultStyle())
	require.NoError(t, err)
	assert.False(t, p.Rotated())

	long := chart.NewFrame([]string{"k", "v"}, [][]string{{"식육포장처리업", "1"}, {"적합", "2"}})
	p, err = chart.Bar(long, chart.Aes{X: "k", Y: "v"}, chart.DefaultStyle())
	require.NoError(t, err)
	assert.True(t, p.Rotated(), "a six-rune label rotates the axis")
}

func TestLegendHiddenForManyCategories(t *testing.T) {
	var rows [][]string
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		rows = append(rows, []string{k, "1"})
	}
	f := chart.NewFrame([]string{"k", "v"}, rows)

	p, err := chart.Bar(f, chart.Aes{X: "k", Y: "v"}, chart.DefaultStyle())
	require.NoError(t, err)
	assert.Zero(t, p.LegendEntries())

	p, err = chart.Bar(chart.NewFrame([]string{"k", "v"}, rows[:10]), chart.Aes{X: "k", Y: "v"}, chart.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, 10, p.LegendEntries())

	st := chart.DefaultStyle()
	st.HideLegend = true
	p, err = chart.Bar(chart.NewFrame([]string{"k", "v"}, rows[:3]), chart.Aes{X: "k", Y: "v"}, st)
	require.NoError(t, err)
	assert.Zero(t, p.LegendEntries())
}

func TestStackedBar(t *testing.T) {
	p, err := chart.StackedBar(
		[]string{"인증원", "지방청"},
		[]chart.Series{
			{Name: "적합", Values: []float64{80, 60}, Color: "#90D1CA"},
			{Name: "부적합", Values: []float64{20, 40}},
		},
		chart.DefaultStyle(),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, p.LegendEntries())
	render(t, p, chart.FormatSVG)

	_, err = chart.StackedBar([]string{"a"}, []chart.Series{{Name: "x", Values: []float64{1, 2}}}, chart.DefaultStyle())
	assert.True(t, errors.IsValidationError(err))
}

func TestPie(t *testing.T) {
	d, err := chart.Pie([]chart.Slice{
		{Label: "적합", Value: 3},
		{Label: "부적합", Value: 1},
		{Label: "없음", Value: 0},
	}, "전체 4건", chart.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, []string{"적합: 75.0%", "부적합: 25.0%"}, d.Labels())

	assert.True(t, bytes.HasPrefix(render(t, d, chart.FormatPNG), pngMagic))
	render(t, d, chart.FormatSVG)

	_, err = chart.Bytes(d, chart.FormatPDF)
	assert.True(t, errors.IsValidationError(err))

	_, err = chart.Pie([]chart.Slice{{Label: "x", Value: 0}}, "", chart.DefaultStyle())
	assert.True(t, errors.IsValidationError(err))
}

func TestMissingColumn(t *testing.T) {
	_, err := chart.Violin(scores(), chart.Aes{X: "평가차수", Y: "점수"}, chart.DefaultStyle(), false)
	assert.True(t, errors.IsNotFound(err))

	_, err = chart.Box(scores(), chart.Aes{Y: "총점"}, chart.DefaultStyle(), false)
	assert.True(t, errors.IsValidationError(err))
}

func TestMissingFont(t *testing.T) {
	st := chart.DefaultStyle()
	st.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	_, err := chart.Strip(scores(), chart.Aes{X: "평가차수", Y: "총점"}, st)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave(t *testing.T) {
	p, err := chart.Box(scores(), chart.Aes{X: "평가차수", Y: "총점"}, chart.DefaultStyle(), true)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "charts", "box.svg")
	require.NoError(t, chart.Save(p, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, chart.Save(p, filepath.Join(t.TempDir(), "box.gif")))
}

func TestParseFormat(t *testing.T) {
	f, err := chart.FormatFromPath("out/chart.SVG")
	require.NoError(t, err)
	assert.Equal(t, chart.FormatSVG, f)

	_, err = chart.ParseFormat("bmp")
	assert.True(t, errors.IsValidationError(err))
}
