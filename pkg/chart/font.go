package chart

import (
	"os"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"

	"github.com/haccpkit/haccp/pkg/errors"
)

// customTypeface names a font loaded from Style.FontPath.
const customTypeface font.Typeface = "Custom"

// typography is the text setup of a gonum plot.
type typography struct {
	handler text.Handler
	base    font.Font
	sizes   FontSizes
}

// regular returns the base font at size points.
func (t typography) regular(size float64) font.Font {
	return font.From(t.base, font.Points(size))
}

// bold returns the bold base font at size points.
func (t typography) bold(size float64) font.Font {
	f := t.regular(size)
	f.Weight = xfont.WeightBold
	return f
}

// loadTypography builds the text handler for st, using the bundled
// Liberation fonts unless a font file is given.
func loadTypography(st Style) (typography, error) {
	t := typography{
		handler: plot.DefaultTextHandler,
		base:    plot.DefaultFont,
		sizes:   st.FontSizes(),
	}
	if st.FontPath == "" {
		return t, nil
	}

	data, err := readFont(st.FontPath)
	if err != nil {
		return t, err
	}
	face, err := opentype.Parse(data)
	if err != nil {
		return t, errors.WrapParse("font", st.FontPath, err)
	}
	t.base = font.Font{Typeface: customTypeface}
	t.handler = text.Plain{
		Fonts: font.NewCache(font.Collection{{Font: t.base, Face: face}}),
	}
	return t, nil
}

// loadTrueType loads a font for go-chart. An empty path yields the go-chart
// default.
func loadTrueType(path string) (*truetype.Font, error) {
	if path == "" {
		return nil, nil
	}
	data, err := readFont(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.WrapParse("font", path, err)
	}
	return f, nil
}

func readFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return data, nil
}
