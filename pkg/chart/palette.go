package chart

import (
	"math/rand/v2"
	"regexp"
	"sort"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/haccpkit/haccp/pkg/errors"
)

// pastel holds the six four-colour palettes Palette draws from.
var pastel = [][]string{
	{"#A6E3E9", "#71C9CE", "#E3FDFD", "#CBF1F5"},
	{"#3F72AF", "#112D4E", "#F9F7F7", "#DBE2EF"},
	{"#FFD1D1", "#FF9494", "#FFF5E4", "#FFE3E1"},
	{"#B83B5E", "#6A2C70", "#F9ED69", "#F08A5D"},
	{"#F5F5F5", "#FC5185", "#364F6B", "#3FC1C9"},
	{"#609966", "#40513B", "#EDF1D6", "#9DC08B"},
}

// Set2 is the ColorBrewer Set2 qualitative palette.
var Set2 = []string{
	"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3",
	"#a6d854", "#ffd92f", "#e5c494", "#b3b3b3",
}

// Set3 is the ColorBrewer Set3 qualitative palette.
var Set3 = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072",
	"#80b1d3", "#fdb462", "#b3de69", "#fccde5",
	"#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// Palette concatenates the six pastel palettes in an order chosen by seed.
// The same seed always yields the same 24 colours.
func Palette(seed uint64) []string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]string, 0, len(pastel)*4)
	for _, i := range rng.Perm(len(pastel)) {
		out = append(out, pastel[i]...)
	}
	return out
}

// HuePalette assigns colours to the sorted distinct values, cycling through
// colors when there are more values than colours.
func HuePalette(values []string, colors []string) map[string]string {
	uniq := make(map[string]bool, len(values))
	var keys []string
	for _, v := range values {
		if !uniq[v] {
			uniq[v] = true
			keys = append(keys, v)
		}
	}
	sort.Strings(keys)

	out := make(map[string]string, len(keys))
	if len(colors) == 0 {
		return out
	}
	for i, k := range keys {
		out[k] = colors[i%len(colors)]
	}
	return out
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ParseColor parses a #RGB or #RRGGBB colour.
func ParseColor(hex string) (drawing.Color, error) {
	if !hexColor.MatchString(hex) {
		return drawing.Color{}, errors.NewValidationError("color", hex, "expected #RGB or #RRGGBB")
	}
	return drawing.ColorFromHex(hex), nil
}

// huePalette maps hue values to parsed colours.
func huePalette(hues []string, colors []drawing.Color) map[string]drawing.Color {
	out := make(map[string]drawing.Color, len(hues))
	for i, h := range hues {
		out[h] = colors[i%len(colors)]
	}
	return out
}
