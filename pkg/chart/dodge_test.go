package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupedFrame() *Frame {
	return NewFrame(
		[]string{"x", "y", "h"},
		[][]string{
			{"A", "10", "p"},
			{"A", "12", "p"},
			{"A", "20", "q"},
			{"A", "22", "q"},
			{"B", "30", "p"},
			{"B", "32", "p"},
			{"B", "40", "q"},
			{"B", "42", "q"},
		},
	)
}

func positions(p *Plot) map[string]float64 {
	out := make(map[string]float64, len(p.marks))
	for _, m := range p.marks {
		out[m.category+"/"+m.hue] = m.x
	}
	return out
}

func TestHueGroupsSitSideBySide(t *testing.T) {
	aes := Aes{X: "x", Y: "y", Hue: "h"}
	kinds := map[string]func() (*Plot, error){
		"bar":    func() (*Plot, error) { return Bar(groupedFrame(), aes, DefaultStyle()) },
		"box":    func() (*Plot, error) { return Box(groupedFrame(), aes, DefaultStyle(), true) },
		"violin": func() (*Plot, error) { return Violin(groupedFrame(), aes, DefaultStyle(), false) },
	}
	for name, build := range kinds {
		t.Run(name, func(t *testing.T) {
			p, err := build()
			require.NoError(t, err)
			at := positions(p)
			require.Len(t, at, 4)

			assert.Less(t, at["A/p"], at["A/q"])
			assert.Less(t, at["B/p"], at["B/q"])
			assert.InDelta(t, 0, at["A/p"]+at["A/q"], 1e-9, "centred on category A")
			assert.InDelta(t, 2, at["B/p"]+at["B/q"], 1e-9, "centred on category B")
			assert.InDelta(t, at["A/q"]-at["A/p"], at["B/q"]-at["B/p"], 1e-9)
			assert.Less(t, at["A/q"], 0.5, "stays inside its slot")
		})
	}
}

func TestHueSameAsXKeepsSlot(t *testing.T) {
	p, err := Bar(groupedFrame(), Aes{X: "x", Y: "y", Hue: "x"}, DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"A/A": 0, "B/B": 1}, positions(p))

	p, err = Box(groupedFrame(), Aes{X: "x", Y: "y"}, DefaultStyle(), false)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"A/A": 0, "B/B": 1}, positions(p))
}

func TestDodgeOffsets(t *testing.T) {
	d := newDodge(Aes{X: "x", Hue: "h"}, []string{"a", "b", "c"}, 0.6)
	assert.InDelta(t, 0.2, d.share(), 1e-9)
	assert.InDelta(t, -0.2, d.offset("a"), 1e-9)
	assert.InDelta(t, 0, d.offset("b"), 1e-9)
	assert.InDelta(t, 0.2, d.offset("c"), 1e-9)

	single := newDodge(Aes{X: "x", Hue: "h"}, []string{"a"}, 0.6)
	assert.InDelta(t, 0.6, single.share(), 1e-9)
	assert.Zero(t, single.offset("a"))
}
