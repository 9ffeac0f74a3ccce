// Package cmdutil provides flag sets shared by the figure commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/haccpkit/haccp/pkg/chart"
	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

// StyleFlags holds the presentation flags of a figure command.
type StyleFlags struct {
	Title      string
	XLabel     string
	YLabel     string
	Width      float64
	Height     float64
	Font       string
	Seed       uint64
	HideLegend bool
	Out        string
}

// AddStyleFlags adds the presentation flags to a figure command.
func AddStyleFlags(cmd *cobra.Command) *StyleFlags {
	flags := &StyleFlags{}

	cmd.Flags().StringVar(&flags.Title, "title", "", "figure title")
	cmd.Flags().StringVar(&flags.XLabel, "xlabel", "", "x axis label (default: the x column)")
	cmd.Flags().StringVar(&flags.YLabel, "ylabel", "", "y axis label (default: the y column)")
	cmd.Flags().Float64Var(&flags.Width, "width", constants.DefaultChartWidth, "figure width in inches")
	cmd.Flags().Float64Var(&flags.Height, "height", constants.DefaultChartHeight, "figure height in inches")
	cmd.Flags().StringVar(&flags.Font, "font", "", "TrueType font file with Hangul glyphs")
	cmd.Flags().Uint64Var(&flags.Seed, "seed", 0, "seed for palette order and strip jitter")
	cmd.Flags().BoolVar(&flags.HideLegend, "no-legend", false, "hide the legend")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output file (.png, .svg or .pdf)")

	return flags
}

// Style builds a chart style from the flags. fontPath is used when --font
// is not given.
func (f *StyleFlags) Style(fontPath string) chart.Style {
	st := chart.DefaultStyle()
	st.Title = f.Title
	st.XLabel = f.XLabel
	st.YLabel = f.YLabel
	st.Width = f.Width
	st.Height = f.Height
	st.Seed = f.Seed
	st.HideLegend = f.HideLegend
	st.FontPath = fontPath
	if f.Font != "" {
		st.FontPath = f.Font
	}
	return st
}

// Validate checks the output path before any work is done.
func (f *StyleFlags) Validate() error {
	if f.Out == "" {
		return &errors.ValidationError{Field: "out", Message: "an output path is required"}
	}
	_, err := chart.FormatFromPath(f.Out)
	return err
}
