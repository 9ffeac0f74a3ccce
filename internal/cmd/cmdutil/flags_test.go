package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

func TestAddStyleFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "chart"}
	flags := AddStyleFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--title", "총점 분포", "--width", "8", "--seed", "7", "--no-legend", "--out", "a.png"}))

	st := flags.Style("/fonts/app.ttf")
	assert.Equal(t, "총점 분포", st.Title)
	assert.Equal(t, 8.0, st.Width)
	assert.Equal(t, constants.DefaultChartHeight, st.Height)
	assert.Equal(t, uint64(7), st.Seed)
	assert.True(t, st.HideLegend)
	assert.Equal(t, "/fonts/app.ttf", st.FontPath)

	flags.Font = "/fonts/flag.ttf"
	assert.Equal(t, "/fonts/flag.ttf", flags.Style("/fonts/app.ttf").FontPath)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&StyleFlags{Out: "out/fig.SVG"}).Validate())
	assert.True(t, errors.IsValidationError((&StyleFlags{}).Validate()))
	assert.True(t, errors.IsValidationError((&StyleFlags{Out: "fig.jpg"}).Validate()))
}
