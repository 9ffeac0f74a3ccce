package report

import (
	"fmt"
	"strconv"

	"github.com/haccpkit/haccp/pkg/chart"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/records"
)

// LabelColumn names the derived result-label column in report frames.
const LabelColumn = "평가결과라벨"

// countColumn names the count column of bar frames.
const countColumn = "건수"

// labelColors pins Set2 colours to the two main labels.
var labelColors = map[string]string{
	LabelPass: chart.Set2[0],
	LabelFail: chart.Set2[1],
}

// PieByLabel draws the distribution of column among rows with the given
// label as a donut captioned with the label. Colours follow the sorted
// values of the whole column so both labels' donuts agree.
func PieByLabel(joined records.Joined, name, label string, st chart.Style) (*chart.Donut, error) {
	counts, err := CountByLabel(joined, name)
	if err != nil {
		return nil, err
	}
	list := counts[label]
	if len(list) == 0 {
		return nil, errors.NewValidationError(name, label, fmt.Sprintf("no rows labelled %s", label))
	}

	colors := valueColors(counts)
	slices := make([]chart.Slice, len(list))
	for i, c := range list {
		slices[i] = chart.Slice{Label: c.Value, Value: float64(c.Count), Color: colors[c.Value]}
	}
	return chart.Pie(slices, label, st)
}

// BarByLabel draws the count of each value of column among rows with the
// given label.
func BarByLabel(joined records.Joined, name, label string, st chart.Style) (*chart.Plot, error) {
	counts, err := CountByLabel(joined, name)
	if err != nil {
		return nil, err
	}
	list := counts[label]
	if len(list) == 0 {
		return nil, errors.NewValidationError(name, label, fmt.Sprintf("no rows labelled %s", label))
	}

	rows := make([][]string, len(list))
	for i, c := range list {
		rows[i] = []string{c.Value, strconv.Itoa(c.Count)}
	}
	st.HueColors = valueColors(counts)
	if st.Title == "" {
		st.Title = fmt.Sprintf("%s: %s", LabelColumn, label)
	}
	if st.XLabel == "" {
		st.XLabel = name
	}
	frame := chart.NewFrame([]string{name, countColumn}, rows)
	return chart.Bar(frame, chart.Aes{X: name, Y: countColumn}, st)
}

// HistByLabel draws a histogram of a numeric column for one label, or for
// both main labels overlaid when label is empty.
func HistByLabel(joined records.Joined, name, label string, bins int, st chart.Style) (*chart.Plot, error) {
	frame, err := labelFrame(joined, name, label)
	if err != nil {
		return nil, err
	}
	st.HueColors = labelColors
	if st.Title == "" {
		st.Title = fmt.Sprintf("%s/%s 비교", LabelPass, LabelFail)
		if label != "" {
			st.Title = fmt.Sprintf("%s: %s", LabelColumn, label)
		}
	}
	if st.XLabel == "" {
		st.XLabel = name
	}
	return chart.Histogram(frame, chart.Aes{X: name, Hue: LabelColumn}, bins, st)
}

// ViolinByLabel compares a numeric column between the two main labels.
func ViolinByLabel(joined records.Joined, name string, st chart.Style) (*chart.Plot, error) {
	frame, err := labelFrame(joined, name, "")
	if err != nil {
		return nil, err
	}
	st.HueColors = labelColors
	if st.XLabel == "" {
		st.XLabel = name
	}
	return chart.Violin(frame, chart.Aes{X: LabelColumn, Y: name, Hue: LabelColumn}, st, false)
}

// RatioBar stacks the share of each raw result per value of index.
func RatioBar(joined records.Joined, index string, st chart.Style) (*chart.Plot, error) {
	ratio, err := ResultRatio(joined, index)
	if err != nil {
		return nil, err
	}
	if st.XLabel == "" {
		st.XLabel = index
	}
	if st.YLabel == "" {
		st.YLabel = "비율 (%)"
	}
	return chart.StackedBar(ratio.Index, ratio.Series(), st)
}

// labelFrame pairs column with the result label for rows labelled label, or
// for rows with either main label when label is empty.
func labelFrame(joined records.Joined, name, label string) (*chart.Frame, error) {
	col, err := column(joined, name)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for i, row := range joined {
		l := Label(row.Evaluation.Result)
		switch {
		case label != "" && l != label:
			continue
		case label == "" && l != LabelPass && l != LabelFail:
			continue
		}
		rows = append(rows, []string{col[i], l})
	}
	if len(rows) == 0 {
		return nil, errors.NewValidationError(name, label, "no labelled rows")
	}
	return chart.NewFrame([]string{name, LabelColumn}, rows), nil
}

// valueColors assigns Set2 colours to every value seen under any label.
func valueColors(counts map[string][]Count) map[string]string {
	var values []string
	for _, list := range counts {
		for _, c := range list {
			values = append(values, c.Value)
		}
	}
	return chart.HuePalette(values, chart.Set2)
}
