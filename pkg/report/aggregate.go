package report

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/haccpkit/haccp/pkg/chart"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/records"
)

// Placeholder is the dash some sources use for "not applicable".
const Placeholder = "-"

// Count is the number of rows holding one value.
type Count struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// column returns the named joined column or a NotFoundError.
func column(joined records.Joined, name string) ([]string, error) {
	col, ok := joined.Column(name)
	if !ok {
		return nil, &errors.NotFoundError{Resource: "column", ID: name}
	}
	return col, nil
}

// CountByLabel counts the values of column per result label. Null and
// placeholder values are skipped; each label's counts are sorted by value.
func CountByLabel(joined records.Joined, name string) (map[string][]Count, error) {
	col, err := column(joined, name)
	if err != nil {
		return nil, err
	}

	tally := make(map[string]map[string]int)
	for i, row := range joined {
		v := col[i]
		if v == "" || v == Placeholder {
			continue
		}
		label := Label(row.Evaluation.Result)
		if tally[label] == nil {
			tally[label] = make(map[string]int)
		}
		tally[label][v]++
	}

	out := make(map[string][]Count, len(tally))
	for label, counts := range tally {
		list := make([]Count, 0, len(counts))
		for v, n := range counts {
			list = append(list, Count{Value: v, Count: n})
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Value < list[j].Value })
		out[label] = list
	}
	return out, nil
}

// NumericByLabel collects the numeric values of column per result label.
// Values that do not parse as numbers are skipped.
func NumericByLabel(joined records.Joined, name string) (map[string][]float64, error) {
	col, err := column(joined, name)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]float64)
	for i, row := range joined {
		n, ok := number(col[i])
		if !ok {
			continue
		}
		label := Label(row.Evaluation.Result)
		out[label] = append(out[label], n)
	}
	return out, nil
}

// Ratio is a pivot of index values against raw results, normalised so every
// row sums to 100.
type Ratio struct {
	Index   []string    `json:"index" yaml:"index"`
	Results []string    `json:"results" yaml:"results"`
	Counts  [][]int     `json:"counts" yaml:"counts"`
	Percent [][]float64 `json:"percent" yaml:"percent"`
}

// ResultRatio pivots the joined table on index against raw evaluation
// results. Rows with a null index are skipped.
func ResultRatio(joined records.Joined, index string) (*Ratio, error) {
	col, err := column(joined, index)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]int)
	results := make(map[string]bool)
	for i, row := range joined {
		if col[i] == "" {
			continue
		}
		if counts[col[i]] == nil {
			counts[col[i]] = make(map[string]int)
		}
		counts[col[i]][row.Evaluation.Result]++
		results[row.Evaluation.Result] = true
	}
	if len(counts) == 0 {
		return nil, &errors.ValidationError{Field: index, Message: "no rows with a value"}
	}

	r := &Ratio{Index: sortedKeys(counts), Results: sortedKeys(results)}
	for _, idx := range r.Index {
		row := make([]int, len(r.Results))
		pct := make([]float64, len(r.Results))
		total := 0
		for j, res := range r.Results {
			row[j] = counts[idx][res]
			total += row[j]
		}
		for j := range row {
			pct[j] = float64(row[j]) / float64(total) * 100
		}
		r.Counts = append(r.Counts, row)
		r.Percent = append(r.Percent, pct)
	}
	return r, nil
}

// Series returns one stacked-bar series per result, coloured by ResultColor.
func (r *Ratio) Series() []chart.Series {
	out := make([]chart.Series, len(r.Results))
	for j, res := range r.Results {
		vals := make([]float64, len(r.Index))
		for i := range r.Index {
			vals[i] = r.Percent[i][j]
		}
		out[j] = chart.Series{Name: res, Values: vals, Color: ResultColor(res)}
	}
	return out
}

func number(s string) (float64, bool) {
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

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
