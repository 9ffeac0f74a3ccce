// Package report aggregates the joined evaluation table by result label and
// renders the standard report charts and a markdown summary.
//
// Raw evaluation results are grouped into labels first: 적합 and 적합종결
// become 적합, 부적합 and 부적합종결 become 부적합, and any other result
// keeps its own text.
package report

// Result labels.
const (
	LabelPass = "적합"
	LabelFail = "부적합"
)

// Labels maps raw evaluation results to report labels.
type Labels map[string]string

// DefaultLabels is the standard result grouping.
var DefaultLabels = Labels{
	"적합":    LabelPass,
	"적합종결":  LabelPass,
	"부적합":   LabelFail,
	"부적합종결": LabelFail,
}

// Label returns the label of result, or result itself when unmapped.
func (l Labels) Label(result string) string {
	if label, ok := l[result]; ok {
		return label
	}
	return result
}

// Label maps result with DefaultLabels.
func Label(result string) string {
	return DefaultLabels.Label(result)
}

// DefaultResultColor fills results missing from ResultColors.
const DefaultResultColor = "#BBBBBB"

// ResultColors are the fixed colours of raw results in ratio charts.
var ResultColors = map[string]string{
	"적합종결":       "#90D1CA",
	"적합":         "#90D1CA",
	"자체평가완료":     "#129990",
	"부적합":        "#096B68",
	"부적합종결":      "#096B68",
	"미보완종결":      "#F49BAB",
	"인증취소":       "#FFE1E0",
	"취소예정":       "#2A4759",
	"평가불능":       "#FFFBDE",
	"심사불가":       "#FFFBDE",
	"만료":         "#7F55B1",
	"반납":         "#9B7EBD",
	"기타":         "#FF9F00",
	"소재지이전/규모전환": "#CB0404",
	"폐업":         "#4ED7F1",
}

// ResultColor returns the colour of a raw result.
func ResultColor(result string) string {
	if c, ok := ResultColors[result]; ok {
		return c
	}
	return DefaultResultColor
}
