package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/haccpkit/haccp/pkg/reconcile"
)

// RoundCount is the result distribution of one evaluation round.
type RoundCount struct {
	Round  string         `json:"round" yaml:"round"`
	Labels map[string]int `json:"labels" yaml:"labels"`
	Total  int            `json:"total" yaml:"total"`
}

// ByRound tallies joined rows per round and result label, in round order.
func ByRound(result *reconcile.Result) []RoundCount {
	idx := make(map[string]int)
	var out []RoundCount
	for _, row := range result.Joined {
		round := row.Evaluation.Round
		i, ok := idx[round]
		if !ok {
			i = len(out)
			idx[round] = i
			out = append(out, RoundCount{Round: round, Labels: make(map[string]int)})
		}
		out[i].Labels[Label(row.Evaluation.Result)]++
		out[i].Total++
	}
	sort.Slice(out, func(i, j int) bool { return roundNumber(out[i].Round) < roundNumber(out[j].Round) })
	return out
}

// Summary writes a markdown report of a load: rows per source, result
// labels per round, join coverage and warnings.
func Summary(result *reconcile.Result, w io.Writer) error {
	b := NewMarkdownBuilder(w)
	b.H1("HACCP 조사평가 요약")

	b.H2("Sources")
	rows := make([][]string, 0, len(result.Stats.Sources))
	for _, s := range result.Stats.Sources {
		rows = append(rows, []string{
			s.ID, string(s.Kind), s.Authority, s.Category, s.Round,
			strconv.Itoa(s.Read), strconv.Itoa(s.Kept),
		})
	}
	b.Table([]string{"Source", "Kind", "Authority", "Category", "Round", "Read", "Kept"}, rows)

	b.H2("Results by round")
	rounds := ByRound(result)
	labels := roundLabels(rounds)
	header := append([]string{"Round"}, labels...)
	header = append(header, "Total")
	rows = nil
	for _, rc := range rounds {
		row := []string{rc.Round}
		for _, l := range labels {
			row = append(row, strconv.Itoa(rc.Labels[l]))
		}
		rows = append(rows, append(row, strconv.Itoa(rc.Total)))
	}
	b.Table(header, rows)

	b.H2("Join coverage")
	st := result.Stats
	b.BulletList(
		fmt.Sprintf("Registrations: %d (%d dropped without 인증번호)", len(result.Registrations), st.RegistrationsDropped),
		fmt.Sprintf("Evaluations: %d (%d dropped without 평가결과)", len(result.Evaluations), st.EvaluationsDropped),
		fmt.Sprintf("Joined rows: %d", len(result.Joined)),
		fmt.Sprintf("Matched: %d", st.Matched),
		fmt.Sprintf("Unmatched: %d", st.Unmatched),
		fmt.Sprintf("Duplicate registration keys: %d", st.DuplicateKeys),
	)

	b.H2("Warnings")
	if result.HasWarnings() {
		for _, warning := range result.Warnings {
			b.Alert("warning", warning)
		}
	} else {
		b.PlainText("None.")
	}

	return b.Build()
}

// roundLabels orders labels as 적합, 부적합, then the rest alphabetically.
func roundLabels(rounds []RoundCount) []string {
	seen := make(map[string]bool)
	for _, rc := range rounds {
		for l := range rc.Labels {
			seen[l] = true
		}
	}
	var out []string
	for _, l := range []string{LabelPass, LabelFail} {
		if seen[l] {
			out = append(out, l)
			delete(seen, l)
		}
	}
	return append(out, sortedKeys(seen)...)
}

// roundNumber parses the leading integer of a round label such as "3차".
func roundNumber(label string) int {
	n := 0
	for _, r := range label {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
