// Package table converts loaded tables, load statistics and manifests into
// rows for terminal output.
package table

import (
	"strconv"

	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/schema"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// Empty is printed in place of a null cell.
const Empty = "-"

// JoinedColumns are the columns of the narrow joined view.
var JoinedColumns = []string{
	records.AttrCertificateID,
	records.AttrEntityName,
	records.AttrEvaluationTarget,
	records.AttrRound,
	records.AttrTotalScore,
	records.AttrResult,
	records.AttrAuthority,
	records.AttrCategory,
}

// JoinedToTableData converts joined rows to table format. The wide view
// shows every attribute. A positive limit keeps only the first rows.
func JoinedToTableData(joined records.Joined, limit int, wide bool) Data {
	columns := JoinedColumns
	if wide {
		columns = records.JoinedAttributes
	}
	if limit > 0 && len(joined) > limit {
		joined = joined[:limit]
	}

	rows := make([][]string, 0, len(joined))
	for i := range joined {
		row := make([]string, len(columns))
		for c, attr := range columns {
			v, _ := joined[i].Get(attr)
			row[c] = orEmpty(v)
		}
		rows = append(rows, row)
	}

	align := make([]Align, len(columns))
	for c, attr := range columns {
		if attr == records.AttrTotalScore {
			align[c] = AlignRight
		}
	}
	return Data{Headers: columns, Rows: rows, ColumnAlignment: align}
}

// RecordsToTableData converts any records table to table format.
func RecordsToTableData(t records.Table, limit int) Data {
	rows := t.Rows()
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for c, v := range row {
			out[i][c] = orEmpty(v)
		}
	}
	return Data{Headers: t.Columns(), Rows: out}
}

// StatsToTableData converts per-source load statistics to table format.
func StatsToTableData(stats reconcile.Stats) Data {
	rows := make([][]string, 0, len(stats.Sources))
	for _, s := range stats.Sources {
		rows = append(rows, []string{
			s.ID,
			string(s.Kind),
			s.Authority,
			s.Category,
			orEmpty(s.Round),
			strconv.Itoa(s.Read),
			strconv.Itoa(s.Kept),
		})
	}
	return Data{
		Headers: []string{"Source", "Kind", "Authority", "Category", "Round", "Read", "Kept"},
		Rows:    rows,
		ColumnAlignment: []Align{
			AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignCenter, AlignRight, AlignRight,
		},
	}
}

// ManifestToTableData lists every source of a manifest in load order.
func ManifestToTableData(m *schema.Manifest) Data {
	srcs := append(m.Registrations(), m.Evaluations()...)
	rows := make([][]string, 0, len(srcs))
	for _, s := range srcs {
		round := Empty
		if s.Round > 0 {
			round = s.RoundLabel()
		}
		rows = append(rows, []string{
			s.ID,
			string(s.Kind),
			s.Authority,
			s.Category,
			round,
			strconv.Itoa(len(s.Columns)),
			s.Resolve(m.DataDir),
		})
	}
	return Data{
		Headers: []string{"Source", "Kind", "Authority", "Category", "Round", "Columns", "Path"},
		Rows:    rows,
	}
}

func orEmpty(v string) string {
	if v == "" {
		return Empty
	}
	return v
}
