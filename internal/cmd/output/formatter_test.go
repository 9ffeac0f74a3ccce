package output

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp/internal/cmd/table"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/records"
)

var evaluations = records.Evaluations{
	{CertificateID: "C1", TotalScore: "91", Result: "적합", Round: "1차", Authority: "지방청", Category: "식품"},
	{CertificateID: "C2", TotalScore: "58", Result: "부적합", Round: "1차", Authority: "지방청", Category: "식품"},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"table", FormatTable},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{"csv", FormatCSV},
		{"wide", FormatWide},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("xml")
	assert.True(t, errors.IsValidationError(err))
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, evaluations))
	out := buf.String()
	assert.Contains(t, out, "C1")
	assert.Contains(t, out, "부적합")

	buf.Reset()
	data := table.Data{
		Headers:         []string{"Source", "Rows"},
		Rows:            [][]string{{"local-food-r1", "12"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}
	require.NoError(t, NewFormatter(FormatWide).Format(&buf, data))
	assert.Contains(t, buf.String(), "local-food-r1")
}

func TestTableFormatter_StructFallback(t *testing.T) {
	type stat struct {
		SourceID string `json:"source_id"`
		Kept     int    `json:"kept"`
	}
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, []stat{{"local-food-info", 3}}))
	assert.Contains(t, buf.String(), "local-food-info")
	assert.Equal(t, "Source Id", headerName(reflect.TypeOf(stat{}).Field(0)))
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatCSV).Format(&buf, evaluations))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "C1,91,"))

	buf.Reset()
	require.NoError(t, NewFormatter(FormatCSV).Format(&buf, Data{Headers: []string{"a", "b"}, Rows: [][]string{{"1", "x,y"}}}))
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())

	err := NewFormatter(FormatCSV).Format(&buf, map[string]int{"a": 1})
	assert.True(t, errors.IsValidationError(err))
}

func TestStructuredFormatters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, evaluations))
	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "C2", decoded[1]["certificate_id"])

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, evaluations))
	var fromYAML []records.EvaluationRecord
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, []records.EvaluationRecord(evaluations), fromYAML)
}
