package report_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reportcmd "github.com/haccpkit/haccp/cmd/haccp/cmd/report"
	"github.com/haccpkit/haccp/internal/appcontext"
	"github.com/haccpkit/haccp/internal/cmd/cmdutil"
	"github.com/haccpkit/haccp/pkg/chart"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
)

func row(id, target, score, result string) records.JoinedRecord {
	return records.JoinedRecord{
		Registration: &records.RegistrationRecord{CertificateID: id, EvaluationTarget: target, Authority: "지방청", Category: "식품"},
		Evaluation:   records.EvaluationRecord{CertificateID: id, TotalScore: score, Result: result, Round: "1차", Authority: "지방청", Category: "식품"},
	}
}

func joined() records.Joined {
	return records.Joined{
		row("A1", "식품제조가공업", "92", "적합"),
		row("A2", "식품제조가공업", "88.5", "적합종결"),
		row("A3", "집단급식소", "61", "부적합"),
		row("A4", "집단급식소", "70", "부적합종결"),
		row("A5", "집단급식소", "95", "적합"),
	}
}

func flags() *reportcmd.Flags {
	return &reportcmd.Flags{Bins: 5, Style: &cmdutil.StyleFlags{Width: 6, Height: 4}}
}

func TestBuild(t *testing.T) {
	for _, kind := range reportcmd.Kinds {
		if kind == reportcmd.KindSummary {
			continue
		}
		t.Run(kind, func(t *testing.T) {
			fig, err := reportcmd.Build(joined(), kind, flags(), "")
			require.NoError(t, err)
			data, err := chart.Bytes(fig, chart.FormatSVG)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestBuild_LabelAndColumn(t *testing.T) {
	f := flags()
	f.Label = "부적합"
	fig, err := reportcmd.Build(joined(), reportcmd.KindPie, f, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"집단급식소: 100.0%"}, fig.(*chart.Donut).Labels())

	f.Label = "폐업"
	_, err = reportcmd.Build(joined(), reportcmd.KindBar, f, "")
	assert.True(t, errors.IsValidationError(err))

	f = flags()
	f.Column = "없는컬럼"
	_, err = reportcmd.Build(joined(), reportcmd.KindRatio, f, "")
	assert.True(t, errors.IsNotFound(err))
}

func TestRun(t *testing.T) {
	app := &appcontext.Mock{LoadFunc: func(context.Context) (*reconcile.Result, error) {
		return &reconcile.Result{Joined: joined()}, nil
	}}
	dir := t.TempDir()

	f := flags()
	f.Style.Out = filepath.Join(dir, "ratio.svg")
	var out, errOut bytes.Buffer
	require.NoError(t, reportcmd.Run(context.Background(), app, reportcmd.KindRatio, f, &out, &errOut))
	assert.FileExists(t, f.Style.Out)
	assert.Contains(t, errOut.String(), "ratio")

	f.Style.Out = ""
	require.NoError(t, reportcmd.Run(context.Background(), app, reportcmd.KindSummary, f, &out, &errOut))
	assert.Contains(t, out.String(), "# HACCP 조사평가 요약")

	f.Style.Out = filepath.Join(dir, "nested", "summary.md")
	require.NoError(t, reportcmd.Run(context.Background(), app, reportcmd.KindSummary, f, &out, &errOut))
	data, err := os.ReadFile(f.Style.Out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Matched: 0")

	f.Style.Out = ""
	err = reportcmd.Run(context.Background(), app, reportcmd.KindViolin, f, &out, &errOut)
	assert.True(t, errors.IsValidationError(err))
}
