package load_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp/cmd/haccp/cmd/load"
	"github.com/haccpkit/haccp/internal/appcontext"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
	"github.com/haccpkit/haccp/pkg/records"
)

func evaluation(id, result string) records.EvaluationRecord {
	return records.EvaluationRecord{CertificateID: id, Result: result, Round: "1차", Authority: "지방청", Category: "식품"}
}

func result() *reconcile.Result {
	evals := records.Evaluations{evaluation("C1", "적합"), evaluation("C2", "부적합"), evaluation("C3", "적합")}
	regs := records.Registrations{{CertificateID: "C1", EntityName: "한빛식품", Authority: "지방청", Category: "식품"}}
	return &reconcile.Result{
		Registrations: regs,
		Evaluations:   evals,
		Joined:        reconcile.RightJoin(regs, evals),
		Stats:         reconcile.Stats{Matched: 1, Unmatched: 2},
		Warnings:      []string{"source local-food-r2 has no data rows"},
	}
}

func mock(format string, r *reconcile.Result) *appcontext.Mock {
	return &appcontext.Mock{
		Format:   format,
		LoadFunc: func(context.Context) (*reconcile.Result, error) { return r, nil },
	}
}

func TestRun_TagsOperation(t *testing.T) {
	tl := logging.NewTestLogger(t)
	app := mock("json", result())
	app.LoggerFunc = func() *zerolog.Logger { return tl.Logger }
	app.LoadFunc = func(ctx context.Context) (*reconcile.Result, error) {
		logging.FromContext(ctx).Info().Msg("Loaded evaluation records")
		return result(), nil
	}

	var out, errOut bytes.Buffer
	require.NoError(t, load.Run(context.Background(), app, &load.Flags{Table: load.TableJoined}, &out, &errOut))
	require.Equal(t, 2, tl.Count(), "reconciler line and the command's own debug line")
	for _, line := range tl.Lines() {
		assert.Contains(t, line, `"operation":"load"`)
	}
}

func TestRun_YAML(t *testing.T) {
	var out, errOut bytes.Buffer
	err := load.Run(context.Background(), mock("yaml", result()), &load.Flags{Table: load.TableJoined}, &out, &errOut)
	require.NoError(t, err)

	var doc struct {
		Total    int      `yaml:"total"`
		Warnings []string `yaml:"warnings"`
		Rows     []any    `yaml:"rows"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, 3, doc.Total)
	assert.Len(t, doc.Rows, 3)
	assert.Len(t, doc.Warnings, 1)
	assert.Empty(t, errOut.String(), "structured output carries warnings inline")
}

func TestRun_TableLimitAndWarnings(t *testing.T) {
	var out, errOut bytes.Buffer
	err := load.Run(context.Background(), mock("table", result()), &load.Flags{Table: load.TableJoined, Limit: 2}, &out, &errOut)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "2 of 3 joined rows")
	assert.Contains(t, out.String(), "한빛식품")
	assert.Contains(t, errOut.String(), "local-food-r2")
}

func TestRun_CSV(t *testing.T) {
	var out, errOut bytes.Buffer
	err := load.Run(context.Background(), mock("csv", result()), &load.Flags{Table: load.TableEvaluations}, &out, &errOut)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, records.EvaluationAttributes, rows[0])
	assert.Equal(t, "C2", rows[2][0])
}

func TestRun_Errors(t *testing.T) {
	var out, errOut bytes.Buffer
	ctx := context.Background()

	err := load.Run(ctx, mock("xml", result()), &load.Flags{}, &out, &errOut)
	assert.True(t, errors.IsValidationError(err))

	err = load.Run(ctx, mock("json", result()), &load.Flags{Table: "rounds"}, &out, &errOut)
	assert.True(t, errors.IsValidationError(err))

	err = load.Run(ctx, mock("json", &reconcile.Result{}), &load.Flags{FailOnEmpty: true}, &out, &errOut)
	assert.True(t, errors.IsEmptyResult(err))
}

func TestHead(t *testing.T) {
	r := result()
	assert.Len(t, load.Head(r.Joined, 2).Rows(), 2)
	assert.Len(t, load.Head(r.Joined, 0).Rows(), 3)
	assert.Len(t, load.Head(r.Registrations, 5).Rows(), 1)
}
