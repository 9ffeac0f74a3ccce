package haccp_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/reconcile"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	m := haccp.DefaultManifest()

	for i, src := range m.Sources() {
		header := src.Columns.SourceNames()
		var rows [][]string
		switch src.ID {
		case "cert-livestock-info":
			rows = [][]string{{"C1", "가축산", "소규모", "대상", "식육", "의무", "2019-01-01", "2023-01-01", "2026-01-01", "본원", "유지"}}
		case "cert-livestock-r1":
			rows = [][]string{{"C1", "92", "2024-04-02", "적합"}}
		}
		path := src.Resolve(dir)
		f, err := os.Create(path)
		require.NoError(t, err, i)
		w := csv.NewWriter(f)
		require.NoError(t, w.Write(header))
		require.NoError(t, w.WriteAll(rows))
		require.NoError(t, f.Close())
	}

	ctx := logging.WithLogger(context.Background(), logging.NewNopLogger())
	result, err := haccp.Load(ctx, reconcile.WithDataDir(dir))
	require.NoError(t, err)
	require.Len(t, result.Joined, 1)
	assert.Equal(t, "가축산", result.Joined[0].Registration.EntityName)
	assert.Equal(t, "1차", result.Joined[0].Evaluation.Round)

	joined, err := haccp.LoadJoined(ctx, reconcile.WithDataDir(dir))
	require.NoError(t, err)
	assert.Equal(t, result.Joined, joined)
}

func TestLoadMissingDir(t *testing.T) {
	ctx := logging.WithLogger(context.Background(), logging.NewNopLogger())
	_, err := haccp.LoadJoined(ctx, reconcile.WithDataDir(filepath.Join(t.TempDir(), "absent")))
	assert.True(t, errors.IsSourceUnavailable(err))
}
