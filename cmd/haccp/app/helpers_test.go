package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/schema"
)

// writeFixture writes a one-group, one-round manifest and its two CSV
// files under a temp dir. C1 is registered and evaluated; C2 is evaluated
// only, so the join has one unmatched row.
func writeFixture(t *testing.T) (manifestPath string, m *schema.Manifest) {
	t.Helper()
	dir := t.TempDir()

	m = schema.Default()
	m.Groups = m.Groups[len(m.Groups)-1:]
	m.Groups[0].Rounds = m.Groups[0].Rounds[:1]
	m.DataDir = filepath.Join(dir, "data")

	g := m.Groups[0]
	writeCSV(t, g.Registration.Resolve(m.DataDir), g.Registration, []map[string]string{
		{records.AttrCertificateID: "C1", records.AttrEntityName: "한빛식품", records.AttrEvaluationTarget: "식품제조가공업"},
	})
	writeCSV(t, g.Rounds[0].Resolve(m.DataDir), g.Rounds[0], []map[string]string{
		{records.AttrCertificateID: "C1", records.AttrTotalScore: "91", records.AttrResult: "적합"},
		{records.AttrCertificateID: "C2", records.AttrTotalScore: "58", records.AttrResult: "부적합"},
	})

	manifestPath = filepath.Join(dir, "manifest.yaml")
	require.NoError(t, m.Save(manifestPath))
	return manifestPath, m
}

func writeCSV(t *testing.T, path string, src schema.Source, rows []map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.Write(src.Columns.SourceNames()))
	for _, r := range rows {
		cells := make([]string, len(src.Columns))
		for i, c := range src.Columns {
			cells[i] = r[c.Canonical]
		}
		require.NoError(t, w.Write(cells))
	}
	w.Flush()
	require.NoError(t, w.Error())
}

// newTestApp creates an App with a quiet logger and default config.
func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New("1.2.3", "abc123", "2024-01-01", "test",
		WithConfig(&Config{Encoding: "auto", LogFormat: "json", LogOutput: "discard"}),
		WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)
	return a
}

// run executes the CLI with args and returns stdout and stderr.
func run(t *testing.T, a *App, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := a.createRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}
