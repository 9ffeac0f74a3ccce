package schema_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemacmd "github.com/haccpkit/haccp/cmd/haccp/cmd/schema"
	"github.com/haccpkit/haccp/internal/appcontext"
	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/logging"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

// conforming returns a reader holding a matching header for every source.
func conforming(m *schema.Manifest) sources.Static {
	s := sources.Static{}
	for _, src := range m.Sources() {
		s[src.Resolve(m.DataDir)] = &sources.Frame{Header: src.Columns.SourceNames()}
	}
	return s
}

func mockWith(m *schema.Manifest, r sources.Static) *appcontext.Mock {
	return &appcontext.Mock{
		Format:       "table",
		ManifestFunc: func() (*schema.Manifest, error) { return m, nil },
		ReaderFunc:   func() (sources.Reader, error) { return r, nil },
	}
}

func TestValidate(t *testing.T) {
	m := schema.Default().WithDataDir("data")
	reader := conforming(m)
	total := len(m.Sources())

	var out bytes.Buffer
	require.NoError(t, schemacmd.Validate(context.Background(), mockWith(m, reader), &out))
	assert.Contains(t, out.String(), fmt.Sprintf("All %d sources match their mappings", total))

	src := m.Evaluations()[0]
	reader[src.Resolve(m.DataDir)] = &sources.Frame{Header: []string{"인증번호", "점수"}}
	delete(reader, m.Registrations()[0].Resolve(m.DataDir))

	out.Reset()
	err := schemacmd.Validate(context.Background(), mockWith(m, reader), &out)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), fmt.Sprintf("2 of %d sources failed validation", total))
	assert.Contains(t, out.String(), "mismatch")
	assert.Contains(t, out.String(), "unavailable")
}

func TestValidate_LogsTaggedFailures(t *testing.T) {
	tl := logging.NewTestLogger(t)
	m := schema.Default()
	reader := conforming(m)
	src := m.Evaluations()[0]
	reader[src.Resolve(m.DataDir)] = &sources.Frame{Header: []string{"인증번호"}}

	app := mockWith(m, reader)
	app.LoggerFunc = func() *zerolog.Logger { return tl.Logger }
	require.Error(t, schemacmd.Validate(context.Background(), app, &bytes.Buffer{}))

	require.Equal(t, 1, tl.Count())
	line := tl.Lines()[0]
	assert.Contains(t, line, `"operation":"schema"`)
	assert.Contains(t, line, `"group":"`+src.Group+`"`)
	assert.Contains(t, line, `"source":"`+src.ID+`"`)
}

func TestValidate_Canceled(t *testing.T) {
	m := schema.Default()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := schemacmd.Validate(ctx, mockWith(m, conforming(m)), &bytes.Buffer{})
	assert.True(t, errors.IsCanceled(err))
}

func TestShow(t *testing.T) {
	m := schema.Default()
	src := m.Evaluations()[0]

	var out bytes.Buffer
	require.NoError(t, schemacmd.Show(mockWith(m, nil), "", &out))
	assert.Contains(t, out.String(), src.ID)

	out.Reset()
	require.NoError(t, schemacmd.Show(mockWith(m, nil), src.ID, &out))
	assert.Contains(t, out.String(), src.Columns[0].Source)

	app := mockWith(m, nil)
	app.Format = "json"
	out.Reset()
	require.NoError(t, schemacmd.Show(app, src.ID, &out))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, src.ID, decoded["id"])

	err := schemacmd.Show(mockWith(m, nil), "nowhere-r9", &out)
	assert.True(t, errors.IsNotFound(err))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), schemacmd.DefaultManifestFile)
	app := &appcontext.Mock{}

	require.NoError(t, schemacmd.Init(app, path, false, &bytes.Buffer{}))
	loaded, err := schema.LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Sources(), len(schema.Default().Sources()))

	err = schemacmd.Init(app, path, false, &bytes.Buffer{})
	assert.True(t, errors.IsValidationError(err))

	require.NoError(t, os.WriteFile(path, []byte("groups: []\n"), 0o600))
	require.NoError(t, schemacmd.Init(app, path, true, &bytes.Buffer{}))
	loaded, err = schema.LoadManifest(path)
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.Sources())
}
