package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/haccpkit/haccp/pkg/errors"
	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/schema"
)

func TestDefaultManifest(t *testing.T) {
	m := schema.Default()
	require.NoError(t, m.Validate())

	assert.Len(t, m.Groups, 3)
	assert.Len(t, m.Registrations(), 3)
	assert.Len(t, m.Evaluations(), 10-3)
	assert.Len(t, m.Paths(), 10)

	assert.Equal(t, filepath.Join("data", "HACCP_조사평가_2024_인증원_축산물_업체정보.csv"), m.Paths()[0])
	assert.Equal(t, filepath.Join("data", "HACCP_조사평가_2024_지방청_식품_4차평가.csv"), m.Paths()[9])

	for _, s := range m.Evaluations() {
		assert.Equal(t, records.EvaluationSourceAttributes, s.Columns.Canonical(), s.ID)
		assert.NotEmpty(t, s.Authority)
		assert.NotEmpty(t, s.Category)
		assert.NotEmpty(t, s.Group, s.ID)
	}
	assert.Equal(t, schema.GroupCertLivestock, m.Registrations()[0].Group)
	assert.Empty(t, m.Groups[0].Registration.Group, "group IDs are filled on the returned copies")
}

func TestDefaultRoundColumns(t *testing.T) {
	m := schema.Default()

	food, err := m.Group(schema.GroupLocalFood)
	require.NoError(t, err)
	assert.Equal(t, []string{"인증번호", "총점(1차)", "평가일", "평가결과및불능사유(1차)"}, food.Rounds[0].Columns.SourceNames())
	assert.Equal(t, []string{"인증번호", "총점(2차)", "평가일(2차)", "평가결과및불능사유(2차)"}, food.Rounds[1].Columns.SourceNames())

	cert, err := m.Group(schema.GroupCertLivestock)
	require.NoError(t, err)
	require.Len(t, cert.Rounds, 2)
	for _, r := range cert.Rounds {
		assert.Equal(t, []string{"인증번호", "총점", "심사일", "최종심사결과"}, r.Columns.SourceNames())
	}

	_, err = m.Group("missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestMappingValidate(t *testing.T) {
	m := schema.Map([]string{"인증번호", "총점"}, []string{"인증번호", "총점"})

	t.Run("ok with extra columns", func(t *testing.T) {
		assert.NoError(t, m.Validate("s", []string{"비고", "총점", "인증번호"}))
	})

	t.Run("missing", func(t *testing.T) {
		err := m.Validate("s", []string{"총점"})
		var mismatch *errors.SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "s", mismatch.Source)
		assert.Equal(t, 2, mismatch.ExpectedCount)
		assert.Equal(t, 1, mismatch.ActualCount)
		assert.Equal(t, []string{"인증번호"}, mismatch.Missing)
	})

	t.Run("duplicated", func(t *testing.T) {
		err := m.Validate("s", []string{"인증번호", "총점", "총점"})
		var mismatch *errors.SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, []string{"총점"}, mismatch.Duplicated)
	})

	t.Run("decomposed header", func(t *testing.T) {
		header := []string{norm.NFD.String("인증번호"), "총점"}
		assert.NoError(t, m.Validate("s", header))
	})
}

func TestMappingIndexes(t *testing.T) {
	m := schema.Map([]string{"b", "a"}, []string{"x", "y"})
	idx, err := m.Indexes("s", []string{"a", "c", "b"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, idx)

	_, err = m.Indexes("s", []string{"a"})
	assert.True(t, errors.IsSchemaMismatch(err))
}

func TestSourceValidateHeader(t *testing.T) {
	s := schema.Default().Evaluations()[0]
	assert.NoError(t, s.ValidateHeader([]string{"인증번호", "총점", "심사일", "최종심사결과", "비고"}))

	short := s
	short.Columns = s.Columns[:3]
	err := short.ValidateHeader([]string{"인증번호", "총점", "심사일", "최종심사결과"})
	var mismatch *errors.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 4, mismatch.ExpectedCount)
	assert.Equal(t, 3, mismatch.ActualCount)
}

func TestSourceHeaderIndexes(t *testing.T) {
	s := schema.Default().Evaluations()[0]
	idx, err := s.HeaderIndexes([]string{"비고", "최종심사결과", "인증번호", "심사일", "총점"})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 3, 1}, idx)

	_, err = s.HeaderIndexes([]string{"인증번호", "총점"})
	assert.True(t, errors.IsSchemaMismatch(err))

	renamed := s
	renamed.Columns = schema.Map([]string{"인증번호", "총점", "심사일", "최종심사결과"}, []string{"a", "b", "c", "d"})
	_, err = renamed.HeaderIndexes([]string{"인증번호", "총점", "심사일", "최종심사결과"})
	var mismatch *errors.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "mapping does not produce the canonical attribute list", mismatch.Message)
}

func TestManifestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *schema.Manifest)
		field  string
		value  any
	}{
		{"no groups", func(m *schema.Manifest) { m.Groups = nil }, "groups", nil},
		{"empty id", func(m *schema.Manifest) { m.Groups[0].ID = "" }, "groups[0].id", nil},
		{"bad authority", func(m *schema.Manifest) { m.Groups[1].Authority = "본청" }, "groups[1].authority", "본청"},
		{"bad category", func(m *schema.Manifest) { m.Groups[2].Category = "수산물" }, "groups[2].category", "수산물"},
		{"round gap", func(m *schema.Manifest) { m.Groups[1].Rounds[1].Round = 3 }, "groups[1].rounds[1].round", 3},
		{"wrong kind", func(m *schema.Manifest) { m.Groups[0].Registration.Kind = schema.KindEvaluation }, "groups[0].registration.kind", schema.KindEvaluation},
		{"duplicate id", func(m *schema.Manifest) { m.Groups[1].Rounds[0].ID = m.Groups[0].Registration.ID }, "groups[1].rounds[0].id", "cert-livestock-info"},
		{"short mapping", func(m *schema.Manifest) {
			m.Groups[0].Registration.Columns = m.Groups[0].Registration.Columns[:10]
		}, "groups[0].registration.columns", nil},
		{"double mapped", func(m *schema.Manifest) {
			m.Groups[0].Rounds[0].Columns[1].Source = "인증번호"
		}, "groups[0].rounds[0].columns", "인증번호"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := schema.Default()
			tt.mutate(m)
			err := m.Validate()
			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			if tt.value != nil {
				assert.Equal(t, tt.value, verr.Value)
			}
		})
	}
}

func TestManifestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "manifest.yaml")
	m := schema.Default().WithDataDir("/srv/haccp")
	require.NoError(t, m.Save(path))

	loaded, err := schema.LoadManifest(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, loaded); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, filepath.Join("/srv/haccp", "HACCP_조사평가_2024_인증원_축산물_업체정보.csv"), loaded.Paths()[0])
}

func TestLoadManifestErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := schema.LoadManifest(filepath.Join(dir, "nope.yaml"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("groups: [unclosed"), 0o644))
	_, err = schema.LoadManifest(bad)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("data_dir: ./data\ngroups: []\n"), 0o644))
	_, err = schema.LoadManifest(empty)
	assert.True(t, errors.IsValidationError(err))
}

func TestResolve(t *testing.T) {
	s := schema.Source{Path: "a.csv"}
	assert.Equal(t, filepath.Join("d", "a.csv"), s.Resolve("d"))
	assert.Equal(t, "a.csv", s.Resolve(""))

	abs := schema.Source{Path: "/x/a.csv"}
	assert.Equal(t, "/x/a.csv", abs.Resolve("d"))
}
