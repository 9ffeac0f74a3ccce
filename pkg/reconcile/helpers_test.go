package reconcile_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/schema"
	"github.com/haccpkit/haccp/pkg/sources"
)

// row holds cell values keyed by canonical attribute.
type row map[string]string

// frameFor builds a frame whose header is the source's mapped columns plus
// an unmapped trailing column, so selection by position is exercised.
func frameFor(src schema.Source, rows ...row) *sources.Frame {
	header := append(src.Columns.SourceNames(), "비고")
	// put the ID column last to make sure selection does not rely on file order
	header[0], header[len(header)-1] = header[len(header)-1], header[0]

	f := &sources.Frame{Header: header}
	for _, r := range rows {
		cells := make([]string, len(header))
		for _, c := range src.Columns {
			for i, h := range header {
				if h == c.Source {
					cells[i] = r[c.Canonical]
				}
			}
		}
		f.Rows = append(f.Rows, cells)
	}
	return f
}

// fixture maps source IDs to rows and builds a static reader for a manifest.
type fixture map[string][]row

func (fx fixture) reader(m *schema.Manifest) sources.Static {
	s := sources.Static{}
	for _, src := range m.Sources() {
		s[src.Resolve(m.DataDir)] = frameFor(src, fx[src.ID]...)
	}
	return s
}

// reg and eval are shorthands for common rows.
func reg(id, name string) row {
	return row{records.AttrCertificateID: id, records.AttrEntityName: name}
}

func eval(id, score, result string) row {
	return row{records.AttrCertificateID: id, records.AttrTotalScore: score, records.AttrResult: result, records.AttrEvaluatedOn: "2024-06-01"}
}

// writeCSV writes a frame to dir as a UTF-8 CSV file.
func writeCSV(t *testing.T, path string, f *sources.Frame) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(t, w.Write(f.Header))
	require.NoError(t, w.WriteAll(f.Rows))
}

// fakeFixture generates a deterministic dataset for the default manifest.
// Each group registers n entities; every entity gets an evaluation in each
// round, and one extra unregistered evaluation per round is added.
func fakeFixture(seed int64, n int) fixture {
	faker := gofakeit.New(seed)
	results := []string{"적합", "부적합", "적합종결", "평가불능"}
	fx := fixture{}

	for _, g := range schema.Default().Groups {
		ids := make([]string, n)
		for i := range ids {
			ids[i] = faker.Numerify("####-" + g.ID + "-###")
			fx[g.Registration.ID] = append(fx[g.Registration.ID], row{
				records.AttrCertificateID:    ids[i],
				records.AttrEntityName:       faker.Company(),
				records.AttrScale:            faker.RandomString([]string{"소규모", "중규모", "대규모"}),
				records.AttrFirstCertifiedOn: faker.Date().Format("2006-01-02"),
				records.AttrJurisdiction:     faker.City(),
			})
		}
		for _, r := range g.Rounds {
			for _, id := range ids {
				fx[r.ID] = append(fx[r.ID], row{
					records.AttrCertificateID: id,
					records.AttrTotalScore:    faker.Numerify("##"),
					records.AttrEvaluatedOn:   faker.Date().Format("2006-01-02"),
					records.AttrResult:        faker.RandomString(results),
				})
			}
			fx[r.ID] = append(fx[r.ID], eval("UNREGISTERED-"+r.ID, "50", "부적합"))
		}
	}
	return fx
}
