package schema

import (
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/haccpkit/haccp/pkg/errors"
)

// Column maps one source header name to a canonical attribute.
type Column struct {
	Source    string `yaml:"source" json:"source"`
	Canonical string `yaml:"canonical" json:"canonical"`
}

// Mapping is the ordered list of columns selected from a source file.
// Selection and renaming are positional: the i-th column of the mapping
// becomes the i-th canonical attribute.
type Mapping []Column

// Map builds a mapping pairing source names with canonical names by position.
// It panics when the lists differ in length, so it is only suitable for
// static tables.
func Map(source []string, canonical []string) Mapping {
	if len(source) != len(canonical) {
		panic("schema: source and canonical column lists differ in length")
	}
	m := make(Mapping, len(source))
	for i := range source {
		m[i] = Column{Source: source[i], Canonical: canonical[i]}
	}
	return m
}

// SourceNames returns the source header names in mapping order.
func (m Mapping) SourceNames() []string {
	names := make([]string, len(m))
	for i, c := range m {
		names[i] = c.Source
	}
	return names
}

// Canonical returns the canonical attribute names in mapping order.
func (m Mapping) Canonical() []string {
	names := make([]string, len(m))
	for i, c := range m {
		names[i] = c.Canonical
	}
	return names
}

// Validate checks that every mapped source column appears exactly once in header.
func (m Mapping) Validate(sourceID string, header []string) error {
	positions := headerPositions(header)

	var missing, duplicated []string
	matched := 0
	for _, c := range m {
		switch n := len(positions[norm.NFC.String(c.Source)]); {
		case n == 0:
			missing = append(missing, c.Source)
		case n > 1:
			duplicated = append(duplicated, c.Source)
		default:
			matched++
		}
	}

	if len(missing) == 0 && len(duplicated) == 0 {
		return nil
	}
	return &errors.SchemaMismatchError{
		Source:        sourceID,
		ExpectedCount: len(m),
		ActualCount:   matched,
		Missing:       missing,
		Duplicated:    duplicated,
	}
}

// Indexes returns the header position of every mapped column, in mapping order.
func (m Mapping) Indexes(sourceID string, header []string) ([]int, error) {
	if err := m.Validate(sourceID, header); err != nil {
		return nil, err
	}
	positions := headerPositions(header)
	idx := make([]int, len(m))
	for i, c := range m {
		idx[i] = positions[norm.NFC.String(c.Source)][0]
	}
	return idx, nil
}

// conforms checks the mapping against the canonical attribute list it must produce.
func (m Mapping) conforms(sourceID string, canonical []string) error {
	if slices.Equal(m.Canonical(), canonical) {
		return nil
	}
	return &errors.SchemaMismatchError{
		Source:        sourceID,
		ExpectedCount: len(canonical),
		ActualCount:   len(m),
		Message:       "mapping does not produce the canonical attribute list",
	}
}

func headerPositions(header []string) map[string][]int {
	positions := make(map[string][]int, len(header))
	for i, h := range header {
		key := norm.NFC.String(h)
		positions[key] = append(positions[key], i)
	}
	return positions
}
