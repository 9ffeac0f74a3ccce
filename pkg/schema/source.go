package schema

import (
	"fmt"
	"path/filepath"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/records"
)

// Kind distinguishes registration files from evaluation files.
type Kind string

const (
	// KindRegistration is an entity information file.
	KindRegistration Kind = "registration"
	// KindEvaluation is a per-round evaluation file.
	KindEvaluation Kind = "evaluation"
)

// Attributes returns the canonical attributes a source of this kind must map to.
func (k Kind) Attributes() []string {
	switch k {
	case KindRegistration:
		return records.RegistrationSourceAttributes
	case KindEvaluation:
		return records.EvaluationSourceAttributes
	}
	return nil
}

// Source describes one input file.
type Source struct {
	ID        string  `yaml:"id" json:"id"`
	Path      string  `yaml:"path" json:"path"`
	Kind      Kind    `yaml:"kind" json:"kind"`
	Authority string  `yaml:"authority,omitempty" json:"authority,omitempty"`
	Category  string  `yaml:"category,omitempty" json:"category,omitempty"`
	Round     int     `yaml:"round,omitempty" json:"round,omitempty"`
	Columns   Mapping `yaml:"columns" json:"columns"`

	// Group is the ID of the manifest group the source was listed under.
	Group string `yaml:"-" json:"-"`
}

// Tags returns the provenance tags stamped on records from this source.
func (s *Source) Tags() records.Tags {
	return records.Tags{Authority: s.Authority, Category: s.Category}
}

// RoundLabel returns the round label stamped on evaluation records.
func (s *Source) RoundLabel() string {
	return records.RoundLabel(s.Round)
}

// ValidateHeader checks that the mapping produces the canonical attribute
// list and that every mapped column is present exactly once in header.
func (s *Source) ValidateHeader(header []string) error {
	_, err := s.HeaderIndexes(header)
	return err
}

// HeaderIndexes validates header like ValidateHeader and returns the header
// position of every mapped column, in mapping order.
func (s *Source) HeaderIndexes(header []string) ([]int, error) {
	if err := s.Columns.conforms(s.ID, s.Kind.Attributes()); err != nil {
		return nil, err
	}
	return s.Columns.Indexes(s.ID, header)
}

// Resolve returns the source path joined to dataDir unless it is absolute.
func (s *Source) Resolve(dataDir string) string {
	if filepath.IsAbs(s.Path) || dataDir == "" {
		return s.Path
	}
	return filepath.Join(dataDir, s.Path)
}

// FileName returns the standard input file name for a group file.
func FileName(authority, category, suffix string) string {
	return fmt.Sprintf("%s_%d_%s_%s_%s.csv", constants.FilePrefix, constants.SurveyYear, authority, category, suffix)
}

// RegistrationFile returns the registration file name of a group.
func RegistrationFile(authority, category string) string {
	return FileName(authority, category, constants.RegistrationSuffix)
}

// EvaluationFile returns the evaluation file name of one round.
func EvaluationFile(authority, category string, round int) string {
	return FileName(authority, category, fmt.Sprintf(constants.EvaluationSuffixFormat, round))
}
