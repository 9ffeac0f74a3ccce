package reconcile

import (
	"github.com/haccpkit/haccp/pkg/records"
	"github.com/haccpkit/haccp/pkg/schema"
)

// Result is the outcome of one load.
type Result struct {
	// Registrations is the concatenated registration table, null IDs removed.
	Registrations records.Registrations

	// Evaluations is the concatenated evaluation table, null results removed.
	Evaluations records.Evaluations

	// Joined is Registrations right-joined onto Evaluations.
	Joined records.Joined

	// Stats describes row counts through each step.
	Stats Stats

	// Warnings are non-fatal findings, such as an empty join.
	Warnings []string
}

// Stats contains row counts for a load.
type Stats struct {
	Sources []SourceStats `json:"sources" yaml:"sources"`

	RegistrationsDropped int `json:"registrations_dropped" yaml:"registrations_dropped"`
	EvaluationsDropped   int `json:"evaluations_dropped" yaml:"evaluations_dropped"`

	// DuplicateKeys counts registration keys held by more than one row.
	DuplicateKeys int `json:"duplicate_keys" yaml:"duplicate_keys"`

	Matched   int `json:"matched" yaml:"matched"`
	Unmatched int `json:"unmatched" yaml:"unmatched"`
}

// SourceStats contains row counts for one source file.
type SourceStats struct {
	ID        string      `json:"id" yaml:"id"`
	Path      string      `json:"path" yaml:"path"`
	Kind      schema.Kind `json:"kind" yaml:"kind"`
	Authority string      `json:"authority" yaml:"authority"`
	Category  string      `json:"category" yaml:"category"`
	Round     string      `json:"round,omitempty" yaml:"round,omitempty"`
	Read      int         `json:"read" yaml:"read"`
	Kept      int         `json:"kept" yaml:"kept"`
}

// Empty reports whether the join produced no rows.
func (r *Result) Empty() bool {
	return len(r.Joined) == 0
}

// HasWarnings reports whether the load produced warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
