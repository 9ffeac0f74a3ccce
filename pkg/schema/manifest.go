// Package schema describes where the survey-evaluation files live and how each
// file's header maps onto the canonical record attributes.
//
// Every source carries an explicit ordered mapping from its own column names
// to canonical attribute names. Headers are validated against these mappings
// before any data is transformed.
package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/errors"
)

// Group is one provenance group: a registration file and its evaluation rounds.
type Group struct {
	ID           string   `yaml:"id" json:"id"`
	Authority    string   `yaml:"authority" json:"authority"`
	Category     string   `yaml:"category" json:"category"`
	Registration Source   `yaml:"registration" json:"registration"`
	Rounds       []Source `yaml:"rounds" json:"rounds"`
}

// Manifest lists every input file of a load.
type Manifest struct {
	DataDir string  `yaml:"data_dir" json:"data_dir"`
	Groups  []Group `yaml:"groups" json:"groups"`
}

// Registrations returns the registration sources in group order, with the
// group tags filled in.
func (m *Manifest) Registrations() []Source {
	out := make([]Source, 0, len(m.Groups))
	for _, g := range m.Groups {
		out = append(out, g.inherit(g.Registration))
	}
	return out
}

// Evaluations returns every evaluation source: all rounds of the first group,
// then all rounds of the next, with the group tags filled in.
func (m *Manifest) Evaluations() []Source {
	var out []Source
	for _, g := range m.Groups {
		for _, r := range g.Rounds {
			out = append(out, g.inherit(r))
		}
	}
	return out
}

// Sources returns every source in manifest order: per group, the
// registration file followed by its rounds.
func (m *Manifest) Sources() []Source {
	var out []Source
	for _, g := range m.Groups {
		out = append(out, g.inherit(g.Registration))
		for _, r := range g.Rounds {
			out = append(out, g.inherit(r))
		}
	}
	return out
}

// Paths lists the resolved file paths in manifest order.
func (m *Manifest) Paths() []string {
	sources := m.Sources()
	paths := make([]string, len(sources))
	for i := range sources {
		paths[i] = sources[i].Resolve(m.DataDir)
	}
	return paths
}

// Group returns the group with the given ID.
func (m *Manifest) Group(id string) (*Group, error) {
	for i := range m.Groups {
		if m.Groups[i].ID == id {
			return &m.Groups[i], nil
		}
	}
	return nil, errors.NewNotFoundError("group", id)
}

// WithDataDir returns a copy of the manifest reading from dir.
func (m *Manifest) WithDataDir(dir string) *Manifest {
	c := *m
	c.DataDir = dir
	return &c
}

// Validate checks the structural rules of the manifest: identifiers are set
// and unique, tags are known, rounds are numbered 1..n and every mapping
// produces its canonical attribute list.
func (m *Manifest) Validate() error {
	if len(m.Groups) == 0 {
		return &errors.ValidationError{Field: "groups", Message: "manifest has no groups"}
	}

	seen := make(map[string]bool)
	for gi, g := range m.Groups {
		field := fmt.Sprintf("groups[%d]", gi)
		if g.ID == "" {
			return &errors.ValidationError{Field: field + ".id", Message: "cannot be empty"}
		}
		if !slices.Contains(constants.Authorities, g.Authority) {
			return errors.NewValidationError(field+".authority", g.Authority, "unknown authority")
		}
		if !slices.Contains(constants.Categories, g.Category) {
			return errors.NewValidationError(field+".category", g.Category, "unknown category")
		}
		if len(g.Rounds) == 0 {
			return &errors.ValidationError{Field: field + ".rounds", Message: "group has no evaluation rounds"}
		}

		sources := append([]Source{g.Registration}, g.Rounds...)
		for si, s := range sources {
			s = g.inherit(s)
			sfield := fmt.Sprintf("%s.rounds[%d]", field, si-1)
			want := KindEvaluation
			if si == 0 {
				sfield = field + ".registration"
				want = KindRegistration
			}
			if err := validateSource(s, sfield, want, si); err != nil {
				return err
			}
			if seen[s.ID] {
				return errors.NewValidationError(sfield+".id", s.ID, "duplicate source id")
			}
			seen[s.ID] = true
		}
	}
	return nil
}

func validateSource(s Source, field string, kind Kind, round int) error {
	switch {
	case s.ID == "":
		return &errors.ValidationError{Field: field + ".id", Message: "cannot be empty"}
	case s.Path == "":
		return &errors.ValidationError{Field: field + ".path", Message: "cannot be empty"}
	case s.Kind != kind:
		return errors.NewValidationError(field+".kind", s.Kind, fmt.Sprintf("expected %s", kind))
	case kind == KindEvaluation && s.Round != round:
		return errors.NewValidationError(field+".round", s.Round, fmt.Sprintf("expected round %d", round))
	}

	names := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if names[c.Source] {
			return errors.NewValidationError(field+".columns", c.Source, "column mapped twice")
		}
		names[c.Source] = true
	}
	if err := s.Columns.conforms(s.ID, kind.Attributes()); err != nil {
		return errors.WrapValidation(field+".columns", err)
	}
	return nil
}

// inherit fills a source's empty tags from the group and records the group ID.
func (g Group) inherit(s Source) Source {
	s.Group = g.ID
	if s.Authority == "" {
		s.Authority = g.Authority
	}
	if s.Category == "" {
		s.Category = g.Category
	}
	return s
}

// LoadManifest reads a YAML manifest from path and validates it.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.NewConfigError("manifest", path, err)
	}
	return &m, nil
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(m, yaml.Indent(2), yaml.IndentSequence(false))
}

// Save writes the manifest to path as YAML, creating parent directories.
func (m *Manifest) Save(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return errors.WrapResource("marshal", "manifest", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
