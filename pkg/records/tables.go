package records

import "slices"

// Table is a rectangular view over records: an ordered column list and one
// string row per record.
type Table interface {
	Columns() []string
	Rows() [][]string
}

// Registrations is the concatenated registration table.
type Registrations []RegistrationRecord

// Columns implements Table.
func (Registrations) Columns() []string { return slices.Clone(RegistrationAttributes) }

// Rows implements Table.
func (t Registrations) Rows() [][]string {
	rows := make([][]string, len(t))
	for i := range t {
		rows[i] = t[i].Values()
	}
	return rows
}

// Evaluations is the concatenated evaluation table.
type Evaluations []EvaluationRecord

// Columns implements Table.
func (Evaluations) Columns() []string { return slices.Clone(EvaluationAttributes) }

// Rows implements Table.
func (t Evaluations) Rows() [][]string {
	rows := make([][]string, len(t))
	for i := range t {
		rows[i] = t[i].Values()
	}
	return rows
}

// Joined is the right-joined table.
type Joined []JoinedRecord

// Columns implements Table.
func (Joined) Columns() []string { return slices.Clone(JoinedAttributes) }

// Rows implements Table.
func (t Joined) Rows() [][]string {
	rows := make([][]string, len(t))
	for i := range t {
		rows[i] = t[i].Values()
	}
	return rows
}

// Column returns every value of one attribute in row order.
func (t Joined) Column(attr string) ([]string, bool) {
	if len(t) == 0 {
		return nil, slices.Contains(JoinedAttributes, attr)
	}
	out := make([]string, len(t))
	for i := range t {
		v, ok := t[i].Get(attr)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Unmatched counts joined rows without a registration.
func (t Joined) Unmatched() int {
	n := 0
	for i := range t {
		if !t[i].Matched() {
			n++
		}
	}
	return n
}
