// Package records defines the typed record shapes produced by the reconciler:
// registration records (one per certified entity), evaluation records (one per
// certificate and evaluation round) and the joined records built from both.
//
// Every value is kept as the string read from the source file. A null cell is
// represented by the empty string.
package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/haccpkit/haccp/pkg/constants"
)

// Canonical attribute names shared by all sources.
const (
	AttrCertificateID    = "인증번호"
	AttrEntityName       = "업체명"
	AttrScale            = "규모"
	AttrEvaluationTarget = "평가대상"
	AttrApplicableItem   = "적용품목"
	AttrObligation       = "의무/자율"
	AttrFirstCertifiedOn = "최초인증일"
	AttrCertifiedFrom    = "인증시작일"
	AttrCertifiedUntil   = "인증만료일"
	AttrJurisdiction     = "관할청"
	AttrStatusNote       = "인증유지여부"
	AttrAuthority        = "인증주체"
	AttrCategory         = "카테고리"

	AttrTotalScore  = "총점"
	AttrEvaluatedOn = "평가일"
	AttrResult      = "평가결과"
	AttrRound       = "평가차수"
)

// RegistrationSourceAttributes are the registration attributes read from a
// source file, in order. The provenance tags are stamped afterwards.
var RegistrationSourceAttributes = []string{
	AttrCertificateID,
	AttrEntityName,
	AttrScale,
	AttrEvaluationTarget,
	AttrApplicableItem,
	AttrObligation,
	AttrFirstCertifiedOn,
	AttrCertifiedFrom,
	AttrCertifiedUntil,
	AttrJurisdiction,
	AttrStatusNote,
}

// EvaluationSourceAttributes are the evaluation attributes read from a
// source file, in order.
var EvaluationSourceAttributes = []string{
	AttrCertificateID,
	AttrTotalScore,
	AttrEvaluatedOn,
	AttrResult,
}

// RegistrationAttributes is the ordered attribute list of every registration record.
var RegistrationAttributes = append(append([]string{}, RegistrationSourceAttributes...), AttrAuthority, AttrCategory)

// EvaluationAttributes is the ordered attribute list of every evaluation record.
var EvaluationAttributes = append(append([]string{}, EvaluationSourceAttributes...), AttrRound, AttrAuthority, AttrCategory)

// JoinedAttributes is the ordered attribute list of a joined record: the
// registration attributes followed by the non-key evaluation attributes.
var JoinedAttributes = append(append([]string{}, RegistrationAttributes...), AttrTotalScore, AttrEvaluatedOn, AttrResult, AttrRound)

// Tags identifies the provenance of a record.
type Tags struct {
	Authority string `json:"authority" yaml:"authority"`
	Category  string `json:"category" yaml:"category"`
}

// Key is the composite join key.
type Key struct {
	CertificateID string
	Authority     string
	Category      string
}

// String returns a readable form of the key.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Authority, k.Category, k.CertificateID)
}

// RegistrationRecord is one certified entity as listed by one provenance group.
type RegistrationRecord struct {
	CertificateID    string `json:"certificate_id" yaml:"certificate_id"`
	EntityName       string `json:"entity_name,omitempty" yaml:"entity_name,omitempty"`
	Scale            string `json:"scale,omitempty" yaml:"scale,omitempty"`
	EvaluationTarget string `json:"evaluation_target,omitempty" yaml:"evaluation_target,omitempty"`
	ApplicableItem   string `json:"applicable_item,omitempty" yaml:"applicable_item,omitempty"`
	Obligation       string `json:"obligation,omitempty" yaml:"obligation,omitempty"`
	FirstCertifiedOn string `json:"first_certified_on,omitempty" yaml:"first_certified_on,omitempty"`
	CertifiedFrom    string `json:"certified_from,omitempty" yaml:"certified_from,omitempty"`
	CertifiedUntil   string `json:"certified_until,omitempty" yaml:"certified_until,omitempty"`
	Jurisdiction     string `json:"jurisdiction,omitempty" yaml:"jurisdiction,omitempty"`
	StatusNote       string `json:"status_note,omitempty" yaml:"status_note,omitempty"`
	Authority        string `json:"authority" yaml:"authority"`
	Category         string `json:"category" yaml:"category"`
}

// Key returns the join key of the record.
func (r *RegistrationRecord) Key() Key {
	return Key{CertificateID: r.CertificateID, Authority: r.Authority, Category: r.Category}
}

// Set assigns the attribute with the given canonical name.
func (r *RegistrationRecord) Set(attr, value string) error {
	f := r.field(attr)
	if f == nil {
		return fmt.Errorf("unknown registration attribute %q", attr)
	}
	*f = value
	return nil
}

// Get returns the attribute with the given canonical name.
func (r *RegistrationRecord) Get(attr string) (string, bool) {
	f := r.field(attr)
	if f == nil {
		return "", false
	}
	return *f, true
}

// Values returns the attribute values in RegistrationAttributes order.
func (r *RegistrationRecord) Values() []string {
	return []string{
		r.CertificateID, r.EntityName, r.Scale, r.EvaluationTarget, r.ApplicableItem,
		r.Obligation, r.FirstCertifiedOn, r.CertifiedFrom, r.CertifiedUntil,
		r.Jurisdiction, r.StatusNote, r.Authority, r.Category,
	}
}

func (r *RegistrationRecord) field(attr string) *string {
	switch attr {
	case AttrCertificateID:
		return &r.CertificateID
	case AttrEntityName:
		return &r.EntityName
	case AttrScale:
		return &r.Scale
	case AttrEvaluationTarget:
		return &r.EvaluationTarget
	case AttrApplicableItem:
		return &r.ApplicableItem
	case AttrObligation:
		return &r.Obligation
	case AttrFirstCertifiedOn:
		return &r.FirstCertifiedOn
	case AttrCertifiedFrom:
		return &r.CertifiedFrom
	case AttrCertifiedUntil:
		return &r.CertifiedUntil
	case AttrJurisdiction:
		return &r.Jurisdiction
	case AttrStatusNote:
		return &r.StatusNote
	case AttrAuthority:
		return &r.Authority
	case AttrCategory:
		return &r.Category
	}
	return nil
}

// EvaluationRecord is the outcome of one evaluation round for one certificate.
type EvaluationRecord struct {
	CertificateID string `json:"certificate_id" yaml:"certificate_id"`
	TotalScore    string `json:"total_score,omitempty" yaml:"total_score,omitempty"`
	EvaluatedOn   string `json:"evaluated_on,omitempty" yaml:"evaluated_on,omitempty"`
	Result        string `json:"result" yaml:"result"`
	Round         string `json:"round" yaml:"round"`
	Authority     string `json:"authority" yaml:"authority"`
	Category      string `json:"category" yaml:"category"`
}

// Key returns the join key of the record.
func (e *EvaluationRecord) Key() Key {
	return Key{CertificateID: e.CertificateID, Authority: e.Authority, Category: e.Category}
}

// Score parses the total score. The second result is false when the score is
// null or not a number.
func (e *EvaluationRecord) Score() (float64, bool) {
	s := strings.TrimSpace(e.TotalScore)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Set assigns the attribute with the given canonical name.
func (e *EvaluationRecord) Set(attr, value string) error {
	f := e.field(attr)
	if f == nil {
		return fmt.Errorf("unknown evaluation attribute %q", attr)
	}
	*f = value
	return nil
}

// Get returns the attribute with the given canonical name.
func (e *EvaluationRecord) Get(attr string) (string, bool) {
	f := e.field(attr)
	if f == nil {
		return "", false
	}
	return *f, true
}

// Values returns the attribute values in EvaluationAttributes order.
func (e *EvaluationRecord) Values() []string {
	return []string{e.CertificateID, e.TotalScore, e.EvaluatedOn, e.Result, e.Round, e.Authority, e.Category}
}

func (e *EvaluationRecord) field(attr string) *string {
	switch attr {
	case AttrCertificateID:
		return &e.CertificateID
	case AttrTotalScore:
		return &e.TotalScore
	case AttrEvaluatedOn:
		return &e.EvaluatedOn
	case AttrResult:
		return &e.Result
	case AttrRound:
		return &e.Round
	case AttrAuthority:
		return &e.Authority
	case AttrCategory:
		return &e.Category
	}
	return nil
}

// RoundLabel renders a 1-based round number as stamped on evaluation records.
func RoundLabel(round int) string {
	return fmt.Sprintf(constants.RoundFormat, round)
}

// JoinedRecord pairs an evaluation with one matching registration.
// Registration is nil when no registration shares the evaluation's key; all
// registration attributes are then null.
type JoinedRecord struct {
	Registration *RegistrationRecord `json:"registration,omitempty" yaml:"registration,omitempty"`
	Evaluation   EvaluationRecord    `json:"evaluation" yaml:"evaluation"`
}

// Matched reports whether a registration was found for the evaluation.
func (j *JoinedRecord) Matched() bool {
	return j.Registration != nil
}

// Get returns the attribute with the given canonical name. Key attributes
// always come from the evaluation side.
func (j *JoinedRecord) Get(attr string) (string, bool) {
	switch attr {
	case AttrCertificateID, AttrAuthority, AttrCategory, AttrTotalScore, AttrEvaluatedOn, AttrResult, AttrRound:
		return j.Evaluation.Get(attr)
	}
	if j.Registration == nil {
		var empty RegistrationRecord
		return empty.Get(attr)
	}
	return j.Registration.Get(attr)
}

// Values returns the attribute values in JoinedAttributes order.
func (j *JoinedRecord) Values() []string {
	values := make([]string, 0, len(JoinedAttributes))
	for _, attr := range JoinedAttributes {
		v, _ := j.Get(attr)
		values = append(values, v)
	}
	return values
}
