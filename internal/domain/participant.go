// Package domain holds the registry record types shared by the comparison
// core and its collaborators. Records are ephemeral: every reconciliation
// run recomputes them in full from the current extracts.
package domain

import (
	"fmt"
	"time"
)

// DateLayout is the canonical date-of-birth format across extracts, keys,
// and persistence.
const DateLayout = "2006-01-02"

// Source identifies which registry an extract came from.
type Source string

const (
	SourceCAAS Source = "CAAS"
	SourceBSS  Source = "BSS"
)

// Male markers as they appear in the extracts: BSS carries the string form,
// CAAS a numeric gender code where 1 denotes male.
const (
	genderMale     = "MALE"
	genderMaleCode = "1"
)

// DummyPracticePrefix marks placeholder GP practice codes that indicate no
// real registration.
const DummyPracticePrefix = "ZZZ"

// deathReasons is the fixed removal vocabulary that counts as a death.
// Matching is case-sensitive and exact.
var deathReasons = map[string]struct{}{
	"DEATH":             {},
	"DEA":               {},
	"UNCERTIFIED_DEATH": {},
}

// IdentityKey is the exact two-field key a record is matched on across
// registries. The date component is the canonical DateLayout rendering so
// the key stays comparable regardless of time.Time internals.
type IdentityKey struct {
	NHSNumber   string
	DateOfBirth string
}

func (k IdentityKey) String() string {
	return fmt.Sprintf("%s/%s", k.NHSNumber, k.DateOfBirth)
}

// ParticipantRecord is one row from either registry after ingestion has
// normalized columns and collapsed empty strings to absent values.
//
// PrimaryCareProvider and ReasonForRemoval are empty when absent; for the
// provider, absent and empty are semantically identical ("registered
// nowhere"). IsHigherRisk is nil on record shapes that do not carry the
// field (only BSS does). Attributes carries every other extract column
// untouched; the core never inspects it.
type ParticipantRecord struct {
	NHSNumber           string
	DateOfBirth         time.Time
	PrimaryCareProvider string
	ReasonForRemoval    string
	Gender              string
	IsHigherRisk        *bool
	Attributes          map[string]string
}

// Key returns the identity key used for cross-registry matching.
func (r ParticipantRecord) Key() IdentityKey {
	return IdentityKey{
		NHSNumber:   r.NHSNumber,
		DateOfBirth: r.DateOfBirth.Format(DateLayout),
	}
}

// Validate checks the identity-key completeness precondition. Ingestion
// guarantees this for well-formed extracts; the engines fail fast on any
// record that slipped through.
func (r ParticipantRecord) Validate() error {
	if r.NHSNumber == "" {
		return &InvalidRecordError{Key: r.Key(), Reason: "missing nhs_number"}
	}
	if r.DateOfBirth.IsZero() {
		return &InvalidRecordError{Key: r.Key(), Reason: "missing date_of_birth"}
	}
	return nil
}

// IsMale reports whether the gender column denotes male in either the BSS
// string form or the CAAS code form. A missing gender is not male.
func (r ParticipantRecord) IsMale() bool {
	return r.Gender == genderMale || r.Gender == genderMaleCode
}

// HasDeathRemovalReason reports whether the removal reason is in the death
// vocabulary.
func (r ParticipantRecord) HasDeathRemovalReason() bool {
	_, ok := deathReasons[r.ReasonForRemoval]
	return ok
}

// RegisteredWithGP reports whether the record carries any GP practice code,
// including dummy ones. Absent and empty provider are equivalent.
func (r ParticipantRecord) RegisteredWithGP() bool {
	return r.PrimaryCareProvider != ""
}

// ClassifiedRecord is a participant record with exactly one discrepancy
// category attached. The description is always derived from the category,
// never stored independently.
type ClassifiedRecord struct {
	ParticipantRecord
	Category Category
}
