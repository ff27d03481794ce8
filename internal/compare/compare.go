// Package compare implements the set-difference engine: given the two
// registry extracts it returns the records present on one side only,
// matched by exact identity key.
package compare

import (
	"cohortcompare/internal/domain"
)

// Result holds the two unmatched subsets of a comparison. Element order
// follows the relative order of the originating input; callers must not
// depend on any ordering beyond that.
type Result struct {
	OnlyA []domain.ParticipantRecord
	OnlyB []domain.ParticipantRecord
}

// Diff returns the records of a whose identity key has no counterpart in b,
// and vice versa. It is a pure function: no I/O, inputs are not mutated and
// output records carry exactly the fields of the originating record.
//
// Duplicate identity keys within one input are a caller precondition
// violation (dedup happens at ingestion); behavior under duplicates is
// deliberately unspecified. An incomplete identity key fails fast with
// *domain.InvalidRecordError.
//
// Empty inputs degrade gracefully: Diff(nil, b) yields (nil, b).
func Diff(a, b []domain.ParticipantRecord) (Result, error) {
	keysA, err := keyIndex(a)
	if err != nil {
		return Result{}, err
	}
	keysB, err := keyIndex(b)
	if err != nil {
		return Result{}, err
	}

	return Result{
		OnlyA: unmatched(a, keysB),
		OnlyB: unmatched(b, keysA),
	}, nil
}

// keyIndex builds the hash side of the join, validating the identity-key
// precondition on every record.
func keyIndex(records []domain.ParticipantRecord) (map[domain.IdentityKey]struct{}, error) {
	index := make(map[domain.IdentityKey]struct{}, len(records))
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		index[r.Key()] = struct{}{}
	}
	return index, nil
}

// unmatched probes the opposite side's key index and keeps the misses,
// preserving input order.
func unmatched(records []domain.ParticipantRecord, other map[domain.IdentityKey]struct{}) []domain.ParticipantRecord {
	var only []domain.ParticipantRecord
	for _, r := range records {
		if _, ok := other[r.Key()]; !ok {
			only = append(only, r)
		}
	}
	return only
}
