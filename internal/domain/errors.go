package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput signals that one or both extracts held no records. It is
// non-fatal: callers may log it and continue with the degraded result.
var ErrEmptyInput = errors.New("input collection is empty")

// InvalidRecordError marks a record that violates the core's preconditions:
// an incomplete identity key or an unparsable date of birth. It is raised
// synchronously at the offending record and never silently coerced.
type InvalidRecordError struct {
	Key    IdentityKey
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record %s: %s", e.Key, e.Reason)
}
