package store

import pkgerrors "cohortcompare/pkg/errors"

var (
	// ErrNotFound keeps store-level 404s consistent across the memory and
	// postgres implementations.
	ErrNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
)
