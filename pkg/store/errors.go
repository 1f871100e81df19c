package store

import "errors"

var (
	// ErrNotFound is returned when no document matches the id or filter.
	ErrNotFound = errors.New("document not found")

	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("document already exists")

	// ErrInvalidID is returned for ids that are not 24-hex ObjectIDs.
	ErrInvalidID = errors.New("invalid document id")
)
