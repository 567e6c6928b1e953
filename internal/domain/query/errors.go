package query

import "errors"

var (
	// ErrInvalidFilter is returned when a filter value is not recognized.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrNotFound is returned when a requested player has no records.
	ErrNotFound = errors.New("not found")
)
