package reference

import "errors"

var (
	// ErrMissingReference marks a foreign key with no row in a reference table.
	// Lookups never return it; the load report wraps it once the unmatched
	// rows have been counted into model.Unknown.
	ErrMissingReference = errors.New("missing reference")

	// ErrInvalidReference is returned when a reference table cannot be built.
	ErrInvalidReference = errors.New("invalid reference table")
)
