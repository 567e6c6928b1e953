package source

import "errors"

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")

	// ErrRead wraps failures to open or parse an input file.
	ErrRead = errors.New("read source")
)
