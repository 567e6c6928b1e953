package repository

import (
	"errors"
	"fmt"
)

// Sentinel kinds for record store and loader errors.
var (
	ErrNotFound        = errors.New("player not found")
	ErrMalformedRecord = errors.New("malformed record")
	ErrDuplicateRecord = errors.New("duplicate record")
)

// Reject reasons reported by the loader.
const (
	ReasonMissingHandle = "missing_handle"
	ReasonMissingGameID = "missing_game_id"
	ReasonBadDate       = "bad_date"
	ReasonBadPrize      = "bad_prize"
	ReasonNegativePrize = "negative_prize"
	ReasonBadNumber     = "bad_number"
	ReasonDuplicate     = "duplicate"
)

// MalformedRecordError describes why one input row was rejected. It matches
// ErrMalformedRecord with errors.Is, and also ErrDuplicateRecord when the
// reason is ReasonDuplicate.
type MalformedRecordError struct {
	Table  string
	Line   int
	Field  string
	Reason string
	Value  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%s line %d: %s %s (%q)", e.Table, e.Line, e.Field, e.Reason, e.Value)
}

func (e *MalformedRecordError) Unwrap() []error {
	if e.Reason == ReasonDuplicate {
		return []error{ErrMalformedRecord, ErrDuplicateRecord}
	}
	return []error{ErrMalformedRecord}
}
