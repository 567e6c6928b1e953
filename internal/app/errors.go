package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrNoSource      = errors.New("no dataset source configured")
	ErrBatchTooLarge = errors.New("batch too large")
)
