package career

import "errors"

// ErrDivisionUndefined is returned when a ratio has a zero denominator.
// Callers turn it into model.Unclassified rather than failing.
var ErrDivisionUndefined = errors.New("division undefined")
