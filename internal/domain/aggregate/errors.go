package aggregate

import "errors"

// ErrUnknownMetric is returned when a ranking metric is not recognized.
var ErrUnknownMetric = errors.New("unknown metric")
