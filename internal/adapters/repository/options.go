package repository

import "github.com/okian/prizeboard/pkg/logger"

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load summaries and per-row rejects.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// WithDateLayouts replaces the accepted end date layouts. The first layout
// that parses wins.
func WithDateLayouts(layouts ...string) Option {
	return func(ld *Loader) {
		if len(layouts) > 0 {
			ld.dateLayouts = layouts
		}
	}
}

// WithMaxReportedErrors caps how many rejections a LoadReport keeps.
func WithMaxReportedErrors(n int) Option {
	return func(ld *Loader) {
		if n >= 0 {
			ld.maxErrors = n
		}
	}
}
