package service

import (
	"github.com/okian/prizeboard/internal/adapters/source"
	"github.com/okian/prizeboard/internal/domain/query"
	"github.com/okian/prizeboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFiles reads the dataset from CSV files.
func WithFiles(f source.Files) Option {
	return func(s *Service) {
		s.files = f
	}
}

// WithSnapshot reads the dataset from a SQLite snapshot instead of CSVs.
func WithSnapshot(path string) Option {
	return func(s *Service) {
		s.snapshotPath = path
	}
}

// WithTables serves a fixed set of raw rows. Reload rebuilds from the same rows.
func WithTables(t *source.Tables) Option {
	return func(s *Service) {
		s.tables = t
	}
}

// WithWorkerCount sets the number of batch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the batch job queue and thereby the
// largest accepted batch.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithFacadeOptions passes thresholds through to every query.Facade built.
func WithFacadeOptions(opts ...query.Option) Option {
	return func(s *Service) {
		s.facadeOpts = append(s.facadeOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
