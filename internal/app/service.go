// Package service owns the loaded prize dataset and exposes the read
// operations the HTTP API and CLI depend on.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/prizeboard/internal/adapters/mq/queue"
	"github.com/okian/prizeboard/internal/adapters/mq/worker"
	"github.com/okian/prizeboard/internal/adapters/repository"
	"github.com/okian/prizeboard/internal/adapters/source"
	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/career"
	"github.com/okian/prizeboard/internal/domain/query"
	"github.com/okian/prizeboard/pkg/logger"
	"github.com/okian/prizeboard/pkg/metrics"
)

// Service serves queries over the current Dataset.
type Service struct {
	mu sync.Mutex // serialises Start, Reload and Stop

	dataset atomic.Pointer[Dataset]

	// Dataset source; the first non-empty one wins.
	tables       *source.Tables
	snapshotPath string
	files        source.Files

	facadeOpts []query.Option

	workerCount int
	queueSize   int
	queue       *queue.InMemoryQueue
	pool        *worker.Pool
	cancel      context.CancelFunc

	started bool
	logger  logger.Logger
}

// New constructs a Service. Nothing is loaded until Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   256,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset and starts the batch workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting prize service...")

	if err := s.load(ctx); err != nil {
		return err
	}

	poolCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, worker.WithLogger(s.logger))
	s.pool.Start(poolCtx)

	s.started = true
	s.logger.Info(ctx, "prize service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Reload rebuilds the dataset from its source and swaps it in. On failure
// the previous dataset keeps serving.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Service) load(ctx context.Context) error {
	t, src, err := s.readTables(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load")
		s.logger.Error(ctx, "dataset load failed", logger.Error(err))
		return fmt.Errorf("load dataset: %w", err)
	}

	d, err := BuildDataset(ctx, t, s.logger, s.facadeOpts...)
	if err != nil {
		metrics.RecordErrorByComponent("service", "build")
		s.logger.Error(ctx, "dataset build failed", logger.Error(err))
		return err
	}
	d.Source = src
	s.dataset.Store(d)

	report := d.Report()
	s.logger.Info(ctx, "dataset loaded",
		logger.String("source", src),
		logger.Int("records", d.Store.Len()),
		logger.Int("players", len(d.Store.Players())),
		logger.Int("rejected", report.Rejected),
	)
	return nil
}

// Stop shuts the batch workers down.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping prize service...")

	err := s.pool.Shutdown(ctx)
	s.cancel()
	s.started = false

	s.logger.Info(ctx, "prize service stopped")
	return err
}

// Dataset returns the dataset currently served, or nil before Start.
func (s *Service) Dataset() *Dataset {
	return s.dataset.Load()
}

func (s *Service) facade() (*query.Facade, error) {
	d := s.dataset.Load()
	if d == nil {
		return nil, ErrNotStarted
	}
	return d.Facade, nil
}

func observe(kind string, start time.Time) {
	metrics.RecordQuery(kind, float64(time.Since(start).Microseconds())/1000)
}

// ParseFilter validates filter parameters against the current game types.
func (s *Service) ParseFilter(gameType, scope, metric string) (query.Filter, error) {
	f, err := s.facade()
	if err != nil {
		return query.Filter{}, err
	}
	return query.ParseFilter(f.References(), gameType, scope, metric)
}

// GameTypes lists the game types of the current dataset.
func (s *Service) GameTypes() ([]string, error) {
	f, err := s.facade()
	if err != nil {
		return nil, err
	}
	return f.References().GameTypes(), nil
}

// Query returns the scoped, metric-ordered player table.
func (s *Service) Query(_ context.Context, filter query.Filter) (query.PlayerTable, error) {
	defer observe("players", time.Now())
	f, err := s.facade()
	if err != nil {
		return query.PlayerTable{}, err
	}
	return f.Query(filter), nil
}

// TopGames ranks games by prize pool.
func (s *Service) TopGames(_ context.Context, gameType string, kpiTopOnly bool) (query.TopGamesView, error) {
	defer observe("top_games", time.Now())
	f, err := s.facade()
	if err != nil {
		return query.TopGamesView{}, err
	}
	return f.TopGames(gameType, kpiTopOnly)
}

// PrizeDistribution returns the ranked prize totals for a filter.
func (s *Service) PrizeDistribution(_ context.Context, filter query.Filter) (query.PrizeDistributionView, error) {
	defer observe("prize_distribution", time.Now())
	f, err := s.facade()
	if err != nil {
		return query.PrizeDistributionView{}, err
	}
	return f.PrizeDistribution(filter), nil
}

// Geography aggregates the filter's players by country and continent.
func (s *Service) Geography(_ context.Context, filter query.Filter, metric aggregate.CountryMetric) (query.GeographyView, error) {
	defer observe("geography", time.Now())
	f, err := s.facade()
	if err != nil {
		return query.GeographyView{}, err
	}
	return f.Geography(filter, metric)
}

// CareerStructure returns career length and tournament medians.
func (s *Service) CareerStructure(_ context.Context, filter query.Filter) (career.StructureReport, error) {
	defer observe("career_structure", time.Now())
	f, err := s.facade()
	if err != nil {
		return career.StructureReport{}, err
	}
	return f.CareerStructure(filter), nil
}

// YearlyEarnings returns the per-year earnings medians.
func (s *Service) YearlyEarnings(_ context.Context, filter query.Filter) (career.EarningsReport, error) {
	defer observe("yearly_earnings", time.Now())
	f, err := s.facade()
	if err != nil {
		return career.EarningsReport{}, err
	}
	return f.YearlyEarnings(filter), nil
}

// EarningsShape returns the career profile distribution.
func (s *Service) EarningsShape(_ context.Context, filter query.Filter) (query.EarningsShapeView, error) {
	defer observe("earnings_shape", time.Now())
	f, err := s.facade()
	if err != nil {
		return query.EarningsShapeView{}, err
	}
	return f.EarningsShape(filter), nil
}

// CareerTimelines returns cumulative earnings series for handles.
func (s *Service) CareerTimelines(_ context.Context, handles []string) ([]query.Timeline, error) {
	defer observe("career_timelines", time.Now())
	f, err := s.facade()
	if err != nil {
		return nil, err
	}
	return f.CareerTimelines(handles)
}

// Stats describes the service and the dataset it serves.
type Stats struct {
	Started       bool                  `json:"started"`
	Source        string                `json:"source,omitempty"`
	LoadedAt      time.Time             `json:"loaded_at,omitempty"`
	Records       int                   `json:"records"`
	Players       int                   `json:"players"`
	Games         int                   `json:"games"`
	GameTypes     int                   `json:"game_types"`
	Countries     int                   `json:"countries"`
	Workers       int                   `json:"workers"`
	QueueCapacity int                   `json:"queue_capacity"`
	QueueLength   int                   `json:"queue_length"`
	Load          repository.LoadReport `json:"load"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) Stats {
	s.mu.Lock()
	started := s.started
	q := s.queue
	s.mu.Unlock()

	st := Stats{
		Started:       started,
		Workers:       s.workerCount,
		QueueCapacity: s.queueSize,
	}
	if started && q != nil {
		st.QueueLength = q.Len(ctx)
	}
	if d := s.dataset.Load(); d != nil {
		st.Source = d.Source
		st.LoadedAt = d.LoadedAt
		st.Records = d.Store.Len()
		st.Players = len(d.Store.Players())
		st.Games = len(d.Refs.Games())
		st.GameTypes = len(d.Refs.GameTypes())
		st.Countries = len(d.Refs.Countries())
		st.Load = d.Report()
	}
	return st
}
