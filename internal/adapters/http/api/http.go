// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/domain/aggregate"
	"github.com/okian/prizeboard/internal/domain/career"
	"github.com/okian/prizeboard/internal/domain/query"
	"github.com/okian/prizeboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ParseFilter(gameType, scope, metric string) (query.Filter, error)
	GameTypes() ([]string, error)
	GetStats(ctx context.Context) service.Stats

	Query(ctx context.Context, filter query.Filter) (query.PlayerTable, error)
	PrizeDistribution(ctx context.Context, filter query.Filter) (query.PrizeDistributionView, error)
	TopGames(ctx context.Context, gameType string, kpiTopOnly bool) (query.TopGamesView, error)
	Geography(ctx context.Context, filter query.Filter, metric aggregate.CountryMetric) (query.GeographyView, error)
	CareerStructure(ctx context.Context, filter query.Filter) (career.StructureReport, error)
	YearlyEarnings(ctx context.Context, filter query.Filter) (career.EarningsReport, error)
	EarningsShape(ctx context.Context, filter query.Filter) (query.EarningsShapeView, error)
	CareerTimelines(ctx context.Context, handles []string) ([]query.Timeline, error)
	Batch(ctx context.Context, filters []query.Filter) ([]service.BatchResult, error)
}

const defaultMaxLimit = 5000

// Server wires HTTP routes for the prize API.
type Server struct {
	deps     Dependencies
	maxLimit int
	logger   logger.Logger

	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLimit caps the ?limit parameter of list endpoints.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		deps:          deps,
		maxLimit:      defaultMaxLimit,
		logger:        logger.Nop(),
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, RequestID(s.logger, MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)
	route("GET /game-types", "game_types", s.handleGameTypes)
	route("GET /players", "players", s.handlePlayers)
	route("GET /players/distribution", "players_distribution", s.handleDistribution)
	route("GET /games/top", "games_top", s.handleTopGames)
	route("GET /geography", "geography", s.handleGeography)
	route("GET /careers/structure", "careers_structure", s.handleCareerStructure)
	route("GET /careers/earnings", "careers_earnings", s.handleYearlyEarnings)
	route("GET /careers/shape", "careers_shape", s.handleEarningsShape)
	route("GET /careers/timeline", "careers_timeline", s.handleTimeline)
	route("POST /query/batch", "query_batch", s.handleBatch)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail classifies err and writes it. Server errors are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", w.Header().Get(requestIDHeader)),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}

// filterFrom parses the game_type, scope and metric query parameters.
func (s *Server) filterFrom(r *http.Request) (query.Filter, error) {
	q := r.URL.Query()
	return s.deps.ParseFilter(q.Get("game_type"), q.Get("scope"), q.Get("metric"))
}
