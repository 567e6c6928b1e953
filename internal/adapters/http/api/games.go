package api

import (
	"net/http"
	"strings"

	"github.com/okian/prizeboard/internal/domain/aggregate"
)

// handleTopGames handles GET /games/top?game_type&kpi=top. With kpi=top the
// headline totals cover only the listed games.
func (s *Server) handleTopGames(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top_games"
	q := r.URL.Query()

	gameType := q.Get("game_type")
	if gameType == "" {
		gameType = aggregate.AllGameTypes
	}
	kpiTopOnly := strings.EqualFold(q.Get("kpi"), "top")

	view, err := s.deps.TopGames(r.Context(), gameType, kpiTopOnly)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleGeography handles GET /geography?game_type&scope&country_metric.
func (s *Server) handleGeography(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_geography"
	filter, err := s.filterFrom(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	metric, err := aggregate.ParseCountryMetric(r.URL.Query().Get("country_metric"))
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}

	view, err := s.deps.Geography(r.Context(), filter, metric)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
