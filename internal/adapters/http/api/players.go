package api

import (
	"fmt"
	"net/http"
	"strconv"
)

type gameTypesResponse struct {
	GameTypes []string `json:"game_types"`
}

// handleGameTypes handles GET /game-types.
func (s *Server) handleGameTypes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_game_types"
	types, err := s.deps.GameTypes()
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, gameTypesResponse{GameTypes: types})
}

// limitFrom reads ?limit. Absent means no cut; otherwise it must be in
// [1, maxLimit].
func (s *Server) limitFrom(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest)
	}
	if n > s.maxLimit {
		return 0, fmt.Errorf("%w: limit exceeds %d", ErrBadRequest, s.maxLimit)
	}
	return n, nil
}

// handlePlayers handles GET /players?game_type&scope&metric&limit.
// PlayerCount and the prize totals describe the whole scope even when
// limit cuts the rows.
func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_players"
	filter, err := s.filterFrom(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	limit, err := s.limitFrom(r)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}

	table, err := s.deps.Query(r.Context(), filter)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	if limit > 0 && len(table.Rows) > limit {
		table.Rows = table.Rows[:limit]
	}
	writeJSON(w, http.StatusOK, table)
}

// handleDistribution handles GET /players/distribution.
func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_distribution"
	filter, err := s.filterFrom(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := s.deps.PrizeDistribution(r.Context(), filter)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
