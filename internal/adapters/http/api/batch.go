package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	service "github.com/okian/prizeboard/internal/app"
	"github.com/okian/prizeboard/internal/domain/query"
)

const maxBatchBody = 1 << 20

type batchFilter struct {
	GameType string `json:"game_type"`
	Scope    string `json:"scope"`
	Metric   string `json:"metric"`
}

type batchRequest struct {
	Filters []batchFilter `json:"filters"`
}

type batchResponse struct {
	Results []service.BatchResult `json:"results"`
}

// handleBatch handles POST /query/batch. Every filter is validated before
// any is run; results come back in request order.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_query_batch"

	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, fmt.Errorf("decode body: %w", err)))
		return
	}
	if len(req.Filters) == 0 {
		s.fail(w, r, WrapKind(op, ErrBadRequest, fmt.Errorf("%w: filters must not be empty", ErrBadRequest)))
		return
	}

	filters := make([]query.Filter, len(req.Filters))
	for i, f := range req.Filters {
		parsed, err := s.deps.ParseFilter(f.GameType, f.Scope, f.Metric)
		if err != nil {
			s.fail(w, r, WrapKind(op, ErrBadRequest, fmt.Errorf("filters[%d]: %w", i, err)))
			return
		}
		filters[i] = parsed
	}

	results, err := s.deps.Batch(r.Context(), filters)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, batchResponse{Results: results})
}
