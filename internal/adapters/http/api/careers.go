package api

import (
	"net/http"
	"strings"
)

// handleCareerStructure handles GET /careers/structure.
func (s *Server) handleCareerStructure(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_career_structure"
	filter, err := s.filterFrom(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	report, err := s.deps.CareerStructure(r.Context(), filter)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleYearlyEarnings handles GET /careers/earnings.
func (s *Server) handleYearlyEarnings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_yearly_earnings"
	filter, err := s.filterFrom(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	report, err := s.deps.YearlyEarnings(r.Context(), filter)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleEarningsShape handles GET /careers/shape.
func (s *Server) handleEarningsShape(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_earnings_shape"
	filter, err := s.filterFrom(r)
	if err != nil {
		s.fail(w, r, WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := s.deps.EarningsShape(r.Context(), filter)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleTimeline handles GET /careers/timeline?handle=a&handle=b. Each
// handle parameter is one player handle; commas are part of the handle.
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timeline"
	var handles []string
	for _, h := range r.URL.Query()["handle"] {
		if h = strings.TrimSpace(h); h != "" {
			handles = append(handles, h)
		}
	}

	lines, err := s.deps.CareerTimelines(r.Context(), handles)
	if err != nil {
		s.fail(w, r, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
