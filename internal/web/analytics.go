package web

import (
	"net/http"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// handleAnalyticsRange serves the rollups inside ?start=YYYY-MM-DD and
// ?end=YYYY-MM-DD, both inclusive.
func (s *Server) handleAnalyticsRange(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		s.respondError(w, domain.ValidationError("start and end dates are required"))
		return
	}

	records, err := s.analytics.GetByDateRange(r.Context(), start, end)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if records == nil {
		records = []*domain.AnalyticsRecord{}
	}
	s.respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleAnalyticsTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.analytics.Totals(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, totals)
}
