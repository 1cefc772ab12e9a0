package web

import (
	"net/http"

	"github.com/agentcockpit/cockpit/internal/domain"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.snapshots.Export(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="cockpit-export.json"`)
	s.respondJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var snapshot domain.Snapshot
	if err := decodeJSON(r, &snapshot); err != nil {
		s.respondError(w, err)
		return
	}
	if err := s.snapshots.Import(r.Context(), &snapshot); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBackendHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.backend.Health(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}
