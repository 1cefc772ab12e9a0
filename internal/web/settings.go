package web

import (
	"encoding/json"
	"net/http"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// handleListSettings serves all settings, or the key→value map of one
// category with ?category=.
func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		values, err := s.settings.GetByCategory(r.Context(), category)
		if err != nil {
			s.respondError(w, err)
			return
		}
		s.respondJSON(w, http.StatusOK, values)
		return
	}

	settings, err := s.settings.GetAll(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if settings == nil {
		settings = []*domain.Setting{}
	}
	s.respondJSON(w, http.StatusOK, settings)
}

func (s *Server) handleGetSetting(w http.ResponseWriter, r *http.Request) {
	value, err := s.settings.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if value == nil {
		s.respondError(w, domain.NotFoundError("setting "+r.PathValue("key")))
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]json.RawMessage{"value": value})
}

type setSettingRequest struct {
	Value    json.RawMessage `json:"value"`
	Category string          `json:"category"`
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	var req setSettingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if len(req.Value) == 0 {
		s.respondError(w, domain.ValidationError("setting value is required"))
		return
	}
	if err := s.settings.Set(r.Context(), r.PathValue("key"), req.Value, req.Category); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := s.settings.Delete(r.Context(), r.PathValue("key")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
