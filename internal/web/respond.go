package web

import (
	"encoding/json"
	"net/http"

	"github.com/agentcockpit/cockpit/internal/domain"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// respondError maps the error taxonomy onto HTTP statuses. Unrecognized
// errors are 500s with the detail withheld.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "internal error"

	if appErr, ok := domain.AsAppError(err); ok {
		detail = appErr.Message
		switch appErr.Code {
		case domain.CodeValidation:
			status = http.StatusBadRequest
		case domain.CodeNotFound:
			status = http.StatusNotFound
		case domain.CodeAuth:
			status = http.StatusUnauthorized
		case domain.CodeTransport, domain.CodeService:
			status = http.StatusBadGateway
		case domain.CodeCancelled:
			status = http.StatusRequestTimeout
		default:
			status = http.StatusInternalServerError
		}
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.respondJSON(w, status, map[string]string{"detail": detail})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ValidationError("invalid request body: " + err.Error())
	}
	return nil
}
