package web

import (
	"net/http"

	"github.com/agentcockpit/cockpit/internal/domain"
)

func (s *Server) handleCreateAgent(w http.ResponseWriter, r *http.Request) {
	var agent domain.Agent
	if err := decodeJSON(r, &agent); err != nil {
		s.respondError(w, err)
		return
	}
	if _, err := s.agents.Create(r.Context(), &agent); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, agent)
}

// handleListAgents serves the full listing, plus ?category= and ?q=
// filtered views.
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	var (
		agents []*domain.Agent
		err    error
	)
	switch {
	case r.URL.Query().Get("q") != "":
		agents, err = s.agents.Search(r.Context(), r.URL.Query().Get("q"))
	case r.URL.Query().Get("category") != "":
		agents, err = s.agents.GetByCategory(r.Context(), r.URL.Query().Get("category"))
	default:
		agents, err = s.agents.GetAll(r.Context())
	}
	if err != nil {
		s.respondError(w, err)
		return
	}
	if agents == nil {
		agents = []*domain.Agent{}
	}
	s.respondJSON(w, http.StatusOK, agents)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := s.agents.GetByUUID(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if agent == nil {
		s.respondError(w, domain.NotFoundError("agent "+r.PathValue("uuid")))
		return
	}
	s.respondJSON(w, http.StatusOK, agent)
}

type agentPatchRequest struct {
	Name         *string         `json:"name"`
	Description  *string         `json:"description"`
	Category     *string         `json:"category"`
	Tags         *[]string       `json:"tags"`
	SystemPrompt *string         `json:"systemPrompt"`
	Provider     *string         `json:"provider"`
	Model        *string         `json:"model"`
	Temperature  *float64        `json:"temperature"`
	MaxTokens    *int64          `json:"maxTokens"`
	Version      *string         `json:"version"`
	Rating       *float64        `json:"rating"`
	Metadata     *map[string]any `json:"metadata"`
}

func (s *Server) handleUpdateAgent(w http.ResponseWriter, r *http.Request) {
	var req agentPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	patch := domain.AgentPatch{
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		SystemPrompt: req.SystemPrompt,
		Provider:     req.Provider,
		Model:        req.Model,
		Temperature:  req.Temperature,
		MaxTokens:    req.MaxTokens,
		Version:      req.Version,
		Rating:       req.Rating,
		Metadata:     req.Metadata,
	}
	if err := s.agents.Update(r.Context(), r.PathValue("uuid"), patch); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	if err := s.agents.Delete(r.Context(), r.PathValue("uuid")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAgentChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.chats.GetByAgent(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if chats == nil {
		chats = []*domain.Chat{}
	}
	s.respondJSON(w, http.StatusOK, chats)
}
