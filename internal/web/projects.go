package web

import (
	"net/http"

	"github.com/agentcockpit/cockpit/internal/domain"
)

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var project domain.Project
	if err := decodeJSON(r, &project); err != nil {
		s.respondError(w, err)
		return
	}
	if _, err := s.projects.Create(r.Context(), &project); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, project)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.GetAll(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	s.respondJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.GetByUUID(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if project == nil {
		s.respondError(w, domain.NotFoundError("project "+r.PathValue("uuid")))
		return
	}
	s.respondJSON(w, http.StatusOK, project)
}

type projectPatchRequest struct {
	Name         *string                  `json:"name"`
	Description  *string                  `json:"description"`
	SystemPrompt *string                  `json:"systemPrompt"`
	AgentID      *string                  `json:"agentId"`
	Settings     *domain.ProjectSettings  `json:"settings"`
	Members      *[]domain.ProjectMember  `json:"members"`
	Webhooks     *[]domain.ProjectWebhook `json:"webhooks"`
	APIKeys      *[]domain.ProjectAPIKey  `json:"apiKeys"`
	Metadata     *map[string]any          `json:"metadata"`
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	patch := domain.ProjectPatch{
		Name:         req.Name,
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		AgentID:      req.AgentID,
		Settings:     req.Settings,
		Members:      req.Members,
		Webhooks:     req.Webhooks,
		APIKeys:      req.APIKeys,
		Metadata:     req.Metadata,
	}
	if err := s.projects.Update(r.Context(), r.PathValue("uuid"), patch); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleArchiveProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Archive(r.Context(), r.PathValue("uuid")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), r.PathValue("uuid")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProjectChats(w http.ResponseWriter, r *http.Request) {
	chats, err := s.chats.GetByProject(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if chats == nil {
		chats = []*domain.Chat{}
	}
	s.respondJSON(w, http.StatusOK, chats)
}
