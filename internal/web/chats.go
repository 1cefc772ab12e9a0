package web

import (
	"net/http"
	"strconv"

	"github.com/agentcockpit/cockpit/internal/domain"
)

func (s *Server) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	var chat domain.Chat
	if err := decodeJSON(r, &chat); err != nil {
		s.respondError(w, err)
		return
	}
	if _, err := s.chats.Create(r.Context(), &chat); err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, chat)
}

func (s *Server) handleRecentChats(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	chats, err := s.chats.GetRecent(r.Context(), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if chats == nil {
		chats = []*domain.Chat{}
	}
	s.respondJSON(w, http.StatusOK, chats)
}

func (s *Server) handleGetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := s.chats.GetByUUID(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if chat == nil {
		s.respondError(w, domain.NotFoundError("chat "+r.PathValue("uuid")))
		return
	}
	s.respondJSON(w, http.StatusOK, chat)
}

type chatPatchRequest struct {
	Title        *string         `json:"title"`
	ProjectID    *string         `json:"projectId"`
	SystemPrompt *string         `json:"systemPrompt"`
	Status       *string         `json:"status"`
	Metadata     *map[string]any `json:"metadata"`
}

func (s *Server) handleUpdateChat(w http.ResponseWriter, r *http.Request) {
	var req chatPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	patch := domain.ChatPatch{
		Title:        req.Title,
		ProjectID:    req.ProjectID,
		SystemPrompt: req.SystemPrompt,
		Status:       req.Status,
		Metadata:     req.Metadata,
	}
	if err := s.chats.Update(r.Context(), r.PathValue("uuid"), patch); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := s.chats.Delete(r.Context(), r.PathValue("uuid")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChatMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.messages.GetByChatID(r.Context(), r.PathValue("uuid"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	s.respondJSON(w, http.StatusOK, messages)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// handleSendMessage runs one synchronous exchange through the chat
// service and returns both persisted messages.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	exchange, err := s.exchange.Send(r.Context(), r.PathValue("uuid"), req.Content)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, exchange)
}

type editMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleEditMessage(w http.ResponseWriter, r *http.Request) {
	var req editMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.Content == "" {
		s.respondError(w, domain.ValidationError("message content is required"))
		return
	}
	if err := s.messages.UpdateContent(r.Context(), r.PathValue("uuid"), req.Content); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMessageFeedback(w http.ResponseWriter, r *http.Request) {
	var feedback domain.Feedback
	if err := decodeJSON(r, &feedback); err != nil {
		s.respondError(w, err)
		return
	}
	if feedback.Rating != "positive" && feedback.Rating != "negative" {
		s.respondError(w, domain.ValidationError("feedback rating must be positive or negative"))
		return
	}
	if err := s.messages.SetFeedback(r.Context(), r.PathValue("uuid"), feedback); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := s.messages.Delete(r.Context(), r.PathValue("uuid")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
