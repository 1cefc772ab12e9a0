// Package web is the localhost JSON API the desktop shell talks to.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/agentcockpit/cockpit/internal/agentscope"
	"github.com/agentcockpit/cockpit/internal/chat"
	"github.com/agentcockpit/cockpit/internal/ports"
)

type Server struct {
	router    *http.ServeMux
	port      int
	logger    *slog.Logger
	agents    ports.AgentRepository
	projects  ports.ProjectRepository
	chats     ports.ChatRepository
	messages  ports.MessageRepository
	analytics ports.AnalyticsRepository
	settings  ports.SettingsRepository
	snapshots ports.SnapshotStore
	exchange  *chat.Service
	backend   *agentscope.Client
}

func NewServer(
	port int,
	logger *slog.Logger,
	agents ports.AgentRepository,
	projects ports.ProjectRepository,
	chats ports.ChatRepository,
	messages ports.MessageRepository,
	analytics ports.AnalyticsRepository,
	settings ports.SettingsRepository,
	snapshots ports.SnapshotStore,
	exchange *chat.Service,
	backend *agentscope.Client,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:    http.NewServeMux(),
		port:      port,
		logger:    logger,
		agents:    agents,
		projects:  projects,
		chats:     chats,
		messages:  messages,
		analytics: analytics,
		settings:  settings,
		snapshots: snapshots,
		exchange:  exchange,
		backend:   backend,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health checks
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.HandleFunc("GET /api/backend/health", s.handleBackendHealth)

	// Agents
	s.router.HandleFunc("POST /api/agents", s.handleCreateAgent)
	s.router.HandleFunc("GET /api/agents", s.handleListAgents)
	s.router.HandleFunc("GET /api/agents/{uuid}", s.handleGetAgent)
	s.router.HandleFunc("PATCH /api/agents/{uuid}", s.handleUpdateAgent)
	s.router.HandleFunc("DELETE /api/agents/{uuid}", s.handleDeleteAgent)
	s.router.HandleFunc("GET /api/agents/{uuid}/chats", s.handleAgentChats)

	// Projects
	s.router.HandleFunc("POST /api/projects", s.handleCreateProject)
	s.router.HandleFunc("GET /api/projects", s.handleListProjects)
	s.router.HandleFunc("GET /api/projects/{uuid}", s.handleGetProject)
	s.router.HandleFunc("PATCH /api/projects/{uuid}", s.handleUpdateProject)
	s.router.HandleFunc("POST /api/projects/{uuid}/archive", s.handleArchiveProject)
	s.router.HandleFunc("DELETE /api/projects/{uuid}", s.handleDeleteProject)
	s.router.HandleFunc("GET /api/projects/{uuid}/chats", s.handleProjectChats)

	// Chats and messages
	s.router.HandleFunc("POST /api/chats", s.handleCreateChat)
	s.router.HandleFunc("GET /api/chats", s.handleRecentChats)
	s.router.HandleFunc("GET /api/chats/{uuid}", s.handleGetChat)
	s.router.HandleFunc("PATCH /api/chats/{uuid}", s.handleUpdateChat)
	s.router.HandleFunc("DELETE /api/chats/{uuid}", s.handleDeleteChat)
	s.router.HandleFunc("GET /api/chats/{uuid}/messages", s.handleChatMessages)
	s.router.HandleFunc("POST /api/chats/{uuid}/messages", s.handleSendMessage)
	s.router.HandleFunc("PATCH /api/messages/{uuid}", s.handleEditMessage)
	s.router.HandleFunc("POST /api/messages/{uuid}/feedback", s.handleMessageFeedback)
	s.router.HandleFunc("DELETE /api/messages/{uuid}", s.handleDeleteMessage)

	// Settings
	s.router.HandleFunc("GET /api/settings", s.handleListSettings)
	s.router.HandleFunc("GET /api/settings/{key}", s.handleGetSetting)
	s.router.HandleFunc("PUT /api/settings/{key}", s.handleSetSetting)
	s.router.HandleFunc("DELETE /api/settings/{key}", s.handleDeleteSetting)

	// Analytics
	s.router.HandleFunc("GET /api/analytics", s.handleAnalyticsRange)
	s.router.HandleFunc("GET /api/analytics/totals", s.handleAnalyticsTotals)

	// Snapshot export/import
	s.router.HandleFunc("GET /api/export", s.handleExport)
	s.router.HandleFunc("POST /api/import", s.handleImport)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf("localhost:%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown", "error", err)
		}
	}()

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
