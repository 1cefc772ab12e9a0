package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentcockpit/cockpit/internal/adapters/otel"
	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/agentscope"
	"github.com/agentcockpit/cockpit/internal/chat"
	"github.com/agentcockpit/cockpit/internal/events"
	"github.com/agentcockpit/cockpit/internal/infrastructure/config"
	"github.com/agentcockpit/cockpit/internal/infrastructure/database"
	"github.com/agentcockpit/cockpit/internal/ports"
	"github.com/agentcockpit/cockpit/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server",
	Long: `Start the localhost JSON API the desktop shell talks to.

Examples:
  cockpit serve              # Start on default port 8080
  cockpit serve --port 3000  # Start on port 3000`,
	RunE: runServe,
}

var servePort int

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides COCKPIT_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	port := cfg.Port
	if servePort != 0 {
		port = servePort
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var metrics ports.MetricsExporter
	if exporter, err := otel.NewExporter(ctx, otel.LoadConfig()); err == nil {
		metrics = exporter
	} else {
		logger.Info("metrics export disabled", "reason", err)
		metrics = otel.NewNoOpExporter()
	}
	defer func() { _ = metrics.Close(context.Background()) }()

	backend := agentscope.New(cfg.AgentScope.BaseURL, cfg.AgentScope.APIToken,
		agentscope.WithLogger(logger))

	agents := sqlite.NewAgentRepository(db)
	projects := sqlite.NewProjectRepository(db)
	chats := sqlite.NewChatRepository(db)
	messages := sqlite.NewMessageRepository(db)
	analytics := sqlite.NewAnalyticsRepository(db)
	settings := sqlite.NewSettingsRepository(db)
	snapshots := sqlite.NewSnapshotStore(db)

	bus := events.NewBus()
	service := chat.NewService(agents, chats, messages, analytics,
		chat.NewClientRunner(backend), metrics, bus, logger)

	server := web.NewServer(port, logger, agents, projects, chats, messages,
		analytics, settings, snapshots, service, backend)
	return server.Start(ctx)
}
