package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentcockpit/cockpit/internal/agentscope"
	"github.com/agentcockpit/cockpit/internal/infrastructure/config"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the AgentScope backend",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := agentscope.New(cfg.AgentScope.BaseURL, cfg.AgentScope.APIToken)
	status, err := client.Health(ctx)
	if err != nil {
		return fmt.Errorf("backend unreachable at %s: %w", cfg.AgentScope.BaseURL, err)
	}

	fmt.Printf("Status:      %s\n", status.Status)
	fmt.Printf("Version:     %s\n", status.Version)
	fmt.Printf("Environment: %s\n", status.Environment)
	return nil
}
