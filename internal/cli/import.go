package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/infrastructure/config"
	"github.com/agentcockpit/cockpit/internal/infrastructure/database"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a snapshot file into the store",
	Long: `Import a snapshot produced by export. The import runs in a single
transaction: any failure leaves the store unchanged.

Examples:
  cockpit import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("parsing snapshot: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := sqlite.NewSnapshotStore(db).Import(ctx, &snapshot); err != nil {
		return fmt.Errorf("importing: %w", err)
	}

	fmt.Printf("Imported %d agents, %d projects, %d chats, %d messages\n",
		len(snapshot.Agents), len(snapshot.Projects), len(snapshot.Chats),
		len(snapshot.Messages))
	return nil
}
