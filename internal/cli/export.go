package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/infrastructure/config"
	"github.com/agentcockpit/cockpit/internal/infrastructure/database"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export the store to a snapshot file",
	Long: `Export every agent, project, chat, message, analytics rollup and
setting as one JSON snapshot.

Examples:
  cockpit export                  # Write to stdout
  cockpit export backup.json      # Write to backup.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.AuthToken)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	snapshot, err := sqlite.NewSnapshotStore(db).Export(ctx)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	out := os.Stdout
	if len(args) == 1 {
		file, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating %s: %w", args[0], err)
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	if len(args) == 1 {
		fmt.Printf("Exported %d agents, %d projects, %d chats, %d messages to %s\n",
			len(snapshot.Agents), len(snapshot.Projects), len(snapshot.Chats),
			len(snapshot.Messages), args[0])
	}
	return nil
}
