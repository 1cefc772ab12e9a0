package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentcockpit/cockpit/internal/infrastructure/config"
	"github.com/agentcockpit/cockpit/internal/migrate"

	_ "github.com/tursodatabase/go-libsql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).

Examples:
  cockpit migrate      # Run all pending migrations
  cockpit migrate 1    # Migrate to version 1
  cockpit migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	connStr := cfg.Database.URL
	if cfg.Database.AuthToken != "" {
		connStr += "?authToken=" + cfg.Database.AuthToken
	}
	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	currentVersion, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d, manual intervention required", currentVersion)
	}

	all, err := migrate.Load()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	fmt.Printf("Current version: %d\n", currentVersion)

	if len(args) == 0 {
		applied, err := migrate.Up(ctx, db, all, currentVersion)
		if err != nil {
			return err
		}
		fmt.Printf("Applied %d migration(s)\n", applied)
		return nil
	}

	targetVersion, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid version number: %s", args[0])
	}

	switch {
	case targetVersion > currentVersion:
		for _, m := range all {
			if m.Version <= currentVersion || m.Version > targetVersion {
				continue
			}
			if err := migrate.Run(ctx, db, m, true); err != nil {
				return err
			}
		}
	case targetVersion < currentVersion:
		if err := migrate.DownTo(ctx, db, all, currentVersion, targetVersion); err != nil {
			return err
		}
	default:
		fmt.Println("Already at target version")
	}
	return nil
}
