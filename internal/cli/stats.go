package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/infrastructure/config"
	"github.com/agentcockpit/cockpit/internal/infrastructure/database"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime usage totals",
	Long: `Show the lifetime request, token and cost totals across all
recorded analytics rollups.

With --from and --to, shows the per-day rollups in that range instead.`,
	RunE: runStats,
}

var (
	statsFrom string
	statsTo   string
)

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "Range start (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "Range end (YYYY-MM-DD)")
}

func runStats(cmd *cobra.Command, args []string) error {
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

	analytics := sqlite.NewAnalyticsRepository(db)

	if statsFrom != "" && statsTo != "" {
		records, err := analytics.GetByDateRange(ctx, statsFrom, statsTo)
		if err != nil {
			return fmt.Errorf("reading analytics: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No usage recorded in range")
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s  %s/%s  requests=%d tokens=%d cost=$%.4f errors=%d avg=%.0fms\n",
				r.Date, r.Provider, r.Model, r.Requests, r.Tokens.Total,
				r.Cost, r.Errors, r.AvgResponseTime)
		}
		return nil
	}

	totals, err := analytics.Totals(ctx)
	if err != nil {
		return fmt.Errorf("reading totals: %w", err)
	}
	fmt.Printf("Requests: %d\n", totals.Requests)
	fmt.Printf("Tokens:   %d\n", totals.Tokens)
	fmt.Printf("Cost:     $%.4f\n", totals.Cost)
	return nil
}
