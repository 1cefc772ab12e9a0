package sqlite_test

import (
	"context"
	"testing"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/domain"
)

func TestAnalyticsRepository_RecordInsertsThenMerges(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewAnalyticsRepository(db)

	first := domain.AnalyticsRecord{
		Date:     "2026-08-28",
		Provider: "anthropic",
		Model:    "claude-sonnet",
		Requests: 1,
		Tokens:   domain.TokenUsage{Prompt: 100, Completion: 50, Total: 150},
		Cost:     0.01,
		// One request at 100ms.
		AvgResponseTime: 100,
	}
	if _, err := repo.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	second := first
	second.Tokens = domain.TokenUsage{Prompt: 200, Completion: 100, Total: 300}
	second.Cost = 0.02
	second.AvgResponseTime = 300
	if _, err := repo.Record(ctx, second); err != nil {
		t.Fatalf("Record (merge) failed: %v", err)
	}

	records, err := repo.GetByDateRange(ctx, "2026-08-28", "2026-08-28")
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one merged row, got %d", len(records))
	}

	merged := records[0]
	if merged.Requests != 2 {
		t.Errorf("expected 2 requests, got %d", merged.Requests)
	}
	if merged.Tokens.Total != 450 {
		t.Errorf("expected 450 total tokens, got %d", merged.Tokens.Total)
	}
	// Weighted average of 100ms and 300ms with equal weights.
	if merged.AvgResponseTime != 200 {
		t.Errorf("expected avg 200, got %v", merged.AvgResponseTime)
	}
	if merged.Cost < 0.029 || merged.Cost > 0.031 {
		t.Errorf("expected cost 0.03, got %v", merged.Cost)
	}
}

func TestAnalyticsRepository_SeparateKeysStaySeparate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewAnalyticsRepository(db)

	base := domain.AnalyticsRecord{
		Date: "2026-08-28", Provider: "anthropic", Model: "claude-sonnet", Requests: 1,
	}
	otherDay := base
	otherDay.Date = "2026-08-27"
	otherModel := base
	otherModel.Model = "claude-haiku"

	for _, r := range []domain.AnalyticsRecord{base, otherDay, otherModel} {
		if _, err := repo.Record(ctx, r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	records, err := repo.GetByDateRange(ctx, "2026-08-27", "2026-08-28")
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 distinct rows, got %d", len(records))
	}
}

func TestAnalyticsRepository_DateRangeInclusive(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewAnalyticsRepository(db)

	for _, date := range []string{"2026-08-25", "2026-08-26", "2026-08-27"} {
		record := domain.AnalyticsRecord{Date: date, Provider: "p", Model: "m", Requests: 1}
		if _, err := repo.Record(ctx, record); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	records, err := repo.GetByDateRange(ctx, "2026-08-25", "2026-08-26")
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected both endpoints included, got %d rows", len(records))
	}
}

func TestAnalyticsRepository_Totals(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewAnalyticsRepository(db)

	totals, err := repo.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Requests != 0 || totals.Tokens != 0 || totals.Cost != 0 {
		t.Errorf("expected zero totals on empty store, got %+v", totals)
	}

	for _, r := range []domain.AnalyticsRecord{
		{Date: "2026-08-27", Provider: "p", Model: "m", Requests: 2, Tokens: domain.TokenUsage{Total: 500}, Cost: 0.05},
		{Date: "2026-08-28", Provider: "p", Model: "m", Requests: 3, Tokens: domain.TokenUsage{Total: 700}, Cost: 0.07},
	} {
		if _, err := repo.Record(ctx, r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	totals, err = repo.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Requests != 5 || totals.Tokens != 1200 {
		t.Errorf("expected requests=5 tokens=1200, got %+v", totals)
	}
}
