package ports

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// AnalyticsRepository persists daily usage rollups keyed by
// (date, provider, model). Record merges into an existing row when the
// composite key is already present.
type AnalyticsRepository interface {
	Record(ctx context.Context, event domain.AnalyticsRecord) (int64, error)
	GetByDateRange(ctx context.Context, startDate, endDate string) ([]*domain.AnalyticsRecord, error)
	Totals(ctx context.Context) (domain.AnalyticsTotals, error)
}
