package ports

import "context"

// UsageMetrics describes one completed agent exchange for export to an
// external observability system.
type UsageMetrics struct {
	Provider         string
	Model            string
	AgentID          string
	PromptTokens     int64
	CompletionTokens int64
	CostUSD          float64
	DurationMS       int64
	IsError          bool
}

// MetricsExporter exports per-exchange usage metrics.
type MetricsExporter interface {
	ExportUsage(ctx context.Context, m *UsageMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}
