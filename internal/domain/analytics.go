package domain

// AnalyticsRecord is a daily usage rollup. At most one row exists per
// (date, provider, model); recording merges into the existing row.
type AnalyticsRecord struct {
	ID              int64          `json:"id,omitempty"`
	Date            string         `json:"date"` // YYYY-MM-DD
	Provider        string         `json:"provider"`
	Model           string         `json:"model"`
	AgentID         *string        `json:"agentId,omitempty"`
	ProjectID       *string        `json:"projectId,omitempty"`
	Requests        int64          `json:"requests"`
	Tokens          TokenUsage     `json:"tokens"`
	Cost            float64        `json:"cost"`
	AvgResponseTime float64        `json:"avgResponseTime"`
	Errors          int64          `json:"errors"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// MergeFrom folds an incoming event for the same composite key into r.
// Response time uses a running weighted average with request counts as
// weights.
func (r *AnalyticsRecord) MergeFrom(incoming AnalyticsRecord) {
	totalRequests := r.Requests + incoming.Requests
	if totalRequests > 0 {
		r.AvgResponseTime = (r.AvgResponseTime*float64(r.Requests) +
			incoming.AvgResponseTime*float64(incoming.Requests)) / float64(totalRequests)
	}
	r.Requests = totalRequests
	r.Tokens.Prompt += incoming.Tokens.Prompt
	r.Tokens.Completion += incoming.Tokens.Completion
	r.Tokens.Total += incoming.Tokens.Total
	r.Cost += incoming.Cost
	r.Errors += incoming.Errors
}

// AnalyticsTotals are store-wide lifetime sums across all rollup rows.
type AnalyticsTotals struct {
	Requests int64   `json:"requests"`
	Tokens   int64   `json:"tokens"`
	Cost     float64 `json:"cost"`
}
