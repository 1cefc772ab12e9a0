package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/util"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

const analyticsColumns = `id, date, provider, model, agent_id, project_id,
	requests, prompt_tokens, completion_tokens, total_tokens, cost,
	avg_response_time, errors, metadata`

// Record upserts a rollup row keyed by (date, provider, model). When the
// key exists the incoming event is merged into the stored row; counters
// add, the average response time is weighted by request counts.
func (r *AnalyticsRepository) Record(ctx context.Context, event domain.AnalyticsRecord) (int64, error) {
	if event.Date == "" || event.Provider == "" || event.Model == "" {
		return 0, domain.ValidationError("analytics date, provider and model are required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin analytics record: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+analyticsColumns+` FROM analytics
		WHERE date = ? AND provider = ? AND model = ?`,
		event.Date, event.Provider, event.Model)
	existing, err := scanAnalytics(row)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup analytics row: %w", err)
	}

	if existing != nil {
		existing.MergeFrom(event)
		_, err := tx.ExecContext(ctx, `
			UPDATE analytics SET
				requests = ?, prompt_tokens = ?, completion_tokens = ?,
				total_tokens = ?, cost = ?, avg_response_time = ?, errors = ?
			WHERE id = ?`,
			existing.Requests, existing.Tokens.Prompt, existing.Tokens.Completion,
			existing.Tokens.Total, existing.Cost, existing.AvgResponseTime,
			existing.Errors, existing.ID)
		if err != nil {
			return 0, fmt.Errorf("merge analytics row: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("commit analytics record: %w", err)
		}
		return existing.ID, nil
	}

	metadata, err := marshalJSONNullable(event.Metadata)
	if err != nil {
		return 0, err
	}
	result, err := tx.ExecContext(ctx, `
		INSERT INTO analytics (date, provider, model, agent_id, project_id,
			requests, prompt_tokens, completion_tokens, total_tokens, cost,
			avg_response_time, errors, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.Date, event.Provider, event.Model,
		util.NullStringPtr(event.AgentID), util.NullStringPtr(event.ProjectID),
		event.Requests, event.Tokens.Prompt, event.Tokens.Completion,
		event.Tokens.Total, event.Cost, event.AvgResponseTime, event.Errors, metadata,
	)
	if err != nil {
		return 0, fmt.Errorf("insert analytics row: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("analytics insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit analytics record: %w", err)
	}
	return id, nil
}

// GetByDateRange returns rollups whose date falls inside [startDate,
// endDate], both inclusive. Dates are YYYY-MM-DD so string comparison
// orders correctly.
func (r *AnalyticsRepository) GetByDateRange(ctx context.Context, startDate, endDate string) ([]*domain.AnalyticsRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+analyticsColumns+` FROM analytics
		WHERE date BETWEEN ? AND ?
		ORDER BY date, provider, model`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}
	defer rows.Close()

	var records []*domain.AnalyticsRecord
	for rows.Next() {
		record, err := scanAnalytics(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analytics: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analytics: %w", err)
	}
	return records, nil
}

func (r *AnalyticsRepository) Totals(ctx context.Context) (domain.AnalyticsTotals, error) {
	var totals domain.AnalyticsTotals
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(requests), 0), COALESCE(SUM(total_tokens), 0), COALESCE(SUM(cost), 0)
		FROM analytics`).Scan(&totals.Requests, &totals.Tokens, &totals.Cost)
	if err != nil {
		return domain.AnalyticsTotals{}, fmt.Errorf("analytics totals: %w", err)
	}
	return totals, nil
}

func scanAnalytics(row rowScanner) (*domain.AnalyticsRecord, error) {
	var (
		record             domain.AnalyticsRecord
		agentID, projectID sql.NullString
		metadata           sql.NullString
	)

	err := row.Scan(&record.ID, &record.Date, &record.Provider, &record.Model,
		&agentID, &projectID, &record.Requests, &record.Tokens.Prompt,
		&record.Tokens.Completion, &record.Tokens.Total, &record.Cost,
		&record.AvgResponseTime, &record.Errors, &metadata)
	if err != nil {
		return nil, err
	}

	record.AgentID = util.NullStringToPtr(agentID)
	record.ProjectID = util.NullStringToPtr(projectID)
	unmarshalJSON(metadata, &record.Metadata)
	return &record, nil
}
