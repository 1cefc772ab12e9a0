package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/util"
)

type AgentRepository struct {
	db *sql.DB
}

func NewAgentRepository(db *sql.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

const agentColumns = `id, uuid, name, description, category, tags, system_prompt,
	provider, model, temperature, max_tokens, version, source, source_url,
	author, rating, usage_count, last_used, created_at, updated_at, metadata`

// Create persists a new agent: fresh UUID, stamped timestamps, zeroed
// usage counter. Returns the internal row id.
func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) (int64, error) {
	if agent.Name == "" {
		return 0, domain.ValidationError("agent name is required")
	}
	if agent.Provider == "" || agent.Model == "" {
		return 0, domain.ValidationError("agent provider and model are required")
	}

	now := time.Now().UTC()
	agent.UUID = uuid.NewString()
	agent.UsageCount = 0
	agent.LastUsed = nil
	agent.CreatedAt = now
	agent.UpdatedAt = now
	if agent.Tags == nil {
		agent.Tags = []string{}
	}
	if agent.Source == "" {
		agent.Source = "custom"
	}
	if agent.Version == "" {
		agent.Version = "1.0.0"
	}

	tags, err := marshalJSON(agent.Tags)
	if err != nil {
		return 0, err
	}
	metadata, err := marshalJSONNullable(agent.Metadata)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO agents (uuid, name, description, category, tags, system_prompt,
			provider, model, temperature, max_tokens, version, source, source_url,
			author, rating, usage_count, last_used, created_at, updated_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, ?, ?, ?)`,
		agent.UUID, agent.Name, agent.Description, agent.Category, tags, agent.SystemPrompt,
		agent.Provider, agent.Model, agent.Temperature, agent.MaxTokens, agent.Version,
		agent.Source, util.NullStringPtr(agent.SourceURL), util.NullStringPtr(agent.Author),
		util.NullFloat64Ptr(agent.Rating), formatTime(now), formatTime(now), metadata,
	)
	if err != nil {
		return 0, fmt.Errorf("insert agent: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("agent insert id: %w", err)
	}
	agent.ID = id
	return id, nil
}

// GetByUUID returns (nil, nil) when the uuid is unknown.
func (r *AgentRepository) GetByUUID(ctx context.Context, agentUUID string) (*domain.Agent, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE uuid = ?`, agentUUID)
	agent, err := scanAgent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}
	return agent, nil
}

func (r *AgentRepository) GetAll(ctx context.Context) ([]*domain.Agent, error) {
	return r.queryAgents(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY id`)
}

func (r *AgentRepository) GetByCategory(ctx context.Context, category string) ([]*domain.Agent, error) {
	return r.queryAgents(ctx, `SELECT `+agentColumns+` FROM agents WHERE category = ? ORDER BY id`, category)
}

// Search matches the query case-insensitively against name, description
// and the tag set. Results carry no ranking.
func (r *AgentRepository) Search(ctx context.Context, query string) ([]*domain.Agent, error) {
	needle := "%" + strings.ToLower(query) + "%"
	return r.queryAgents(ctx, `
		SELECT `+agentColumns+` FROM agents
		WHERE LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(tags) LIKE ?`,
		needle, needle, needle)
}

// Update merges the patch, refreshing updated_at. A missing uuid is a
// silent no-op; callers must not rely on an existence signal here.
func (r *AgentRepository) Update(ctx context.Context, agentUUID string, patch domain.AgentPatch) error {
	set := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now().UTC())}

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		appendSet("name", *patch.Name)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.Category != nil {
		appendSet("category", *patch.Category)
	}
	if patch.Tags != nil {
		tags, err := marshalJSON(*patch.Tags)
		if err != nil {
			return err
		}
		appendSet("tags", tags)
	}
	if patch.SystemPrompt != nil {
		appendSet("system_prompt", *patch.SystemPrompt)
	}
	if patch.Provider != nil {
		appendSet("provider", *patch.Provider)
	}
	if patch.Model != nil {
		appendSet("model", *patch.Model)
	}
	if patch.Temperature != nil {
		appendSet("temperature", *patch.Temperature)
	}
	if patch.MaxTokens != nil {
		appendSet("max_tokens", *patch.MaxTokens)
	}
	if patch.Version != nil {
		appendSet("version", *patch.Version)
	}
	if patch.Rating != nil {
		appendSet("rating", *patch.Rating)
	}
	if patch.Metadata != nil {
		metadata, err := marshalJSONNullable(*patch.Metadata)
		if err != nil {
			return err
		}
		appendSet("metadata", metadata)
	}

	args = append(args, agentUUID)
	_, err := r.db.ExecContext(ctx, `UPDATE agents SET `+strings.Join(set, ", ")+` WHERE uuid = ?`, args...)
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	return nil
}

// RecordUsage is the only operation allowed to move usage_count; the
// counter never decreases.
func (r *AgentRepository) RecordUsage(ctx context.Context, agentUUID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE agents SET usage_count = usage_count + 1, last_used = ?, updated_at = ?
		WHERE uuid = ?`,
		formatTime(time.Now().UTC()), formatTime(time.Now().UTC()), agentUUID)
	if err != nil {
		return fmt.Errorf("record agent usage: %w", err)
	}
	return nil
}

func (r *AgentRepository) Delete(ctx context.Context, agentUUID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM agents WHERE uuid = ?`, agentUUID)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	return nil
}

func (r *AgentRepository) queryAgents(ctx context.Context, query string, args ...any) ([]*domain.Agent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	var agents []*domain.Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agents: %w", err)
	}
	return agents, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgent(row rowScanner) (*domain.Agent, error) {
	var (
		agent              domain.Agent
		tags               sql.NullString
		sourceURL, author  sql.NullString
		rating             sql.NullFloat64
		lastUsed           sql.NullString
		createdAt, updated string
		metadata           sql.NullString
	)

	err := row.Scan(&agent.ID, &agent.UUID, &agent.Name, &agent.Description, &agent.Category,
		&tags, &agent.SystemPrompt, &agent.Provider, &agent.Model, &agent.Temperature,
		&agent.MaxTokens, &agent.Version, &agent.Source, &sourceURL, &author, &rating,
		&agent.UsageCount, &lastUsed, &createdAt, &updated, &metadata)
	if err != nil {
		return nil, err
	}

	agent.Tags = []string{}
	unmarshalJSON(tags, &agent.Tags)
	agent.SourceURL = util.NullStringToPtr(sourceURL)
	agent.Author = util.NullStringToPtr(author)
	agent.Rating = util.NullFloat64ToPtr(rating)
	agent.LastUsed = parseTimePtr(lastUsed)
	agent.CreatedAt = parseTime(createdAt)
	agent.UpdatedAt = parseTime(updated)
	unmarshalJSON(metadata, &agent.Metadata)
	return &agent, nil
}
