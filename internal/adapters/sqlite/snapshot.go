package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/util"
)

// SnapshotStore bulk-exports and bulk-imports the whole store as a single
// JSON-friendly document. Import replaces the store contents atomically.
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Export reads every table in full, including archived and soft-deleted
// rows. The result round-trips through Import unchanged.
func (s *SnapshotStore) Export(ctx context.Context) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{
		Agents:     []domain.Agent{},
		Projects:   []domain.Project{},
		Chats:      []domain.Chat{},
		Messages:   []domain.Message{},
		Analytics:  []domain.AnalyticsRecord{},
		Settings:   []domain.Setting{},
		ExportedAt: time.Now().UTC(),
	}

	if err := collectRows(ctx, s.db, `SELECT `+agentColumns+` FROM agents ORDER BY id`, scanAgent, &snapshot.Agents); err != nil {
		return nil, fmt.Errorf("export agents: %w", err)
	}
	if err := collectRows(ctx, s.db, `SELECT `+projectColumns+` FROM projects ORDER BY id`, scanProject, &snapshot.Projects); err != nil {
		return nil, fmt.Errorf("export projects: %w", err)
	}
	if err := collectRows(ctx, s.db, `SELECT `+chatColumns+` FROM chats ORDER BY id`, scanChat, &snapshot.Chats); err != nil {
		return nil, fmt.Errorf("export chats: %w", err)
	}
	if err := collectRows(ctx, s.db, `SELECT `+messageColumns+` FROM messages ORDER BY id`, scanMessage, &snapshot.Messages); err != nil {
		return nil, fmt.Errorf("export messages: %w", err)
	}
	if err := collectRows(ctx, s.db, `SELECT `+analyticsColumns+` FROM analytics ORDER BY id`, scanAnalytics, &snapshot.Analytics); err != nil {
		return nil, fmt.Errorf("export analytics: %w", err)
	}

	settings, err := NewSettingsRepository(s.db).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("export settings: %w", err)
	}
	for _, setting := range settings {
		snapshot.Settings = append(snapshot.Settings, *setting)
	}

	return snapshot, nil
}

// Import inserts the snapshot contents in one transaction. UUIDs,
// timestamps and internal ids are preserved, so importing into an empty
// store makes a re-export match the imported document. Any failure,
// including a uuid collision with existing rows, rolls back and leaves
// the previous contents intact.
func (s *SnapshotStore) Import(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot == nil {
		return domain.ValidationError("snapshot is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for i := range snapshot.Agents {
		if err := importAgent(ctx, tx, &snapshot.Agents[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Projects {
		if err := importProject(ctx, tx, &snapshot.Projects[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Chats {
		if err := importChat(ctx, tx, &snapshot.Chats[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Messages {
		if err := importMessage(ctx, tx, &snapshot.Messages[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Analytics {
		if err := importAnalytics(ctx, tx, &snapshot.Analytics[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.Settings {
		if err := importSetting(ctx, tx, &snapshot.Settings[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func collectRows[T any](ctx context.Context, db *sql.DB, query string, scan func(rowScanner) (*T, error), out *[]T) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return err
		}
		*out = append(*out, *item)
	}
	return rows.Err()
}

func importAgent(ctx context.Context, tx *sql.Tx, agent *domain.Agent) error {
	if agent.UUID == "" {
		return domain.ValidationError("snapshot agent is missing uuid")
	}
	tags, err := marshalJSON(agent.Tags)
	if err != nil {
		return err
	}
	metadata, err := marshalJSONNullable(agent.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO agents (id, uuid, name, description, category, tags, system_prompt,
			provider, model, temperature, max_tokens, version, source, source_url,
			author, rating, usage_count, last_used, created_at, updated_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(agent.ID), agent.UUID, agent.Name, agent.Description, agent.Category,
		tags, agent.SystemPrompt, agent.Provider, agent.Model, agent.Temperature,
		agent.MaxTokens, agent.Version, agent.Source, util.NullStringPtr(agent.SourceURL),
		util.NullStringPtr(agent.Author), util.NullFloat64Ptr(agent.Rating),
		agent.UsageCount, formatTimePtr(agent.LastUsed),
		formatTime(agent.CreatedAt), formatTime(agent.UpdatedAt), metadata)
	if err != nil {
		return fmt.Errorf("import agent %s: %w", agent.UUID, err)
	}
	return nil
}

func importProject(ctx context.Context, tx *sql.Tx, project *domain.Project) error {
	if project.UUID == "" {
		return domain.ValidationError("snapshot project is missing uuid")
	}
	settings, err := marshalJSON(project.Settings)
	if err != nil {
		return err
	}
	members, err := marshalJSON(project.Members)
	if err != nil {
		return err
	}
	webhooks, err := marshalJSON(project.Webhooks)
	if err != nil {
		return err
	}
	apiKeys, err := marshalJSON(project.APIKeys)
	if err != nil {
		return err
	}
	metadata, err := marshalJSONNullable(project.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (id, uuid, name, description, system_prompt, agent_id,
			settings, members, webhooks, api_keys, status, created_at, updated_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(project.ID), project.UUID, project.Name, project.Description,
		util.NullStringPtr(project.SystemPrompt), util.NullStringPtr(project.AgentID),
		settings, members, webhooks, apiKeys, project.Status,
		formatTime(project.CreatedAt), formatTime(project.UpdatedAt), metadata)
	if err != nil {
		return fmt.Errorf("import project %s: %w", project.UUID, err)
	}
	return nil
}

func importChat(ctx context.Context, tx *sql.Tx, chat *domain.Chat) error {
	if chat.UUID == "" {
		return domain.ValidationError("snapshot chat is missing uuid")
	}
	metadata, err := marshalJSONNullable(chat.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO chats (id, uuid, project_id, agent_id, title, provider, model,
			system_prompt, status, message_count, total_tokens, total_cost,
			created_at, updated_at, last_message_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(chat.ID), chat.UUID, util.NullStringPtr(chat.ProjectID), chat.AgentID,
		chat.Title, chat.Provider, chat.Model, util.NullStringPtr(chat.SystemPrompt),
		chat.Status, chat.MessageCount, chat.TotalTokens, chat.TotalCost,
		formatTime(chat.CreatedAt), formatTime(chat.UpdatedAt),
		formatTimePtr(chat.LastMessageAt), metadata)
	if err != nil {
		return fmt.Errorf("import chat %s: %w", chat.UUID, err)
	}
	return nil
}

func importMessage(ctx context.Context, tx *sql.Tx, message *domain.Message) error {
	if message.UUID == "" {
		return domain.ValidationError("snapshot message is missing uuid")
	}
	attachments, err := marshalJSONNullable(message.Attachments)
	if err != nil {
		return err
	}
	feedback, err := marshalJSONNullable(message.Feedback)
	if err != nil {
		return err
	}
	metadata, err := marshalJSONNullable(message.Metadata)
	if err != nil {
		return err
	}
	var promptTokens, completionTokens, totalTokens sql.NullInt64
	if message.Tokens != nil {
		promptTokens = sql.NullInt64{Int64: message.Tokens.Prompt, Valid: true}
		completionTokens = sql.NullInt64{Int64: message.Tokens.Completion, Valid: true}
		totalTokens = sql.NullInt64{Int64: message.Tokens.Total, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, uuid, chat_id, role, content, provider, model,
			prompt_tokens, completion_tokens, total_tokens, cost, response_time_ms,
			attachments, feedback, regenerated, parent_message_id, created_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(message.ID), message.UUID, message.ChatID, message.Role, message.Content,
		util.NullStringPtr(message.Provider), util.NullStringPtr(message.Model),
		promptTokens, completionTokens, totalTokens,
		util.NullFloat64Ptr(message.Cost), util.NullInt64Ptr(message.ResponseTimeMS),
		attachments, feedback, util.BoolToInt64(message.Regenerated),
		util.NullStringPtr(message.ParentMessageID), formatTime(message.CreatedAt), metadata)
	if err != nil {
		return fmt.Errorf("import message %s: %w", message.UUID, err)
	}
	return nil
}

func importAnalytics(ctx context.Context, tx *sql.Tx, record *domain.AnalyticsRecord) error {
	metadata, err := marshalJSONNullable(record.Metadata)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO analytics (id, date, provider, model, agent_id, project_id,
			requests, prompt_tokens, completion_tokens, total_tokens, cost,
			avg_response_time, errors, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(record.ID), record.Date, record.Provider, record.Model,
		util.NullStringPtr(record.AgentID), util.NullStringPtr(record.ProjectID),
		record.Requests, record.Tokens.Prompt, record.Tokens.Completion,
		record.Tokens.Total, record.Cost, record.AvgResponseTime, record.Errors, metadata)
	if err != nil {
		return fmt.Errorf("import analytics %s/%s/%s: %w", record.Date, record.Provider, record.Model, err)
	}
	return nil
}

func importSetting(ctx context.Context, tx *sql.Tx, setting *domain.Setting) error {
	if setting.Key == "" {
		return domain.ValidationError("snapshot setting is missing key")
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO settings (id, key, value, category, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		nullID(setting.ID), setting.Key, string(setting.Value), setting.Category,
		formatTime(setting.UpdatedAt))
	if err != nil {
		return fmt.Errorf("import setting %s: %w", setting.Key, err)
	}
	return nil
}
