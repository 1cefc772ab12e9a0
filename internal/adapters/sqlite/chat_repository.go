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

type ChatRepository struct {
	db *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

const chatColumns = `id, uuid, project_id, agent_id, title, provider, model,
	system_prompt, status, message_count, total_tokens, total_cost,
	created_at, updated_at, last_message_at, metadata`

func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) (int64, error) {
	if chat.AgentID == "" {
		return 0, domain.ValidationError("chat agent id is required")
	}
	if chat.Title == "" {
		return 0, domain.ValidationError("chat title is required")
	}

	now := time.Now().UTC()
	chat.UUID = uuid.NewString()
	chat.Status = domain.StatusActive
	chat.MessageCount = 0
	chat.TotalTokens = 0
	chat.TotalCost = 0
	chat.LastMessageAt = nil
	chat.CreatedAt = now
	chat.UpdatedAt = now

	metadata, err := marshalJSONNullable(chat.Metadata)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO chats (uuid, project_id, agent_id, title, provider, model,
			system_prompt, status, message_count, total_tokens, total_cost,
			created_at, updated_at, last_message_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, 0, ?, ?, NULL, ?)`,
		chat.UUID, util.NullStringPtr(chat.ProjectID), chat.AgentID, chat.Title,
		chat.Provider, chat.Model, util.NullStringPtr(chat.SystemPrompt), chat.Status,
		formatTime(now), formatTime(now), metadata,
	)
	if err != nil {
		return 0, fmt.Errorf("insert chat: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("chat insert id: %w", err)
	}
	chat.ID = id
	return id, nil
}

func (r *ChatRepository) GetByUUID(ctx context.Context, chatUUID string) (*domain.Chat, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE uuid = ?`, chatUUID)
	chat, err := scanChat(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chat: %w", err)
	}
	return chat, nil
}

func (r *ChatRepository) GetByProject(ctx context.Context, projectID string) ([]*domain.Chat, error) {
	return r.queryChats(ctx, `
		SELECT `+chatColumns+` FROM chats
		WHERE project_id = ?
		ORDER BY last_message_at DESC`, projectID)
}

func (r *ChatRepository) GetByAgent(ctx context.Context, agentID string) ([]*domain.Chat, error) {
	return r.queryChats(ctx, `
		SELECT `+chatColumns+` FROM chats
		WHERE agent_id = ?
		ORDER BY last_message_at DESC`, agentID)
}

// GetRecent lists active chats by most recent message.
func (r *ChatRepository) GetRecent(ctx context.Context, limit int) ([]*domain.Chat, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.queryChats(ctx, `
		SELECT `+chatColumns+` FROM chats
		WHERE status = ?
		ORDER BY last_message_at DESC
		LIMIT ?`, domain.StatusActive, limit)
}

func (r *ChatRepository) Update(ctx context.Context, chatUUID string, patch domain.ChatPatch) error {
	set := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now().UTC())}

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.ProjectID != nil {
		appendSet("project_id", *patch.ProjectID)
	}
	if patch.SystemPrompt != nil {
		appendSet("system_prompt", *patch.SystemPrompt)
	}
	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.Metadata != nil {
		metadata, err := marshalJSONNullable(*patch.Metadata)
		if err != nil {
			return err
		}
		appendSet("metadata", metadata)
	}

	args = append(args, chatUUID)
	_, err := r.db.ExecContext(ctx, `UPDATE chats SET `+strings.Join(set, ", ")+` WHERE uuid = ?`, args...)
	if err != nil {
		return fmt.Errorf("update chat: %w", err)
	}
	return nil
}

// UpdateStats folds one persisted exchange into the running totals. The
// totals are never recomputed from the message table; keeping this
// incremental is what makes them cheap to read on every list view.
func (r *ChatRepository) UpdateStats(ctx context.Context, chatUUID string, tokens int64, cost float64) error {
	now := formatTime(time.Now().UTC())
	_, err := r.db.ExecContext(ctx, `
		UPDATE chats SET
			message_count = message_count + 1,
			total_tokens = total_tokens + ?,
			total_cost = total_cost + ?,
			last_message_at = ?,
			updated_at = ?
		WHERE uuid = ?`,
		tokens, cost, now, now, chatUUID)
	if err != nil {
		return fmt.Errorf("update chat stats: %w", err)
	}
	return nil
}

// Delete soft-deletes the chat and hard-deletes its messages in one
// transaction; a chat exclusively owns its messages.
func (r *ChatRepository) Delete(ctx context.Context, chatUUID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chat delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE chats SET status = ?, updated_at = ? WHERE uuid = ?`,
		domain.StatusDeleted, formatTime(time.Now().UTC()), chatUUID); err != nil {
		return fmt.Errorf("soft delete chat: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, chatUUID); err != nil {
		return fmt.Errorf("cascade delete messages: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit chat delete: %w", err)
	}
	return nil
}

func (r *ChatRepository) queryChats(ctx context.Context, query string, args ...any) ([]*domain.Chat, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chats: %w", err)
	}
	defer rows.Close()

	var chats []*domain.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	return chats, nil
}

func scanChat(row rowScanner) (*domain.Chat, error) {
	var (
		chat               domain.Chat
		projectID          sql.NullString
		systemPrompt       sql.NullString
		createdAt, updated string
		lastMessageAt      sql.NullString
		metadata           sql.NullString
	)

	err := row.Scan(&chat.ID, &chat.UUID, &projectID, &chat.AgentID, &chat.Title,
		&chat.Provider, &chat.Model, &systemPrompt, &chat.Status, &chat.MessageCount,
		&chat.TotalTokens, &chat.TotalCost, &createdAt, &updated, &lastMessageAt, &metadata)
	if err != nil {
		return nil, err
	}

	chat.ProjectID = util.NullStringToPtr(projectID)
	chat.SystemPrompt = util.NullStringToPtr(systemPrompt)
	chat.CreatedAt = parseTime(createdAt)
	chat.UpdatedAt = parseTime(updated)
	chat.LastMessageAt = parseTimePtr(lastMessageAt)
	unmarshalJSON(metadata, &chat.Metadata)
	return &chat, nil
}
