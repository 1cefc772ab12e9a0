package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/util"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

const messageColumns = `id, uuid, chat_id, role, content, provider, model,
	prompt_tokens, completion_tokens, total_tokens, cost, response_time_ms,
	attachments, feedback, regenerated, parent_message_id, created_at, metadata`

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) (int64, error) {
	if message.ChatID == "" {
		return 0, domain.ValidationError("message chat id is required")
	}
	switch message.Role {
	case domain.RoleUser, domain.RoleAssistant, domain.RoleSystem:
	default:
		return 0, domain.ValidationError("message role must be user, assistant or system")
	}

	now := time.Now().UTC()
	message.UUID = uuid.NewString()
	message.CreatedAt = now

	attachments, err := marshalJSONNullable(message.Attachments)
	if err != nil {
		return 0, err
	}
	feedback, err := marshalJSONNullable(message.Feedback)
	if err != nil {
		return 0, err
	}
	metadata, err := marshalJSONNullable(message.Metadata)
	if err != nil {
		return 0, err
	}

	var promptTokens, completionTokens, totalTokens sql.NullInt64
	if message.Tokens != nil {
		promptTokens = sql.NullInt64{Int64: message.Tokens.Prompt, Valid: true}
		completionTokens = sql.NullInt64{Int64: message.Tokens.Completion, Valid: true}
		totalTokens = sql.NullInt64{Int64: message.Tokens.Total, Valid: true}
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (uuid, chat_id, role, content, provider, model,
			prompt_tokens, completion_tokens, total_tokens, cost, response_time_ms,
			attachments, feedback, regenerated, parent_message_id, created_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		message.UUID, message.ChatID, message.Role, message.Content,
		util.NullStringPtr(message.Provider), util.NullStringPtr(message.Model),
		promptTokens, completionTokens, totalTokens,
		util.NullFloat64Ptr(message.Cost), util.NullInt64Ptr(message.ResponseTimeMS),
		attachments, feedback, util.BoolToInt64(message.Regenerated),
		util.NullStringPtr(message.ParentMessageID), formatTime(now), metadata,
	)
	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("message insert id: %w", err)
	}
	message.ID = id
	return id, nil
}

func (r *MessageRepository) GetByUUID(ctx context.Context, messageUUID string) (*domain.Message, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE uuid = ?`, messageUUID)
	message, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	return message, nil
}

// GetByChatID returns the chat's messages in insertion order.
func (r *MessageRepository) GetByChatID(ctx context.Context, chatID string) ([]*domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE chat_id = ?
		ORDER BY id`, chatID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// UpdateContent edits a message in place. Everything else about a
// persisted message is immutable.
func (r *MessageRepository) UpdateContent(ctx context.Context, messageUUID string, content string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET content = ? WHERE uuid = ?`, content, messageUUID)
	if err != nil {
		return fmt.Errorf("update message content: %w", err)
	}
	return nil
}

func (r *MessageRepository) SetFeedback(ctx context.Context, messageUUID string, feedback domain.Feedback) error {
	raw, err := marshalJSON(feedback)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE messages SET feedback = ? WHERE uuid = ?`, raw, messageUUID)
	if err != nil {
		return fmt.Errorf("set message feedback: %w", err)
	}
	return nil
}

func (r *MessageRepository) Delete(ctx context.Context, messageUUID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE uuid = ?`, messageUUID)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func scanMessage(row rowScanner) (*domain.Message, error) {
	var (
		message          domain.Message
		provider, model  sql.NullString
		promptTokens     sql.NullInt64
		completionTokens sql.NullInt64
		totalTokens      sql.NullInt64
		cost             sql.NullFloat64
		responseTime     sql.NullInt64
		attachments      sql.NullString
		feedback         sql.NullString
		regenerated      int64
		parentMessageID  sql.NullString
		createdAt        string
		metadata         sql.NullString
	)

	err := row.Scan(&message.ID, &message.UUID, &message.ChatID, &message.Role,
		&message.Content, &provider, &model, &promptTokens, &completionTokens,
		&totalTokens, &cost, &responseTime, &attachments, &feedback, &regenerated,
		&parentMessageID, &createdAt, &metadata)
	if err != nil {
		return nil, err
	}

	message.Provider = util.NullStringToPtr(provider)
	message.Model = util.NullStringToPtr(model)
	if promptTokens.Valid || completionTokens.Valid || totalTokens.Valid {
		message.Tokens = &domain.TokenUsage{
			Prompt:     promptTokens.Int64,
			Completion: completionTokens.Int64,
			Total:      totalTokens.Int64,
		}
	}
	message.Cost = util.NullFloat64ToPtr(cost)
	message.ResponseTimeMS = util.NullInt64ToPtr(responseTime)
	unmarshalJSON(attachments, &message.Attachments)
	if feedback.Valid {
		var fb domain.Feedback
		unmarshalJSON(feedback, &fb)
		message.Feedback = &fb
	}
	message.Regenerated = regenerated == 1
	message.ParentMessageID = util.NullStringToPtr(parentMessageID)
	message.CreatedAt = parseTime(createdAt)
	unmarshalJSON(metadata, &message.Metadata)
	return &message, nil
}
