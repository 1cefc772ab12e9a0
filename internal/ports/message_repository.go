package ports

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// MessageRepository persists chat messages. Messages are immutable after
// create except for feedback and in-place content edits.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (int64, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Message, error)
	GetByChatID(ctx context.Context, chatID string) ([]*domain.Message, error)
	UpdateContent(ctx context.Context, uuid string, content string) error
	SetFeedback(ctx context.Context, uuid string, feedback domain.Feedback) error
	Delete(ctx context.Context, uuid string) error
}
