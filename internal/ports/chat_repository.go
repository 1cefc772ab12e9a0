package ports

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// ChatRepository persists chats. Listings are ordered by last_message_at
// descending. Delete soft-deletes the chat and hard-deletes its messages
// in the same transaction.
type ChatRepository interface {
	Create(ctx context.Context, chat *domain.Chat) (int64, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Chat, error)
	GetByProject(ctx context.Context, projectID string) ([]*domain.Chat, error)
	GetByAgent(ctx context.Context, agentID string) ([]*domain.Chat, error)
	GetRecent(ctx context.Context, limit int) ([]*domain.Chat, error)
	Update(ctx context.Context, uuid string, patch domain.ChatPatch) error
	// UpdateStats applies one exchange incrementally: message_count+1,
	// totals += tokens/cost, last_message_at = now.
	UpdateStats(ctx context.Context, uuid string, tokens int64, cost float64) error
	Delete(ctx context.Context, uuid string) error
}
