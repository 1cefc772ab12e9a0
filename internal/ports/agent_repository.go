package ports

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// AgentRepository persists agent definitions.
//
// GetByUUID returns (nil, nil) for a missing uuid. Update is a silent
// no-op when the uuid does not exist.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) (int64, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Agent, error)
	GetAll(ctx context.Context) ([]*domain.Agent, error)
	GetByCategory(ctx context.Context, category string) ([]*domain.Agent, error)
	Search(ctx context.Context, query string) ([]*domain.Agent, error)
	Update(ctx context.Context, uuid string, patch domain.AgentPatch) error
	// RecordUsage increments the monotonic usage counter and stamps last_used.
	RecordUsage(ctx context.Context, uuid string) error
	Delete(ctx context.Context, uuid string) error
}
