package ports

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// ProjectRepository persists projects. Delete is a soft delete; deleted
// projects are excluded from GetAll.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (int64, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Project, error)
	GetAll(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, uuid string, patch domain.ProjectPatch) error
	Archive(ctx context.Context, uuid string) error
	Delete(ctx context.Context, uuid string) error
}
