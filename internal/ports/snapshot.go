package ports

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// SnapshotStore bulk-exports and bulk-imports the whole store. Import is
// all-or-nothing: any failure leaves the store unchanged.
type SnapshotStore interface {
	Export(ctx context.Context) (*domain.Snapshot, error)
	Import(ctx context.Context, snapshot *domain.Snapshot) error
}
