package ports

import (
	"context"
	"encoding/json"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// SettingsRepository persists key/value settings. Keys are unique across
// the whole store; Set upserts. Get returns (nil, nil) for a missing key.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage, category string) error
	GetByCategory(ctx context.Context, category string) (map[string]json.RawMessage, error)
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) ([]*domain.Setting, error)
}
