package domain

import (
	"encoding/json"
	"time"
)

const (
	SettingCategoryApp     = "app"
	SettingCategoryUser    = "user"
	SettingCategoryAgent   = "agent"
	SettingCategoryProject = "project"
)

// Setting is a key/value pair scoped to a category. Keys are unique across
// the whole store, not just within a category.
type Setting struct {
	ID        int64           `json:"id,omitempty"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Category  string          `json:"category"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
