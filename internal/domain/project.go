package domain

import "time"

const (
	StatusActive   = "active"
	StatusArchived = "archived"
	StatusDeleted  = "deleted"
)

// ProjectSettings are the per-project generation defaults applied to new
// chats created inside the project.
type ProjectSettings struct {
	Provider           string  `json:"provider,omitempty"`
	Model              string  `json:"model,omitempty"`
	Temperature        float64 `json:"temperature,omitempty"`
	MaxTokens          int64   `json:"maxTokens,omitempty"`
	CustomInstructions string  `json:"customInstructions,omitempty"`
}

type ProjectMember struct {
	UserID   string    `json:"userId"`
	Role     string    `json:"role"` // owner, admin, member, viewer
	JoinedAt time.Time `json:"joinedAt"`
}

type ProjectWebhook struct {
	ID      string   `json:"id"`
	URL     string   `json:"url"`
	Events  []string `json:"events"`
	Enabled bool     `json:"enabled"`
}

// ProjectAPIKey references an encrypted provider credential. The plaintext
// never enters the store.
type ProjectAPIKey struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Provider     string    `json:"provider"`
	EncryptedKey string    `json:"encryptedKey"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Project struct {
	ID           int64            `json:"id,omitempty"`
	UUID         string           `json:"uuid"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	SystemPrompt *string          `json:"systemPrompt,omitempty"`
	AgentID      *string          `json:"agentId,omitempty"`
	Settings     ProjectSettings  `json:"settings"`
	Members      []ProjectMember  `json:"members"`
	Webhooks     []ProjectWebhook `json:"webhooks"`
	APIKeys      []ProjectAPIKey  `json:"apiKeys"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
}

type ProjectPatch struct {
	Name         *string
	Description  *string
	SystemPrompt *string
	AgentID      *string
	Settings     *ProjectSettings
	Members      *[]ProjectMember
	Webhooks     *[]ProjectWebhook
	APIKeys      *[]ProjectAPIKey
	Metadata     *map[string]any
}
