package domain

import "time"

// Agent is a reusable assistant definition: prompt, provider/model selection
// and generation parameters, plus usage bookkeeping.
type Agent struct {
	ID           int64          `json:"id,omitempty"`
	UUID         string         `json:"uuid"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Tags         []string       `json:"tags"`
	SystemPrompt string         `json:"systemPrompt"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	Temperature  float64        `json:"temperature"`
	MaxTokens    int64          `json:"maxTokens"`
	Version      string         `json:"version"`
	Source       string         `json:"source"`
	SourceURL    *string        `json:"sourceUrl,omitempty"`
	Author       *string        `json:"author,omitempty"`
	Rating       *float64       `json:"rating,omitempty"`
	UsageCount   int64          `json:"usageCount"`
	LastUsed     *time.Time     `json:"lastUsed,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// AgentPatch carries the fields a partial update may touch. Nil means
// "leave unchanged".
type AgentPatch struct {
	Name         *string
	Description  *string
	Category     *string
	Tags         *[]string
	SystemPrompt *string
	Provider     *string
	Model        *string
	Temperature  *float64
	MaxTokens    *int64
	Version      *string
	Rating       *float64
	Metadata     *map[string]any
}
