package domain

import "time"

// Chat is a conversation with a single agent, optionally scoped to a
// project. The running totals are maintained incrementally by UpdateStats
// and always equal the sum over the chat's messages.
type Chat struct {
	ID            int64          `json:"id,omitempty"`
	UUID          string         `json:"uuid"`
	ProjectID     *string        `json:"projectId,omitempty"`
	AgentID       string         `json:"agentId"`
	Title         string         `json:"title"`
	Provider      string         `json:"provider"`
	Model         string         `json:"model"`
	SystemPrompt  *string        `json:"systemPrompt,omitempty"`
	Status        string         `json:"status"`
	MessageCount  int64          `json:"messageCount"`
	TotalTokens   int64          `json:"totalTokens"`
	TotalCost     float64        `json:"totalCost"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	LastMessageAt *time.Time     `json:"lastMessageAt,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

type ChatPatch struct {
	Title        *string
	ProjectID    *string
	SystemPrompt *string
	Status       *string
	Metadata     *map[string]any
}
