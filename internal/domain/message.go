package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type TokenUsage struct {
	Prompt     int64 `json:"prompt"`
	Completion int64 `json:"completion"`
	Total      int64 `json:"total"`
}

type Attachment struct {
	Type string `json:"type"` // file, image, audio
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type Feedback struct {
	Rating  string `json:"rating"` // positive, negative
	Comment string `json:"comment,omitempty"`
}

// Message is one exchange entry owned by exactly one chat. Immutable once
// persisted except for feedback and in-place content edits.
type Message struct {
	ID              int64          `json:"id,omitempty"`
	UUID            string         `json:"uuid"`
	ChatID          string         `json:"chatId"`
	Role            string         `json:"role"`
	Content         string         `json:"content"`
	Provider        *string        `json:"provider,omitempty"`
	Model           *string        `json:"model,omitempty"`
	Tokens          *TokenUsage    `json:"tokens,omitempty"`
	Cost            *float64       `json:"cost,omitempty"`
	ResponseTimeMS  *int64         `json:"responseTime,omitempty"`
	Attachments     []Attachment   `json:"attachments,omitempty"`
	Feedback        *Feedback      `json:"feedback,omitempty"`
	Regenerated     bool           `json:"regenerated"`
	ParentMessageID *string        `json:"parentMessageId,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}
