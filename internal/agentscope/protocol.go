// Package agentscope is the client for the AgentScope execution backend.
// It speaks two protocols sharing one base URL and bearer token: a unary
// HTTP call for synchronous runs and a WebSocket stream for token-by-token
// delivery.
package agentscope

// ChatMessage is a single conversation entry on the wire.
type ChatMessage struct {
	Role    string `json:"role"` // user, assistant, system
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// AgentRunRequest is the body of the unary run call and, with the "run"
// action prepended, the opening frame of a stream session.
type AgentRunRequest struct {
	AgentID      string           `json:"agent_id"`
	Messages     []ChatMessage    `json:"messages"`
	SystemPrompt string           `json:"system_prompt,omitempty"`
	Temperature  *float64         `json:"temperature,omitempty"`
	MaxTokens    *int64           `json:"max_tokens,omitempty"`
	Tools        []map[string]any `json:"tools,omitempty"`
	Metadata     map[string]any   `json:"metadata,omitempty"`
}

// Usage is the token accounting attached to a completed run.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// AgentRunResponse is the unary run result.
type AgentRunResponse struct {
	AgentID    string         `json:"agent_id"`
	Message    ChatMessage    `json:"message"`
	Usage      Usage          `json:"usage"`
	Metadata   map[string]any `json:"metadata"`
	DurationMS float64        `json:"duration_ms"`
}

// streamRequest is the single outbound frame sent when a stream opens.
type streamRequest struct {
	Action string `json:"action"`
	AgentRunRequest
}

// Stream frame types. Zero or more token frames precede exactly one
// terminal frame (complete or error).
const (
	frameStart    = "start"
	frameToken    = "token"
	frameComplete = "complete"
	frameError    = "error"
)

// StreamEvent is an inbound stream frame.
type StreamEvent struct {
	Type     string         `json:"type"`
	Content  string         `json:"content,omitempty"`
	AgentID  string         `json:"agent_id,omitempty"`
	Usage    *Usage         `json:"usage,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    string         `json:"error,omitempty"`
	Done     bool           `json:"done"`
}

// HealthStatus is the backend's health probe response.
type HealthStatus struct {
	Status      string  `json:"status"`
	Timestamp   float64 `json:"timestamp"`
	Version     string  `json:"version"`
	Environment string  `json:"environment"`
}

// CatalogAgent is one entry from the backend's agent catalog.
type CatalogAgent struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Model       string         `json:"model,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
