package ports

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/agentscope"
)

// StreamHandle is a live streaming run. Close before the terminal frame is
// the caller's cancellation path; Done is closed once the session ends.
type StreamHandle interface {
	Close() error
	Done() <-chan struct{}
}

// AgentRunner abstracts the execution backend so the chat service can be
// tested against a scripted fake.
type AgentRunner interface {
	Run(ctx context.Context, request agentscope.AgentRunRequest) (*agentscope.AgentRunResponse, error)
	Stream(ctx context.Context, request agentscope.AgentRunRequest, handlers agentscope.StreamHandlers) (StreamHandle, error)
}
