package chat

import (
	"context"

	"github.com/agentcockpit/cockpit/internal/agentscope"
	"github.com/agentcockpit/cockpit/internal/ports"
)

// clientRunner adapts the concrete backend client to the AgentRunner port.
type clientRunner struct {
	client *agentscope.Client
}

// NewClientRunner wraps a backend client for use as the service's runner.
func NewClientRunner(client *agentscope.Client) ports.AgentRunner {
	return &clientRunner{client: client}
}

func (r *clientRunner) Run(ctx context.Context, request agentscope.AgentRunRequest) (*agentscope.AgentRunResponse, error) {
	return r.client.Run(ctx, request)
}

func (r *clientRunner) Stream(ctx context.Context, request agentscope.AgentRunRequest, handlers agentscope.StreamHandlers) (ports.StreamHandle, error) {
	session, err := r.client.Stream(ctx, request, handlers)
	if err != nil {
		return nil, err
	}
	return session, nil
}
