package agentscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/agentcockpit/cockpit/internal/domain"
)

// Client talks to the AgentScope backend. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the backend at baseURL. apiToken may be empty
// for unauthenticated local backends.
func New(baseURL, apiToken string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiToken:   apiToken,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		dialer:     websocket.DefaultDialer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes an agent synchronously and returns the complete response.
// For token-by-token delivery use Stream.
func (c *Client) Run(ctx context.Context, request AgentRunRequest) (*AgentRunResponse, error) {
	var response AgentRunResponse
	if err := c.do(ctx, http.MethodPost, "/api/agents/run", request, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Health probes the backend with the same credentials as Run and Stream.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListAgents returns the backend's agent catalog.
func (c *Client) ListAgents(ctx context.Context) ([]CatalogAgent, error) {
	var agents []CatalogAgent
	if err := c.do(ctx, http.MethodGet, "/api/agents/", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// GetAgent returns one catalog entry.
func (c *Client) GetAgent(ctx context.Context, agentID string) (*CatalogAgent, error) {
	var agent CatalogAgent
	if err := c.do(ctx, http.MethodGet, "/api/agents/"+agentID, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.Internal("encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.Internal("build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return domain.CancelledError(ctx.Err())
		}
		return domain.TransportError(fmt.Sprintf("%s %s", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return domain.AuthError(serviceDetail(resp.Body, "credentials rejected"))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.ServiceError(serviceDetail(resp.Body, fmt.Sprintf("backend returned %d", resp.StatusCode)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.ServiceError(fmt.Sprintf("decode response: %v", err))
	}
	return nil
}

func (c *Client) authorize(header http.Header) {
	if c.apiToken != "" {
		header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

// serviceDetail extracts the backend's {"detail": ...} failure message,
// falling back when the body is not in that shape.
func serviceDetail(body io.Reader, fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fallback
}
