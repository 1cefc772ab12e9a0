// Package chat orchestrates one exchange end to end: persist the user
// message, run the agent, persist the reply, then fold the exchange into
// the chat totals, the agent usage counter, the daily analytics rollup
// and the exported metrics.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agentcockpit/cockpit/internal/agentscope"
	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/events"
	"github.com/agentcockpit/cockpit/internal/ports"
)

type Service struct {
	agents    ports.AgentRepository
	chats     ports.ChatRepository
	messages  ports.MessageRepository
	analytics ports.AnalyticsRepository
	runner    ports.AgentRunner
	metrics   ports.MetricsExporter
	bus       *events.Bus
	logger    *slog.Logger
}

func NewService(
	agents ports.AgentRepository,
	chats ports.ChatRepository,
	messages ports.MessageRepository,
	analytics ports.AnalyticsRepository,
	runner ports.AgentRunner,
	metrics ports.MetricsExporter,
	bus *events.Bus,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		agents:    agents,
		chats:     chats,
		messages:  messages,
		analytics: analytics,
		runner:    runner,
		metrics:   metrics,
		bus:       bus,
		logger:    logger,
	}
}

// Exchange is the persisted result of one send: the user message and the
// assistant reply.
type Exchange struct {
	UserMessage      *domain.Message `json:"userMessage"`
	AssistantMessage *domain.Message `json:"assistantMessage"`
}

// Send runs one synchronous exchange. The user message is persisted before
// the run; a failed run records an analytics error row and returns with
// only the user message stored.
func (s *Service) Send(ctx context.Context, chatUUID, content string) (*Exchange, error) {
	chat, agent, err := s.loadChatAgent(ctx, chatUUID)
	if err != nil {
		return nil, err
	}

	userMessage, err := s.persistUserMessage(ctx, chat, content)
	if err != nil {
		return nil, err
	}

	request, err := s.buildRequest(ctx, chat, agent)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	response, err := s.runner.Run(ctx, request)
	if err != nil {
		s.recordFailure(ctx, chat, agent, time.Since(started))
		return nil, fmt.Errorf("run agent %s: %w", agent.UUID, err)
	}

	assistantMessage, err := s.persistExchange(ctx, chat, agent, exchangeResult{
		content:  response.Message.Content,
		usage:    response.Usage,
		metadata: response.Metadata,
		elapsed:  time.Duration(response.DurationMS * float64(time.Millisecond)),
	})
	if err != nil {
		return nil, err
	}

	return &Exchange{UserMessage: userMessage, AssistantMessage: assistantMessage}, nil
}

// StreamCallbacks receives incremental delivery during SendStreaming.
// OnToken relays each token as it arrives; exactly one of OnComplete or
// OnError follows, after persistence has finished.
type StreamCallbacks struct {
	OnToken    func(token string)
	OnComplete func(exchange *Exchange)
	OnError    func(err error)
}

// SendStreaming runs one streaming exchange. Tokens are relayed as they
// arrive and accumulated client-side; the assistant message is persisted
// only when the terminal complete frame lands. A terminal error frame
// records an analytics error and persists no assistant message.
func (s *Service) SendStreaming(ctx context.Context, chatUUID, content string, callbacks StreamCallbacks) (ports.StreamHandle, error) {
	chat, agent, err := s.loadChatAgent(ctx, chatUUID)
	if err != nil {
		return nil, err
	}

	userMessage, err := s.persistUserMessage(ctx, chat, content)
	if err != nil {
		return nil, err
	}

	request, err := s.buildRequest(ctx, chat, agent)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	var accumulated strings.Builder

	handlers := agentscope.StreamHandlers{
		OnToken: func(token string) {
			accumulated.WriteString(token)
			if callbacks.OnToken != nil {
				callbacks.OnToken(token)
			}
		},
		OnComplete: func(usage agentscope.Usage, metadata map[string]any) {
			assistantMessage, err := s.persistExchange(ctx, chat, agent, exchangeResult{
				content:  accumulated.String(),
				usage:    usage,
				metadata: metadata,
				elapsed:  time.Since(started),
			})
			if err != nil {
				s.logger.Error("persisting streamed exchange failed",
					"chat", chat.UUID, "error", err)
				if callbacks.OnError != nil {
					callbacks.OnError(err)
				}
				return
			}
			if callbacks.OnComplete != nil {
				callbacks.OnComplete(&Exchange{
					UserMessage:      userMessage,
					AssistantMessage: assistantMessage,
				})
			}
		},
		OnError: func(message string) {
			s.recordFailure(ctx, chat, agent, time.Since(started))
			if callbacks.OnError != nil {
				callbacks.OnError(domain.ServiceError(message))
			}
		},
	}

	handle, err := s.runner.Stream(ctx, request, handlers)
	if err != nil {
		s.recordFailure(ctx, chat, agent, time.Since(started))
		return nil, fmt.Errorf("open stream for agent %s: %w", agent.UUID, err)
	}
	return handle, nil
}

func (s *Service) loadChatAgent(ctx context.Context, chatUUID string) (*domain.Chat, *domain.Agent, error) {
	chat, err := s.chats.GetByUUID(ctx, chatUUID)
	if err != nil {
		return nil, nil, err
	}
	if chat == nil {
		return nil, nil, domain.NotFoundError("chat " + chatUUID)
	}
	agent, err := s.agents.GetByUUID(ctx, chat.AgentID)
	if err != nil {
		return nil, nil, err
	}
	if agent == nil {
		return nil, nil, domain.NotFoundError("agent " + chat.AgentID)
	}
	return chat, agent, nil
}

func (s *Service) persistUserMessage(ctx context.Context, chat *domain.Chat, content string) (*domain.Message, error) {
	if content == "" {
		return nil, domain.ValidationError("message content is required")
	}
	message := &domain.Message{
		ChatID:  chat.UUID,
		Role:    domain.RoleUser,
		Content: content,
	}
	if _, err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	// A user message moves lastMessageAt and the count but carries no
	// token or cost accounting.
	if err := s.chats.UpdateStats(ctx, chat.UUID, 0, 0); err != nil {
		return nil, err
	}
	s.publish(events.EntityMessage, events.OpCreated, message.UUID)
	s.publish(events.EntityChat, events.OpUpdated, chat.UUID)
	return message, nil
}

// buildRequest assembles the run request from the persisted history. The
// chat's own system prompt wins over the agent's.
func (s *Service) buildRequest(ctx context.Context, chat *domain.Chat, agent *domain.Agent) (agentscope.AgentRunRequest, error) {
	history, err := s.messages.GetByChatID(ctx, chat.UUID)
	if err != nil {
		return agentscope.AgentRunRequest{}, err
	}

	wire := make([]agentscope.ChatMessage, 0, len(history))
	for _, message := range history {
		wire = append(wire, agentscope.ChatMessage{
			Role:    message.Role,
			Content: message.Content,
		})
	}

	systemPrompt := agent.SystemPrompt
	if chat.SystemPrompt != nil && *chat.SystemPrompt != "" {
		systemPrompt = *chat.SystemPrompt
	}

	temperature := agent.Temperature
	maxTokens := agent.MaxTokens
	return agentscope.AgentRunRequest{
		AgentID:      agent.UUID,
		Messages:     wire,
		SystemPrompt: systemPrompt,
		Temperature:  &temperature,
		MaxTokens:    &maxTokens,
	}, nil
}

type exchangeResult struct {
	content  string
	usage    agentscope.Usage
	metadata map[string]any
	elapsed  time.Duration
}

// persistExchange writes the assistant message and fans the accounting out
// to the chat totals, agent usage, analytics rollup and metrics export.
func (s *Service) persistExchange(ctx context.Context, chat *domain.Chat, agent *domain.Agent, result exchangeResult) (*domain.Message, error) {
	cost := metadataCost(result.metadata)
	responseTime := result.elapsed.Milliseconds()

	message := &domain.Message{
		ChatID:   chat.UUID,
		Role:     domain.RoleAssistant,
		Content:  result.content,
		Provider: &agent.Provider,
		Model:    &agent.Model,
		Tokens: &domain.TokenUsage{
			Prompt:     result.usage.PromptTokens,
			Completion: result.usage.CompletionTokens,
			Total:      result.usage.TotalTokens,
		},
		Cost:           &cost,
		ResponseTimeMS: &responseTime,
		Metadata:       result.metadata,
	}
	if _, err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	if err := s.chats.UpdateStats(ctx, chat.UUID, result.usage.TotalTokens, cost); err != nil {
		return nil, err
	}
	if err := s.agents.RecordUsage(ctx, agent.UUID); err != nil {
		return nil, err
	}
	s.recordAnalytics(ctx, chat, agent, domain.AnalyticsRecord{
		Requests: 1,
		Tokens: domain.TokenUsage{
			Prompt:     result.usage.PromptTokens,
			Completion: result.usage.CompletionTokens,
			Total:      result.usage.TotalTokens,
		},
		Cost:            cost,
		AvgResponseTime: float64(responseTime),
	})
	s.exportMetrics(ctx, agent, result.usage, cost, responseTime, false)

	s.publish(events.EntityMessage, events.OpCreated, message.UUID)
	s.publish(events.EntityChat, events.OpUpdated, chat.UUID)
	s.publish(events.EntityAgent, events.OpUpdated, agent.UUID)
	return message, nil
}

// recordFailure books a failed run: one request with an error count, no
// tokens, no assistant message.
func (s *Service) recordFailure(ctx context.Context, chat *domain.Chat, agent *domain.Agent, elapsed time.Duration) {
	s.recordAnalytics(ctx, chat, agent, domain.AnalyticsRecord{
		Requests:        1,
		Errors:          1,
		AvgResponseTime: float64(elapsed.Milliseconds()),
	})
	s.exportMetrics(ctx, agent, agentscope.Usage{}, 0, elapsed.Milliseconds(), true)
}

// recordAnalytics is best-effort: a rollup failure is logged, never fatal
// to the exchange.
func (s *Service) recordAnalytics(ctx context.Context, chat *domain.Chat, agent *domain.Agent, record domain.AnalyticsRecord) {
	record.Date = time.Now().UTC().Format("2006-01-02")
	record.Provider = agent.Provider
	record.Model = agent.Model
	record.AgentID = &agent.UUID
	record.ProjectID = chat.ProjectID

	if _, err := s.analytics.Record(ctx, record); err != nil {
		s.logger.Error("recording analytics failed",
			"provider", agent.Provider, "model", agent.Model, "error", err)
		return
	}
	s.publish(events.EntityAnalytics, events.OpUpdated, "")
}

func (s *Service) exportMetrics(ctx context.Context, agent *domain.Agent, usage agentscope.Usage, cost float64, durationMS int64, isError bool) {
	if s.metrics == nil {
		return
	}
	err := s.metrics.ExportUsage(ctx, &ports.UsageMetrics{
		Provider:         agent.Provider,
		Model:            agent.Model,
		AgentID:          agent.UUID,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		CostUSD:          cost,
		DurationMS:       durationMS,
		IsError:          isError,
	})
	if err != nil {
		s.logger.Error("exporting usage metrics failed", "error", err)
	}
}

func (s *Service) publish(entity, op, uuid string) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Entity: entity, Op: op, UUID: uuid})
	}
}

// metadataCost reads the backend's cost estimate out of the response
// metadata. Absent or non-numeric means zero.
func metadataCost(metadata map[string]any) float64 {
	if metadata == nil {
		return 0
	}
	switch v := metadata["cost"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}
