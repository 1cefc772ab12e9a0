package chat_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/agentscope"
	"github.com/agentcockpit/cockpit/internal/chat"
	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/events"
	"github.com/agentcockpit/cockpit/internal/migrate"
	"github.com/agentcockpit/cockpit/internal/ports"
)

var testDBSeq atomic.Int64

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	uri := fmt.Sprintf("file:chattest%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := sql.Open("libsql", uri)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	if err := migrate.RunAll(context.Background(), db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// fakeRunner scripts the execution backend.
type fakeRunner struct {
	response *agentscope.AgentRunResponse
	err      error
	// stream script: tokens then either complete or failMessage.
	tokens      []string
	usage       agentscope.Usage
	failMessage string
	lastRequest agentscope.AgentRunRequest
}

func (f *fakeRunner) Run(ctx context.Context, request agentscope.AgentRunRequest) (*agentscope.AgentRunResponse, error) {
	f.lastRequest = request
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeHandle struct{ done chan struct{} }

func (h *fakeHandle) Close() error          { return nil }
func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (f *fakeRunner) Stream(ctx context.Context, request agentscope.AgentRunRequest, handlers agentscope.StreamHandlers) (ports.StreamHandle, error) {
	f.lastRequest = request
	if f.err != nil {
		return nil, f.err
	}
	handle := &fakeHandle{done: make(chan struct{})}
	go func() {
		defer close(handle.done)
		for _, token := range f.tokens {
			handlers.OnToken(token)
		}
		if f.failMessage != "" {
			handlers.OnError(f.failMessage)
			return
		}
		handlers.OnComplete(f.usage, map[string]any{"cost": 0.01})
	}()
	return handle, nil
}

type fixture struct {
	agents    *sqlite.AgentRepository
	chats     *sqlite.ChatRepository
	messages  *sqlite.MessageRepository
	analytics *sqlite.AnalyticsRepository
	bus       *events.Bus
	service   *chat.Service
	agent     *domain.Agent
	chat      *domain.Chat
}

func newFixture(t *testing.T, runner ports.AgentRunner) *fixture {
	t.Helper()
	db := testDB(t)
	ctx := context.Background()

	f := &fixture{
		agents:    sqlite.NewAgentRepository(db),
		chats:     sqlite.NewChatRepository(db),
		messages:  sqlite.NewMessageRepository(db),
		analytics: sqlite.NewAnalyticsRepository(db),
		bus:       events.NewBus(),
	}
	f.service = chat.NewService(f.agents, f.chats, f.messages, f.analytics,
		runner, nil, f.bus, nil)

	f.agent = &domain.Agent{
		Name:         "Helper",
		SystemPrompt: "Be helpful.",
		Provider:     "anthropic",
		Model:        "claude-sonnet",
		Temperature:  0.7,
		MaxTokens:    2048,
	}
	if _, err := f.agents.Create(ctx, f.agent); err != nil {
		t.Fatalf("Create agent failed: %v", err)
	}
	f.chat = &domain.Chat{AgentID: f.agent.UUID, Title: "Chat"}
	if _, err := f.chats.Create(ctx, f.chat); err != nil {
		t.Fatalf("Create chat failed: %v", err)
	}
	return f
}

func TestService_Send(t *testing.T) {
	runner := &fakeRunner{
		response: &agentscope.AgentRunResponse{
			AgentID: "a1",
			Message: agentscope.ChatMessage{Role: "assistant", Content: "The answer."},
			Usage:   agentscope.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
			Metadata: map[string]any{
				"cost": 0.02,
			},
			DurationMS: 150,
		},
	}
	f := newFixture(t, runner)
	ctx := context.Background()

	exchange, err := f.service.Send(ctx, f.chat.UUID, "What is the answer?")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if exchange.UserMessage.Role != domain.RoleUser || exchange.AssistantMessage.Role != domain.RoleAssistant {
		t.Errorf("unexpected roles: %+v", exchange)
	}
	if exchange.AssistantMessage.Content != "The answer." {
		t.Errorf("unexpected reply: %q", exchange.AssistantMessage.Content)
	}
	if exchange.AssistantMessage.Tokens == nil || exchange.AssistantMessage.Tokens.Total != 30 {
		t.Errorf("expected token accounting, got %+v", exchange.AssistantMessage.Tokens)
	}

	// History sent to the backend includes the just-persisted user message.
	if len(runner.lastRequest.Messages) != 1 || runner.lastRequest.Messages[0].Content != "What is the answer?" {
		t.Errorf("unexpected wire history: %+v", runner.lastRequest.Messages)
	}
	if runner.lastRequest.SystemPrompt != "Be helpful." {
		t.Errorf("expected agent system prompt, got %q", runner.lastRequest.SystemPrompt)
	}

	// Chat totals: two messages, assistant tokens and cost.
	got, err := f.chats.GetByUUID(ctx, f.chat.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if got.MessageCount != 2 || got.TotalTokens != 30 {
		t.Errorf("expected count=2 tokens=30, got %+v", got)
	}

	// Agent usage moved.
	agent, err := f.agents.GetByUUID(ctx, f.agent.UUID)
	if err != nil {
		t.Fatalf("GetByUUID agent failed: %v", err)
	}
	if agent.UsageCount != 1 {
		t.Errorf("expected usage count 1, got %d", agent.UsageCount)
	}

	// Daily rollup recorded.
	today := time.Now().UTC().Format("2006-01-02")
	records, err := f.analytics.GetByDateRange(ctx, today, today)
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(records) != 1 || records[0].Requests != 1 || records[0].Tokens.Total != 30 {
		t.Errorf("expected one rollup with the exchange, got %+v", records)
	}
}

func TestService_SendRunFailure(t *testing.T) {
	runner := &fakeRunner{err: domain.ServiceError("backend down")}
	f := newFixture(t, runner)
	ctx := context.Background()

	_, err := f.service.Send(ctx, f.chat.UUID, "hello")
	if err == nil {
		t.Fatal("expected error")
	}

	// The user message is persisted; no assistant message exists.
	messages, err := f.messages.GetByChatID(ctx, f.chat.UUID)
	if err != nil {
		t.Fatalf("GetByChatID failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Role != domain.RoleUser {
		t.Errorf("expected only the user message, got %d", len(messages))
	}

	// The failure is booked as an analytics error.
	today := time.Now().UTC().Format("2006-01-02")
	records, err := f.analytics.GetByDateRange(ctx, today, today)
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(records) != 1 || records[0].Errors != 1 {
		t.Errorf("expected one error rollup, got %+v", records)
	}
}

func TestService_SendMissingChat(t *testing.T) {
	f := newFixture(t, &fakeRunner{})

	_, err := f.service.Send(context.Background(), "no-such-chat", "hello")
	if !domain.HasCode(err, domain.CodeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestService_SendStreaming(t *testing.T) {
	runner := &fakeRunner{
		tokens: []string{"The ", "answer."},
		usage:  agentscope.Usage{PromptTokens: 5, CompletionTokens: 10, TotalTokens: 15},
	}
	f := newFixture(t, runner)
	ctx := context.Background()

	var tokens []string
	done := make(chan *chat.Exchange, 1)
	fail := make(chan error, 1)

	handle, err := f.service.SendStreaming(ctx, f.chat.UUID, "question", chat.StreamCallbacks{
		OnToken:    func(token string) { tokens = append(tokens, token) },
		OnComplete: func(exchange *chat.Exchange) { done <- exchange },
		OnError:    func(err error) { fail <- err },
	})
	if err != nil {
		t.Fatalf("SendStreaming failed: %v", err)
	}

	select {
	case exchange := <-done:
		if exchange.AssistantMessage.Content != "The answer." {
			t.Errorf("expected accumulated content, got %q", exchange.AssistantMessage.Content)
		}
	case err := <-fail:
		t.Fatalf("stream failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("stream never completed")
	}
	<-handle.Done()

	if len(tokens) != 2 {
		t.Errorf("expected 2 tokens relayed, got %v", tokens)
	}

	messages, err := f.messages.GetByChatID(ctx, f.chat.UUID)
	if err != nil {
		t.Fatalf("GetByChatID failed: %v", err)
	}
	if len(messages) != 2 || messages[1].Content != "The answer." {
		t.Errorf("expected persisted assistant message, got %+v", messages)
	}
}

func TestService_SendStreamingErrorPersistsNothing(t *testing.T) {
	runner := &fakeRunner{
		tokens:      []string{"partial"},
		failMessage: "model overloaded",
	}
	f := newFixture(t, runner)
	ctx := context.Background()

	fail := make(chan error, 1)
	handle, err := f.service.SendStreaming(ctx, f.chat.UUID, "question", chat.StreamCallbacks{
		OnError: func(err error) { fail <- err },
	})
	if err != nil {
		t.Fatalf("SendStreaming failed: %v", err)
	}

	select {
	case err := <-fail:
		if !domain.HasCode(err, domain.CodeService) {
			t.Errorf("expected service error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("error never surfaced")
	}
	<-handle.Done()

	// The partial content is discarded.
	messages, err := f.messages.GetByChatID(ctx, f.chat.UUID)
	if err != nil {
		t.Fatalf("GetByChatID failed: %v", err)
	}
	if len(messages) != 1 || messages[0].Role != domain.RoleUser {
		t.Errorf("expected only the user message, got %d", len(messages))
	}

	today := time.Now().UTC().Format("2006-01-02")
	records, err := f.analytics.GetByDateRange(ctx, today, today)
	if err != nil {
		t.Fatalf("GetByDateRange failed: %v", err)
	}
	if len(records) != 1 || records[0].Errors != 1 {
		t.Errorf("expected one error rollup, got %+v", records)
	}
}
