package sqlite_test

import (
	"context"
	"testing"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/domain"
)

func TestMessageRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewMessageRepository(db)

	provider := "anthropic"
	model := "claude-sonnet"
	cost := 0.0042
	responseTime := int64(950)
	message := &domain.Message{
		ChatID:   "chat-1",
		Role:     domain.RoleAssistant,
		Content:  "Here is the answer.",
		Provider: &provider,
		Model:    &model,
		Tokens: &domain.TokenUsage{
			Prompt:     120,
			Completion: 80,
			Total:      200,
		},
		Cost:           &cost,
		ResponseTimeMS: &responseTime,
		Attachments: []domain.Attachment{
			{Type: "file", Name: "notes.txt", URL: "file:///notes.txt", Size: 128},
		},
	}
	if _, err := repo.Create(ctx, message); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByUUID(ctx, message.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if got.Content != message.Content || got.Role != domain.RoleAssistant {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Tokens == nil || got.Tokens.Total != 200 {
		t.Errorf("expected token usage 200, got %+v", got.Tokens)
	}
	if got.Cost == nil || *got.Cost != cost {
		t.Errorf("expected cost %v, got %v", cost, got.Cost)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].Name != "notes.txt" {
		t.Errorf("expected one attachment, got %+v", got.Attachments)
	}
}

func TestMessageRepository_CreateValidation(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewMessageRepository(db)

	_, err := repo.Create(ctx, &domain.Message{Role: domain.RoleUser, Content: "x"})
	if !domain.HasCode(err, domain.CodeValidation) {
		t.Errorf("expected validation error for missing chat id, got %v", err)
	}

	_, err = repo.Create(ctx, &domain.Message{ChatID: "chat-1", Role: "robot", Content: "x"})
	if !domain.HasCode(err, domain.CodeValidation) {
		t.Errorf("expected validation error for bad role, got %v", err)
	}
}

func TestMessageRepository_GetByChatIDOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewMessageRepository(db)

	contents := []string{"first", "second", "third"}
	for _, c := range contents {
		message := &domain.Message{ChatID: "chat-1", Role: domain.RoleUser, Content: c}
		if _, err := repo.Create(ctx, message); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	// A message in another chat must not leak into the listing.
	other := &domain.Message{ChatID: "chat-2", Role: domain.RoleUser, Content: "elsewhere"}
	if _, err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	messages, err := repo.GetByChatID(ctx, "chat-1")
	if err != nil {
		t.Fatalf("GetByChatID failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, c := range contents {
		if messages[i].Content != c {
			t.Errorf("position %d: expected %q, got %q", i, c, messages[i].Content)
		}
	}
}

func TestMessageRepository_UpdateContent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewMessageRepository(db)

	message := &domain.Message{ChatID: "chat-1", Role: domain.RoleUser, Content: "typo"}
	if _, err := repo.Create(ctx, message); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.UpdateContent(ctx, message.UUID, "fixed"); err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}

	got, err := repo.GetByUUID(ctx, message.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if got.Content != "fixed" {
		t.Errorf("expected edited content, got %q", got.Content)
	}
}

func TestMessageRepository_SetFeedback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewMessageRepository(db)

	message := &domain.Message{ChatID: "chat-1", Role: domain.RoleAssistant, Content: "reply"}
	if _, err := repo.Create(ctx, message); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	feedback := domain.Feedback{Rating: "positive", Comment: "helpful"}
	if err := repo.SetFeedback(ctx, message.UUID, feedback); err != nil {
		t.Fatalf("SetFeedback failed: %v", err)
	}

	got, err := repo.GetByUUID(ctx, message.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if got.Feedback == nil || got.Feedback.Rating != "positive" || got.Feedback.Comment != "helpful" {
		t.Errorf("expected feedback round trip, got %+v", got.Feedback)
	}
}
