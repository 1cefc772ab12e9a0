package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/domain"
)

func TestSnapshotStore_RoundTrip(t *testing.T) {
	source := testDB(t)
	ctx := context.Background()

	agents := sqlite.NewAgentRepository(source)
	chats := sqlite.NewChatRepository(source)
	messages := sqlite.NewMessageRepository(source)
	analytics := sqlite.NewAnalyticsRepository(source)
	settings := sqlite.NewSettingsRepository(source)

	agent := &domain.Agent{Name: "Agent", Provider: "anthropic", Model: "claude", Tags: []string{"a"}}
	if _, err := agents.Create(ctx, agent); err != nil {
		t.Fatalf("Create agent failed: %v", err)
	}
	chat := &domain.Chat{AgentID: agent.UUID, Title: "Chat"}
	if _, err := chats.Create(ctx, chat); err != nil {
		t.Fatalf("Create chat failed: %v", err)
	}
	message := &domain.Message{ChatID: chat.UUID, Role: domain.RoleUser, Content: "hi"}
	if _, err := messages.Create(ctx, message); err != nil {
		t.Fatalf("Create message failed: %v", err)
	}
	record := domain.AnalyticsRecord{Date: "2026-08-28", Provider: "anthropic", Model: "claude", Requests: 1}
	if _, err := analytics.Record(ctx, record); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := settings.Set(ctx, "theme", json.RawMessage(`"dark"`), domain.SettingCategoryUser); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	snapshot, err := sqlite.NewSnapshotStore(source).Export(ctx)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(snapshot.Agents) != 1 || len(snapshot.Chats) != 1 || len(snapshot.Messages) != 1 ||
		len(snapshot.Analytics) != 1 || len(snapshot.Settings) != 1 {
		t.Fatalf("unexpected snapshot sizes: %+v", snapshot)
	}
	if snapshot.ExportedAt.IsZero() {
		t.Error("expected exportedAt to be stamped")
	}

	// A snapshot must survive the JSON round trip the export file takes.
	raw, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot failed: %v", err)
	}
	var decoded domain.Snapshot
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal snapshot failed: %v", err)
	}

	target := testDB(t)
	if err := sqlite.NewSnapshotStore(target).Import(ctx, &decoded); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	reexport, err := sqlite.NewSnapshotStore(target).Export(ctx)
	if err != nil {
		t.Fatalf("re-Export failed: %v", err)
	}

	if len(reexport.Agents) != 1 {
		t.Fatalf("expected 1 agent after import, got %d", len(reexport.Agents))
	}
	got := reexport.Agents[0]
	if got.UUID != agent.UUID {
		t.Errorf("uuid not preserved: %s vs %s", got.UUID, agent.UUID)
	}
	if !got.CreatedAt.Equal(agent.CreatedAt) {
		t.Errorf("createdAt not preserved: %v vs %v", got.CreatedAt, agent.CreatedAt)
	}
	if reexport.Chats[0].UUID != chat.UUID || reexport.Messages[0].UUID != message.UUID {
		t.Error("chat or message uuid not preserved")
	}
	if reexport.Analytics[0].Requests != 1 || reexport.Settings[0].Key != "theme" {
		t.Error("analytics or settings not preserved")
	}
}

func TestSnapshotStore_ImportRollsBackOnConflict(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	agents := sqlite.NewAgentRepository(db)
	existing := &domain.Agent{Name: "Existing", Provider: "anthropic", Model: "claude"}
	if _, err := agents.Create(ctx, existing); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Second snapshot entry collides with the existing uuid; the whole
	// import must roll back, including the first entry.
	snapshot := &domain.Snapshot{
		Agents: []domain.Agent{
			{UUID: "fresh-uuid", Name: "Fresh", Provider: "p", Model: "m", Tags: []string{}},
			{UUID: existing.UUID, Name: "Clash", Provider: "p", Model: "m", Tags: []string{}},
		},
	}
	if err := sqlite.NewSnapshotStore(db).Import(ctx, snapshot); err == nil {
		t.Fatal("expected import to fail on uuid conflict")
	}

	all, err := agents.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 || all[0].UUID != existing.UUID {
		t.Errorf("expected only the pre-existing agent after rollback, got %d", len(all))
	}
}
