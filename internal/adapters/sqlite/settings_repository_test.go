package sqlite_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/domain"
)

func TestSettingsRepository_SetGetUpsert(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewSettingsRepository(db)

	if err := repo.Set(ctx, "theme", json.RawMessage(`"dark"`), domain.SettingCategoryUser); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, err := repo.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `"dark"` {
		t.Errorf("expected \"dark\", got %s", value)
	}

	// Upsert replaces the value for an existing key.
	if err := repo.Set(ctx, "theme", json.RawMessage(`"light"`), domain.SettingCategoryUser); err != nil {
		t.Fatalf("Set (upsert) failed: %v", err)
	}
	value, err = repo.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(value) != `"light"` {
		t.Errorf("expected \"light\" after upsert, got %s", value)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected a single row after upsert, got %d", len(all))
	}
}

func TestSettingsRepository_GetMissing(t *testing.T) {
	db := testDB(t)
	repo := sqlite.NewSettingsRepository(db)

	value, err := repo.Get(context.Background(), "no-such-key")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("expected nil for missing key, got %s", value)
	}
}

func TestSettingsRepository_GetByCategory(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewSettingsRepository(db)

	if err := repo.Set(ctx, "theme", json.RawMessage(`"dark"`), domain.SettingCategoryUser); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(ctx, "language", json.RawMessage(`"en"`), domain.SettingCategoryUser); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Set(ctx, "port", json.RawMessage(`8080`), domain.SettingCategoryApp); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	user, err := repo.GetByCategory(ctx, domain.SettingCategoryUser)
	if err != nil {
		t.Fatalf("GetByCategory failed: %v", err)
	}
	if len(user) != 2 {
		t.Fatalf("expected 2 user settings, got %d", len(user))
	}
	if string(user["theme"]) != `"dark"` {
		t.Errorf("expected theme=\"dark\", got %s", user["theme"])
	}
}

func TestSettingsRepository_Delete(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewSettingsRepository(db)

	if err := repo.Set(ctx, "doomed", json.RawMessage(`true`), domain.SettingCategoryApp); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := repo.Delete(ctx, "doomed"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	value, err := repo.Get(ctx, "doomed")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != nil {
		t.Errorf("expected nil after delete, got %s", value)
	}
}
