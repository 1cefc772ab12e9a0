package sqlite_test

import (
	"context"
	"testing"

	"github.com/agentcockpit/cockpit/internal/adapters/sqlite"
	"github.com/agentcockpit/cockpit/internal/domain"
)

func TestProjectRepository_CreateAndGet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewProjectRepository(db)

	project := &domain.Project{
		Name:        "Research",
		Description: "Research workspace",
		Settings: domain.ProjectSettings{
			Provider:    "anthropic",
			Model:       "claude-sonnet",
			Temperature: 0.5,
		},
	}
	if _, err := repo.Create(ctx, project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if project.Status != domain.StatusActive {
		t.Errorf("expected active status, got %s", project.Status)
	}

	got, err := repo.GetByUUID(ctx, project.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if got.Name != "Research" || got.Settings.Model != "claude-sonnet" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Members == nil || got.Webhooks == nil || got.APIKeys == nil {
		t.Error("expected empty slices, not nil")
	}
}

func TestProjectRepository_GetAllActiveOnly(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewProjectRepository(db)

	active := &domain.Project{Name: "Active"}
	archived := &domain.Project{Name: "Archived"}
	deleted := &domain.Project{Name: "Deleted"}
	for _, p := range []*domain.Project{active, archived, deleted} {
		if _, err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	if err := repo.Archive(ctx, archived.UUID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if err := repo.Delete(ctx, deleted.UUID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 || all[0].UUID != active.UUID {
		t.Errorf("expected only the active project, got %d", len(all))
	}

	// Archived and deleted rows stay reachable by uuid.
	got, err := repo.GetByUUID(ctx, deleted.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if got == nil || got.Status != domain.StatusDeleted {
		t.Errorf("expected soft-deleted row, got %+v", got)
	}
}

func TestProjectRepository_ArchiveTwice(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewProjectRepository(db)

	project := &domain.Project{Name: "P"}
	if _, err := repo.Create(ctx, project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Archive(ctx, project.UUID); err != nil {
		t.Fatalf("first Archive failed: %v", err)
	}
	if err := repo.Archive(ctx, project.UUID); err != nil {
		t.Fatalf("second Archive failed: %v", err)
	}

	got, err := repo.GetByUUID(ctx, project.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if got.Status != domain.StatusArchived {
		t.Errorf("expected archived, got %s", got.Status)
	}
}

func TestProjectRepository_UpdateMembers(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := sqlite.NewProjectRepository(db)

	project := &domain.Project{Name: "P"}
	if _, err := repo.Create(ctx, project); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	members := []domain.ProjectMember{{UserID: "u1", Role: "owner"}}
	if err := repo.Update(ctx, project.UUID, domain.ProjectPatch{Members: &members}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByUUID(ctx, project.UUID)
	if err != nil {
		t.Fatalf("GetByUUID failed: %v", err)
	}
	if len(got.Members) != 1 || got.Members[0].UserID != "u1" {
		t.Errorf("expected one member u1, got %+v", got.Members)
	}
}
