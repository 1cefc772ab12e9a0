package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agentcockpit/cockpit/internal/domain"
	"github.com/agentcockpit/cockpit/internal/util"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, uuid, name, description, system_prompt, agent_id,
	settings, members, webhooks, api_keys, status, created_at, updated_at, metadata`

func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (int64, error) {
	if project.Name == "" {
		return 0, domain.ValidationError("project name is required")
	}

	now := time.Now().UTC()
	project.UUID = uuid.NewString()
	project.Status = domain.StatusActive
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Members == nil {
		project.Members = []domain.ProjectMember{}
	}
	if project.Webhooks == nil {
		project.Webhooks = []domain.ProjectWebhook{}
	}
	if project.APIKeys == nil {
		project.APIKeys = []domain.ProjectAPIKey{}
	}

	settings, err := marshalJSON(project.Settings)
	if err != nil {
		return 0, err
	}
	members, err := marshalJSON(project.Members)
	if err != nil {
		return 0, err
	}
	webhooks, err := marshalJSON(project.Webhooks)
	if err != nil {
		return 0, err
	}
	apiKeys, err := marshalJSON(project.APIKeys)
	if err != nil {
		return 0, err
	}
	metadata, err := marshalJSONNullable(project.Metadata)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (uuid, name, description, system_prompt, agent_id,
			settings, members, webhooks, api_keys, status, created_at, updated_at, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.UUID, project.Name, project.Description,
		util.NullStringPtr(project.SystemPrompt), util.NullStringPtr(project.AgentID),
		settings, members, webhooks, apiKeys, project.Status,
		formatTime(now), formatTime(now), metadata,
	)
	if err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("project insert id: %w", err)
	}
	project.ID = id
	return id, nil
}

func (r *ProjectRepository) GetByUUID(ctx context.Context, projectUUID string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE uuid = ?`, projectUUID)
	project, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// GetAll lists active projects only; archived and deleted projects are
// reachable through GetByUUID.
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE status = ? ORDER BY id`, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func (r *ProjectRepository) Update(ctx context.Context, projectUUID string, patch domain.ProjectPatch) error {
	set := []string{"updated_at = ?"}
	args := []any{formatTime(time.Now().UTC())}

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		appendSet("name", *patch.Name)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.SystemPrompt != nil {
		appendSet("system_prompt", *patch.SystemPrompt)
	}
	if patch.AgentID != nil {
		appendSet("agent_id", *patch.AgentID)
	}
	if patch.Settings != nil {
		settings, err := marshalJSON(*patch.Settings)
		if err != nil {
			return err
		}
		appendSet("settings", settings)
	}
	if patch.Members != nil {
		members, err := marshalJSON(*patch.Members)
		if err != nil {
			return err
		}
		appendSet("members", members)
	}
	if patch.Webhooks != nil {
		webhooks, err := marshalJSON(*patch.Webhooks)
		if err != nil {
			return err
		}
		appendSet("webhooks", webhooks)
	}
	if patch.APIKeys != nil {
		apiKeys, err := marshalJSON(*patch.APIKeys)
		if err != nil {
			return err
		}
		appendSet("api_keys", apiKeys)
	}
	if patch.Metadata != nil {
		metadata, err := marshalJSONNullable(*patch.Metadata)
		if err != nil {
			return err
		}
		appendSet("metadata", metadata)
	}

	args = append(args, projectUUID)
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET `+strings.Join(set, ", ")+` WHERE uuid = ?`, args...)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return nil
}

// Archive moves the project to archived. Archiving twice is state-wise a
// no-op, though updated_at is refreshed each call.
func (r *ProjectRepository) Archive(ctx context.Context, projectUUID string) error {
	return r.setStatus(ctx, projectUUID, domain.StatusArchived)
}

// Delete soft-deletes: the row stays but leaves default listings. Chats
// referencing the project are untouched.
func (r *ProjectRepository) Delete(ctx context.Context, projectUUID string) error {
	return r.setStatus(ctx, projectUUID, domain.StatusDeleted)
}

func (r *ProjectRepository) setStatus(ctx context.Context, projectUUID, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE projects SET status = ?, updated_at = ? WHERE uuid = ?`,
		status, formatTime(time.Now().UTC()), projectUUID)
	if err != nil {
		return fmt.Errorf("set project status: %w", err)
	}
	return nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		project            domain.Project
		systemPrompt       sql.NullString
		agentID            sql.NullString
		settings, members  sql.NullString
		webhooks, apiKeys  sql.NullString
		createdAt, updated string
		metadata           sql.NullString
	)

	err := row.Scan(&project.ID, &project.UUID, &project.Name, &project.Description,
		&systemPrompt, &agentID, &settings, &members, &webhooks, &apiKeys,
		&project.Status, &createdAt, &updated, &metadata)
	if err != nil {
		return nil, err
	}

	project.SystemPrompt = util.NullStringToPtr(systemPrompt)
	project.AgentID = util.NullStringToPtr(agentID)
	unmarshalJSON(settings, &project.Settings)
	project.Members = []domain.ProjectMember{}
	unmarshalJSON(members, &project.Members)
	project.Webhooks = []domain.ProjectWebhook{}
	unmarshalJSON(webhooks, &project.Webhooks)
	project.APIKeys = []domain.ProjectAPIKey{}
	unmarshalJSON(apiKeys, &project.APIKeys)
	project.CreatedAt = parseTime(createdAt)
	project.UpdatedAt = parseTime(updated)
	unmarshalJSON(metadata, &project.Metadata)
	return &project, nil
}
