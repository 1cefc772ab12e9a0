package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agentcockpit/cockpit/internal/domain"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the raw JSON value, or (nil, nil) for a missing key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return json.RawMessage(value), nil
}

// Set upserts; the category is replaced along with the value when the key
// already exists.
func (r *SettingsRepository) Set(ctx context.Context, key string, value json.RawMessage, category string) error {
	if key == "" {
		return domain.ValidationError("setting key is required")
	}
	if category == "" {
		category = domain.SettingCategoryApp
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, category, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			category = excluded.category,
			updated_at = excluded.updated_at`,
		key, string(value), category, formatTime(time.Now().UTC()))
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

func (r *SettingsRepository) GetByCategory(ctx context.Context, category string) (map[string]json.RawMessage, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE category = ?`, category)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = json.RawMessage(value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	return nil
}

func (r *SettingsRepository) GetAll(ctx context.Context) ([]*domain.Setting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, key, value, category, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var settings []*domain.Setting
	for rows.Next() {
		var (
			setting   domain.Setting
			value     string
			updatedAt string
		)
		if err := rows.Scan(&setting.ID, &setting.Key, &value, &setting.Category, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		setting.Value = json.RawMessage(value)
		setting.UpdatedAt = parseTime(updatedAt)
		settings = append(settings, &setting)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, nil
}
