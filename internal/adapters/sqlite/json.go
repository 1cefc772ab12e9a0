// Package sqlite implements the store repositories over the embedded
// libsql database. Structured fields (tags, members, attachments,
// metadata) are persisted as JSON text columns; times as RFC 3339 text.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const timeFormat = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func formatTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

// marshalJSON encodes v for a NOT NULL JSON column.
func marshalJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(raw), nil
}

// marshalJSONNullable encodes v for a nullable JSON column; nil maps become
// NULL rather than "null" text.
func marshalJSONNullable(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal json column: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

// unmarshalJSON decodes a JSON column into out, tolerating NULL.
func unmarshalJSON(ns sql.NullString, out any) {
	if !ns.Valid || ns.String == "" {
		return
	}
	_ = json.Unmarshal([]byte(ns.String), out)
}

func nullID(id int64) sql.NullInt64 {
	if id == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id, Valid: true}
}
