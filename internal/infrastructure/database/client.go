// Package database opens the embedded libsql store.
package database

import (
	"context"
	"database/sql"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/agentcockpit/cockpit/internal/migrate"
)

// Open connects to the store and brings the schema to the latest version.
// No entity operation may run before Open returns; a failed upgrade is
// fatal to the caller, not silently ignored.
func Open(ctx context.Context, url, authToken string) (*sql.DB, error) {
	connStr := url
	if authToken != "" {
		connStr = url + "?authToken=" + authToken
	}

	db, err := sql.Open("libsql", connStr)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
