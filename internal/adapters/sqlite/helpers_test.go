package sqlite_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/agentcockpit/cockpit/internal/migrate"
)

var testDBSeq atomic.Int64

// testDB opens a fresh named in-memory database. The name keeps tests
// that hold two databases at once (snapshot round trips) isolated.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	uri := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := sql.Open("libsql", uri)
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	ctx := context.Background()
	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}
