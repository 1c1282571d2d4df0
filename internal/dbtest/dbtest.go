// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/Simplici0/printdesk/internal/db"
	"github.com/Simplici0/printdesk/internal/migrations"
)

// Open returns an in-memory database with every migration applied. It is
// closed when the test ends.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database.DB); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}
