// Package testutil provides shared helpers for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/sqlgate/sqlgate/pkg/sqlite"
)

// OpenDB opens an in-memory SQLite database, runs the given setup statements,
// and registers cleanup with t. The single-connection pool keeps the memory
// database alive for the duration of the test.
func OpenDB(t *testing.T, stmts ...string) *sqlite.DB {
	t.Helper()

	db, err := sqlite.Open(sqlite.Config{Path: ":memory:", BusyTimeout: 1})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			t.Fatalf("setup statement %q: %v", stmt, err)
		}
	}

	return db
}
