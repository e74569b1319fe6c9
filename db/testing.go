package db

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewTestDB opens an isolated in-memory sqlite database with the full schema
// applied. The single-connection pool keeps every query on the same in-memory
// store.
func NewTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	tdb := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = tdb.Close() })

	if err := CreateTables(context.Background(), tdb); err != nil {
		t.Fatalf("create tables: %v", err)
	}

	return tdb
}
