// Package dbx holds the minimal database/sql surface the SQLite store is
// written against, so the store runs on a *sql.DB, a *sql.Tx or a sqlmock
// connection alike.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the kv store.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
