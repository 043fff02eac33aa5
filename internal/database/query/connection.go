// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package query wraps database/sql with a small connect/build/bind/step
// abstraction: a Connection opens and owns the pool, a Transaction scopes
// a unit of work, and a Query represents one positionally-bound statement
// stepped row by row. Modelled on the bind-then-step contract of
// Database::Query / Database::Query::Builder in the original C++
// implementation (bindInt/bindDouble/bindChars/bindBool, next/reset,
// asInt/asDouble/asString/asBool), reimplemented over database/sql + the
// DuckDB driver instead of SQLiteCpp.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
)

// runner is satisfied by both *sql.DB and *sql.Tx, letting BuildQuery work
// identically inside or outside a transaction.
type runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Connection owns a DuckDB connection pool.
type Connection struct {
	db *sql.DB
}

// Connect opens (creating if necessary) a DuckDB database at path and
// configures its connection pool.
func Connect(path string) (*Connection, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("query: create database directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("query: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(runtime.NumCPU())
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Connection{db: db}, nil
}

// Ping verifies the connection is alive.
func (c *Connection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the underlying connection pool.
func (c *Connection) Close() error {
	return c.db.Close()
}

// BuildQuery builds a Query bound to the connection's pool, outside any
// transaction.
func (c *Connection) BuildQuery(sqlText string) *Query {
	return newQuery(c.db, sqlText)
}

// Transaction begins a new unit of work. Queries built from the returned
// Transaction run inside it until Commit or Rollback is called.
func (c *Connection) Transaction(ctx context.Context) (*Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("query: begin transaction: %w", err)
	}
	return &Transaction{tx: tx}, nil
}

// Transaction scopes a sequence of queries to one atomic unit of work.
type Transaction struct {
	tx *sql.Tx
}

// BuildQuery builds a Query bound to this transaction.
func (t *Transaction) BuildQuery(sqlText string) *Query {
	return newQuery(t.tx, sqlText)
}

// Commit commits the transaction.
func (t *Transaction) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("query: commit: %w", err)
	}
	return nil
}

// Rollback aborts the transaction.
func (t *Transaction) Rollback() error {
	if err := t.tx.Rollback(); err != nil {
		return fmt.Errorf("query: rollback: %w", err)
	}
	return nil
}
