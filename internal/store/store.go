// Package store owns the persisted rows for the five entity kinds and their
// auxiliary tables, backed by SQLite. All writes go through an explicit Tx;
// read-only queries are available on both Store and Tx.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Store is the SQLite-backed entity store.
type Store struct {
	db   *sql.DB
	path string
	queries
}

// Open opens (creating if necessary) the database at path and enables foreign
// key enforcement. Use ":memory:" for an in-memory database.
//
// The connection pool is capped at one connection. The editing layer assumes
// a single writer, and an in-memory database needs the cap to stay shared.
func Open(path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	if path == ":memory:" {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &Store{db: db, path: path, queries: queries{q: db}}, nil
}

// NewWithDB wraps an existing handle. Used by tests that inject failures at
// the driver level; production code goes through Open.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db, queries: queries{q: db}}
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path the store was opened with.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying handle for read-only consumers (validation rules,
// export). Mutations must go through Begin.
func (s *Store) DB() *sql.DB { return s.db }

// Begin opens a write transaction.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx, queries: queries{q: tx}}, nil
}

// Tx is one write transaction over the store. It carries the full read surface
// plus all row-level mutation helpers.
type Tx struct {
	tx *sql.Tx
	queries
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction. Safe to call after Commit.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries is the read surface shared by Store and Tx.
type queries struct {
	q querier
}
