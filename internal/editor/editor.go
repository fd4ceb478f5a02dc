// Package editor implements the mutation layer over the entity store: entity
// lifecycle operations, the relation engine that keeps inverse relation rows
// synchronized, cascading deletion, and the compound merge/split/move
// operations. Every public method runs inside exactly one transaction and
// appends audit history within that same transaction.
package editor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lexibase-labs/lexibase/internal/store"
)

// errBatchFailed aborts a batch whose scope already saw an operation error.
var errBatchFailed = errors.New("batch aborted: an earlier operation in the batch failed")

// Editor is the single service type all mutations go through. It is not safe
// for concurrent use: the design is single-writer, one editing session at a
// time.
type Editor struct {
	store     *store.Store
	log       *slog.Logger
	history   bool
	checkLang bool

	// tx is non-nil while a Batch scope is open; write collapses onto it.
	// failed marks a batch whose scope saw an operation error: the writes
	// that operation applied before failing are still in tx, so the scope
	// must roll back even if the caller swallowed the error.
	tx     *store.Tx
	failed bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.log = l }
}

// WithoutHistory disables audit-history recording. Intended for bulk loads
// where the source data is its own record.
func WithoutHistory() Option {
	return func(e *Editor) { e.history = false }
}

// WithoutLanguageCheck disables BCP-47 validation of language tags.
func WithoutLanguageCheck() Option {
	return func(e *Editor) { e.checkLang = false }
}

// New creates an Editor over the store.
func New(s *store.Store, opts ...Option) *Editor {
	e := &Editor{
		store:     s,
		log:       slog.Default(),
		history:   true,
		checkLang: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the underlying store, for read-only lookups beside the editor.
func (e *Editor) Store() *store.Store { return e.store }

// write runs fn inside the ambient batch transaction if one is open, else in
// a fresh transaction that commits on success and rolls back on any error.
// A caller therefore observes either the complete effect of an operation or
// none of it.
func (e *Editor) write(ctx context.Context, op string, fn func(tx *store.Tx) error) error {
	if e.tx != nil {
		// Inside a batch only the outermost scope commits or rolls back.
		if e.failed {
			return errBatchFailed
		}
		if err := fn(e.tx); err != nil {
			e.failed = true
			return err
		}
		return nil
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			e.log.Error("rollback failed", "op", op, "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.log.Debug("mutation committed", "op", op)
	return nil
}

// Batch groups several public mutation calls into one outer transaction.
// Nested batches collapse onto the outermost scope; only it commits or rolls
// back. Any error returned by fn aborts the whole group, as does an operation
// failure inside the scope even when fn swallows its error.
func (e *Editor) Batch(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.tx != nil {
		return fn(ctx)
	}

	tx, err := e.store.Begin(ctx)
	if err != nil {
		return err
	}
	e.tx = tx
	e.failed = false
	defer func() { e.tx = nil; e.failed = false }()

	err = fn(ctx)
	if err == nil && e.failed {
		// An operation inside the batch failed but the callback swallowed
		// its error. The transaction holds that operation's partial writes,
		// so committing would expose them.
		err = errBatchFailed
	}
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			e.log.Error("batch rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.log.Debug("batch committed")
	return nil
}
