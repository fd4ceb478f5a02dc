package editor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lexibase-labs/lexibase/internal/store"
	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// record appends one audit row inside the active transaction. Every mutation
// calls this explicitly; there is no ambient interception layer.
func (e *Editor) record(ctx context.Context, tx *store.Tx, kind wordnet.EntityKind, entityID int64,
	field string, op wordnet.HistoryOp, oldValue, newValue string) error {
	if !e.history {
		return nil
	}
	return tx.InsertHistory(ctx, &wordnet.HistoryRecord{
		ID:         uuid.New().String(),
		EntityKind: kind,
		EntityID:   entityID,
		Field:      field,
		Op:         op,
		OldValue:   oldValue,
		NewValue:   newValue,
		CreatedAt:  time.Now().UTC(),
	})
}

// recordCreate appends a creation row (no field, no old value).
func (e *Editor) recordCreate(ctx context.Context, tx *store.Tx, kind wordnet.EntityKind, entityID int64, newValue string) error {
	return e.record(ctx, tx, kind, entityID, "", wordnet.OpCreate, "", newValue)
}

// recordDelete appends a deletion row (no field, no new value).
func (e *Editor) recordDelete(ctx context.Context, tx *store.Tx, kind wordnet.EntityKind, entityID int64, oldValue string) error {
	return e.record(ctx, tx, kind, entityID, "", wordnet.OpDelete, oldValue, "")
}

// recordUpdate appends one row per changed field.
func (e *Editor) recordUpdate(ctx context.Context, tx *store.Tx, kind wordnet.EntityKind, entityID int64, field, oldValue, newValue string) error {
	return e.record(ctx, tx, kind, entityID, field, wordnet.OpUpdate, oldValue, newValue)
}
