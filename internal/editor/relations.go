package editor

import (
	"context"
	"fmt"

	"github.com/lexibase-labs/lexibase/internal/store"
	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// RelationOption adjusts how a single relation mutation behaves.
type RelationOption func(*relationConfig)

type relationConfig struct {
	autoInverse bool
}

// WithoutInverse disables automatic maintenance of the paired inverse
// relation for one call. Bulk loaders use it when the source data already
// carries both directions.
func WithoutInverse() RelationOption {
	return func(c *relationConfig) { c.autoInverse = false }
}

func newRelationConfig(opts []RelationOption) relationConfig {
	c := relationConfig{autoInverse: true}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func checkRelType(v *wordnet.Vocabulary, typ wordnet.RelType) error {
	if !v.Contains(typ) {
		return &wordnet.InvariantError{Detail: fmt.Sprintf("unknown %s relation type %q", v.Name(), typ)}
	}
	return nil
}

// AddSynsetRelation links two synsets. The type must belong to the synset
// vocabulary and the endpoints must differ. When the type has an inverse and
// auto-inverse is on, the paired edge is created in the same transaction.
// Re-adding an existing relation is a no-op.
func (e *Editor) AddSynsetRelation(ctx context.Context, sourceID int64, typ wordnet.RelType, targetID int64, opts ...RelationOption) error {
	if err := checkRelType(wordnet.SynsetRelations, typ); err != nil {
		return err
	}
	if sourceID == targetID {
		return &wordnet.InvariantError{Detail: "a synset cannot be related to itself"}
	}
	cfg := newRelationConfig(opts)

	return e.write(ctx, "add_synset_relation", func(tx *store.Tx) error {
		if _, err := tx.GetSynset(ctx, sourceID); err != nil {
			return err
		}
		if _, err := tx.GetSynset(ctx, targetID); err != nil {
			return err
		}
		added, err := e.addEdge(ctx, tx.SynsetRelationExists, tx.InsertSynsetRelation, sourceID, typ, targetID)
		if err != nil {
			return err
		}
		if added {
			if err := e.recordRelation(ctx, tx, wordnet.KindSynset, sourceID, typ, targetID, wordnet.OpCreate); err != nil {
				return err
			}
		}
		if !cfg.autoInverse {
			return nil
		}
		inv, ok := wordnet.SynsetRelations.Inverse(typ)
		if !ok {
			return nil
		}
		added, err = e.addEdge(ctx, tx.SynsetRelationExists, tx.InsertSynsetRelation, targetID, inv, sourceID)
		if err != nil {
			return err
		}
		if added {
			return e.recordRelation(ctx, tx, wordnet.KindSynset, targetID, inv, sourceID, wordnet.OpCreate)
		}
		return nil
	})
}

// RemoveSynsetRelation deletes a synset relation and, unless disabled, its
// paired inverse. Removing a relation that does not exist is a no-op.
func (e *Editor) RemoveSynsetRelation(ctx context.Context, sourceID int64, typ wordnet.RelType, targetID int64, opts ...RelationOption) error {
	if err := checkRelType(wordnet.SynsetRelations, typ); err != nil {
		return err
	}
	cfg := newRelationConfig(opts)

	return e.write(ctx, "remove_synset_relation", func(tx *store.Tx) error {
		removed, err := tx.DeleteSynsetRelation(ctx, sourceID, typ, targetID)
		if err != nil {
			return err
		}
		if removed {
			if err := e.recordRelation(ctx, tx, wordnet.KindSynset, sourceID, typ, targetID, wordnet.OpDelete); err != nil {
				return err
			}
		}
		if !cfg.autoInverse {
			return nil
		}
		inv, ok := wordnet.SynsetRelations.Inverse(typ)
		if !ok {
			return nil
		}
		removed, err = tx.DeleteSynsetRelation(ctx, targetID, inv, sourceID)
		if err != nil {
			return err
		}
		if removed {
			return e.recordRelation(ctx, tx, wordnet.KindSynset, targetID, inv, sourceID, wordnet.OpDelete)
		}
		return nil
	})
}

// AddSenseRelation links two senses. The sense vocabulary has its own inverse
// pairings; types shared with the synset vocabulary may pair differently
// here.
func (e *Editor) AddSenseRelation(ctx context.Context, sourceID int64, typ wordnet.RelType, targetID int64, opts ...RelationOption) error {
	if err := checkRelType(wordnet.SenseRelations, typ); err != nil {
		return err
	}
	if sourceID == targetID {
		return &wordnet.InvariantError{Detail: "a sense cannot be related to itself"}
	}
	cfg := newRelationConfig(opts)

	return e.write(ctx, "add_sense_relation", func(tx *store.Tx) error {
		if _, err := tx.GetSense(ctx, sourceID); err != nil {
			return err
		}
		if _, err := tx.GetSense(ctx, targetID); err != nil {
			return err
		}
		added, err := e.addEdge(ctx, tx.SenseRelationExists, tx.InsertSenseRelation, sourceID, typ, targetID)
		if err != nil {
			return err
		}
		if added {
			if err := e.recordRelation(ctx, tx, wordnet.KindSense, sourceID, typ, targetID, wordnet.OpCreate); err != nil {
				return err
			}
		}
		if !cfg.autoInverse {
			return nil
		}
		inv, ok := wordnet.SenseRelations.Inverse(typ)
		if !ok {
			return nil
		}
		added, err = e.addEdge(ctx, tx.SenseRelationExists, tx.InsertSenseRelation, targetID, inv, sourceID)
		if err != nil {
			return err
		}
		if added {
			return e.recordRelation(ctx, tx, wordnet.KindSense, targetID, inv, sourceID, wordnet.OpCreate)
		}
		return nil
	})
}

// RemoveSenseRelation deletes a sense relation and, unless disabled, its
// paired inverse.
func (e *Editor) RemoveSenseRelation(ctx context.Context, sourceID int64, typ wordnet.RelType, targetID int64, opts ...RelationOption) error {
	if err := checkRelType(wordnet.SenseRelations, typ); err != nil {
		return err
	}
	cfg := newRelationConfig(opts)

	return e.write(ctx, "remove_sense_relation", func(tx *store.Tx) error {
		removed, err := tx.DeleteSenseRelation(ctx, sourceID, typ, targetID)
		if err != nil {
			return err
		}
		if removed {
			if err := e.recordRelation(ctx, tx, wordnet.KindSense, sourceID, typ, targetID, wordnet.OpDelete); err != nil {
				return err
			}
		}
		if !cfg.autoInverse {
			return nil
		}
		inv, ok := wordnet.SenseRelations.Inverse(typ)
		if !ok {
			return nil
		}
		removed, err = tx.DeleteSenseRelation(ctx, targetID, inv, sourceID)
		if err != nil {
			return err
		}
		if removed {
			return e.recordRelation(ctx, tx, wordnet.KindSense, targetID, inv, sourceID, wordnet.OpDelete)
		}
		return nil
	})
}

// AddSenseSynsetRelation links a sense to a synset, typically a domain
// classification. No type in this vocabulary has an inverse, so no paired
// edge is ever created.
func (e *Editor) AddSenseSynsetRelation(ctx context.Context, senseID int64, typ wordnet.RelType, synsetID int64) error {
	if err := checkRelType(wordnet.SenseSynsetRelations, typ); err != nil {
		return err
	}
	return e.write(ctx, "add_sense_synset_relation", func(tx *store.Tx) error {
		if _, err := tx.GetSense(ctx, senseID); err != nil {
			return err
		}
		if _, err := tx.GetSynset(ctx, synsetID); err != nil {
			return err
		}
		exists, err := tx.SenseSynsetRelationExists(ctx, senseID, typ, synsetID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		if err := tx.InsertSenseSynsetRelation(ctx, senseID, typ, synsetID); err != nil {
			return err
		}
		return e.recordRelation(ctx, tx, wordnet.KindSense, senseID, typ, synsetID, wordnet.OpCreate)
	})
}

// RemoveSenseSynsetRelation deletes a sense-to-synset relation. Removing a
// relation that does not exist is a no-op.
func (e *Editor) RemoveSenseSynsetRelation(ctx context.Context, senseID int64, typ wordnet.RelType, synsetID int64) error {
	if err := checkRelType(wordnet.SenseSynsetRelations, typ); err != nil {
		return err
	}
	return e.write(ctx, "remove_sense_synset_relation", func(tx *store.Tx) error {
		removed, err := tx.DeleteSenseSynsetRelation(ctx, senseID, typ, synsetID)
		if err != nil {
			return err
		}
		if !removed {
			return nil
		}
		return e.recordRelation(ctx, tx, wordnet.KindSense, senseID, typ, synsetID, wordnet.OpDelete)
	})
}

type existsFn func(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) (bool, error)
type insertFn func(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) error

// addEdge inserts a single directed edge if absent. It reports whether an
// insert happened so callers only record history for real changes.
func (e *Editor) addEdge(ctx context.Context, exists existsFn, insert insertFn, src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	present, err := exists(ctx, src, typ, tgt)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}
	if err := insert(ctx, src, typ, tgt); err != nil {
		return false, err
	}
	return true, nil
}

// recordRelation writes a history row for a relation change. The field names
// the relation type; old/new carry the endpoints as "source->target".
func (e *Editor) recordRelation(ctx context.Context, tx *store.Tx, kind wordnet.EntityKind, src int64, typ wordnet.RelType, tgt int64, op wordnet.HistoryOp) error {
	edge := fmt.Sprintf("%d->%d", src, tgt)
	old, now := "", edge
	if op == wordnet.OpDelete {
		old, now = edge, ""
	}
	return e.record(ctx, tx, kind, src, "relation:"+string(typ), op, old, now)
}
