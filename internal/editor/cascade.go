package editor

import (
	"context"
	"fmt"

	"github.com/lexibase-labs/lexibase/internal/store"
	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// DeleteOption adjusts how deletion handles dependents.
type DeleteOption func(*deleteConfig)

type deleteConfig struct {
	cascade bool
}

// Cascade makes the delete take its dependents down with it instead of
// refusing when dependents exist.
func Cascade() DeleteOption {
	return func(c *deleteConfig) { c.cascade = true }
}

func newDeleteConfig(opts []DeleteOption) deleteConfig {
	c := deleteConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// DeleteSense removes a sense, its incident relations (with their inverses),
// and its examples, counts and frames. If the sense was the last one in its
// synset, the synset drops back to unlexicalized. A sense has no dependents
// of its own, so there is no cascade flag.
func (e *Editor) DeleteSense(ctx context.Context, id int64) error {
	return e.write(ctx, "delete_sense", func(tx *store.Tx) error {
		return e.deleteSense(ctx, tx, id)
	})
}

func (e *Editor) deleteSense(ctx context.Context, tx *store.Tx, id int64) error {
	sense, err := tx.GetSense(ctx, id)
	if err != nil {
		return err
	}

	// Drop every relation touching the sense, including edges where it is
	// the target of another sense's relation.
	rels, err := tx.SenseRelationsTouching(ctx, id)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if err := tx.DeleteSenseRelationRow(ctx, rel.ID); err != nil {
			return err
		}
		if err := e.recordRelation(ctx, tx, wordnet.KindSense, rel.SourceID, rel.Type, rel.TargetID, wordnet.OpDelete); err != nil {
			return err
		}
	}
	srels, err := tx.SenseSynsetRelationsFrom(ctx, id)
	if err != nil {
		return err
	}
	for _, rel := range srels {
		if err := tx.DeleteSenseSynsetRelationRow(ctx, rel.ID); err != nil {
			return err
		}
		if err := e.recordRelation(ctx, tx, wordnet.KindSense, rel.SourceID, rel.Type, rel.TargetID, wordnet.OpDelete); err != nil {
			return err
		}
	}

	if err := tx.DeleteSenseChildren(ctx, id); err != nil {
		return err
	}
	if err := tx.DeleteSenseRow(ctx, id); err != nil {
		return err
	}
	if err := e.recordDelete(ctx, tx, wordnet.KindSense, id, sense.BareID); err != nil {
		return err
	}

	// The owning synset may have just lost its last member.
	remaining, err := tx.CountSensesBySynset(ctx, sense.SynsetID)
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := tx.SetSynsetLexicalized(ctx, sense.SynsetID, false); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSynset removes a synset. Without Cascade it refuses with a
// DependencyError when the synset still has senses; with Cascade those
// senses are deleted first, each through the full sense path. Relations
// touching the synset go in both cases, as do definitions, examples and
// any proposed interlingual mapping.
func (e *Editor) DeleteSynset(ctx context.Context, id int64, opts ...DeleteOption) error {
	cfg := newDeleteConfig(opts)
	return e.write(ctx, "delete_synset", func(tx *store.Tx) error {
		syn, err := tx.GetSynset(ctx, id)
		if err != nil {
			return err
		}

		senses, err := tx.SensesBySynset(ctx, id)
		if err != nil {
			return err
		}
		if len(senses) > 0 && !cfg.cascade {
			return &wordnet.DependencyError{Kind: wordnet.KindSynset, ID: id, Dependents: len(senses)}
		}
		for _, s := range senses {
			if err := e.deleteSense(ctx, tx, s.ID); err != nil {
				return err
			}
		}
		return e.deleteSynsetNode(ctx, tx, syn)
	})
}

// deleteSynsetNode removes a synset that has no senses left: its relations,
// children and finally the row itself.
func (e *Editor) deleteSynsetNode(ctx context.Context, tx *store.Tx, syn *wordnet.Synset) error {
	rels, err := tx.SynsetRelationsTouching(ctx, syn.ID)
	if err != nil {
		return err
	}
	for _, rel := range rels {
		if err := tx.DeleteSynsetRelationRow(ctx, rel.ID); err != nil {
			return err
		}
		if err := e.recordRelation(ctx, tx, wordnet.KindSynset, rel.SourceID, rel.Type, rel.TargetID, wordnet.OpDelete); err != nil {
			return err
		}
	}
	srels, err := tx.SenseSynsetRelationsTo(ctx, syn.ID)
	if err != nil {
		return err
	}
	for _, rel := range srels {
		if err := tx.DeleteSenseSynsetRelationRow(ctx, rel.ID); err != nil {
			return err
		}
		if err := e.recordRelation(ctx, tx, wordnet.KindSense, rel.SourceID, rel.Type, rel.TargetID, wordnet.OpDelete); err != nil {
			return err
		}
	}

	if err := tx.DeleteSynsetChildren(ctx, syn.ID); err != nil {
		return err
	}
	if err := tx.DeleteSynsetRow(ctx, syn.ID); err != nil {
		return err
	}
	return e.recordDelete(ctx, tx, wordnet.KindSynset, syn.ID, syn.BareID)
}

// DeleteEntry removes an entry and its forms. Without Cascade it refuses
// with a DependencyError when the entry still has senses.
func (e *Editor) DeleteEntry(ctx context.Context, id int64, opts ...DeleteOption) error {
	cfg := newDeleteConfig(opts)
	return e.write(ctx, "delete_entry", func(tx *store.Tx) error {
		entry, err := tx.GetEntry(ctx, id)
		if err != nil {
			return err
		}

		senses, err := tx.SensesByEntry(ctx, id)
		if err != nil {
			return err
		}
		if len(senses) > 0 && !cfg.cascade {
			return &wordnet.DependencyError{Kind: wordnet.KindEntry, ID: id, Dependents: len(senses)}
		}
		for _, s := range senses {
			if err := e.deleteSense(ctx, tx, s.ID); err != nil {
				return err
			}
		}

		if err := tx.DeleteFormsByEntry(ctx, id); err != nil {
			return err
		}
		if err := tx.DeleteEntryRow(ctx, id); err != nil {
			return err
		}
		return e.recordDelete(ctx, tx, wordnet.KindEntry, id, entry.BareID)
	})
}

// DeleteLexicon removes a lexicon and everything it contains. This is always
// a cascade; a lexicon is the unit of ownership, so there is no refusal path.
func (e *Editor) DeleteLexicon(ctx context.Context, id int64) error {
	return e.write(ctx, "delete_lexicon", func(tx *store.Tx) error {
		lex, err := tx.GetLexicon(ctx, id)
		if err != nil {
			return err
		}

		entries, err := tx.EntriesByLexicon(ctx, id)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			senses, err := tx.SensesByEntry(ctx, entry.ID)
			if err != nil {
				return err
			}
			for _, s := range senses {
				if err := e.deleteSense(ctx, tx, s.ID); err != nil {
					return err
				}
			}
			if err := tx.DeleteFormsByEntry(ctx, entry.ID); err != nil {
				return err
			}
			if err := tx.DeleteEntryRow(ctx, entry.ID); err != nil {
				return err
			}
			if err := e.recordDelete(ctx, tx, wordnet.KindEntry, entry.ID, entry.BareID); err != nil {
				return err
			}
		}

		synsets, err := tx.SynsetsByLexicon(ctx, id)
		if err != nil {
			return err
		}
		for _, syn := range synsets {
			if err := e.deleteSynsetNode(ctx, tx, syn); err != nil {
				return err
			}
		}

		if err := tx.DeleteLexiconRow(ctx, id); err != nil {
			return err
		}
		return e.recordDelete(ctx, tx, wordnet.KindLexicon, id, lex.Specifier())
	})
}

// emptySynsetCheck asserts a synset has no senses before a structural delete.
// Compound operations call it after rehoming members; a nonzero count there
// means a bug, not user error.
func emptySynsetCheck(ctx context.Context, tx *store.Tx, id int64) error {
	n, err := tx.CountSensesBySynset(ctx, id)
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("synset %d still has %d senses after rehoming", id, n)
	}
	return nil
}
