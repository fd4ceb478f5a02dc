package editor

import (
	"context"
	"fmt"

	"github.com/lexibase-labs/lexibase/internal/store"
	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// MergeSynsets folds the source synset into the target. Senses move over,
// relations touching the source are redirected (dropping edges that would
// duplicate an existing target relation or loop back onto the target),
// definitions and examples are appended, and the emptied source is deleted.
// If both synsets carry an interlingual mapping the merge aborts with a
// ConflictError; the caller must decide which mapping wins first.
func (e *Editor) MergeSynsets(ctx context.Context, sourceID, targetID int64) (*wordnet.Synset, error) {
	if sourceID == targetID {
		return nil, &wordnet.InvariantError{Detail: "cannot merge a synset into itself"}
	}

	var target *wordnet.Synset
	err := e.write(ctx, "merge_synsets", func(tx *store.Tx) error {
		source, err := tx.GetSynset(ctx, sourceID)
		if err != nil {
			return err
		}
		target, err = tx.GetSynset(ctx, targetID)
		if err != nil {
			return err
		}
		if source.LexiconID != target.LexiconID {
			return &wordnet.InvariantError{Detail: "cannot merge synsets across lexicons"}
		}
		if source.HasILIMapping() && target.HasILIMapping() {
			return &wordnet.ConflictError{
				SourceID: sourceID,
				TargetID: targetID,
				Detail:   "both synsets carry an interlingual mapping",
			}
		}

		// Move senses over, keeping their ids and appending to the
		// target's ordering.
		senses, err := tx.SensesBySynset(ctx, sourceID)
		if err != nil {
			return err
		}
		for _, s := range senses {
			dup, err := tx.EntryHasSenseInSynset(ctx, s.EntryID, targetID)
			if err != nil {
				return err
			}
			if dup {
				return &wordnet.DuplicateError{
					Kind:   wordnet.KindSense,
					Detail: fmt.Sprintf("entry %d has senses in both synsets", s.EntryID),
				}
			}
			rank, err := tx.NextSynsetRank(ctx, targetID)
			if err != nil {
				return err
			}
			if err := tx.ReassignSense(ctx, s.ID, targetID, rank); err != nil {
				return err
			}
		}

		if err := e.redirectSynsetRelations(ctx, tx, sourceID, targetID); err != nil {
			return err
		}

		// Sense-to-synset relations aimed at the source follow it too.
		srels, err := tx.SenseSynsetRelationsTo(ctx, sourceID)
		if err != nil {
			return err
		}
		for _, rel := range srels {
			dup, err := tx.SenseSynsetRelationExists(ctx, rel.SourceID, rel.Type, targetID)
			if err != nil {
				return err
			}
			if dup {
				if err := tx.DeleteSenseSynsetRelationRow(ctx, rel.ID); err != nil {
					return err
				}
				continue
			}
			if err := tx.UpdateSenseSynsetRelationTarget(ctx, rel.ID, targetID); err != nil {
				return err
			}
		}

		if err := e.appendSynsetText(ctx, tx, sourceID, targetID); err != nil {
			return err
		}

		// Transfer a one-sided interlingual mapping.
		if source.HasILIMapping() {
			switch source.ILIStatus {
			case wordnet.ILIConfirmed:
				if err := tx.SetSynsetILI(ctx, targetID, source.ILI, wordnet.ILIConfirmed); err != nil {
					return err
				}
			case wordnet.ILIProposed:
				def, err := tx.ProposedILIDefinition(ctx, sourceID)
				if err != nil {
					return err
				}
				if err := tx.UpsertProposedILI(ctx, targetID, def); err != nil {
					return err
				}
				if err := tx.SetSynsetILI(ctx, targetID, "", wordnet.ILIProposed); err != nil {
					return err
				}
			}
		}

		if len(senses) > 0 && !target.Lexicalized {
			if err := tx.SetSynsetLexicalized(ctx, targetID, true); err != nil {
				return err
			}
			target.Lexicalized = true
		}

		// The source must be bare by now; anything left is a bug in the
		// steps above.
		if err := emptySynsetCheck(ctx, tx, sourceID); err != nil {
			return err
		}
		if err := tx.DeleteSynsetChildren(ctx, sourceID); err != nil {
			return err
		}
		if err := tx.DeleteSynsetRow(ctx, sourceID); err != nil {
			return err
		}

		return e.record(ctx, tx, wordnet.KindSynset, targetID, "", wordnet.OpMerge, source.BareID, target.BareID)
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// redirectSynsetRelations repoints every relation touching oldID at newID.
// Edges that would duplicate an existing relation or loop onto newID are
// dropped instead.
func (e *Editor) redirectSynsetRelations(ctx context.Context, tx *store.Tx, oldID, newID int64) error {
	incoming, err := tx.SynsetRelationsTo(ctx, oldID)
	if err != nil {
		return err
	}
	for _, rel := range incoming {
		if rel.SourceID == newID {
			if err := tx.DeleteSynsetRelationRow(ctx, rel.ID); err != nil {
				return err
			}
			continue
		}
		dup, err := tx.SynsetRelationExists(ctx, rel.SourceID, rel.Type, newID)
		if err != nil {
			return err
		}
		if dup {
			if err := tx.DeleteSynsetRelationRow(ctx, rel.ID); err != nil {
				return err
			}
			continue
		}
		if err := tx.UpdateSynsetRelationTarget(ctx, rel.ID, newID); err != nil {
			return err
		}
	}

	outgoing, err := tx.SynsetRelationsFrom(ctx, oldID)
	if err != nil {
		return err
	}
	for _, rel := range outgoing {
		if rel.TargetID == newID {
			if err := tx.DeleteSynsetRelationRow(ctx, rel.ID); err != nil {
				return err
			}
			continue
		}
		dup, err := tx.SynsetRelationExists(ctx, newID, rel.Type, rel.TargetID)
		if err != nil {
			return err
		}
		if dup {
			if err := tx.DeleteSynsetRelationRow(ctx, rel.ID); err != nil {
				return err
			}
			continue
		}
		if err := tx.UpdateSynsetRelationSource(ctx, rel.ID, newID); err != nil {
			return err
		}
	}
	return nil
}

// appendSynsetText copies the source's definitions and examples onto the
// target. Definitions with text the target already has are skipped; examples
// are appended as-is.
func (e *Editor) appendSynsetText(ctx context.Context, tx *store.Tx, sourceID, targetID int64) error {
	existing, err := tx.DefinitionsBySynset(ctx, targetID)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[d.Text] = true
	}

	defs, err := tx.DefinitionsBySynset(ctx, sourceID)
	if err != nil {
		return err
	}
	for _, d := range defs {
		if seen[d.Text] {
			continue
		}
		if err := tx.InsertDefinition(ctx, &wordnet.Definition{SynsetID: targetID, Text: d.Text, Language: d.Language}); err != nil {
			return err
		}
		seen[d.Text] = true
	}

	examples, err := tx.ExamplesBySynset(ctx, sourceID)
	if err != nil {
		return err
	}
	for _, ex := range examples {
		if err := tx.InsertSynsetExample(ctx, &wordnet.Example{SynsetID: targetID, Text: ex.Text, Language: ex.Language}); err != nil {
			return err
		}
	}
	return nil
}

// SplitSynset partitions a synset's senses across the original and one new
// synset per additional group. The groups must cover the current senses
// exactly, with no omission or repetition. The first group stays on the
// original; each later group moves to a fresh synset with the same lexicon
// and part of speech and no interlingual mapping. Outgoing relations are
// copied to every new synset (the engine cannot tell which relation belongs
// to which sub-concept, so the caller prunes afterward); definitions and
// examples stay with the original.
func (e *Editor) SplitSynset(ctx context.Context, synsetID int64, senseGroups [][]int64) ([]*wordnet.Synset, error) {
	if len(senseGroups) == 0 {
		return nil, &wordnet.InvariantError{Detail: "split requires at least one sense group"}
	}

	var result []*wordnet.Synset
	err := e.write(ctx, "split_synset", func(tx *store.Tx) error {
		syn, err := tx.GetSynset(ctx, synsetID)
		if err != nil {
			return err
		}

		senses, err := tx.SensesBySynset(ctx, synsetID)
		if err != nil {
			return err
		}
		if err := checkPartition(senses, senseGroups); err != nil {
			return err
		}

		outgoing, err := tx.SynsetRelationsFrom(ctx, synsetID)
		if err != nil {
			return err
		}

		result = []*wordnet.Synset{syn}
		for gi, group := range senseGroups {
			if gi == 0 {
				// Renumber the keepers so the ordering stays dense.
				for rank, senseID := range group {
					if err := tx.ReassignSense(ctx, senseID, synsetID, rank); err != nil {
						return err
					}
				}
				continue
			}

			bareID, err := e.freeSplitBareID(ctx, tx, syn.LexiconID, syn.BareID, gi)
			if err != nil {
				return err
			}
			created := &wordnet.Synset{
				LexiconID:   syn.LexiconID,
				BareID:      bareID,
				POS:         syn.POS,
				Lexicalized: true,
			}
			if err := tx.InsertSynset(ctx, created); err != nil {
				return err
			}
			for rank, senseID := range group {
				if err := tx.ReassignSense(ctx, senseID, created.ID, rank); err != nil {
					return err
				}
			}
			for _, rel := range outgoing {
				if err := e.copySynsetRelation(ctx, tx, created.ID, rel.Type, rel.TargetID); err != nil {
					return err
				}
			}
			result = append(result, created)
		}

		ids := ""
		for i, s := range result {
			if i > 0 {
				ids += ","
			}
			ids += s.BareID
		}
		return e.record(ctx, tx, wordnet.KindSynset, synsetID, "", wordnet.OpSplit, syn.BareID, ids)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// freeSplitBareID derives a bare id for a synset produced by a split,
// probing upward from the group index until the id is unused. Re-splitting
// a synset, or splitting one whose bare id already has -split-N siblings,
// must not collide with the existing rows.
func (e *Editor) freeSplitBareID(ctx context.Context, tx *store.Tx, lexiconID int64, base string, n int) (string, error) {
	for ; ; n++ {
		bareID := fmt.Sprintf("%s-split-%d", base, n)
		exists, err := tx.SynsetBareIDExists(ctx, lexiconID, bareID)
		if err != nil {
			return "", err
		}
		if !exists {
			return bareID, nil
		}
	}
}

// copySynsetRelation adds one forward edge plus its vocabulary inverse,
// skipping edges that already exist.
func (e *Editor) copySynsetRelation(ctx context.Context, tx *store.Tx, src int64, typ wordnet.RelType, tgt int64) error {
	if src == tgt {
		return nil
	}
	if _, err := e.addEdge(ctx, tx.SynsetRelationExists, tx.InsertSynsetRelation, src, typ, tgt); err != nil {
		return err
	}
	inv, ok := wordnet.SynsetRelations.Inverse(typ)
	if !ok {
		return nil
	}
	_, err := e.addEdge(ctx, tx.SynsetRelationExists, tx.InsertSynsetRelation, tgt, inv, src)
	return err
}

// checkPartition verifies the groups cover the sense set exactly.
func checkPartition(senses []*wordnet.Sense, groups [][]int64) error {
	current := make(map[int64]bool, len(senses))
	for _, s := range senses {
		current[s.ID] = true
	}
	seen := make(map[int64]bool, len(senses))
	for _, group := range groups {
		if len(group) == 0 {
			return &wordnet.InvariantError{Detail: "split groups must be non-empty"}
		}
		for _, id := range group {
			if !current[id] {
				return &wordnet.InvariantError{Detail: fmt.Sprintf("sense %d does not belong to the synset", id)}
			}
			if seen[id] {
				return &wordnet.InvariantError{Detail: fmt.Sprintf("sense %d appears in more than one group", id)}
			}
			seen[id] = true
		}
	}
	if len(seen) != len(senses) {
		return &wordnet.InvariantError{Detail: fmt.Sprintf("split groups cover %d of %d senses", len(seen), len(senses))}
	}
	return nil
}

// MoveSense reassigns a sense to another synset in the same lexicon. The
// sense keeps its id, so its own relations are untouched. The vacated synset
// drops to unlexicalized when the moved sense was its last; the target is
// lexicalized afterward by construction.
func (e *Editor) MoveSense(ctx context.Context, senseID, targetSynsetID int64) (*wordnet.Sense, error) {
	var sense *wordnet.Sense
	err := e.write(ctx, "move_sense", func(tx *store.Tx) error {
		var err error
		sense, err = tx.GetSense(ctx, senseID)
		if err != nil {
			return err
		}
		target, err := tx.GetSynset(ctx, targetSynsetID)
		if err != nil {
			return err
		}
		entry, err := tx.GetEntry(ctx, sense.EntryID)
		if err != nil {
			return err
		}
		if entry.LexiconID != target.LexiconID {
			return &wordnet.InvariantError{Detail: "cannot move a sense across lexicons"}
		}

		// Moving to the current synset trips this guard too: the sense
		// itself already occupies the target.
		dup, err := tx.EntryHasSenseInSynset(ctx, sense.EntryID, targetSynsetID)
		if err != nil {
			return err
		}
		if dup {
			return &wordnet.DuplicateError{
				Kind:   wordnet.KindSense,
				Detail: fmt.Sprintf("entry %d already has a sense in synset %d", sense.EntryID, targetSynsetID),
			}
		}

		sourceSynsetID := sense.SynsetID
		rank, err := tx.NextSynsetRank(ctx, targetSynsetID)
		if err != nil {
			return err
		}
		if err := tx.ReassignSense(ctx, senseID, targetSynsetID, rank); err != nil {
			return err
		}
		sense.SynsetID = targetSynsetID
		sense.SynsetRank = rank

		remaining, err := tx.CountSensesBySynset(ctx, sourceSynsetID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := tx.SetSynsetLexicalized(ctx, sourceSynsetID, false); err != nil {
				return err
			}
		}
		if !target.Lexicalized {
			if err := tx.SetSynsetLexicalized(ctx, targetSynsetID, true); err != nil {
				return err
			}
		}

		return e.record(ctx, tx, wordnet.KindSense, senseID, "", wordnet.OpMove,
			fmt.Sprintf("synset:%d", sourceSynsetID), fmt.Sprintf("synset:%d", targetSynsetID))
	})
	if err != nil {
		return nil, err
	}
	return sense, nil
}
