package validate

import (
	"context"
	"fmt"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

func init() {
	Register(RuleDef{
		ID:          "entry/missing-lemma",
		Description: "every entry has a canonical written form at rank 0",
		Severity:    SeverityError,
		Check:       checkEntryLemma,
	})
	Register(RuleDef{
		ID:          "entry/no-senses",
		Description: "an entry without senses is disconnected from every concept",
		Severity:    SeverityInfo,
		Check:       checkEntrySenses,
	})
	Register(RuleDef{
		ID:          "synset/missing-definition",
		Description: "every synset has at least one definition",
		Severity:    SeverityError,
		Check:       checkSynsetDefinitions,
	})
	Register(RuleDef{
		ID:          "synset/lexicalized-drift",
		Description: "the lexicalized flag agrees with the synset's sense count",
		Severity:    SeverityError,
		Check:       checkLexicalizedDrift,
	})
	Register(RuleDef{
		ID:          "synset/ili-drift",
		Description: "a proposed interlingual status is backed by a proposed-mapping row",
		Severity:    SeverityWarning,
		Check:       checkILIDrift,
	})
	Register(RuleDef{
		ID:          "relation/self-loop",
		Description: "no relation connects an entity to itself",
		Severity:    SeverityError,
		Check:       checkSelfLoops,
	})
	Register(RuleDef{
		ID:          "relation/dangling",
		Description: "every relation points at an endpoint inside the lexicon",
		Severity:    SeverityError,
		Check:       checkDanglingRelations,
	})
	Register(RuleDef{
		ID:          "relation/duplicate",
		Description: "no source carries the same typed edge to the same target twice",
		Severity:    SeverityWarning,
		Check:       checkDuplicateRelations,
	})
	Register(RuleDef{
		ID:          "relation/missing-inverse",
		Description: "every relation whose type has an inverse is paired with the inverse edge",
		Severity:    SeverityWarning,
		Check:       checkMissingInverses,
	})
	Register(RuleDef{
		ID:          "sense/rank-gap",
		Description: "sense orderings within a synset are dense, starting at 0",
		Severity:    SeverityInfo,
		Check:       checkRankGaps,
	})
}

func checkEntryLemma(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	entries, err := r.EntriesByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, entry := range entries {
		forms, err := r.FormsByEntry(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		hasLemma := false
		for _, f := range forms {
			if f.Rank == 0 {
				hasLemma = true
				break
			}
		}
		if !hasLemma {
			out = append(out, Diagnostic{
				RuleID:   "entry/missing-lemma",
				Severity: SeverityError,
				Kind:     wordnet.KindEntry,
				EntityID: entry.ID,
				Message:  fmt.Sprintf("entry %q has no canonical form", entry.BareID),
			})
		}
	}
	return out, nil
}

func checkEntrySenses(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	entries, err := r.EntriesByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, entry := range entries {
		senses, err := r.SensesByEntry(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		if len(senses) == 0 {
			out = append(out, Diagnostic{
				RuleID:   "entry/no-senses",
				Severity: SeverityInfo,
				Kind:     wordnet.KindEntry,
				EntityID: entry.ID,
				Message:  fmt.Sprintf("entry %q has no senses", entry.BareID),
			})
		}
	}
	return out, nil
}

func checkSynsetDefinitions(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, syn := range synsets {
		defs, err := r.DefinitionsBySynset(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		if len(defs) == 0 {
			out = append(out, Diagnostic{
				RuleID:   "synset/missing-definition",
				Severity: SeverityError,
				Kind:     wordnet.KindSynset,
				EntityID: syn.ID,
				Message:  fmt.Sprintf("synset %q has no definition", syn.BareID),
			})
		}
	}
	return out, nil
}

func checkLexicalizedDrift(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, syn := range synsets {
		senses, err := r.SensesBySynset(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		if syn.Lexicalized != (len(senses) > 0) {
			out = append(out, Diagnostic{
				RuleID:   "synset/lexicalized-drift",
				Severity: SeverityError,
				Kind:     wordnet.KindSynset,
				EntityID: syn.ID,
				Message:  fmt.Sprintf("synset %q is marked lexicalized=%v but has %d senses", syn.BareID, syn.Lexicalized, len(senses)),
			})
		}
	}
	return out, nil
}

func checkILIDrift(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, syn := range synsets {
		switch syn.ILIStatus {
		case wordnet.ILIProposed:
			def, err := r.ProposedILIDefinition(ctx, syn.ID)
			if err != nil {
				return nil, err
			}
			if def == "" {
				out = append(out, Diagnostic{
					RuleID:   "synset/ili-drift",
					Severity: SeverityWarning,
					Kind:     wordnet.KindSynset,
					EntityID: syn.ID,
					Message:  fmt.Sprintf("synset %q has a proposed interlingual status but no justifying definition", syn.BareID),
				})
			}
		case wordnet.ILIConfirmed:
			if syn.ILI == "" {
				out = append(out, Diagnostic{
					RuleID:   "synset/ili-drift",
					Severity: SeverityWarning,
					Kind:     wordnet.KindSynset,
					EntityID: syn.ID,
					Message:  fmt.Sprintf("synset %q has a confirmed interlingual status but no identifier", syn.BareID),
				})
			}
		}
	}
	return out, nil
}

func checkSelfLoops(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, syn := range synsets {
		rels, err := r.SynsetRelationsFrom(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			if rel.SourceID == rel.TargetID {
				out = append(out, Diagnostic{
					RuleID:   "relation/self-loop",
					Severity: SeverityError,
					Kind:     wordnet.KindSynset,
					EntityID: syn.ID,
					Message:  fmt.Sprintf("synset %q has a %s relation to itself", syn.BareID, rel.Type),
				})
			}
		}
	}
	return out, nil
}

func checkDanglingRelations(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	synsetIDs := make(map[int64]struct{}, len(synsets))
	for _, syn := range synsets {
		synsetIDs[syn.ID] = struct{}{}
	}

	entries, err := r.EntriesByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	senseIDs := make(map[int64]struct{})
	for _, entry := range entries {
		senses, err := r.SensesByEntry(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		for _, s := range senses {
			senseIDs[s.ID] = struct{}{}
		}
	}

	var out []Diagnostic
	for _, syn := range synsets {
		rels, err := r.SynsetRelationsFrom(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			if _, ok := synsetIDs[rel.TargetID]; !ok {
				out = append(out, Diagnostic{
					RuleID:   "relation/dangling",
					Severity: SeverityError,
					Kind:     wordnet.KindSynset,
					EntityID: syn.ID,
					Message:  fmt.Sprintf("synset %q has a %s relation to synset %d outside the lexicon", syn.BareID, rel.Type, rel.TargetID),
				})
			}
		}
	}
	for id := range senseIDs {
		rels, err := r.SenseRelationsFrom(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			if _, ok := senseIDs[rel.TargetID]; !ok {
				out = append(out, Diagnostic{
					RuleID:   "relation/dangling",
					Severity: SeverityError,
					Kind:     wordnet.KindSense,
					EntityID: id,
					Message:  fmt.Sprintf("sense %d has a %s relation to sense %d outside the lexicon", id, rel.Type, rel.TargetID),
				})
			}
		}
	}
	return out, nil
}

func checkDuplicateRelations(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, syn := range synsets {
		rels, err := r.SynsetRelationsFrom(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		type edge struct {
			typ wordnet.RelType
			tgt int64
		}
		seen := make(map[edge]bool, len(rels))
		for _, rel := range rels {
			e := edge{rel.Type, rel.TargetID}
			if seen[e] {
				out = append(out, Diagnostic{
					RuleID:   "relation/duplicate",
					Severity: SeverityWarning,
					Kind:     wordnet.KindSynset,
					EntityID: syn.ID,
					Message:  fmt.Sprintf("synset %q carries the %s relation to synset %d more than once", syn.BareID, rel.Type, rel.TargetID),
				})
			}
			seen[e] = true
		}
	}
	return out, nil
}

func checkMissingInverses(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	var out []Diagnostic

	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	for _, syn := range synsets {
		rels, err := r.SynsetRelationsFrom(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			inv, ok := wordnet.SynsetRelations.Inverse(rel.Type)
			if !ok {
				continue
			}
			paired, err := hasEdge(ctx, r.SynsetRelationsFrom, rel.TargetID, inv, rel.SourceID)
			if err != nil {
				return nil, err
			}
			if !paired {
				out = append(out, Diagnostic{
					RuleID:   "relation/missing-inverse",
					Severity: SeverityWarning,
					Kind:     wordnet.KindSynset,
					EntityID: rel.SourceID,
					Message:  fmt.Sprintf("synset relation %d-%s->%d has no %s inverse", rel.SourceID, rel.Type, rel.TargetID, inv),
				})
			}
		}
	}

	entries, err := r.EntriesByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		senses, err := r.SensesByEntry(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		for _, sense := range senses {
			rels, err := r.SenseRelationsFrom(ctx, sense.ID)
			if err != nil {
				return nil, err
			}
			for _, rel := range rels {
				inv, ok := wordnet.SenseRelations.Inverse(rel.Type)
				if !ok {
					continue
				}
				paired, err := hasEdge(ctx, r.SenseRelationsFrom, rel.TargetID, inv, rel.SourceID)
				if err != nil {
					return nil, err
				}
				if !paired {
					out = append(out, Diagnostic{
						RuleID:   "relation/missing-inverse",
						Severity: SeverityWarning,
						Kind:     wordnet.KindSense,
						EntityID: rel.SourceID,
						Message:  fmt.Sprintf("sense relation %d-%s->%d has no %s inverse", rel.SourceID, rel.Type, rel.TargetID, inv),
					})
				}
			}
		}
	}
	return out, nil
}

func hasEdge(ctx context.Context, from func(context.Context, int64) ([]*wordnet.Relation, error), src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	rels, err := from(ctx, src)
	if err != nil {
		return false, err
	}
	for _, rel := range rels {
		if rel.Type == typ && rel.TargetID == tgt {
			return true, nil
		}
	}
	return false, nil
}

func checkRankGaps(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error) {
	synsets, err := r.SynsetsByLexicon(ctx, lexiconID)
	if err != nil {
		return nil, err
	}
	var out []Diagnostic
	for _, syn := range synsets {
		senses, err := r.SensesBySynset(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		for i, s := range senses {
			if s.SynsetRank != i {
				out = append(out, Diagnostic{
					RuleID:   "sense/rank-gap",
					Severity: SeverityInfo,
					Kind:     wordnet.KindSynset,
					EntityID: syn.ID,
					Message:  fmt.Sprintf("synset %q sense ordering has a gap at position %d", syn.BareID, i),
				})
				break
			}
		}
	}
	return out, nil
}
