// Package export writes a lexicon back out as the YAML document format the
// loader reads. A load of an exported document reproduces the resource.
package export

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lexibase-labs/lexibase/internal/load"
	"github.com/lexibase-labs/lexibase/internal/store"
)

// Export writes the lexicon identified by id to w.
func Export(ctx context.Context, s *store.Store, id int64, w io.Writer) error {
	doc, err := Build(ctx, s, id)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return enc.Close()
}

// Build assembles the document for one lexicon.
func Build(ctx context.Context, s *store.Store, id int64) (*load.Document, error) {
	lex, err := s.GetLexicon(ctx, id)
	if err != nil {
		return nil, err
	}
	doc := &load.Document{
		Lexicon: load.LexiconDoc{
			ID:       lex.BareID,
			Version:  lex.Version,
			Label:    lex.Label,
			Language: lex.Language,
			Email:    lex.Email,
			License:  lex.License,
			URL:      lex.URL,
			Citation: lex.Citation,
		},
	}

	synsets, err := s.SynsetsByLexicon(ctx, id)
	if err != nil {
		return nil, err
	}
	synsetNames := make(map[int64]string, len(synsets))
	for _, syn := range synsets {
		synsetNames[syn.ID] = syn.BareID
	}
	senseNames := make(map[int64]string)

	for _, syn := range synsets {
		sd := load.SynsetDoc{ID: syn.BareID, POS: string(syn.POS), ILI: syn.ILI}
		defs, err := s.DefinitionsBySynset(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		for _, d := range defs {
			sd.Definitions = append(sd.Definitions, load.DefinitionDoc{Text: d.Text, Language: d.Language})
		}
		examples, err := s.ExamplesBySynset(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		for _, ex := range examples {
			sd.Examples = append(sd.Examples, ex.Text)
		}
		rels, err := s.SynsetRelationsFrom(ctx, syn.ID)
		if err != nil {
			return nil, err
		}
		for _, rel := range rels {
			name, ok := synsetNames[rel.TargetID]
			if !ok {
				return nil, fmt.Errorf("synset %d is related to synset %d outside the lexicon", rel.SourceID, rel.TargetID)
			}
			sd.Relations = append(sd.Relations, load.RelationDoc{Type: string(rel.Type), Target: name})
		}
		doc.Synsets = append(doc.Synsets, sd)
	}

	entries, err := s.EntriesByLexicon(ctx, id)
	if err != nil {
		return nil, err
	}
	type senseSlot struct {
		entryIdx int
		senseIdx int
		id       int64
	}
	var slots []senseSlot
	for _, entry := range entries {
		ed := load.EntryDoc{ID: entry.BareID, POS: string(entry.POS)}
		forms, err := s.FormsByEntry(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		for _, f := range forms {
			if f.Rank == 0 {
				ed.Lemma = f.Written
				continue
			}
			ed.Forms = append(ed.Forms, f.Written)
		}

		senses, err := s.SensesByEntry(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		for _, sense := range senses {
			senseNames[sense.ID] = sense.BareID
			sd := load.SenseDoc{Synset: synsetNames[sense.SynsetID]}
			examples, err := s.SenseExamplesBySense(ctx, sense.ID)
			if err != nil {
				return nil, err
			}
			for _, ex := range examples {
				sd.Examples = append(sd.Examples, ex.Text)
			}
			ed.Senses = append(ed.Senses, sd)
			slots = append(slots, senseSlot{entryIdx: len(doc.Entries), senseIdx: len(ed.Senses) - 1, id: sense.ID})
		}
		doc.Entries = append(doc.Entries, ed)
	}

	// Sense relations need the full sense name map, so they come last.
	for _, slot := range slots {
		rels, err := s.SenseRelationsFrom(ctx, slot.id)
		if err != nil {
			return nil, err
		}
		sd := &doc.Entries[slot.entryIdx].Senses[slot.senseIdx]
		for _, rel := range rels {
			name, ok := senseNames[rel.TargetID]
			if !ok {
				return nil, fmt.Errorf("sense %d is related to sense %d outside the lexicon", rel.SourceID, rel.TargetID)
			}
			sd.Relations = append(sd.Relations, load.RelationDoc{Type: string(rel.Type), Target: name})
		}
		domains, err := s.SenseSynsetRelationsFrom(ctx, slot.id)
		if err != nil {
			return nil, err
		}
		for _, rel := range domains {
			name, ok := synsetNames[rel.TargetID]
			if !ok {
				return nil, fmt.Errorf("sense %d has a domain relation to synset %d outside the lexicon", rel.SourceID, rel.TargetID)
			}
			sd.Domains = append(sd.Domains, load.RelationDoc{Type: string(rel.Type), Target: name})
		}
	}
	return doc, nil
}

