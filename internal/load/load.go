// Package load reads a whole lexicon from a YAML document into the store.
// The document carries both directions of every paired relation, so relation
// inserts bypass automatic inverse maintenance, and the entire load is one
// transaction with history recording left to the caller's editor settings.
package load

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/lexibase-labs/lexibase/internal/editor"
	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// Document is the YAML shape of a full lexicon.
type Document struct {
	Lexicon LexiconDoc  `yaml:"lexicon"`
	Synsets []SynsetDoc `yaml:"synsets"`
	Entries []EntryDoc  `yaml:"entries"`
}

// LexiconDoc carries lexicon metadata.
type LexiconDoc struct {
	ID       string `yaml:"id"`
	Version  string `yaml:"version"`
	Label    string `yaml:"label,omitempty"`
	Language string `yaml:"language,omitempty"`
	Email    string `yaml:"email,omitempty"`
	License  string `yaml:"license,omitempty"`
	URL      string `yaml:"url,omitempty"`
	Citation string `yaml:"citation,omitempty"`
}

// SynsetDoc carries one synset with its text and outgoing relations.
type SynsetDoc struct {
	ID          string          `yaml:"id"`
	POS         string          `yaml:"pos"`
	ILI         string          `yaml:"ili,omitempty"`
	Definitions []DefinitionDoc `yaml:"definitions"`
	Examples    []string        `yaml:"examples,omitempty"`
	Relations   []RelationDoc   `yaml:"relations,omitempty"`
}

// DefinitionDoc carries one gloss.
type DefinitionDoc struct {
	Text     string `yaml:"text"`
	Language string `yaml:"language,omitempty"`
}

// EntryDoc carries one entry with its forms and senses.
type EntryDoc struct {
	ID     string     `yaml:"id,omitempty"`
	Lemma  string     `yaml:"lemma"`
	POS    string     `yaml:"pos"`
	Forms  []string   `yaml:"forms,omitempty"`
	Senses []SenseDoc `yaml:"senses,omitempty"`
}

// SenseDoc carries one sense. Relations name their targets by sense id
// ("entry--synset"); the synset field and domain relation targets use synset
// ids.
type SenseDoc struct {
	Synset    string        `yaml:"synset"`
	Examples  []string      `yaml:"examples,omitempty"`
	Counts    []int         `yaml:"counts,omitempty"`
	Frames    []string      `yaml:"frames,omitempty"`
	Relations []RelationDoc `yaml:"relations,omitempty"`
	Domains   []RelationDoc `yaml:"domains,omitempty"`
}

// RelationDoc carries one directed relation by target id.
type RelationDoc struct {
	Type   string `yaml:"type"`
	Target string `yaml:"target"`
}

// Load decodes a document from r and writes it through ed as one atomic
// batch. It returns the created lexicon.
func Load(ctx context.Context, ed *editor.Editor, r io.Reader) (*wordnet.Lexicon, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return Apply(ctx, ed, &doc)
}

// Apply writes a decoded document through ed as one atomic batch.
func Apply(ctx context.Context, ed *editor.Editor, doc *Document) (*wordnet.Lexicon, error) {
	var lex *wordnet.Lexicon
	err := ed.Batch(ctx, func(ctx context.Context) error {
		var err error
		lex, err = ed.CreateLexicon(ctx, editor.CreateLexiconParams{
			BareID:   doc.Lexicon.ID,
			Version:  doc.Lexicon.Version,
			Label:    doc.Lexicon.Label,
			Language: doc.Lexicon.Language,
			Email:    doc.Lexicon.Email,
			License:  doc.Lexicon.License,
			URL:      doc.Lexicon.URL,
			Citation: doc.Lexicon.Citation,
		})
		if err != nil {
			return err
		}

		synsetIDs := make(map[string]int64, len(doc.Synsets))
		for _, sd := range doc.Synsets {
			if len(sd.Definitions) == 0 {
				return &wordnet.InvariantError{Detail: fmt.Sprintf("synset %q has no definition", sd.ID)}
			}
			syn, err := ed.CreateSynset(ctx, editor.CreateSynsetParams{
				LexiconID:  lex.ID,
				POS:        wordnet.PartOfSpeech(sd.POS),
				BareID:     sd.ID,
				Definition: sd.Definitions[0].Text,
				Language:   sd.Definitions[0].Language,
			})
			if err != nil {
				return fmt.Errorf("synset %q: %w", sd.ID, err)
			}
			synsetIDs[sd.ID] = syn.ID
			for _, d := range sd.Definitions[1:] {
				if _, err := ed.AddDefinition(ctx, syn.ID, d.Text, d.Language); err != nil {
					return fmt.Errorf("synset %q: %w", sd.ID, err)
				}
			}
			for _, ex := range sd.Examples {
				if _, err := ed.AddExample(ctx, syn.ID, ex, ""); err != nil {
					return fmt.Errorf("synset %q: %w", sd.ID, err)
				}
			}
			if sd.ILI != "" {
				if err := ed.SetILI(ctx, syn.ID, sd.ILI); err != nil {
					return fmt.Errorf("synset %q: %w", sd.ID, err)
				}
			}
		}

		senseIDs := make(map[string]int64)
		type pendingSense struct {
			doc SenseDoc
			id  int64
		}
		var pending []pendingSense
		for _, entryDoc := range doc.Entries {
			entry, err := ed.CreateEntry(ctx, editor.CreateEntryParams{
				LexiconID: lex.ID,
				Lemma:     entryDoc.Lemma,
				POS:       wordnet.PartOfSpeech(entryDoc.POS),
				BareID:    entryDoc.ID,
			})
			if err != nil {
				return fmt.Errorf("entry %q: %w", entryDoc.Lemma, err)
			}
			for _, f := range entryDoc.Forms {
				if _, err := ed.AddForm(ctx, entry.ID, f, ""); err != nil {
					return fmt.Errorf("entry %q: %w", entryDoc.Lemma, err)
				}
			}
			for _, sd := range entryDoc.Senses {
				synID, ok := synsetIDs[sd.Synset]
				if !ok {
					return &wordnet.InvariantError{Detail: fmt.Sprintf("sense of %q names unknown synset %q", entryDoc.Lemma, sd.Synset)}
				}
				sense, err := ed.CreateSense(ctx, entry.ID, synID)
				if err != nil {
					return fmt.Errorf("entry %q: %w", entryDoc.Lemma, err)
				}
				senseIDs[sense.BareID] = sense.ID
				for _, ex := range sd.Examples {
					if _, err := ed.AddSenseExample(ctx, sense.ID, ex); err != nil {
						return err
					}
				}
				for _, c := range sd.Counts {
					if _, err := ed.AddCount(ctx, sense.ID, c); err != nil {
						return err
					}
				}
				for _, f := range sd.Frames {
					if err := ed.AddFrame(ctx, sense.ID, f); err != nil {
						return err
					}
				}
				pending = append(pending, pendingSense{doc: sd, id: sense.ID})
			}
		}

		// Relations last, once every endpoint exists. The document carries
		// both directions explicitly.
		for _, sd := range doc.Synsets {
			src := synsetIDs[sd.ID]
			for _, rel := range sd.Relations {
				tgt, ok := synsetIDs[rel.Target]
				if !ok {
					return &wordnet.InvariantError{Detail: fmt.Sprintf("synset %q relation names unknown target %q", sd.ID, rel.Target)}
				}
				if err := ed.AddSynsetRelation(ctx, src, wordnet.RelType(rel.Type), tgt, editor.WithoutInverse()); err != nil {
					return fmt.Errorf("synset %q: %w", sd.ID, err)
				}
			}
		}
		for _, p := range pending {
			for _, rel := range p.doc.Relations {
				tgt, ok := senseIDs[rel.Target]
				if !ok {
					return &wordnet.InvariantError{Detail: fmt.Sprintf("sense relation names unknown target %q", rel.Target)}
				}
				if err := ed.AddSenseRelation(ctx, p.id, wordnet.RelType(rel.Type), tgt, editor.WithoutInverse()); err != nil {
					return err
				}
			}
			for _, rel := range p.doc.Domains {
				tgt, ok := synsetIDs[rel.Target]
				if !ok {
					return &wordnet.InvariantError{Detail: fmt.Sprintf("domain relation names unknown synset %q", rel.Target)}
				}
				if err := ed.AddSenseSynsetRelation(ctx, p.id, wordnet.RelType(rel.Type), tgt); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lex, nil
}
