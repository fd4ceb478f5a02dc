package editor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/lexibase-labs/lexibase/internal/store"
	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

func (e *Editor) validateLanguage(tag string) error {
	if !e.checkLang {
		return nil
	}
	if _, err := language.Parse(tag); err != nil {
		return &wordnet.InvariantError{Detail: fmt.Sprintf("invalid language tag %q", tag)}
	}
	return nil
}

// slug normalizes a lemma into an identifier fragment.
func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t':
			b.WriteByte('_')
		case r == '\'' || r == '"':
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// --- Lexicon ---

// CreateLexiconParams carries the attributes of a new lexicon.
type CreateLexiconParams struct {
	BareID   string // human-readable id, e.g. "oewn"
	Version  string
	Label    string
	Language string // BCP-47
	Email    string
	License  string
	URL      string
	Citation string
}

// CreateLexicon creates a new lexical resource. A bare id that already exists
// in any version is refused: coexisting versions under one bare id made every
// id-addressed mutation ambiguous, so the second version is blocked at the
// door rather than resolved by guesswork.
func (e *Editor) CreateLexicon(ctx context.Context, p CreateLexiconParams) (*wordnet.Lexicon, error) {
	if p.BareID == "" || p.Version == "" {
		return nil, &wordnet.InvariantError{Detail: "lexicon id and version are required"}
	}
	if err := e.validateLanguage(p.Language); err != nil {
		return nil, err
	}

	lex := &wordnet.Lexicon{
		BareID:   p.BareID,
		Version:  p.Version,
		Label:    p.Label,
		Language: p.Language,
		Email:    p.Email,
		License:  p.License,
		URL:      p.URL,
		Citation: p.Citation,
	}

	err := e.write(ctx, "create_lexicon", func(tx *store.Tx) error {
		exists, err := tx.LexiconBareIDExists(ctx, p.BareID)
		if err != nil {
			return err
		}
		if exists {
			return &wordnet.DuplicateError{
				Kind:   wordnet.KindLexicon,
				Detail: fmt.Sprintf("id %q already exists; delete the existing version first", p.BareID),
			}
		}
		if err := tx.InsertLexicon(ctx, lex); err != nil {
			return err
		}
		return e.recordCreate(ctx, tx, wordnet.KindLexicon, lex.ID, lex.Specifier())
	})
	if err != nil {
		return nil, err
	}
	return lex, nil
}

// LexiconUpdate names the mutable lexicon fields. Nil fields are untouched.
type LexiconUpdate struct {
	Label    *string
	Language *string
	Email    *string
	License  *string
	URL      *string
	Citation *string
}

// UpdateLexicon applies the update and writes one history row per changed
// field.
func (e *Editor) UpdateLexicon(ctx context.Context, id int64, upd LexiconUpdate) (*wordnet.Lexicon, error) {
	if upd.Language != nil {
		if err := e.validateLanguage(*upd.Language); err != nil {
			return nil, err
		}
	}

	var lex *wordnet.Lexicon
	err := e.write(ctx, "update_lexicon", func(tx *store.Tx) error {
		var err error
		lex, err = tx.GetLexicon(ctx, id)
		if err != nil {
			return err
		}

		fields := []struct {
			name string
			dst  *string
			src  *string
		}{
			{"label", &lex.Label, upd.Label},
			{"language", &lex.Language, upd.Language},
			{"email", &lex.Email, upd.Email},
			{"license", &lex.License, upd.License},
			{"url", &lex.URL, upd.URL},
			{"citation", &lex.Citation, upd.Citation},
		}
		changed := false
		for _, f := range fields {
			if f.src == nil || *f.src == *f.dst {
				continue
			}
			if err := e.recordUpdate(ctx, tx, wordnet.KindLexicon, id, f.name, *f.dst, *f.src); err != nil {
				return err
			}
			*f.dst = *f.src
			changed = true
		}
		if !changed {
			return nil
		}
		return tx.UpdateLexicon(ctx, lex)
	})
	if err != nil {
		return nil, err
	}
	return lex, nil
}

// --- Entry ---

// CreateEntryParams carries the attributes of a new entry. BareID is derived
// from the lemma and part of speech when empty.
type CreateEntryParams struct {
	LexiconID int64
	Lemma     string // canonical written form, rank 0
	POS       wordnet.PartOfSpeech
	BareID    string
	Script    string
}

// CreateEntry creates a word-plus-part-of-speech unit with its canonical form.
func (e *Editor) CreateEntry(ctx context.Context, p CreateEntryParams) (*wordnet.Entry, error) {
	if p.Lemma == "" {
		return nil, &wordnet.InvariantError{Detail: "entry lemma is required"}
	}
	if !p.POS.Valid() {
		return nil, &wordnet.InvariantError{Detail: fmt.Sprintf("invalid part of speech %q", p.POS)}
	}
	bareID := p.BareID
	if bareID == "" {
		bareID = slug(p.Lemma) + "-" + string(p.POS)
	}

	entry := &wordnet.Entry{LexiconID: p.LexiconID, BareID: bareID, POS: p.POS}
	err := e.write(ctx, "create_entry", func(tx *store.Tx) error {
		if _, err := tx.GetLexicon(ctx, p.LexiconID); err != nil {
			return err
		}
		exists, err := tx.EntryBareIDExists(ctx, p.LexiconID, bareID)
		if err != nil {
			return err
		}
		if exists {
			return &wordnet.DuplicateError{Kind: wordnet.KindEntry, Detail: fmt.Sprintf("id %q already exists in lexicon", bareID)}
		}
		if err := tx.InsertEntry(ctx, entry); err != nil {
			return err
		}
		lemma := &wordnet.Form{EntryID: entry.ID, Written: p.Lemma, Script: p.Script, Rank: 0}
		if err := tx.InsertForm(ctx, lemma); err != nil {
			return err
		}
		return e.recordCreate(ctx, tx, wordnet.KindEntry, entry.ID, bareID)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// AddForm appends a variant written form (rank >= 1) to the entry.
func (e *Editor) AddForm(ctx context.Context, entryID int64, written, script string) (*wordnet.Form, error) {
	if written == "" {
		return nil, &wordnet.InvariantError{Detail: "form text is required"}
	}

	form := &wordnet.Form{EntryID: entryID, Written: written, Script: script}
	err := e.write(ctx, "add_form", func(tx *store.Tx) error {
		if _, err := tx.GetEntry(ctx, entryID); err != nil {
			return err
		}
		rank, err := tx.NextFormRank(ctx, entryID)
		if err != nil {
			return err
		}
		form.Rank = rank
		if err := tx.InsertForm(ctx, form); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindEntry, entryID, "form", "", written)
	})
	if err != nil {
		return nil, err
	}
	return form, nil
}

// RemoveForm deletes a variant form. The canonical rank-0 form cannot be
// removed.
func (e *Editor) RemoveForm(ctx context.Context, formID int64) error {
	return e.write(ctx, "remove_form", func(tx *store.Tx) error {
		form, err := tx.GetForm(ctx, formID)
		if err != nil {
			return err
		}
		if form.Rank == 0 {
			return &wordnet.InvariantError{Detail: "cannot remove the canonical form of an entry"}
		}
		if err := tx.DeleteFormRow(ctx, formID); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindEntry, form.EntryID, "form", form.Written, "")
	})
}

// --- Synset ---

// CreateSynsetParams carries the attributes of a new synset. Definition is
// required: every synset keeps at least one. BareID is generated when empty.
type CreateSynsetParams struct {
	LexiconID  int64
	POS        wordnet.PartOfSpeech
	Definition string
	Language   string
	BareID     string
}

// CreateSynset creates a concept node. The synset starts unlexicalized; it
// becomes lexicalized when its first sense is created.
func (e *Editor) CreateSynset(ctx context.Context, p CreateSynsetParams) (*wordnet.Synset, error) {
	if !p.POS.Valid() {
		return nil, &wordnet.InvariantError{Detail: fmt.Sprintf("invalid part of speech %q", p.POS)}
	}
	if p.Definition == "" {
		return nil, &wordnet.InvariantError{Detail: "a synset requires at least one definition"}
	}
	bareID := p.BareID
	if bareID == "" {
		bareID = uuid.New().String()
	}

	syn := &wordnet.Synset{LexiconID: p.LexiconID, BareID: bareID, POS: p.POS}
	err := e.write(ctx, "create_synset", func(tx *store.Tx) error {
		if _, err := tx.GetLexicon(ctx, p.LexiconID); err != nil {
			return err
		}
		exists, err := tx.SynsetBareIDExists(ctx, p.LexiconID, bareID)
		if err != nil {
			return err
		}
		if exists {
			return &wordnet.DuplicateError{Kind: wordnet.KindSynset, Detail: fmt.Sprintf("id %q already exists in lexicon", bareID)}
		}
		if err := tx.InsertSynset(ctx, syn); err != nil {
			return err
		}
		def := &wordnet.Definition{SynsetID: syn.ID, Text: p.Definition, Language: p.Language}
		if err := tx.InsertDefinition(ctx, def); err != nil {
			return err
		}
		return e.recordCreate(ctx, tx, wordnet.KindSynset, syn.ID, bareID)
	})
	if err != nil {
		return nil, err
	}
	return syn, nil
}

// AddDefinition appends a gloss to the synset.
func (e *Editor) AddDefinition(ctx context.Context, synsetID int64, text, lang string) (*wordnet.Definition, error) {
	if text == "" {
		return nil, &wordnet.InvariantError{Detail: "definition text is required"}
	}

	def := &wordnet.Definition{SynsetID: synsetID, Text: text, Language: lang}
	err := e.write(ctx, "add_definition", func(tx *store.Tx) error {
		if _, err := tx.GetSynset(ctx, synsetID); err != nil {
			return err
		}
		if err := tx.InsertDefinition(ctx, def); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSynset, synsetID, "definition", "", text)
	})
	if err != nil {
		return nil, err
	}
	return def, nil
}

// RemoveDefinition deletes a gloss. The last remaining definition of a synset
// cannot be removed.
func (e *Editor) RemoveDefinition(ctx context.Context, definitionID int64) error {
	return e.write(ctx, "remove_definition", func(tx *store.Tx) error {
		def, err := tx.GetDefinition(ctx, definitionID)
		if err != nil {
			return err
		}
		defs, err := tx.DefinitionsBySynset(ctx, def.SynsetID)
		if err != nil {
			return err
		}
		if len(defs) <= 1 {
			return &wordnet.InvariantError{Detail: "a synset keeps at least one definition"}
		}
		if err := tx.DeleteDefinitionRow(ctx, definitionID); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSynset, def.SynsetID, "definition", def.Text, "")
	})
}

// AddExample appends a usage example to the synset.
func (e *Editor) AddExample(ctx context.Context, synsetID int64, text, lang string) (*wordnet.Example, error) {
	if text == "" {
		return nil, &wordnet.InvariantError{Detail: "example text is required"}
	}

	ex := &wordnet.Example{SynsetID: synsetID, Text: text, Language: lang}
	err := e.write(ctx, "add_example", func(tx *store.Tx) error {
		if _, err := tx.GetSynset(ctx, synsetID); err != nil {
			return err
		}
		if err := tx.InsertSynsetExample(ctx, ex); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSynset, synsetID, "example", "", text)
	})
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// RemoveExample deletes a synset usage example.
func (e *Editor) RemoveExample(ctx context.Context, exampleID int64) error {
	return e.write(ctx, "remove_example", func(tx *store.Tx) error {
		ex, err := tx.GetSynsetExample(ctx, exampleID)
		if err != nil {
			return err
		}
		if err := tx.DeleteSynsetExampleRow(ctx, exampleID); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSynset, ex.SynsetID, "example", ex.Text, "")
	})
}

// SetILI records a confirmed interlingual identifier on the synset, replacing
// any proposed mapping.
func (e *Editor) SetILI(ctx context.Context, synsetID int64, ili string) error {
	if ili == "" {
		return &wordnet.InvariantError{Detail: "ili identifier is required"}
	}
	return e.write(ctx, "set_ili", func(tx *store.Tx) error {
		syn, err := tx.GetSynset(ctx, synsetID)
		if err != nil {
			return err
		}
		if err := tx.DeleteProposedILI(ctx, synsetID); err != nil {
			return err
		}
		if err := tx.SetSynsetILI(ctx, synsetID, ili, wordnet.ILIConfirmed); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSynset, synsetID, "ili", syn.ILI, ili)
	})
}

// ProposeILI records a proposed interlingual mapping justified by a
// definition. A confirmed identifier, if present, is replaced.
func (e *Editor) ProposeILI(ctx context.Context, synsetID int64, definition string) error {
	if definition == "" {
		return &wordnet.InvariantError{Detail: "a proposed ili mapping requires a definition"}
	}
	return e.write(ctx, "propose_ili", func(tx *store.Tx) error {
		syn, err := tx.GetSynset(ctx, synsetID)
		if err != nil {
			return err
		}
		if err := tx.UpsertProposedILI(ctx, synsetID, definition); err != nil {
			return err
		}
		if err := tx.SetSynsetILI(ctx, synsetID, "", wordnet.ILIProposed); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSynset, synsetID, "ili", syn.ILI, "proposed")
	})
}

// ClearILI removes the synset's interlingual mapping, confirmed or proposed.
func (e *Editor) ClearILI(ctx context.Context, synsetID int64) error {
	return e.write(ctx, "clear_ili", func(tx *store.Tx) error {
		syn, err := tx.GetSynset(ctx, synsetID)
		if err != nil {
			return err
		}
		if err := tx.DeleteProposedILI(ctx, synsetID); err != nil {
			return err
		}
		if err := tx.SetSynsetILI(ctx, synsetID, "", wordnet.ILINone); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSynset, synsetID, "ili", syn.ILI, "")
	})
}

// --- Sense ---

// CreateSense connects an entry to a synset. The entry and synset must belong
// to the same lexicon, and an entry may not have two senses in one synset.
// The new sense is appended to both orderings, and the synset becomes
// lexicalized.
func (e *Editor) CreateSense(ctx context.Context, entryID, synsetID int64) (*wordnet.Sense, error) {
	sense := &wordnet.Sense{EntryID: entryID, SynsetID: synsetID}
	err := e.write(ctx, "create_sense", func(tx *store.Tx) error {
		entry, err := tx.GetEntry(ctx, entryID)
		if err != nil {
			return err
		}
		syn, err := tx.GetSynset(ctx, synsetID)
		if err != nil {
			return err
		}
		if entry.LexiconID != syn.LexiconID {
			return &wordnet.InvariantError{Detail: "a sense connects an entry and a synset of the same lexicon"}
		}
		dup, err := tx.EntryHasSenseInSynset(ctx, entryID, synsetID)
		if err != nil {
			return err
		}
		if dup {
			return &wordnet.DuplicateError{
				Kind:   wordnet.KindSense,
				Detail: fmt.Sprintf("entry %d already has a sense in synset %d", entryID, synsetID),
			}
		}

		sense.BareID = entry.BareID + "--" + syn.BareID
		if sense.EntryRank, err = tx.NextEntryRank(ctx, entryID); err != nil {
			return err
		}
		if sense.SynsetRank, err = tx.NextSynsetRank(ctx, synsetID); err != nil {
			return err
		}
		if err := tx.InsertSense(ctx, sense); err != nil {
			return err
		}
		if !syn.Lexicalized {
			if err := tx.SetSynsetLexicalized(ctx, synsetID, true); err != nil {
				return err
			}
		}
		return e.recordCreate(ctx, tx, wordnet.KindSense, sense.ID, sense.BareID)
	})
	if err != nil {
		return nil, err
	}
	return sense, nil
}

// AddSenseExample appends a usage example to the sense.
func (e *Editor) AddSenseExample(ctx context.Context, senseID int64, text string) (*wordnet.SenseExample, error) {
	if text == "" {
		return nil, &wordnet.InvariantError{Detail: "example text is required"}
	}

	ex := &wordnet.SenseExample{SenseID: senseID, Text: text}
	err := e.write(ctx, "add_sense_example", func(tx *store.Tx) error {
		if _, err := tx.GetSense(ctx, senseID); err != nil {
			return err
		}
		if err := tx.InsertSenseExample(ctx, ex); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSense, senseID, "example", "", text)
	})
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// AddCount records a corpus frequency observation for the sense.
func (e *Editor) AddCount(ctx context.Context, senseID int64, value int) (*wordnet.Count, error) {
	c := &wordnet.Count{SenseID: senseID, Value: value}
	err := e.write(ctx, "add_count", func(tx *store.Tx) error {
		if _, err := tx.GetSense(ctx, senseID); err != nil {
			return err
		}
		if err := tx.InsertCount(ctx, c); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSense, senseID, "count", "", strconv.Itoa(value))
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// AddFrame links a behavioral (syntactic) frame to the sense.
func (e *Editor) AddFrame(ctx context.Context, senseID int64, frame string) error {
	if frame == "" {
		return &wordnet.InvariantError{Detail: "frame text is required"}
	}
	return e.write(ctx, "add_frame", func(tx *store.Tx) error {
		if _, err := tx.GetSense(ctx, senseID); err != nil {
			return err
		}
		if err := tx.InsertSenseFrame(ctx, senseID, frame); err != nil {
			return err
		}
		return e.recordUpdate(ctx, tx, wordnet.KindSense, senseID, "frame", "", frame)
	})
}
