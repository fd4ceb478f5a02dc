package store

import (
	"context"
	"errors"
	"testing"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return s
}

func mustBegin(t *testing.T, s *Store) *Tx {
	t.Helper()
	tx, err := s.Begin(context.Background())
	if err != nil {
		t.Fatalf("failed to begin tx: %v", err)
	}
	return tx
}

func mustCommit(t *testing.T, tx *Tx) {
	t.Helper()
	if err := tx.Commit(); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
}

func insertLexicon(t *testing.T, s *Store) *wordnet.Lexicon {
	t.Helper()
	lex := &wordnet.Lexicon{BareID: "test", Version: "1.0", Label: "Test", Language: "en"}
	tx := mustBegin(t, s)
	if err := tx.InsertLexicon(context.Background(), lex); err != nil {
		t.Fatalf("failed to insert lexicon: %v", err)
	}
	mustCommit(t, tx)
	return lex
}

func TestStore_OpenClose(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

func TestStore_Migrate(t *testing.T) {
	s := setupTestStore(t)

	tables := []string{
		"lexicons", "entries", "forms", "synsets", "senses",
		"definitions", "synset_examples", "sense_examples", "counts",
		"sense_frames", "proposed_ilis", "synset_relations",
		"sense_relations", "sense_synset_relations", "history",
	}
	for _, table := range tables {
		rows, err := s.DB().Query("SELECT 1 FROM " + table + " LIMIT 1")
		if err != nil {
			t.Errorf("table %s does not exist: %v", table, err)
		} else {
			rows.Close()
		}
	}

	version, err := s.MigrationVersion()
	if err != nil {
		t.Fatalf("failed to read migration version: %v", err)
	}
	if version < 1 {
		t.Errorf("expected migration version >= 1, got %d", version)
	}
}

func TestStore_LexiconRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	lex := insertLexicon(t, s)

	if lex.ID == 0 {
		t.Fatal("insert should assign a row id")
	}

	got, err := s.GetLexicon(ctx, lex.ID)
	if err != nil {
		t.Fatalf("failed to get lexicon: %v", err)
	}
	if got.BareID != "test" || got.Version != "1.0" || got.Language != "en" {
		t.Errorf("unexpected lexicon: %+v", got)
	}
	if got.Specifier() != "test:1.0" {
		t.Errorf("expected specifier test:1.0, got %q", got.Specifier())
	}

	exists, err := s.LexiconBareIDExists(ctx, "test")
	if err != nil {
		t.Fatalf("failed to check bare id: %v", err)
	}
	if !exists {
		t.Error("bare id should exist")
	}
}

func TestStore_GetLexicon_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetLexicon(context.Background(), 999)
	var nf *wordnet.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != wordnet.KindLexicon || nf.ID != 999 {
		t.Errorf("unexpected error detail: %+v", nf)
	}
}

func TestStore_EntryAndForms(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	lex := insertLexicon(t, s)

	entry := &wordnet.Entry{LexiconID: lex.ID, BareID: "dog-n", POS: wordnet.Noun}
	tx := mustBegin(t, s)
	if err := tx.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("failed to insert entry: %v", err)
	}
	if err := tx.InsertForm(ctx, &wordnet.Form{EntryID: entry.ID, Written: "dog", Rank: 0}); err != nil {
		t.Fatalf("failed to insert form: %v", err)
	}
	rank, err := tx.NextFormRank(ctx, entry.ID)
	if err != nil {
		t.Fatalf("failed to get next rank: %v", err)
	}
	if rank != 1 {
		t.Errorf("expected next rank 1, got %d", rank)
	}
	if err := tx.InsertForm(ctx, &wordnet.Form{EntryID: entry.ID, Written: "dogs", Rank: rank}); err != nil {
		t.Fatalf("failed to insert form: %v", err)
	}
	mustCommit(t, tx)

	forms, err := s.FormsByEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("failed to list forms: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
	if forms[0].Rank != 0 || forms[0].Written != "dog" {
		t.Errorf("forms should come back ordered by rank, got %+v", forms[0])
	}
}

func TestStore_SenseOrdering(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	lex := insertLexicon(t, s)

	tx := mustBegin(t, s)
	entry := &wordnet.Entry{LexiconID: lex.ID, BareID: "run-v", POS: wordnet.Verb}
	if err := tx.InsertEntry(ctx, entry); err != nil {
		t.Fatalf("failed to insert entry: %v", err)
	}
	synA := &wordnet.Synset{LexiconID: lex.ID, BareID: "a", POS: wordnet.Verb}
	synB := &wordnet.Synset{LexiconID: lex.ID, BareID: "b", POS: wordnet.Verb}
	for _, syn := range []*wordnet.Synset{synA, synB} {
		if err := tx.InsertSynset(ctx, syn); err != nil {
			t.Fatalf("failed to insert synset: %v", err)
		}
	}
	s1 := &wordnet.Sense{EntryID: entry.ID, SynsetID: synA.ID, BareID: "s1", EntryRank: 0, SynsetRank: 0}
	s2 := &wordnet.Sense{EntryID: entry.ID, SynsetID: synB.ID, BareID: "s2", EntryRank: 1, SynsetRank: 0}
	for _, sense := range []*wordnet.Sense{s1, s2} {
		if err := tx.InsertSense(ctx, sense); err != nil {
			t.Fatalf("failed to insert sense: %v", err)
		}
	}
	mustCommit(t, tx)

	senses, err := s.SensesByEntry(ctx, entry.ID)
	if err != nil {
		t.Fatalf("failed to list senses: %v", err)
	}
	if len(senses) != 2 || senses[0].ID != s1.ID || senses[1].ID != s2.ID {
		t.Fatalf("senses not ordered by entry rank: %+v", senses)
	}

	dup, err := s.EntryHasSenseInSynset(ctx, entry.ID, synA.ID)
	if err != nil {
		t.Fatalf("failed to check sense: %v", err)
	}
	if !dup {
		t.Error("entry should have a sense in synset A")
	}

	n, err := s.CountSensesBySynset(ctx, synA.ID)
	if err != nil {
		t.Fatalf("failed to count senses: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 sense in synset A, got %d", n)
	}
}

func TestStore_RelationHelpers(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	lex := insertLexicon(t, s)

	tx := mustBegin(t, s)
	synA := &wordnet.Synset{LexiconID: lex.ID, BareID: "a", POS: wordnet.Noun}
	synB := &wordnet.Synset{LexiconID: lex.ID, BareID: "b", POS: wordnet.Noun}
	for _, syn := range []*wordnet.Synset{synA, synB} {
		if err := tx.InsertSynset(ctx, syn); err != nil {
			t.Fatalf("failed to insert synset: %v", err)
		}
	}
	if err := tx.InsertSynsetRelation(ctx, synA.ID, wordnet.Hypernym, synB.ID); err != nil {
		t.Fatalf("failed to insert relation: %v", err)
	}
	exists, err := tx.SynsetRelationExists(ctx, synA.ID, wordnet.Hypernym, synB.ID)
	if err != nil {
		t.Fatalf("failed to check relation: %v", err)
	}
	if !exists {
		t.Error("relation should exist inside the tx")
	}
	removed, err := tx.DeleteSynsetRelation(ctx, synA.ID, wordnet.Hypernym, synB.ID)
	if err != nil {
		t.Fatalf("failed to delete relation: %v", err)
	}
	if !removed {
		t.Error("delete should report the row existed")
	}
	removed, err = tx.DeleteSynsetRelation(ctx, synA.ID, wordnet.Hypernym, synB.ID)
	if err != nil {
		t.Fatalf("failed to delete relation twice: %v", err)
	}
	if removed {
		t.Error("second delete should report nothing removed")
	}
	mustCommit(t, tx)
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tx := mustBegin(t, s)
	lex := &wordnet.Lexicon{BareID: "gone", Version: "1.0"}
	if err := tx.InsertLexicon(ctx, lex); err != nil {
		t.Fatalf("failed to insert lexicon: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("failed to rollback: %v", err)
	}

	exists, err := s.LexiconBareIDExists(ctx, "gone")
	if err != nil {
		t.Fatalf("failed to check bare id: %v", err)
	}
	if exists {
		t.Error("rolled-back insert should not be visible")
	}
}

func TestStore_RollbackAfterCommit(t *testing.T) {
	s := setupTestStore(t)

	tx := mustBegin(t, s)
	mustCommit(t, tx)
	if err := tx.Rollback(); err != nil {
		t.Errorf("rollback after commit should be a no-op, got %v", err)
	}
}
