package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

func synsetRelationExists(t *testing.T, ed *Editor, src int64, typ wordnet.RelType, tgt int64) bool {
	t.Helper()
	rels, err := ed.Store().SynsetRelationsFrom(context.Background(), src)
	require.NoError(t, err)
	for _, rel := range rels {
		if rel.Type == typ && rel.TargetID == tgt {
			return true
		}
	}
	return false
}

func senseRelationExists(t *testing.T, ed *Editor, src int64, typ wordnet.RelType, tgt int64) bool {
	t.Helper()
	rels, err := ed.Store().SenseRelationsFrom(context.Background(), src)
	require.NoError(t, err)
	for _, rel := range rels {
		if rel.Type == typ && rel.TargetID == tgt {
			return true
		}
	}
	return false
}

func TestAddSynsetRelation_AutoInverse(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	a := makeSynset(t, ed, lex.ID, "animal")
	b := makeSynset(t, ed, lex.ID, "dog")

	require.NoError(t, ed.AddSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID))
	assert.True(t, synsetRelationExists(t, ed, b.ID, wordnet.Hypernym, a.ID))
	assert.True(t, synsetRelationExists(t, ed, a.ID, wordnet.Hyponym, b.ID), "inverse edge should be created")

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, ed.AddSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID))
		rels, err := ed.Store().SynsetRelationsFrom(ctx, b.ID)
		require.NoError(t, err)
		assert.Len(t, rels, 1, "re-adding must not duplicate rows")
	})

	t.Run("adding when inverse already present", func(t *testing.T) {
		// The inverse from the first add already exists; adding the
		// forward direction of it must not error or duplicate.
		require.NoError(t, ed.AddSynsetRelation(ctx, a.ID, wordnet.Hyponym, b.ID))
		rels, err := ed.Store().SynsetRelationsFrom(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, rels, 1)
	})
}

func TestAddSynsetRelation_Symmetric(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	a := makeSynset(t, ed, lex.ID, "big")
	b := makeSynset(t, ed, lex.ID, "small")

	require.NoError(t, ed.AddSynsetRelation(ctx, a.ID, wordnet.Antonym, b.ID))
	assert.True(t, synsetRelationExists(t, ed, a.ID, wordnet.Antonym, b.ID))
	assert.True(t, synsetRelationExists(t, ed, b.ID, wordnet.Antonym, a.ID), "symmetric types pair with themselves")
}

func TestAddSynsetRelation_NoInverse(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	a := makeSynset(t, ed, lex.ID, "a")
	b := makeSynset(t, ed, lex.ID, "b")

	require.NoError(t, ed.AddSynsetRelation(ctx, a.ID, wordnet.OtherRel, b.ID))
	assert.True(t, synsetRelationExists(t, ed, a.ID, wordnet.OtherRel, b.ID))
	rels, err := ed.Store().SynsetRelationsFrom(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, rels, "uninverted types create only the forward edge")
}

func TestAddSynsetRelation_Validation(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	a := makeSynset(t, ed, lex.ID, "a")
	b := makeSynset(t, ed, lex.ID, "b")

	t.Run("self-loop", func(t *testing.T) {
		var inv *wordnet.InvariantError
		require.ErrorAs(t, ed.AddSynsetRelation(ctx, a.ID, wordnet.Hypernym, a.ID), &inv)
	})

	t.Run("unknown type", func(t *testing.T) {
		var inv *wordnet.InvariantError
		require.ErrorAs(t, ed.AddSynsetRelation(ctx, a.ID, "frobnicates", b.ID), &inv)
	})

	t.Run("sense-only type rejected on synsets", func(t *testing.T) {
		var inv *wordnet.InvariantError
		require.ErrorAs(t, ed.AddSynsetRelation(ctx, a.ID, wordnet.Derivation, b.ID), &inv)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		var nf *wordnet.NotFoundError
		require.ErrorAs(t, ed.AddSynsetRelation(ctx, a.ID, wordnet.Hypernym, 999), &nf)
	})
}

func TestAddSynsetRelation_WithoutInverse(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	a := makeSynset(t, ed, lex.ID, "a")
	b := makeSynset(t, ed, lex.ID, "b")

	require.NoError(t, ed.AddSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID, WithoutInverse()))
	assert.True(t, synsetRelationExists(t, ed, b.ID, wordnet.Hypernym, a.ID))
	assert.False(t, synsetRelationExists(t, ed, a.ID, wordnet.Hyponym, b.ID))
}

func TestRemoveSynsetRelation(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	a := makeSynset(t, ed, lex.ID, "a")
	b := makeSynset(t, ed, lex.ID, "b")

	require.NoError(t, ed.AddSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID))
	require.NoError(t, ed.RemoveSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID))
	assert.False(t, synsetRelationExists(t, ed, b.ID, wordnet.Hypernym, a.ID))
	assert.False(t, synsetRelationExists(t, ed, a.ID, wordnet.Hyponym, b.ID), "inverse edge removed too")

	t.Run("removing a missing relation is a no-op", func(t *testing.T) {
		require.NoError(t, ed.RemoveSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID))
	})

	t.Run("without inverse leaves the pair", func(t *testing.T) {
		require.NoError(t, ed.AddSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID))
		require.NoError(t, ed.RemoveSynsetRelation(ctx, b.ID, wordnet.Hypernym, a.ID, WithoutInverse()))
		assert.False(t, synsetRelationExists(t, ed, b.ID, wordnet.Hypernym, a.ID))
		assert.True(t, synsetRelationExists(t, ed, a.ID, wordnet.Hyponym, b.ID))
	})
}

func TestSenseRelations(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	e1 := makeEntry(t, ed, lex.ID, "happy")
	e2 := makeEntry(t, ed, lex.ID, "happiness")
	syn1 := makeSynset(t, ed, lex.ID, "happy-a")
	syn2 := makeSynset(t, ed, lex.ID, "happiness-n")
	s1 := makeSense(t, ed, e1.ID, syn1.ID)
	s2 := makeSense(t, ed, e2.ID, syn2.ID)

	t.Run("symmetric derivation", func(t *testing.T) {
		require.NoError(t, ed.AddSenseRelation(ctx, s1.ID, wordnet.Derivation, s2.ID))
		assert.True(t, senseRelationExists(t, ed, s1.ID, wordnet.Derivation, s2.ID))
		assert.True(t, senseRelationExists(t, ed, s2.ID, wordnet.Derivation, s1.ID))
	})

	t.Run("pertainym has no inverse in the sense vocabulary", func(t *testing.T) {
		require.NoError(t, ed.RemoveSenseRelation(ctx, s1.ID, wordnet.Derivation, s2.ID))
		require.NoError(t, ed.AddSenseRelation(ctx, s1.ID, wordnet.Pertainym, s2.ID))
		assert.True(t, senseRelationExists(t, ed, s1.ID, wordnet.Pertainym, s2.ID))
		rels, err := ed.Store().SenseRelationsFrom(ctx, s2.ID)
		require.NoError(t, err)
		assert.Empty(t, rels)
	})

	t.Run("synset-only type rejected on senses", func(t *testing.T) {
		var inv *wordnet.InvariantError
		require.ErrorAs(t, ed.AddSenseRelation(ctx, s1.ID, wordnet.Hypernym, s2.ID), &inv)
	})

	t.Run("self-loop", func(t *testing.T) {
		var inv *wordnet.InvariantError
		require.ErrorAs(t, ed.AddSenseRelation(ctx, s1.ID, wordnet.Antonym, s1.ID), &inv)
	})
}

func TestSenseSynsetRelations(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	entry := makeEntry(t, ed, lex.ID, "scalpel")
	syn := makeSynset(t, ed, lex.ID, "scalpel-n")
	domain := makeSynset(t, ed, lex.ID, "surgery-n")
	sense := makeSense(t, ed, entry.ID, syn.ID)

	require.NoError(t, ed.AddSenseSynsetRelation(ctx, sense.ID, wordnet.DomainTopic, domain.ID))
	rels, err := ed.Store().SenseSynsetRelationsFrom(ctx, sense.ID)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, wordnet.DomainTopic, rels[0].Type)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, ed.AddSenseSynsetRelation(ctx, sense.ID, wordnet.DomainTopic, domain.ID))
		rels, err := ed.Store().SenseSynsetRelationsFrom(ctx, sense.ID)
		require.NoError(t, err)
		assert.Len(t, rels, 1)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, ed.RemoveSenseSynsetRelation(ctx, sense.ID, wordnet.DomainTopic, domain.ID))
		rels, err := ed.Store().SenseSynsetRelationsFrom(ctx, sense.ID)
		require.NoError(t, err)
		assert.Empty(t, rels)
		require.NoError(t, ed.RemoveSenseSynsetRelation(ctx, sense.ID, wordnet.DomainTopic, domain.ID))
	})

	t.Run("wrong vocabulary", func(t *testing.T) {
		var inv *wordnet.InvariantError
		require.ErrorAs(t, ed.AddSenseSynsetRelation(ctx, sense.ID, wordnet.Hypernym, domain.ID), &inv)
	})
}

func TestVocabularyInversesDiffer(t *testing.T) {
	// The same type name can pair differently per vocabulary. "agent" has an
	// inverse among synsets but none among senses.
	inv, ok := wordnet.SynsetRelations.Inverse(wordnet.Agent)
	require.True(t, ok)
	assert.Equal(t, wordnet.InvolvedAgent, inv)

	_, ok = wordnet.SenseRelations.Inverse(wordnet.Agent)
	assert.False(t, ok)
}
