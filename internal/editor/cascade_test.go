package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

func TestDeleteSense(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	e1 := makeEntry(t, ed, lex.ID, "happy")
	e2 := makeEntry(t, ed, lex.ID, "glad")
	syn := makeSynset(t, ed, lex.ID, "happy-a")
	s1 := makeSense(t, ed, e1.ID, syn.ID)
	s2 := makeSense(t, ed, e2.ID, syn.ID)

	require.NoError(t, ed.AddSenseRelation(ctx, s1.ID, wordnet.Antonym, s2.ID))
	_, err := ed.AddSenseExample(ctx, s1.ID, "a happy child")
	require.NoError(t, err)

	require.NoError(t, ed.DeleteSense(ctx, s1.ID))

	_, err = ed.Store().GetSense(ctx, s1.ID)
	var nf *wordnet.NotFoundError
	require.ErrorAs(t, err, &nf)

	rels, err := ed.Store().SenseRelationsFrom(ctx, s2.ID)
	require.NoError(t, err)
	assert.Empty(t, rels, "the inverse edge held by the surviving sense must go too")

	got, err := ed.Store().GetSynset(ctx, syn.ID)
	require.NoError(t, err)
	assert.True(t, got.Lexicalized, "the synset still has a sense")

	require.NoError(t, ed.DeleteSense(ctx, s2.ID))
	got, err = ed.Store().GetSynset(ctx, syn.ID)
	require.NoError(t, err)
	assert.False(t, got.Lexicalized, "losing the last sense unlexicalizes the synset")
}

func TestDeleteSynset(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	entry := makeEntry(t, ed, lex.ID, "dog")
	syn := makeSynset(t, ed, lex.ID, "dog-n")
	other := makeSynset(t, ed, lex.ID, "animal-n")
	sense := makeSense(t, ed, entry.ID, syn.ID)
	require.NoError(t, ed.AddSynsetRelation(ctx, syn.ID, wordnet.Hypernym, other.ID))
	_, err := ed.AddExample(ctx, syn.ID, "the dog barked", "en")
	require.NoError(t, err)
	require.NoError(t, ed.ProposeILI(ctx, syn.ID, "a domesticated canid"))
	_, err = ed.AddSenseExample(ctx, sense.ID, "a good dog")
	require.NoError(t, err)

	t.Run("refused with dependents", func(t *testing.T) {
		err := ed.DeleteSynset(ctx, syn.ID)
		var dep *wordnet.DependencyError
		require.ErrorAs(t, err, &dep)
		assert.Equal(t, wordnet.KindSynset, dep.Kind)
		assert.Equal(t, 1, dep.Dependents)

		// The refusal must leave everything intact.
		_, err = ed.Store().GetSynset(ctx, syn.ID)
		require.NoError(t, err)
	})

	t.Run("cascade", func(t *testing.T) {
		require.NoError(t, ed.DeleteSynset(ctx, syn.ID, Cascade()))

		var nf *wordnet.NotFoundError
		_, err := ed.Store().GetSynset(ctx, syn.ID)
		require.ErrorAs(t, err, &nf)

		senses, err := ed.Store().SensesByEntry(ctx, entry.ID)
		require.NoError(t, err)
		assert.Empty(t, senses)

		rels, err := ed.Store().SynsetRelationsFrom(ctx, other.ID)
		require.NoError(t, err)
		assert.Empty(t, rels, "the surviving synset's inverse edge must go")

		// Owned rows go with the synset and its senses.
		defs, err := ed.Store().DefinitionsBySynset(ctx, syn.ID)
		require.NoError(t, err)
		assert.Empty(t, defs)
		examples, err := ed.Store().ExamplesBySynset(ctx, syn.ID)
		require.NoError(t, err)
		assert.Empty(t, examples)
		proposed, err := ed.Store().ProposedILIDefinition(ctx, syn.ID)
		require.NoError(t, err)
		assert.Empty(t, proposed)
		senseExamples, err := ed.Store().SenseExamplesBySense(ctx, sense.ID)
		require.NoError(t, err)
		assert.Empty(t, senseExamples)
	})
}

func TestDeleteSynset_Empty(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	syn := makeSynset(t, ed, lex.ID, "empty")

	// No dependents, so no cascade flag needed.
	require.NoError(t, ed.DeleteSynset(ctx, syn.ID))
}

func TestDeleteEntry(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	entry := makeEntry(t, ed, lex.ID, "cat")
	syn := makeSynset(t, ed, lex.ID, "cat-n")
	makeSense(t, ed, entry.ID, syn.ID)

	t.Run("refused with dependents", func(t *testing.T) {
		err := ed.DeleteEntry(ctx, entry.ID)
		var dep *wordnet.DependencyError
		require.ErrorAs(t, err, &dep)
	})

	t.Run("cascade", func(t *testing.T) {
		require.NoError(t, ed.DeleteEntry(ctx, entry.ID, Cascade()))

		var nf *wordnet.NotFoundError
		_, err := ed.Store().GetEntry(ctx, entry.ID)
		require.ErrorAs(t, err, &nf)

		got, err := ed.Store().GetSynset(ctx, syn.ID)
		require.NoError(t, err)
		assert.False(t, got.Lexicalized, "the synset survives, unlexicalized")
	})
}

func TestDeleteLexicon(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	entry := makeEntry(t, ed, lex.ID, "dog")
	syn := makeSynset(t, ed, lex.ID, "dog-n")
	other := makeSynset(t, ed, lex.ID, "animal-n")
	makeSense(t, ed, entry.ID, syn.ID)
	require.NoError(t, ed.AddSynsetRelation(ctx, syn.ID, wordnet.Hypernym, other.ID))

	require.NoError(t, ed.DeleteLexicon(ctx, lex.ID))

	var nf *wordnet.NotFoundError
	_, err := ed.Store().GetLexicon(ctx, lex.ID)
	require.ErrorAs(t, err, &nf)
	_, err = ed.Store().GetEntry(ctx, entry.ID)
	require.ErrorAs(t, err, &nf)
	_, err = ed.Store().GetSynset(ctx, syn.ID)
	require.ErrorAs(t, err, &nf)

	exists, err := ed.Store().LexiconBareIDExists(ctx, "test")
	require.NoError(t, err)
	assert.False(t, exists, "the bare id is free again")
}
