package editor

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// snapshot renders every entity and relation row as text so tests can assert
// that a failed operation changed nothing.
func snapshot(t *testing.T, ed *Editor) string {
	t.Helper()
	db := ed.Store().DB()

	var b strings.Builder
	tables := map[string]string{
		"lexicons":               "SELECT id, bare_id, version FROM lexicons ORDER BY id",
		"entries":                "SELECT id, lexicon_id, bare_id FROM entries ORDER BY id",
		"forms":                  "SELECT id, entry_id, written, rank FROM forms ORDER BY id",
		"synsets":                "SELECT id, lexicon_id, bare_id, ili, ili_status, lexicalized FROM synsets ORDER BY id",
		"senses":                 "SELECT id, entry_id, synset_id, entry_rank, synset_rank FROM senses ORDER BY id",
		"definitions":            "SELECT id, synset_id, text FROM definitions ORDER BY id",
		"synset_examples":        "SELECT id, synset_id, text FROM synset_examples ORDER BY id",
		"proposed_ilis":          "SELECT synset_id, definition FROM proposed_ilis ORDER BY synset_id",
		"synset_relations":       "SELECT source_id, type, target_id FROM synset_relations ORDER BY source_id, type, target_id",
		"sense_relations":        "SELECT source_id, type, target_id FROM sense_relations ORDER BY source_id, type, target_id",
		"sense_synset_relations": "SELECT sense_id, type, synset_id FROM sense_synset_relations ORDER BY sense_id, type, synset_id",
	}
	for _, name := range []string{
		"lexicons", "entries", "forms", "synsets", "senses", "definitions",
		"synset_examples", "proposed_ilis", "synset_relations",
		"sense_relations", "sense_synset_relations",
	} {
		rows, err := db.Query(tables[name])
		require.NoError(t, err)
		cols, err := rows.Columns()
		require.NoError(t, err)
		for rows.Next() {
			vals := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			require.NoError(t, rows.Scan(ptrs...))
			fmt.Fprintf(&b, "%s %v\n", name, vals)
		}
		require.NoError(t, rows.Err())
		rows.Close()
	}
	return b.String()
}

func TestMergeSynsets(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	e1 := makeEntry(t, ed, lex.ID, "car")
	e2 := makeEntry(t, ed, lex.ID, "auto")
	e3 := makeEntry(t, ed, lex.ID, "automobile")
	source := makeSynset(t, ed, lex.ID, "car-1")
	target := makeSynset(t, ed, lex.ID, "car-2")
	vehicle := makeSynset(t, ed, lex.ID, "vehicle")
	wheel := makeSynset(t, ed, lex.ID, "wheel")

	s1 := makeSense(t, ed, e1.ID, source.ID)
	s2 := makeSense(t, ed, e2.ID, source.ID)
	s3 := makeSense(t, ed, e3.ID, target.ID)

	require.NoError(t, ed.AddSynsetRelation(ctx, source.ID, wordnet.Hypernym, vehicle.ID))
	require.NoError(t, ed.AddSynsetRelation(ctx, source.ID, wordnet.MeroPart, wheel.ID))
	// Target already has the hypernym, so the redirected edge must dedupe.
	require.NoError(t, ed.AddSynsetRelation(ctx, target.ID, wordnet.Hypernym, vehicle.ID))

	_, err := ed.AddDefinition(ctx, source.ID, "shared gloss", "en")
	require.NoError(t, err)
	_, err = ed.AddDefinition(ctx, target.ID, "shared gloss", "en")
	require.NoError(t, err)

	got, err := ed.MergeSynsets(ctx, source.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, got.ID)

	// Source is gone.
	var nf *wordnet.NotFoundError
	_, err = ed.Store().GetSynset(ctx, source.ID)
	require.ErrorAs(t, err, &nf)

	// All three senses live on the target, ids unchanged.
	senses, err := ed.Store().SensesBySynset(ctx, target.ID)
	require.NoError(t, err)
	ids := make(map[int64]bool)
	for _, s := range senses {
		ids[s.ID] = true
	}
	assert.True(t, ids[s1.ID] && ids[s2.ID] && ids[s3.ID])

	// Relations moved without duplicates; inverses follow.
	rels, err := ed.Store().SynsetRelationsFrom(ctx, target.ID)
	require.NoError(t, err)
	byType := make(map[wordnet.RelType]int)
	for _, rel := range rels {
		byType[rel.Type]++
	}
	assert.Equal(t, 1, byType[wordnet.Hypernym], "duplicate hypernym collapsed")
	assert.Equal(t, 1, byType[wordnet.MeroPart])

	stale, err := ed.Store().SynsetRelationsTouching(ctx, source.ID)
	require.NoError(t, err)
	assert.Empty(t, stale, "nothing still references the merged-away synset")

	// The duplicate definition text was skipped.
	defs, err := ed.Store().DefinitionsBySynset(ctx, target.ID)
	require.NoError(t, err)
	texts := make(map[string]int)
	for _, d := range defs {
		texts[d.Text]++
	}
	assert.Equal(t, 1, texts["shared gloss"])
	assert.Equal(t, 1, texts["definition of car-1"])
}

func TestMergeSynsets_ILI(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)

	t.Run("transfer from source", func(t *testing.T) {
		source := makeSynset(t, ed, lex.ID, "src-1")
		target := makeSynset(t, ed, lex.ID, "tgt-1")
		require.NoError(t, ed.SetILI(ctx, source.ID, "i100"))

		_, err := ed.MergeSynsets(ctx, source.ID, target.ID)
		require.NoError(t, err)

		got, err := ed.Store().GetSynset(ctx, target.ID)
		require.NoError(t, err)
		assert.Equal(t, "i100", got.ILI)
		assert.Equal(t, wordnet.ILIConfirmed, got.ILIStatus)
	})

	t.Run("conflict aborts atomically", func(t *testing.T) {
		source := makeSynset(t, ed, lex.ID, "src-2")
		target := makeSynset(t, ed, lex.ID, "tgt-2")
		require.NoError(t, ed.SetILI(ctx, source.ID, "i200"))
		require.NoError(t, ed.ProposeILI(ctx, target.ID, "competing concept"))

		before := snapshot(t, ed)
		_, err := ed.MergeSynsets(ctx, source.ID, target.ID)
		var conflict *wordnet.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, source.ID, conflict.SourceID)
		assert.Equal(t, before, snapshot(t, ed), "failed merge must change nothing")
	})
}

func TestMergeSynsets_Validation(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	syn := makeSynset(t, ed, lex.ID, "only")

	t.Run("self merge", func(t *testing.T) {
		_, err := ed.MergeSynsets(ctx, syn.ID, syn.ID)
		var inv *wordnet.InvariantError
		require.ErrorAs(t, err, &inv)
	})

	t.Run("missing target", func(t *testing.T) {
		_, err := ed.MergeSynsets(ctx, syn.ID, 999)
		var nf *wordnet.NotFoundError
		require.ErrorAs(t, err, &nf)
	})

	t.Run("cross lexicon", func(t *testing.T) {
		other, err := ed.CreateLexicon(ctx, CreateLexiconParams{BareID: "other", Version: "1.0", Language: "en"})
		require.NoError(t, err)
		foreign := makeSynset(t, ed, other.ID, "foreign")
		_, err = ed.MergeSynsets(ctx, syn.ID, foreign.ID)
		var inv *wordnet.InvariantError
		require.ErrorAs(t, err, &inv)
	})
}

func TestSplitSynset(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	e1 := makeEntry(t, ed, lex.ID, "bank")
	e2 := makeEntry(t, ed, lex.ID, "side")
	e3 := makeEntry(t, ed, lex.ID, "shore")
	syn := makeSynset(t, ed, lex.ID, "bank-n")
	land := makeSynset(t, ed, lex.ID, "land-n")
	s1 := makeSense(t, ed, e1.ID, syn.ID)
	s2 := makeSense(t, ed, e2.ID, syn.ID)
	s3 := makeSense(t, ed, e3.ID, syn.ID)

	require.NoError(t, ed.AddSynsetRelation(ctx, syn.ID, wordnet.Hypernym, land.ID))

	result, err := ed.SplitSynset(ctx, syn.ID, [][]int64{{s1.ID}, {s2.ID, s3.ID}})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, syn.ID, result[0].ID)
	created := result[1]

	// The second group lives on the new synset, ranks renumbered.
	senses, err := ed.Store().SensesBySynset(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, senses, 2)
	assert.Equal(t, s2.ID, senses[0].ID)
	assert.Equal(t, 0, senses[0].SynsetRank)
	assert.Equal(t, s3.ID, senses[1].ID)

	// Outgoing relations copied, inverse maintained.
	rels, err := ed.Store().SynsetRelationsFrom(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, wordnet.Hypernym, rels[0].Type)
	incoming, err := ed.Store().SynsetRelationsFrom(ctx, land.ID)
	require.NoError(t, err)
	assert.Len(t, incoming, 2, "land is hyponym-linked to both synsets now")

	// Original keeps its relation and its definitions; new synset has none.
	defs, err := ed.Store().DefinitionsBySynset(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, defs)
	assert.False(t, created.HasILIMapping())
}

func TestSplitSynset_Resplit(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	syn := makeSynset(t, ed, lex.ID, "bank-n")
	var ids []int64
	for _, lemma := range []string{"bank", "side", "shore", "edge"} {
		e := makeEntry(t, ed, lex.ID, lemma)
		ids = append(ids, makeSense(t, ed, e.ID, syn.ID).ID)
	}

	first, err := ed.SplitSynset(ctx, syn.ID, [][]int64{{ids[0], ids[1]}, {ids[2], ids[3]}})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "bank-n-split-1", first[1].BareID)

	// Splitting the survivor again must not collide with the bare id the
	// first split minted.
	second, err := ed.SplitSynset(ctx, syn.ID, [][]int64{{ids[0]}, {ids[1]}})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "bank-n-split-2", second[1].BareID)
}

func TestSplitSynset_PartitionEnforced(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	e1 := makeEntry(t, ed, lex.ID, "bat")
	e2 := makeEntry(t, ed, lex.ID, "club")
	syn := makeSynset(t, ed, lex.ID, "bat-n")
	s1 := makeSense(t, ed, e1.ID, syn.ID)
	s2 := makeSense(t, ed, e2.ID, syn.ID)

	cases := []struct {
		name   string
		groups [][]int64
	}{
		{"missing sense", [][]int64{{s1.ID}}},
		{"duplicated sense", [][]int64{{s1.ID}, {s1.ID, s2.ID}}},
		{"foreign sense", [][]int64{{s1.ID}, {s2.ID, 999}}},
		{"empty group", [][]int64{{s1.ID, s2.ID}, {}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := snapshot(t, ed)
			_, err := ed.SplitSynset(ctx, syn.ID, tc.groups)
			var inv *wordnet.InvariantError
			require.ErrorAs(t, err, &inv)
			assert.Equal(t, before, snapshot(t, ed), "failed split must change nothing")
		})
	}
}

func TestMoveSense(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	entry := makeEntry(t, ed, lex.ID, "mouse")
	rodent := makeSynset(t, ed, lex.ID, "rodent-sense")
	device := makeSynset(t, ed, lex.ID, "device-sense")
	other := makeEntry(t, ed, lex.ID, "rat")
	sense := makeSense(t, ed, entry.ID, rodent.ID)
	peer := makeSense(t, ed, other.ID, rodent.ID)

	require.NoError(t, ed.AddSenseRelation(ctx, sense.ID, wordnet.Antonym, peer.ID))

	moved, err := ed.MoveSense(ctx, sense.ID, device.ID)
	require.NoError(t, err)
	assert.Equal(t, device.ID, moved.SynsetID)

	// The sense's own relations ride along untouched.
	rels, err := ed.Store().SenseRelationsFrom(ctx, sense.ID)
	require.NoError(t, err)
	assert.Len(t, rels, 1)

	gotTarget, err := ed.Store().GetSynset(ctx, device.ID)
	require.NoError(t, err)
	assert.True(t, gotTarget.Lexicalized)

	t.Run("vacating the last sense unlexicalizes", func(t *testing.T) {
		moved2, err := ed.MoveSense(ctx, peer.ID, device.ID)
		require.NoError(t, err)
		assert.Equal(t, device.ID, moved2.SynsetID)
		got, err := ed.Store().GetSynset(ctx, rodent.ID)
		require.NoError(t, err)
		assert.False(t, got.Lexicalized)
	})
}

func TestMoveSense_DuplicateGuard(t *testing.T) {
	ed := newTestEditor(t)
	ctx := context.Background()
	lex := makeLexicon(t, ed)
	entry := makeEntry(t, ed, lex.ID, "spring")
	x := makeSynset(t, ed, lex.ID, "season")
	y := makeSynset(t, ed, lex.ID, "coil")
	inX := makeSense(t, ed, entry.ID, x.ID)
	makeSense(t, ed, entry.ID, y.ID)

	before := snapshot(t, ed)
	_, err := ed.MoveSense(ctx, inX.ID, y.ID)
	var dup *wordnet.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, before, snapshot(t, ed), "failed move must change nothing")

	t.Run("move to own synset", func(t *testing.T) {
		_, err := ed.MoveSense(ctx, inX.ID, x.ID)
		require.ErrorAs(t, err, &dup)
	})
}
