package wordnet

import (
	"testing"
)

func TestPartOfSpeechValid(t *testing.T) {
	for _, pos := range []PartOfSpeech{Noun, Verb, Adjective, Adverb, AdjectiveSatellite, Phrase, Conjunction, Adposition, Other, Unknown} {
		if !pos.Valid() {
			t.Errorf("%q should be valid", pos)
		}
	}
	for _, pos := range []PartOfSpeech{"", "z", "nn"} {
		if pos.Valid() {
			t.Errorf("%q should be invalid", pos)
		}
	}
}

func TestLexiconSpecifier(t *testing.T) {
	lex := Lexicon{BareID: "oewn", Version: "2024"}
	if got := lex.Specifier(); got != "oewn:2024" {
		t.Errorf("expected oewn:2024, got %q", got)
	}
}

func TestVocabularyInverses(t *testing.T) {
	tests := []struct {
		vocab   *Vocabulary
		typ     RelType
		inverse RelType
		ok      bool
	}{
		{SynsetRelations, Hypernym, Hyponym, true},
		{SynsetRelations, Hyponym, Hypernym, true},
		{SynsetRelations, Causes, IsCausedBy, true},
		{SynsetRelations, Antonym, Antonym, true},
		{SynsetRelations, OtherRel, "", false},
		{SynsetRelations, Agent, InvolvedAgent, true},
		{SenseRelations, Agent, "", false},
		{SenseRelations, Derivation, Derivation, true},
		{SenseRelations, Metaphor, HasMetaphor, true},
		{SenseRelations, Pertainym, "", false},
		{SenseSynsetRelations, DomainTopic, "", false},
	}
	for _, tt := range tests {
		inv, ok := tt.vocab.Inverse(tt.typ)
		if ok != tt.ok {
			t.Errorf("%s.Inverse(%s): expected ok=%v, got %v", tt.vocab.Name(), tt.typ, tt.ok, ok)
			continue
		}
		if ok && inv != tt.inverse {
			t.Errorf("%s.Inverse(%s): expected %s, got %s", tt.vocab.Name(), tt.typ, tt.inverse, inv)
		}
	}
}

func TestVocabularyInversePairsAreSymmetric(t *testing.T) {
	for _, v := range []*Vocabulary{SynsetRelations, SenseRelations, SenseSynsetRelations} {
		for _, typ := range v.Types() {
			inv, ok := v.Inverse(typ)
			if !ok {
				continue
			}
			back, ok := v.Inverse(inv)
			if !ok || back != typ {
				t.Errorf("%s: inverse of %s is %s but the reverse mapping is %s", v.Name(), typ, inv, back)
			}
		}
	}
}

func TestVocabularyMembership(t *testing.T) {
	if !SynsetRelations.Contains(Hypernym) {
		t.Error("synset vocabulary should contain hypernym")
	}
	if SenseRelations.Contains(Hypernym) {
		t.Error("sense vocabulary should not contain hypernym")
	}
	if !SenseRelations.Contains(Pertainym) {
		t.Error("sense vocabulary should contain pertainym")
	}
	if SynsetRelations.Contains(Pertainym) {
		t.Error("synset vocabulary should not contain pertainym")
	}
	if !SynsetRelations.IsSymmetric(Similar) {
		t.Error("similar should be symmetric")
	}
	if SynsetRelations.IsSymmetric(Hypernym) {
		t.Error("hypernym should not be symmetric")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&NotFoundError{Kind: KindSynset, ID: 7}, "synset 7 not found"},
		{&DuplicateError{Kind: KindEntry, Detail: `id "dog-n" already exists in lexicon`}, `duplicate entry: id "dog-n" already exists in lexicon`},
		{&InvariantError{Detail: "a synset cannot be related to itself"}, "invariant violation: a synset cannot be related to itself"},
		{&DependencyError{Kind: KindSynset, ID: 3, Dependents: 2}, "cannot delete synset 3: 2 dependent senses exist (use cascade)"},
		{&ConflictError{SourceID: 1, TargetID: 2, Detail: "both synsets carry an interlingual mapping"}, "conflict merging synset 1 into 2: both synsets carry an interlingual mapping"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestSynsetHasILIMapping(t *testing.T) {
	s := Synset{}
	if s.HasILIMapping() {
		t.Error("empty status should not count as a mapping")
	}
	s.ILIStatus = ILIProposed
	if !s.HasILIMapping() {
		t.Error("proposed status is a mapping")
	}
	s.ILIStatus = ILIConfirmed
	if !s.HasILIMapping() {
		t.Error("confirmed status is a mapping")
	}
}
