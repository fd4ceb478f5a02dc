package wordnet

import (
	"fmt"
	"time"
)

// PartOfSpeech is the grammatical category tag carried by entries and synsets.
type PartOfSpeech string

// Part-of-speech tags from the interchange schema.
const (
	Noun               PartOfSpeech = "n"
	Verb               PartOfSpeech = "v"
	Adjective          PartOfSpeech = "a"
	Adverb             PartOfSpeech = "r"
	AdjectiveSatellite PartOfSpeech = "s"
	Phrase             PartOfSpeech = "t"
	Conjunction        PartOfSpeech = "c"
	Adposition         PartOfSpeech = "p"
	Other              PartOfSpeech = "x"
	Unknown            PartOfSpeech = "u"
)

// Valid reports whether p is one of the known part-of-speech tags.
func (p PartOfSpeech) Valid() bool {
	switch p {
	case Noun, Verb, Adjective, Adverb, AdjectiveSatellite, Phrase, Conjunction, Adposition, Other, Unknown:
		return true
	}
	return false
}

// EntityKind tags the five persisted entity kinds in history records and errors.
type EntityKind string

// Entity kinds.
const (
	KindLexicon  EntityKind = "lexicon"
	KindEntry    EntityKind = "entry"
	KindSynset   EntityKind = "synset"
	KindSense    EntityKind = "sense"
	KindRelation EntityKind = "relation"
)

// ILIStatus describes a synset's interlingual-index mapping state.
type ILIStatus string

// ILI mapping states. A synset has at most one mapping, either a confirmed
// identifier or a proposed mapping justified by a definition.
const (
	ILINone      ILIStatus = ""
	ILIConfirmed ILIStatus = "confirmed"
	ILIProposed  ILIStatus = "proposed"
)

// Lexicon is one versioned lexical resource. (ID, Version) is unique; BareID
// alone is also unique across versions because mutation targeting by ambiguous
// bare ids is refused at creation time.
type Lexicon struct {
	ID       int64  // rowid, the only identity mutations accept
	BareID   string // human-readable id, e.g. "oewn"
	Version  string
	Label    string
	Language string // BCP-47 tag
	Email    string
	License  string
	URL      string
	Citation string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Specifier returns the "{id}:{version}" form used to disambiguate coexisting
// versions of the same resource in user-facing output.
func (l *Lexicon) Specifier() string {
	return fmt.Sprintf("%s:%s", l.BareID, l.Version)
}

// Entry is a word-plus-part-of-speech unit owned by exactly one lexicon.
// Its canonical written form is the rank-0 Form.
type Entry struct {
	ID        int64
	LexiconID int64
	BareID    string // e.g. "oewn-dog-n", unique within the lexicon
	POS       PartOfSpeech

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Form is one written representation of an entry. Rank 0 is the lemma;
// ranks >= 1 are variant forms.
type Form struct {
	ID      int64
	EntryID int64
	Written string
	Script  string
	Rank    int
}

// Synset is a concept node owned by exactly one lexicon.
type Synset struct {
	ID        int64
	LexiconID int64
	BareID    string
	POS       PartOfSpeech
	ILI       string    // confirmed interlingual identifier, empty if none
	ILIStatus ILIStatus // none, confirmed, or proposed
	// Lexicalized is derived: true iff the synset owns at least one sense.
	// A synset that loses its last sense is marked unlexicalized, never
	// silently deleted.
	Lexicalized bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasILIMapping reports whether the synset carries any interlingual mapping,
// confirmed or proposed.
func (s *Synset) HasILIMapping() bool {
	return s.ILIStatus != ILINone
}

// Sense is the edge connecting one entry to one synset. It carries an ordering
// rank within its entry and within its synset, and may itself be a relation
// endpoint.
type Sense struct {
	ID         int64
	EntryID    int64
	SynsetID   int64
	BareID     string
	EntryRank  int // position among the entry's senses
	SynsetRank int // position among the synset's senses

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Definition is one gloss owned by a synset. Every synset keeps at least one.
type Definition struct {
	ID       int64
	SynsetID int64
	Text     string
	Language string
}

// Example is a usage example owned by a synset or, via SenseExample, a sense.
type Example struct {
	ID       int64
	SynsetID int64
	Text     string
	Language string
}

// SenseExample is a usage example attached to one sense.
type SenseExample struct {
	ID      int64
	SenseID int64
	Text    string
}

// Count is a corpus frequency observation for a sense.
type Count struct {
	ID      int64
	SenseID int64
	Value   int
}

// Relation is a directed typed edge. Exactly one of the three endpoint
// pairings applies depending on which table the row lives in:
// synset->synset, sense->sense, or sense->synset.
type Relation struct {
	ID       int64
	SourceID int64
	TargetID int64
	Type     RelType
}

// HistoryOp is the operation kind recorded in an audit row.
type HistoryOp string

// History operation kinds. Compound operations record their constituent rows
// plus one summary row carrying the compound kind.
const (
	OpCreate HistoryOp = "create"
	OpUpdate HistoryOp = "update"
	OpDelete HistoryOp = "delete"
	OpMerge  HistoryOp = "merge"
	OpSplit  HistoryOp = "split"
	OpMove   HistoryOp = "move"
)

// HistoryRecord is one append-only audit row written inside the same
// transaction as the mutation it describes.
type HistoryRecord struct {
	ID         string // uuid
	EntityKind EntityKind
	EntityID   int64
	Field      string // changed field for updates, empty otherwise
	Op         HistoryOp
	OldValue   string
	NewValue   string
	CreatedAt  time.Time
}
