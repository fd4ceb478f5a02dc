package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

const lexiconCols = `id, bare_id, version, label, language, email, license, url, citation, created_at, updated_at`

func scanLexicon(row interface{ Scan(dest ...any) error }) (*wordnet.Lexicon, error) {
	l := &wordnet.Lexicon{}
	err := row.Scan(&l.ID, &l.BareID, &l.Version, &l.Label, &l.Language, &l.Email,
		&l.License, &l.URL, &l.Citation, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

// GetLexicon retrieves a lexicon by rowid.
func (r queries) GetLexicon(ctx context.Context, id int64) (*wordnet.Lexicon, error) {
	l, err := scanLexicon(r.q.QueryRowContext(ctx,
		`SELECT `+lexiconCols+` FROM lexicons WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, &wordnet.NotFoundError{Kind: wordnet.KindLexicon, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lexicon: %w", err)
	}
	return l, nil
}

// ListLexicons returns all lexicons ordered by bare id and version.
func (r queries) ListLexicons(ctx context.Context) ([]*wordnet.Lexicon, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+lexiconCols+` FROM lexicons ORDER BY bare_id, version`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lexicons: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Lexicon
	for rows.Next() {
		l, err := scanLexicon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lexicon: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// LexiconBareIDExists reports whether any version of the given bare id exists.
// Creation of a second version under an existing bare id is refused to keep
// every mutation unambiguous.
func (r queries) LexiconBareIDExists(ctx context.Context, bareID string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lexicons WHERE bare_id = ?`, bareID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check lexicon id: %w", err)
	}
	return n > 0, nil
}

const entryCols = `id, lexicon_id, bare_id, pos, created_at, updated_at`

func scanEntry(row interface{ Scan(dest ...any) error }) (*wordnet.Entry, error) {
	e := &wordnet.Entry{}
	err := row.Scan(&e.ID, &e.LexiconID, &e.BareID, &e.POS, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// GetEntry retrieves an entry by rowid.
func (r queries) GetEntry(ctx context.Context, id int64) (*wordnet.Entry, error) {
	e, err := scanEntry(r.q.QueryRowContext(ctx,
		`SELECT `+entryCols+` FROM entries WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, &wordnet.NotFoundError{Kind: wordnet.KindEntry, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

// EntriesByLexicon returns the lexicon's entries ordered by bare id.
func (r queries) EntriesByLexicon(ctx context.Context, lexiconID int64) ([]*wordnet.Entry, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+entryCols+` FROM entries WHERE lexicon_id = ? ORDER BY bare_id`, lexiconID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// FormsByEntry returns the entry's forms ordered by rank (lemma first).
func (r queries) FormsByEntry(ctx context.Context, entryID int64) ([]*wordnet.Form, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, entry_id, written, script, rank FROM forms WHERE entry_id = ? ORDER BY rank`, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Form
	for rows.Next() {
		f := &wordnet.Form{}
		if err := rows.Scan(&f.ID, &f.EntryID, &f.Written, &f.Script, &f.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan form: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetForm retrieves a form by rowid.
func (r queries) GetForm(ctx context.Context, id int64) (*wordnet.Form, error) {
	f := &wordnet.Form{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, entry_id, written, script, rank FROM forms WHERE id = ?`, id).
		Scan(&f.ID, &f.EntryID, &f.Written, &f.Script, &f.Rank)
	if err == sql.ErrNoRows {
		return nil, &wordnet.NotFoundError{Kind: wordnet.KindEntry, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	return f, nil
}

const synsetCols = `id, lexicon_id, bare_id, pos, ili, ili_status, lexicalized, created_at, updated_at`

func scanSynset(row interface{ Scan(dest ...any) error }) (*wordnet.Synset, error) {
	s := &wordnet.Synset{}
	err := row.Scan(&s.ID, &s.LexiconID, &s.BareID, &s.POS, &s.ILI, &s.ILIStatus,
		&s.Lexicalized, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSynset retrieves a synset by rowid.
func (r queries) GetSynset(ctx context.Context, id int64) (*wordnet.Synset, error) {
	s, err := scanSynset(r.q.QueryRowContext(ctx,
		`SELECT `+synsetCols+` FROM synsets WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, &wordnet.NotFoundError{Kind: wordnet.KindSynset, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get synset: %w", err)
	}
	return s, nil
}

// SynsetsByLexicon returns the lexicon's synsets ordered by bare id.
func (r queries) SynsetsByLexicon(ctx context.Context, lexiconID int64) ([]*wordnet.Synset, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+synsetCols+` FROM synsets WHERE lexicon_id = ? ORDER BY bare_id`, lexiconID)
	if err != nil {
		return nil, fmt.Errorf("failed to list synsets: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Synset
	for rows.Next() {
		s, err := scanSynset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan synset: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const senseCols = `id, entry_id, synset_id, bare_id, entry_rank, synset_rank, created_at, updated_at`

func scanSense(row interface{ Scan(dest ...any) error }) (*wordnet.Sense, error) {
	s := &wordnet.Sense{}
	err := row.Scan(&s.ID, &s.EntryID, &s.SynsetID, &s.BareID, &s.EntryRank,
		&s.SynsetRank, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetSense retrieves a sense by rowid.
func (r queries) GetSense(ctx context.Context, id int64) (*wordnet.Sense, error) {
	s, err := scanSense(r.q.QueryRowContext(ctx,
		`SELECT `+senseCols+` FROM senses WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, &wordnet.NotFoundError{Kind: wordnet.KindSense, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sense: %w", err)
	}
	return s, nil
}

// SensesByEntry returns the entry's senses ordered by entry rank.
func (r queries) SensesByEntry(ctx context.Context, entryID int64) ([]*wordnet.Sense, error) {
	return r.senses(ctx, `entry_id`, `entry_rank`, entryID)
}

// SensesBySynset returns the synset's senses ordered by synset rank.
func (r queries) SensesBySynset(ctx context.Context, synsetID int64) ([]*wordnet.Sense, error) {
	return r.senses(ctx, `synset_id`, `synset_rank`, synsetID)
}

func (r queries) senses(ctx context.Context, col, order string, id int64) ([]*wordnet.Sense, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+senseCols+` FROM senses WHERE `+col+` = ? ORDER BY `+order, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list senses: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Sense
	for rows.Next() {
		s, err := scanSense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sense: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountSensesBySynset returns the number of senses owned by the synset.
func (r queries) CountSensesBySynset(ctx context.Context, synsetID int64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM senses WHERE synset_id = ?`, synsetID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count senses: %w", err)
	}
	return n, nil
}

// CountSensesByEntry returns the number of senses owned by the entry.
func (r queries) CountSensesByEntry(ctx context.Context, entryID int64) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM senses WHERE entry_id = ?`, entryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count senses: %w", err)
	}
	return n, nil
}

// EntryHasSenseInSynset reports whether the entry already connects to the
// synset through some sense.
func (r queries) EntryHasSenseInSynset(ctx context.Context, entryID, synsetID int64) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM senses WHERE entry_id = ? AND synset_id = ?`, entryID, synsetID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check sense membership: %w", err)
	}
	return n > 0, nil
}

// DefinitionsBySynset returns the synset's definitions in insertion order.
func (r queries) DefinitionsBySynset(ctx context.Context, synsetID int64) ([]*wordnet.Definition, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, synset_id, text, language FROM definitions WHERE synset_id = ? ORDER BY id`, synsetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Definition
	for rows.Next() {
		d := &wordnet.Definition{}
		if err := rows.Scan(&d.ID, &d.SynsetID, &d.Text, &d.Language); err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDefinition retrieves one definition by rowid.
func (r queries) GetDefinition(ctx context.Context, id int64) (*wordnet.Definition, error) {
	d := &wordnet.Definition{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, synset_id, text, language FROM definitions WHERE id = ?`, id).
		Scan(&d.ID, &d.SynsetID, &d.Text, &d.Language)
	if err == sql.ErrNoRows {
		return nil, &wordnet.NotFoundError{Kind: wordnet.KindSynset, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get definition: %w", err)
	}
	return d, nil
}

// GetSynsetExample retrieves one synset example by rowid.
func (r queries) GetSynsetExample(ctx context.Context, id int64) (*wordnet.Example, error) {
	e := &wordnet.Example{}
	err := r.q.QueryRowContext(ctx,
		`SELECT id, synset_id, text, language FROM synset_examples WHERE id = ?`, id).
		Scan(&e.ID, &e.SynsetID, &e.Text, &e.Language)
	if err == sql.ErrNoRows {
		return nil, &wordnet.NotFoundError{Kind: wordnet.KindSynset, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get example: %w", err)
	}
	return e, nil
}

// ExamplesBySynset returns the synset's examples in insertion order.
func (r queries) ExamplesBySynset(ctx context.Context, synsetID int64) ([]*wordnet.Example, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, synset_id, text, language FROM synset_examples WHERE synset_id = ? ORDER BY id`, synsetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list examples: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Example
	for rows.Next() {
		e := &wordnet.Example{}
		if err := rows.Scan(&e.ID, &e.SynsetID, &e.Text, &e.Language); err != nil {
			return nil, fmt.Errorf("failed to scan example: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SenseExamplesBySense returns the sense's examples in insertion order.
func (r queries) SenseExamplesBySense(ctx context.Context, senseID int64) ([]*wordnet.SenseExample, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, sense_id, text FROM sense_examples WHERE sense_id = ? ORDER BY id`, senseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sense examples: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.SenseExample
	for rows.Next() {
		e := &wordnet.SenseExample{}
		if err := rows.Scan(&e.ID, &e.SenseID, &e.Text); err != nil {
			return nil, fmt.Errorf("failed to scan sense example: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ProposedILIDefinition returns the proposed-mapping definition for the
// synset, or "" if none exists.
func (r queries) ProposedILIDefinition(ctx context.Context, synsetID int64) (string, error) {
	var def string
	err := r.q.QueryRowContext(ctx,
		`SELECT definition FROM proposed_ilis WHERE synset_id = ?`, synsetID).Scan(&def)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get proposed ili: %w", err)
	}
	return def, nil
}

func (r queries) relations(ctx context.Context, query string, args ...any) ([]*wordnet.Relation, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list relations: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.Relation
	for rows.Next() {
		rel := &wordnet.Relation{}
		if err := rows.Scan(&rel.ID, &rel.SourceID, &rel.TargetID, &rel.Type); err != nil {
			return nil, fmt.Errorf("failed to scan relation: %w", err)
		}
		out = append(out, rel)
	}
	return out, rows.Err()
}

// SynsetRelationsFrom returns all synset relations originating at id.
func (r queries) SynsetRelationsFrom(ctx context.Context, id int64) ([]*wordnet.Relation, error) {
	return r.relations(ctx,
		`SELECT id, source_id, target_id, type FROM synset_relations WHERE source_id = ? ORDER BY id`, id)
}

// SynsetRelationsTo returns all synset relations pointing at id.
func (r queries) SynsetRelationsTo(ctx context.Context, id int64) ([]*wordnet.Relation, error) {
	return r.relations(ctx,
		`SELECT id, source_id, target_id, type FROM synset_relations WHERE target_id = ? ORDER BY id`, id)
}

// SynsetRelationsTouching returns all synset relations where id is either
// endpoint.
func (r queries) SynsetRelationsTouching(ctx context.Context, id int64) ([]*wordnet.Relation, error) {
	return r.relations(ctx,
		`SELECT id, source_id, target_id, type FROM synset_relations WHERE source_id = ? OR target_id = ? ORDER BY id`, id, id)
}

// SenseRelationsFrom returns all sense relations originating at id.
func (r queries) SenseRelationsFrom(ctx context.Context, id int64) ([]*wordnet.Relation, error) {
	return r.relations(ctx,
		`SELECT id, source_id, target_id, type FROM sense_relations WHERE source_id = ? ORDER BY id`, id)
}

// SenseRelationsTouching returns all sense relations where id is either
// endpoint.
func (r queries) SenseRelationsTouching(ctx context.Context, id int64) ([]*wordnet.Relation, error) {
	return r.relations(ctx,
		`SELECT id, source_id, target_id, type FROM sense_relations WHERE source_id = ? OR target_id = ? ORDER BY id`, id, id)
}

// SenseSynsetRelationsFrom returns all sense-to-synset relations originating
// at the sense.
func (r queries) SenseSynsetRelationsFrom(ctx context.Context, senseID int64) ([]*wordnet.Relation, error) {
	return r.relations(ctx,
		`SELECT id, sense_id, synset_id, type FROM sense_synset_relations WHERE sense_id = ? ORDER BY id`, senseID)
}

// SenseSynsetRelationsTo returns all sense-to-synset relations pointing at the
// synset.
func (r queries) SenseSynsetRelationsTo(ctx context.Context, synsetID int64) ([]*wordnet.Relation, error) {
	return r.relations(ctx,
		`SELECT id, sense_id, synset_id, type FROM sense_synset_relations WHERE synset_id = ? ORDER BY id`, synsetID)
}

// History returns the audit records for one entity, oldest first.
func (r queries) History(ctx context.Context, kind wordnet.EntityKind, entityID int64) ([]*wordnet.HistoryRecord, error) {
	return r.history(ctx,
		`SELECT id, entity_kind, entity_id, field, op, old_value, new_value, created_at
		 FROM history WHERE entity_kind = ? AND entity_id = ? ORDER BY created_at, id`, kind, entityID)
}

// HistoryAll returns every audit record, oldest first.
func (r queries) HistoryAll(ctx context.Context) ([]*wordnet.HistoryRecord, error) {
	return r.history(ctx,
		`SELECT id, entity_kind, entity_id, field, op, old_value, new_value, created_at
		 FROM history ORDER BY created_at, id`)
}

func (r queries) history(ctx context.Context, query string, args ...any) ([]*wordnet.HistoryRecord, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var out []*wordnet.HistoryRecord
	for rows.Next() {
		h := &wordnet.HistoryRecord{}
		if err := rows.Scan(&h.ID, &h.EntityKind, &h.EntityID, &h.Field, &h.Op,
			&h.OldValue, &h.NewValue, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
