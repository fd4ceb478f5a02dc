package store

import (
	"context"
	"fmt"
	"time"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

func now() time.Time { return time.Now().UTC() }

func (t *Tx) insert(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// --- Lexicon rows ---

// InsertLexicon inserts the lexicon and fills in its rowid and timestamps.
func (t *Tx) InsertLexicon(ctx context.Context, l *wordnet.Lexicon) error {
	l.CreatedAt = now()
	l.UpdatedAt = l.CreatedAt
	id, err := t.insert(ctx,
		`INSERT INTO lexicons (bare_id, version, label, language, email, license, url, citation, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.BareID, l.Version, l.Label, l.Language, l.Email, l.License, l.URL, l.Citation, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert lexicon: %w", err)
	}
	l.ID = id
	return nil
}

// UpdateLexicon writes the lexicon's mutable fields back.
func (t *Tx) UpdateLexicon(ctx context.Context, l *wordnet.Lexicon) error {
	l.UpdatedAt = now()
	_, err := t.tx.ExecContext(ctx,
		`UPDATE lexicons SET label = ?, language = ?, email = ?, license = ?, url = ?, citation = ?, updated_at = ?
		 WHERE id = ?`,
		l.Label, l.Language, l.Email, l.License, l.URL, l.Citation, l.UpdatedAt, l.ID)
	if err != nil {
		return fmt.Errorf("failed to update lexicon: %w", err)
	}
	return nil
}

// DeleteLexiconRow deletes the bare lexicon row. Owned rows must already be
// gone.
func (t *Tx) DeleteLexiconRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM lexicons WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete lexicon: %w", err)
	}
	return nil
}

// --- Entry and form rows ---

// EntryBareIDExists reports whether the lexicon already has an entry with the
// given bare id.
func (t *Tx) EntryBareIDExists(ctx context.Context, lexiconID int64, bareID string) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE lexicon_id = ? AND bare_id = ?`, lexiconID, bareID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check entry id: %w", err)
	}
	return n > 0, nil
}

// InsertEntry inserts the entry and fills in its rowid and timestamps.
func (t *Tx) InsertEntry(ctx context.Context, e *wordnet.Entry) error {
	e.CreatedAt = now()
	e.UpdatedAt = e.CreatedAt
	id, err := t.insert(ctx,
		`INSERT INTO entries (lexicon_id, bare_id, pos, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		e.LexiconID, e.BareID, e.POS, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	e.ID = id
	return nil
}

// DeleteEntryRow deletes the bare entry row.
func (t *Tx) DeleteEntryRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

// InsertForm inserts a written form and fills in its rowid.
func (t *Tx) InsertForm(ctx context.Context, f *wordnet.Form) error {
	id, err := t.insert(ctx,
		`INSERT INTO forms (entry_id, written, script, rank) VALUES (?, ?, ?, ?)`,
		f.EntryID, f.Written, f.Script, f.Rank)
	if err != nil {
		return fmt.Errorf("failed to insert form: %w", err)
	}
	f.ID = id
	return nil
}

// NextFormRank returns one past the highest form rank of the entry.
func (t *Tx) NextFormRank(ctx context.Context, entryID int64) (int, error) {
	var max int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(rank), -1) FROM forms WHERE entry_id = ?`, entryID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get form rank: %w", err)
	}
	return max + 1, nil
}

// DeleteFormRow deletes one form.
func (t *Tx) DeleteFormRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM forms WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	return nil
}

// DeleteFormsByEntry deletes all forms of the entry.
func (t *Tx) DeleteFormsByEntry(ctx context.Context, entryID int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM forms WHERE entry_id = ?`, entryID); err != nil {
		return fmt.Errorf("failed to delete forms: %w", err)
	}
	return nil
}

// --- Synset rows ---

// SynsetBareIDExists reports whether the lexicon already has a synset with the
// given bare id.
func (t *Tx) SynsetBareIDExists(ctx context.Context, lexiconID int64, bareID string) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM synsets WHERE lexicon_id = ? AND bare_id = ?`, lexiconID, bareID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check synset id: %w", err)
	}
	return n > 0, nil
}

// InsertSynset inserts the synset and fills in its rowid and timestamps.
func (t *Tx) InsertSynset(ctx context.Context, s *wordnet.Synset) error {
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	id, err := t.insert(ctx,
		`INSERT INTO synsets (lexicon_id, bare_id, pos, ili, ili_status, lexicalized, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.LexiconID, s.BareID, s.POS, s.ILI, s.ILIStatus, s.Lexicalized, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert synset: %w", err)
	}
	s.ID = id
	return nil
}

// SetSynsetILI updates the synset's interlingual mapping columns.
func (t *Tx) SetSynsetILI(ctx context.Context, id int64, ili string, status wordnet.ILIStatus) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE synsets SET ili = ?, ili_status = ?, updated_at = ? WHERE id = ?`,
		ili, status, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update synset ili: %w", err)
	}
	return nil
}

// SetSynsetLexicalized updates the synset's derived lexicalized flag.
func (t *Tx) SetSynsetLexicalized(ctx context.Context, id int64, lexicalized bool) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE synsets SET lexicalized = ?, updated_at = ? WHERE id = ?`,
		lexicalized, now(), id)
	if err != nil {
		return fmt.Errorf("failed to update synset: %w", err)
	}
	return nil
}

// DeleteSynsetRow deletes the bare synset row. Relations, senses, and owned
// auxiliary rows must already be gone.
func (t *Tx) DeleteSynsetRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM synsets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete synset: %w", err)
	}
	return nil
}

// DeleteSynsetChildren deletes the synset's definitions, examples, and
// proposed-mapping rows.
func (t *Tx) DeleteSynsetChildren(ctx context.Context, synsetID int64) error {
	for _, q := range []string{
		`DELETE FROM definitions WHERE synset_id = ?`,
		`DELETE FROM synset_examples WHERE synset_id = ?`,
		`DELETE FROM proposed_ilis WHERE synset_id = ?`,
	} {
		if _, err := t.tx.ExecContext(ctx, q, synsetID); err != nil {
			return fmt.Errorf("failed to delete synset children: %w", err)
		}
	}
	return nil
}

// --- Sense rows ---

// InsertSense inserts the sense and fills in its rowid and timestamps.
func (t *Tx) InsertSense(ctx context.Context, s *wordnet.Sense) error {
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	id, err := t.insert(ctx,
		`INSERT INTO senses (entry_id, synset_id, bare_id, entry_rank, synset_rank, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.EntryID, s.SynsetID, s.BareID, s.EntryRank, s.SynsetRank, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sense: %w", err)
	}
	s.ID = id
	return nil
}

// ReassignSense repoints the sense at a different synset with a new synset
// rank. The sense keeps its identity and its entry rank.
func (t *Tx) ReassignSense(ctx context.Context, id, synsetID int64, synsetRank int) error {
	_, err := t.tx.ExecContext(ctx,
		`UPDATE senses SET synset_id = ?, synset_rank = ?, updated_at = ? WHERE id = ?`,
		synsetID, synsetRank, now(), id)
	if err != nil {
		return fmt.Errorf("failed to reassign sense: %w", err)
	}
	return nil
}

// NextEntryRank returns one past the highest entry rank among the entry's
// senses.
func (t *Tx) NextEntryRank(ctx context.Context, entryID int64) (int, error) {
	var max int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(entry_rank), -1) FROM senses WHERE entry_id = ?`, entryID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get entry rank: %w", err)
	}
	return max + 1, nil
}

// NextSynsetRank returns one past the highest synset rank among the synset's
// senses.
func (t *Tx) NextSynsetRank(ctx context.Context, synsetID int64) (int, error) {
	var max int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(synset_rank), -1) FROM senses WHERE synset_id = ?`, synsetID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get synset rank: %w", err)
	}
	return max + 1, nil
}

// DeleteSenseRow deletes the bare sense row.
func (t *Tx) DeleteSenseRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM senses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete sense: %w", err)
	}
	return nil
}

// DeleteSenseChildren deletes the sense's examples, counts, and frame links.
func (t *Tx) DeleteSenseChildren(ctx context.Context, senseID int64) error {
	for _, q := range []string{
		`DELETE FROM sense_examples WHERE sense_id = ?`,
		`DELETE FROM counts WHERE sense_id = ?`,
		`DELETE FROM sense_frames WHERE sense_id = ?`,
	} {
		if _, err := t.tx.ExecContext(ctx, q, senseID); err != nil {
			return fmt.Errorf("failed to delete sense children: %w", err)
		}
	}
	return nil
}

// --- Auxiliary rows ---

// InsertDefinition inserts a definition and fills in its rowid.
func (t *Tx) InsertDefinition(ctx context.Context, d *wordnet.Definition) error {
	id, err := t.insert(ctx,
		`INSERT INTO definitions (synset_id, text, language) VALUES (?, ?, ?)`,
		d.SynsetID, d.Text, d.Language)
	if err != nil {
		return fmt.Errorf("failed to insert definition: %w", err)
	}
	d.ID = id
	return nil
}

// DeleteDefinitionRow deletes one definition.
func (t *Tx) DeleteDefinitionRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM definitions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete definition: %w", err)
	}
	return nil
}

// InsertSynsetExample inserts a synset example and fills in its rowid.
func (t *Tx) InsertSynsetExample(ctx context.Context, e *wordnet.Example) error {
	id, err := t.insert(ctx,
		`INSERT INTO synset_examples (synset_id, text, language) VALUES (?, ?, ?)`,
		e.SynsetID, e.Text, e.Language)
	if err != nil {
		return fmt.Errorf("failed to insert example: %w", err)
	}
	e.ID = id
	return nil
}

// DeleteSynsetExampleRow deletes one synset example.
func (t *Tx) DeleteSynsetExampleRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM synset_examples WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete example: %w", err)
	}
	return nil
}

// InsertSenseExample inserts a sense example and fills in its rowid.
func (t *Tx) InsertSenseExample(ctx context.Context, e *wordnet.SenseExample) error {
	id, err := t.insert(ctx,
		`INSERT INTO sense_examples (sense_id, text) VALUES (?, ?)`, e.SenseID, e.Text)
	if err != nil {
		return fmt.Errorf("failed to insert sense example: %w", err)
	}
	e.ID = id
	return nil
}

// InsertCount inserts a corpus count and fills in its rowid.
func (t *Tx) InsertCount(ctx context.Context, c *wordnet.Count) error {
	id, err := t.insert(ctx,
		`INSERT INTO counts (sense_id, value) VALUES (?, ?)`, c.SenseID, c.Value)
	if err != nil {
		return fmt.Errorf("failed to insert count: %w", err)
	}
	c.ID = id
	return nil
}

// InsertSenseFrame links a behavioral frame to the sense.
func (t *Tx) InsertSenseFrame(ctx context.Context, senseID int64, frame string) error {
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO sense_frames (sense_id, frame) VALUES (?, ?)`, senseID, frame); err != nil {
		return fmt.Errorf("failed to insert sense frame: %w", err)
	}
	return nil
}

// UpsertProposedILI records a proposed interlingual mapping, replacing any
// existing proposal for the synset.
func (t *Tx) UpsertProposedILI(ctx context.Context, synsetID int64, definition string) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO proposed_ilis (synset_id, definition) VALUES (?, ?)
		 ON CONFLICT (synset_id) DO UPDATE SET definition = excluded.definition`,
		synsetID, definition)
	if err != nil {
		return fmt.Errorf("failed to upsert proposed ili: %w", err)
	}
	return nil
}

// DeleteProposedILI removes the synset's proposed mapping, if any.
func (t *Tx) DeleteProposedILI(ctx context.Context, synsetID int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM proposed_ilis WHERE synset_id = ?`, synsetID); err != nil {
		return fmt.Errorf("failed to delete proposed ili: %w", err)
	}
	return nil
}

// --- Relation rows ---
//
// Each relation table gets the same trio: existence probe, insert, and delete
// by (source, type, target). Row-addressed update/delete helpers back the
// merge redirection logic.

func (t *Tx) relationExists(ctx context.Context, table string, src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE source_id = ? AND type = ? AND target_id = ?`,
		src, typ, tgt).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check relation: %w", err)
	}
	return n > 0, nil
}

func (t *Tx) insertRelation(ctx context.Context, table string, src int64, typ wordnet.RelType, tgt int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO `+table+` (source_id, target_id, type) VALUES (?, ?, ?)`, src, tgt, typ); err != nil {
		return fmt.Errorf("failed to insert relation: %w", err)
	}
	return nil
}

func (t *Tx) deleteRelation(ctx context.Context, table string, src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE source_id = ? AND type = ? AND target_id = ?`, src, typ, tgt)
	if err != nil {
		return false, fmt.Errorf("failed to delete relation: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SynsetRelationExists reports whether the exact synset relation row exists.
func (t *Tx) SynsetRelationExists(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	return t.relationExists(ctx, "synset_relations", src, typ, tgt)
}

// InsertSynsetRelation inserts one directed synset relation row.
func (t *Tx) InsertSynsetRelation(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) error {
	return t.insertRelation(ctx, "synset_relations", src, typ, tgt)
}

// DeleteSynsetRelation deletes the exact synset relation row and reports
// whether it existed.
func (t *Tx) DeleteSynsetRelation(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	return t.deleteRelation(ctx, "synset_relations", src, typ, tgt)
}

// UpdateSynsetRelationSource repoints one relation row's source.
func (t *Tx) UpdateSynsetRelationSource(ctx context.Context, id, sourceID int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE synset_relations SET source_id = ? WHERE id = ?`, sourceID, id); err != nil {
		return fmt.Errorf("failed to update relation source: %w", err)
	}
	return nil
}

// UpdateSynsetRelationTarget repoints one relation row's target.
func (t *Tx) UpdateSynsetRelationTarget(ctx context.Context, id, targetID int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE synset_relations SET target_id = ? WHERE id = ?`, targetID, id); err != nil {
		return fmt.Errorf("failed to update relation target: %w", err)
	}
	return nil
}

// DeleteSynsetRelationRow deletes one relation row by id.
func (t *Tx) DeleteSynsetRelationRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM synset_relations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete relation: %w", err)
	}
	return nil
}

// SenseRelationExists reports whether the exact sense relation row exists.
func (t *Tx) SenseRelationExists(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	return t.relationExists(ctx, "sense_relations", src, typ, tgt)
}

// InsertSenseRelation inserts one directed sense relation row.
func (t *Tx) InsertSenseRelation(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) error {
	return t.insertRelation(ctx, "sense_relations", src, typ, tgt)
}

// DeleteSenseRelation deletes the exact sense relation row and reports whether
// it existed.
func (t *Tx) DeleteSenseRelation(ctx context.Context, src int64, typ wordnet.RelType, tgt int64) (bool, error) {
	return t.deleteRelation(ctx, "sense_relations", src, typ, tgt)
}

// DeleteSenseRelationRow deletes a sense relation by row id.
func (t *Tx) DeleteSenseRelationRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM sense_relations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete relation: %w", err)
	}
	return nil
}

// SenseSynsetRelationExists reports whether the exact sense-to-synset relation
// row exists.
func (t *Tx) SenseSynsetRelationExists(ctx context.Context, senseID int64, typ wordnet.RelType, synsetID int64) (bool, error) {
	var n int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sense_synset_relations WHERE sense_id = ? AND type = ? AND synset_id = ?`,
		senseID, typ, synsetID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check relation: %w", err)
	}
	return n > 0, nil
}

// InsertSenseSynsetRelation inserts one sense-to-synset relation row.
func (t *Tx) InsertSenseSynsetRelation(ctx context.Context, senseID int64, typ wordnet.RelType, synsetID int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO sense_synset_relations (sense_id, synset_id, type) VALUES (?, ?, ?)`,
		senseID, synsetID, typ); err != nil {
		return fmt.Errorf("failed to insert relation: %w", err)
	}
	return nil
}

// DeleteSenseSynsetRelation deletes the exact sense-to-synset relation row and
// reports whether it existed.
func (t *Tx) DeleteSenseSynsetRelation(ctx context.Context, senseID int64, typ wordnet.RelType, synsetID int64) (bool, error) {
	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM sense_synset_relations WHERE sense_id = ? AND type = ? AND synset_id = ?`,
		senseID, typ, synsetID)
	if err != nil {
		return false, fmt.Errorf("failed to delete relation: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpdateSenseSynsetRelationTarget repoints one sense-to-synset relation row's
// synset end.
func (t *Tx) UpdateSenseSynsetRelationTarget(ctx context.Context, id, synsetID int64) error {
	if _, err := t.tx.ExecContext(ctx,
		`UPDATE sense_synset_relations SET synset_id = ? WHERE id = ?`, synsetID, id); err != nil {
		return fmt.Errorf("failed to update relation target: %w", err)
	}
	return nil
}

// DeleteSenseSynsetRelationRow deletes one sense-to-synset relation row by id.
func (t *Tx) DeleteSenseSynsetRelationRow(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM sense_synset_relations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete relation: %w", err)
	}
	return nil
}

// --- History rows ---

// InsertHistory appends one audit record.
func (t *Tx) InsertHistory(ctx context.Context, h *wordnet.HistoryRecord) error {
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO history (id, entity_kind, entity_id, field, op, old_value, new_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.EntityKind, h.EntityID, h.Field, h.Op, h.OldValue, h.NewValue, h.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert history record: %w", err)
	}
	return nil
}
