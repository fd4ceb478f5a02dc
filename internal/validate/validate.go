// Package validate provides read-only consistency checks over a lexical
// resource. Rules are data-driven definitions registered at init time; they
// never mutate the store, and they run on demand rather than on every edit.
package validate

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lexibase-labs/lexibase/pkg/wordnet"
)

// Severity indicates the importance of a diagnostic.
type Severity int

// Severity levels for diagnostics.
const (
	// SeverityError indicates a broken invariant that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a likely problem that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates informational feedback.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return SeverityError, fmt.Errorf("unknown severity %q", s)
	}
}

// Reader is the read surface a rule may use. Both *store.Store and an open
// *store.Tx satisfy it.
type Reader interface {
	GetLexicon(ctx context.Context, id int64) (*wordnet.Lexicon, error)
	EntriesByLexicon(ctx context.Context, lexiconID int64) ([]*wordnet.Entry, error)
	SynsetsByLexicon(ctx context.Context, lexiconID int64) ([]*wordnet.Synset, error)
	FormsByEntry(ctx context.Context, entryID int64) ([]*wordnet.Form, error)
	SensesByEntry(ctx context.Context, entryID int64) ([]*wordnet.Sense, error)
	SensesBySynset(ctx context.Context, synsetID int64) ([]*wordnet.Sense, error)
	DefinitionsBySynset(ctx context.Context, synsetID int64) ([]*wordnet.Definition, error)
	ProposedILIDefinition(ctx context.Context, synsetID int64) (string, error)
	SynsetRelationsFrom(ctx context.Context, id int64) ([]*wordnet.Relation, error)
	SenseRelationsFrom(ctx context.Context, id int64) ([]*wordnet.Relation, error)
}

// Diagnostic represents one finding.
type Diagnostic struct {
	RuleID   string
	Severity Severity
	Kind     wordnet.EntityKind
	EntityID int64
	Message  string
}

// CheckFunc examines one lexicon and returns diagnostics.
type CheckFunc func(ctx context.Context, r Reader, lexiconID int64) ([]Diagnostic, error)

// RuleDef is a data-driven rule definition. Rules are stateless; all context
// arrives through the check parameters.
type RuleDef struct {
	ID          string // unique identifier, e.g. "synset/missing-definition"
	Description string
	Severity    Severity
	Check       CheckFunc
}

var globalRegistry = struct {
	mu    sync.RWMutex
	rules map[string]RuleDef
}{rules: make(map[string]RuleDef)}

// Register adds a rule to the global registry. Call from init().
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// All returns every registered rule, sorted by ID.
func All() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// ByID returns a rule by its ID.
func ByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// Run executes the named rules against one lexicon. With no ids it runs every
// registered rule.
func Run(ctx context.Context, r Reader, lexiconID int64, ruleIDs ...string) ([]Diagnostic, error) {
	if _, err := r.GetLexicon(ctx, lexiconID); err != nil {
		return nil, err
	}

	var rules []RuleDef
	if len(ruleIDs) == 0 {
		rules = All()
	} else {
		for _, id := range ruleIDs {
			rule, ok := ByID(id)
			if !ok {
				return nil, fmt.Errorf("unknown rule %q", id)
			}
			rules = append(rules, rule)
		}
	}

	var all []Diagnostic
	for _, rule := range rules {
		found, err := rule.Check(ctx, r, lexiconID)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		all = append(all, found...)
	}
	return all, nil
}
