package wordnet

import "fmt"

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Kind EntityKind
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// DuplicateError reports an identity or uniqueness collision.
type DuplicateError struct {
	Kind   EntityKind
	Detail string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s: %s", e.Kind, e.Detail)
}

// InvariantError reports a mutation that would break a graph invariant:
// a self-loop, a relation type invalid for its endpoint kinds, a malformed
// split partition, or removal of a required row.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Detail
}

// DependencyError reports a refused non-cascading delete. Dependents is the
// number of rows blocking the deletion.
type DependencyError struct {
	Kind       EntityKind
	ID         int64
	Dependents int
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: %d dependent senses exist (use cascade)", e.Kind, e.ID, e.Dependents)
}

// ConflictError reports a merge between two synsets that both carry an
// interlingual mapping. The caller must clear one side first.
type ConflictError struct {
	SourceID int64
	TargetID int64
	Detail   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict merging synset %d into %d: %s", e.SourceID, e.TargetID, e.Detail)
}
