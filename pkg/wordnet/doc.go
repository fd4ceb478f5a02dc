// Package wordnet defines the shared entity types, the closed relation-type
// vocabularies, and the error taxonomy for the lexibase editing layer.
//
// The package is dependency-free on purpose: storage (internal/store), editing
// logic (internal/editor), and the CLI all import it, never the other way
// around.
package wordnet
