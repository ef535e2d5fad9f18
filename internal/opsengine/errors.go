// Package opsengine implements the clone-validate-commit mutation contract
// for diagrams and walkthroughs: typed ops, base-revision conflict gating,
// minimal delta computation, and a bounded per-subject history ring buffer.
package opsengine

import (
	"fmt"

	"github.com/julianshen/nereid-core/internal/model"
)

// NotFound reports that an op referenced an id that does not exist in the
// current AST.
type NotFound struct {
	Kind string
	ID   string
}

func (e *NotFound) Error() string { return fmt.Sprintf("not found: %s %s", e.Kind, e.ID) }

// DuplicateID reports that an op would introduce a second object sharing an
// id (or mermaid id) that must be unique.
type DuplicateID struct {
	Kind string
	ID   string
}

func (e *DuplicateID) Error() string { return fmt.Sprintf("duplicate %s id %q", e.Kind, e.ID) }

// InvalidEndpoint reports that an op's endpoint does not resolve within the
// same diagram.
type InvalidEndpoint struct {
	Detail string
}

func (e *InvalidEndpoint) Error() string { return "invalid endpoint: " + e.Detail }

// InvalidText reports a newline (or otherwise malformed) text/label payload.
type InvalidText struct {
	Detail string
}

func (e *InvalidText) Error() string { return "invalid text: " + e.Detail }

// InvalidSection reports that a section's kind is not allowed on the block
// it was added to (else only on alt, and only on par).
type InvalidSection struct {
	BlockKind   model.BlockKind
	SectionKind model.SectionKind
}

func (e *InvalidSection) Error() string {
	return fmt.Sprintf("%s section not allowed in %s block", e.SectionKind, e.BlockKind)
}

// RevConflict reports that the caller's base_rev no longer matches the
// subject's current revision. No state changes accompany this error.
type RevConflict struct {
	CurrentRev uint64
}

func (e *RevConflict) Error() string {
	return fmt.Sprintf("revision conflict: current_rev=%d", e.CurrentRev)
}

// IdentifierCollision reports that a rename would collide with an existing
// mermaid identifier.
type IdentifierCollision struct {
	Ident string
}

func (e *IdentifierCollision) Error() string {
	return fmt.Sprintf("identifier collision: %q already in use", e.Ident)
}

// Unavailable reports that a delta query's since_rev predates the oldest
// retained history entry; the caller must resync via a full snapshot.
type Unavailable struct {
	CurrentRev uint64
}

func (e *Unavailable) Error() string {
	return fmt.Sprintf("delta unavailable: current_rev=%d", e.CurrentRev)
}
