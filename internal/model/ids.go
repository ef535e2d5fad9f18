package model

import (
	"fmt"
	"strings"
)

// Category identifies the kind of object an ObjectRef addresses.
type Category string

const (
	CategorySeqParticipant Category = "seq/participant"
	CategorySeqMessage     Category = "seq/message"
	CategorySeqBlock       Category = "seq/block"
	CategorySeqSection     Category = "seq/section"
	CategoryFlowNode       Category = "flow/node"
	CategoryFlowEdge       Category = "flow/edge"
)

var validCategories = map[Category]bool{
	CategorySeqParticipant: true,
	CategorySeqMessage:     true,
	CategorySeqBlock:       true,
	CategorySeqSection:     true,
	CategoryFlowNode:       true,
	CategoryFlowEdge:       true,
}

// ObjectRef is the canonical stable reference to any addressable AST
// object: "d:<diagram_id>/<category>/<object_id>".
type ObjectRef struct {
	DiagramID string
	Category  Category
	ObjectID  string
}

// IsValidID reports whether s is a well-formed opaque identifier: non-empty,
// printable, and containing neither '/' nor any newline character.
func IsValidID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r == '/' || r == '\n' || r == '\r' {
			return false
		}
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// Format renders the canonical textual form of the reference.
func (r ObjectRef) Format() string {
	return fmt.Sprintf("d:%s/%s/%s", r.DiagramID, r.Category, r.ObjectID)
}

func (r ObjectRef) String() string { return r.Format() }

// ParseObjectRef parses the canonical "d:<diagram_id>/<category>/<object_id>"
// form. Parsing is strict: malformed references are rejected.
func ParseObjectRef(s string) (ObjectRef, error) {
	const prefix = "d:"
	if !strings.HasPrefix(s, prefix) {
		return ObjectRef{}, fmt.Errorf("objectref: missing %q prefix: %q", prefix, s)
	}
	rest := s[len(prefix):]
	parts := strings.Split(rest, "/")
	if len(parts) != 4 {
		return ObjectRef{}, fmt.Errorf("objectref: expected 4 path segments after %q, got %d: %q", prefix, len(parts), s)
	}
	diagramID := parts[0]
	category := Category(parts[1] + "/" + parts[2])
	objectID := parts[3]

	if !IsValidID(diagramID) {
		return ObjectRef{}, fmt.Errorf("objectref: invalid diagram id in %q", s)
	}
	if !validCategories[category] {
		return ObjectRef{}, fmt.Errorf("objectref: unknown category %q in %q", category, s)
	}
	if !IsValidID(objectID) {
		return ObjectRef{}, fmt.Errorf("objectref: invalid object id in %q", s)
	}
	return ObjectRef{DiagramID: diagramID, Category: category, ObjectID: objectID}, nil
}

// IDAllocator hands out stable, monotonically increasing ids within a single
// kind prefix. Ids are never reused within the allocator's lifetime, even
// after the object they named is removed.
type IDAllocator struct {
	prefix string
	next   uint64
}

// NewIDAllocator creates an allocator that produces ids "<prefix>:<n>"
// starting at n=1.
func NewIDAllocator(prefix string) *IDAllocator {
	return &IDAllocator{prefix: prefix, next: 1}
}

// Next returns the next stable id and advances the counter.
func (a *IDAllocator) Next() string {
	id := fmt.Sprintf("%s:%d", a.prefix, a.next)
	a.next++
	return id
}

// Observe advances the allocator's counter so that future Next() calls never
// collide with an id already known to exist (e.g. one restored from a
// persisted sidecar). It is a no-op if id does not match "<prefix>:<n>".
func (a *IDAllocator) Observe(id string) {
	suffix := strings.TrimPrefix(id, a.prefix+":")
	if suffix == id {
		return
	}
	var n uint64
	if _, err := fmt.Sscanf(suffix, "%d", &n); err != nil {
		return
	}
	if n >= a.next {
		a.next = n + 1
	}
}
