// Package query implements the read-only sequence/flow/session query
// primitives of spec.md §4.7: filtered message lookups, flow reachability
// and path analysis, and cross-diagram route finding over the session
// meta-graph. Every primitive is a pure function over an AST snapshot; none
// mutate their input.
package query

import "fmt"

// InvalidParams reports a malformed query parameter: an unknown enum value
// or an unparsable regex. A limit of zero or less is not an error; it
// yields an empty result.
type InvalidParams struct {
	Detail string
}

func (e *InvalidParams) Error() string { return "invalid params: " + e.Detail }

// NotFound reports that a query referenced an id absent from the AST.
type NotFound struct {
	Kind string
	ID   string
}

func (e *NotFound) Error() string { return fmt.Sprintf("not found: %s %s", e.Kind, e.ID) }
