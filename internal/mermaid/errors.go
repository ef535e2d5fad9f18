// Package mermaid parses and exports the Mermaid-compatible subset defined
// by the diagramming workspace: sequenceDiagram and flowchart, restricted
// to the grammar spec.md §4.1 names. Parsing is strict and line-oriented;
// unsupported constructs are rejected with an actionable line/kind error
// rather than silently ignored.
package mermaid

import "fmt"

// ParseErrorKind tags why a line failed to parse.
type ParseErrorKind string

const (
	UnsupportedLine      ParseErrorKind = "UnsupportedLine"
	UnknownParticipant   ParseErrorKind = "UnknownParticipant"
	UnknownNode          ParseErrorKind = "UnknownNode"
	BlockUnderflow       ParseErrorKind = "BlockUnderflow"
	BlockOverflow        ParseErrorKind = "BlockOverflow"
	DuplicateParticipant ParseErrorKind = "DuplicateParticipant"
	DuplicateNodeID      ParseErrorKind = "DuplicateNodeId"
	AliasConflict        ParseErrorKind = "AliasConflict"
	InvalidArrow         ParseErrorKind = "InvalidArrow"
	EmptyBlock           ParseErrorKind = "EmptyBlock"
	InvalidSection       ParseErrorKind = "InvalidSection"
)

// ParseError reports a line-level parse failure, always carrying the
// offending line number (1-based) and its verbatim text.
type ParseError struct {
	LineNo int
	Line   string
	Kind   ParseErrorKind
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("line %d: %s: %s (%q)", e.LineNo, e.Kind, e.Detail, e.Line)
	}
	return fmt.Sprintf("line %d: %s (%q)", e.LineNo, e.Kind, e.Line)
}

// ExportErrorKind tags why an AST failed to export.
type ExportErrorKind string

const (
	NewlineInLabel     ExportErrorKind = "NewlineInLabel"
	DuplicateMermaidID ExportErrorKind = "DuplicateMermaidId"
)

// ExportError reports an export-time failure.
type ExportError struct {
	Kind   ExportErrorKind
	Detail string
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}
