// Package layout computes deterministic, AST-neutral coordinate
// assignments for sequence and flowchart diagrams: column/row positions
// for sequences, and layered grid positions for flowcharts. Layout never
// mutates the AST it reads and always terminates.
package layout

// Options tunes layout geometry. Zero-value Options is invalid; use
// DefaultOptions.
type Options struct {
	ColumnWidth int
	RowSpacing  int
	ShowNotes   bool
	MinNodeWidth int
	BorderPad    int
}

// DefaultOptions matches SPEC_FULL.md §4.4's defaults.
func DefaultOptions() Options {
	return Options{
		ColumnWidth:  16,
		RowSpacing:   2,
		ShowNotes:    false,
		MinNodeWidth: 8,
		BorderPad:    1,
	}
}
