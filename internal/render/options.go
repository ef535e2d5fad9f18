package render

import "github.com/julianshen/nereid-core/internal/layout"

// Options tunes rendering. AsciiOnly is reserved for a future pure-ASCII
// fallback glyph set; box-drawing characters are always used today.
type Options struct {
	ShowNotes   bool
	AsciiOnly   bool
	ColumnWidth int
	RowSpacing  int
}

// DefaultOptions mirrors layout.DefaultOptions for the geometry fields so
// renderer and layout stay in lockstep unless a caller overrides both.
func DefaultOptions() Options {
	base := layout.DefaultOptions()
	return Options{
		ColumnWidth: base.ColumnWidth,
		RowSpacing:  base.RowSpacing,
	}
}

func (o Options) layoutOptions() layout.Options {
	lo := layout.DefaultOptions()
	lo.ShowNotes = o.ShowNotes
	if o.ColumnWidth > 0 {
		lo.ColumnWidth = o.ColumnWidth
	}
	if o.RowSpacing > 0 {
		lo.RowSpacing = o.RowSpacing
	}
	return lo
}
