package render

import "github.com/julianshen/nereid-core/internal/model"

// LineSpan is a single contiguous run of cells on one canvas row, in the
// trimmed coordinate space String() returns.
type LineSpan struct {
	Y, X0, X1 int
}

// HighlightIndex maps every addressable object rendered onto a canvas to
// the spans it occupies, for the agent tool surface and the interactive
// shell (neither implemented here) to highlight against. Spans are always
// clamped to canvas bounds at insertion time; empty spans are never added.
type HighlightIndex map[model.ObjectRef][]LineSpan

func (h HighlightIndex) add(ref model.ObjectRef, span LineSpan, width, height int) {
	if span.Y < 0 || span.Y >= height {
		return
	}
	if span.X0 > span.X1 {
		span.X0, span.X1 = span.X1, span.X0
	}
	if span.X0 < 0 {
		span.X0 = 0
	}
	if span.X1 >= width {
		span.X1 = width - 1
	}
	if span.X0 > span.X1 {
		return
	}
	h[ref] = append(h[ref], span)
}

// WalkthroughHighlightIndex is HighlightIndex's counterpart for walkthrough
// renders, keyed by WalkthroughRef instead of ObjectRef.
type WalkthroughHighlightIndex map[model.WalkthroughRef][]LineSpan

func (h WalkthroughHighlightIndex) add(ref model.WalkthroughRef, span LineSpan, width, height int) {
	if span.Y < 0 || span.Y >= height {
		return
	}
	if span.X0 > span.X1 {
		span.X0, span.X1 = span.X1, span.X0
	}
	if span.X0 < 0 {
		span.X0 = 0
	}
	if span.X1 >= width {
		span.X1 = width - 1
	}
	if span.X0 > span.X1 {
		return
	}
	h[ref] = append(h[ref], span)
}
