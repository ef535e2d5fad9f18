package render

import (
	"github.com/julianshen/nereid-core/internal/layout"
	"github.com/julianshen/nereid-core/internal/model"
)

const seqHeaderHeight = 3

// Sequence draws a full sequence diagram: participant header boxes, their
// lifelines, message arrows, and block/section frames, returning the
// canvas plus its HighlightIndex.
func Sequence(diagramID string, ast *model.SequenceAST, opts Options) (*Canvas, HighlightIndex, error) {
	lay := layout.Sequence(ast, opts.layoutOptions())
	colWidth := opts.layoutOptions().ColumnWidth

	centerX := map[string]int{}
	boxHalf := colWidth/2 - 1
	if boxHalf < 2 {
		boxHalf = 2
	}
	maxX := 0
	for _, p := range ast.CanonicalParticipants() {
		cx := lay.Participants[p.ID] + colWidth/2
		centerX[p.ID] = cx
		if cx+boxHalf > maxX {
			maxX = cx + boxHalf
		}
	}

	maxY := 0
	for _, m := range ast.CanonicalMessages() {
		if y := lay.Messages[m.ID]; y > maxY {
			maxY = y
		}
	}
	width := maxX + 2
	height := seqHeaderHeight + maxY + 4

	c := NewCanvas(width, height)
	hi := HighlightIndex{}

	for _, p := range ast.CanonicalParticipants() {
		cx := centerX[p.ID]
		x0, x1 := cx-boxHalf, cx+boxHalf
		c.Box(x0, 0, x1, seqHeaderHeight-1)
		label := p.DisplayLabel
		if label == "" {
			label = p.MermaidIdent
		}
		c.WriteText(x0+1, 1, clip(label, x1-x0-1))
		c.VLine(seqHeaderHeight, height-1, cx, '│')

		ref := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqParticipant, ObjectID: p.ID}
		hi.add(ref, LineSpan{Y: 0, X0: x0, X1: x1}, width, height)
		hi.add(ref, LineSpan{Y: seqHeaderHeight - 1, X0: x0, X1: x1}, width, height)
		for y := seqHeaderHeight; y < height; y++ {
			hi.add(ref, LineSpan{Y: y, X0: cx, X1: cx}, width, height)
		}
	}

	for _, m := range ast.CanonicalMessages() {
		y := seqHeaderHeight + lay.Messages[m.ID]
		drawMessage(c, hi, diagramID, m, centerX[m.FromID], centerX[m.ToID], y, width, height)
	}

	drawBlocks(c, hi, diagramID, ast, lay, seqHeaderHeight, width, height, colWidth)

	return c, hi, nil
}

func drawMessage(c *Canvas, hi HighlightIndex, diagramID string, m model.Message, fromX, toX, y, width, height int) {
	ref := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqMessage, ObjectID: m.ID}
	lineRune := messageLineRune(m.Kind)

	if m.FromID == m.ToID {
		loopX := fromX + 4
		c.HLine(fromX+1, loopX, y, lineRune)
		c.VLine(y, y+1, loopX, '│')
		c.HLine(fromX+1, loopX, y+1, lineRune)
		c.Set(fromX+1, y+1, '◀')
		c.WriteText(fromX+1, y-1, clip(m.Text, loopX-fromX))
		hi.add(ref, LineSpan{Y: y, X0: fromX, X1: loopX}, width, height)
		hi.add(ref, LineSpan{Y: y + 1, X0: fromX, X1: loopX}, width, height)
		return
	}

	x0, x1 := fromX, toX
	reversed := x1 < x0
	if reversed {
		x0, x1 = x1, x0
	}
	c.HLine(x0, x1, y, lineRune)
	if reversed {
		c.Set(x0+1, y, '◀')
	} else {
		c.Set(x1-1, y, '▶')
	}
	c.WriteText(min(x0, x1)+1, y-1, clip(m.Text, x1-x0-1))
	hi.add(ref, LineSpan{Y: y, X0: x0, X1: x1}, width, height)
}

func messageLineRune(kind model.MessageKind) rune {
	if kind == model.MessageReturn {
		return '┈'
	}
	return '─'
}

func clip(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// drawBlocks renders each root block's frame over the row span of its
// contained messages, inset left/right by 2 cells per nesting depth.
func drawBlocks(c *Canvas, hi HighlightIndex, diagramID string, ast *model.SequenceAST, lay layout.SequenceLayout, headerHeight, width, height, colWidth int) {
	blockByID := map[string]model.Block{}
	for _, b := range ast.Blocks {
		blockByID[b.ID] = b
	}
	childIDs := map[string]bool{}
	for _, b := range ast.Blocks {
		for _, sec := range b.Sections {
			for _, cid := range sec.ChildBlockIDs {
				childIDs[cid] = true
			}
		}
	}

	var drawOne func(b model.Block, depth int)
	drawOne = func(b model.Block, depth int) {
		minRow, maxRow, found := blockRowSpan(ast, lay, blockByID, b.ID, headerHeight)
		if !found {
			return
		}
		top, bottom := minRow-1, maxRow+1
		if top < 0 {
			top = 0
		}
		if bottom >= height {
			bottom = height - 1
		}
		inset := 2 * depth
		x0, x1 := inset, width-1-inset
		if x1 <= x0 {
			x0, x1 = 0, width-1
		}
		c.Box(x0, top, x1, bottom)
		c.WriteText(x0+1, top, clip(string(b.Kind)+" "+b.Header, x1-x0-1))

		ref := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqBlock, ObjectID: b.ID}
		hi.add(ref, LineSpan{Y: top, X0: x0, X1: x1}, width, height)
		hi.add(ref, LineSpan{Y: bottom, X0: x0, X1: x1}, width, height)

		for _, sec := range b.Sections {
			secRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqSection, ObjectID: sec.ID}
			hi.add(secRef, LineSpan{Y: top, X0: x0, X1: x1}, width, height)
			for _, cid := range sec.ChildBlockIDs {
				if child, ok := blockByID[cid]; ok {
					drawOne(child, depth+1)
				}
			}
		}
	}

	for _, b := range ast.Blocks {
		if childIDs[b.ID] {
			continue
		}
		drawOne(b, 1)
	}
}

func blockRowSpan(ast *model.SequenceAST, lay layout.SequenceLayout, blockByID map[string]model.Block, blockID string, headerHeight int) (minRow, maxRow int, found bool) {
	minRow, maxRow = -1, -1
	var visit func(id string)
	visit = func(id string) {
		b, ok := blockByID[id]
		if !ok {
			return
		}
		for _, sec := range b.Sections {
			for _, mid := range sec.MessageIDs {
				y, ok := lay.Messages[mid]
				if !ok {
					continue
				}
				y += headerHeight
				if minRow == -1 || y < minRow {
					minRow = y
				}
				if y > maxRow {
					maxRow = y
				}
			}
			for _, cid := range sec.ChildBlockIDs {
				visit(cid)
			}
		}
	}
	visit(blockID)
	return minRow, maxRow, minRow != -1
}
