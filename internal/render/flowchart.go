package render

import (
	"sort"

	"github.com/julianshen/nereid-core/internal/layout"
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/routing"
)

const laneGap = 3 // canvas cells reserved for one street lane between grid units

// cellGrid converts the layout's abstract (layer, index) grid units into
// canvas coordinates: each node occupies a Width x Height box, separated
// by laneGap cells of street on every side.
type cellGrid struct {
	nodes    map[string]layout.NodePosition
	originX  map[int]int // grid X unit -> canvas left edge
	originY  map[int]int // grid Y unit -> canvas top edge
	laneX    map[int]int // grid X unit (odd, lane) -> canvas column
	laneY    map[int]int // grid Y unit (odd, lane) -> canvas row
	width    int
	height   int
}

func buildCellGrid(nodes map[string]layout.NodePosition) cellGrid {
	maxLayerUnit, maxIndexUnit := 0, 0
	for _, p := range nodes {
		if p.X > maxLayerUnit {
			maxLayerUnit = p.X
		}
		if p.Y > maxIndexUnit {
			maxIndexUnit = p.Y
		}
	}

	colWidths := map[int]int{}
	rowHeights := map[int]int{}
	for _, p := range nodes {
		if p.Width > colWidths[p.X] {
			colWidths[p.X] = p.Width
		}
		if p.Height > rowHeights[p.Y] {
			rowHeights[p.Y] = p.Height
		}
	}

	g := cellGrid{nodes: nodes, originX: map[int]int{}, originY: map[int]int{}, laneX: map[int]int{}, laneY: map[int]int{}}
	cursor := 1
	for unit := 0; unit <= maxLayerUnit; unit++ {
		if unit%2 == 0 {
			g.originX[unit] = cursor
			w := colWidths[unit]
			if w == 0 {
				w = 8
			}
			cursor += w
		} else {
			g.laneX[unit] = cursor
			cursor += laneGap
		}
	}
	g.width = cursor + 1

	cursor = 1
	for unit := 0; unit <= maxIndexUnit; unit++ {
		if unit%2 == 0 {
			g.originY[unit] = cursor
			h := rowHeights[unit]
			if h == 0 {
				h = 3
			}
			cursor += h
		} else {
			g.laneY[unit] = cursor
			cursor += laneGap
		}
	}
	g.height = cursor + 1
	return g
}

func (g cellGrid) point(p routing.GridPoint) (int, int) {
	x, ok := g.originX[p.X]
	if !ok {
		x = g.laneX[p.X]
	}
	y, ok := g.originY[p.Y]
	if !ok {
		y = g.laneY[p.Y]
	}
	return x, y
}

func (g cellGrid) nodeBox(id string) (x0, y0, x1, y1 int) {
	pos := g.nodes[id]
	x0 = g.originX[pos.X]
	y0 = g.originY[pos.Y]
	x1 = x0 + pos.Width - 1
	y1 = y0 + pos.Height - 1
	return
}

func (g cellGrid) nodeCenter(id string) (int, int) {
	x0, y0, x1, y1 := g.nodeBox(id)
	return (x0 + x1) / 2, (y0 + y1) / 2
}

// Flowchart draws a full flowchart: node boxes, routed connectors with
// arrowheads and labels, returning the canvas plus its HighlightIndex.
func Flowchart(diagramID string, ast *model.FlowAST, opts Options) (*Canvas, HighlightIndex, error) {
	lay, err := layout.Flowchart(ast, opts.layoutOptions())
	if err != nil {
		return nil, nil, err
	}
	grid := buildCellGrid(lay.Nodes)

	positions := routing.PositionsFromLayout(lay.Nodes)
	router := routing.NewRouter(positions)
	paths := router.RouteAll(ast.Edges)

	c := NewCanvas(grid.width, grid.height)
	hi := HighlightIndex{}

	for _, n := range ast.CanonicalNodes() {
		x0, y0, x1, y1 := grid.nodeBox(n.ID)
		drawNodeBox(c, n, x0, y0, x1, y1)
		ref := model.ObjectRef{DiagramID: diagramID, Category: model.CategoryFlowNode, ObjectID: n.ID}
		for y := y0; y <= y1; y++ {
			hi.add(ref, LineSpan{Y: y, X0: x0, X1: x1}, grid.width, grid.height)
		}
	}

	edgesByID := map[string]model.Edge{}
	for _, e := range ast.Edges {
		edgesByID[e.ID] = e
	}
	var edgeIDs []string
	for id := range paths {
		edgeIDs = append(edgeIDs, id)
	}
	sort.Strings(edgeIDs)
	for _, id := range edgeIDs {
		e := edgesByID[id]
		drawEdge(c, hi, diagramID, grid, e, paths[id])
	}

	return c, hi, nil
}

func drawNodeBox(c *Canvas, n model.Node, x0, y0, x1, y1 int) {
	c.Box(x0, y0, x1, y1)
	if n.Shape == model.ShapeRound {
		c.Set(x0, y0, '╭')
		c.Set(x1, y0, '╮')
		c.Set(x0, y1, '╰')
		c.Set(x1, y1, '╯')
	}
	labelY := y0 + 1
	c.WriteText(x0+1, labelY, clip(n.Label, x1-x0-1))
	if n.Note != "" && y1-y0 >= 2 {
		c.WriteText(x0+1, labelY+1, clip(n.Note, x1-x0-1))
	}
}

// drawEdge projects a routed polyline of grid points onto canvas cells,
// drawing each segment, then an arrowhead at the final segment direction,
// then the label centered on the longest horizontal segment.
func drawEdge(c *Canvas, hi HighlightIndex, diagramID string, grid cellGrid, e model.Edge, path []routing.GridPoint) {
	if len(path) == 0 {
		return
	}
	ref := model.ObjectRef{DiagramID: diagramID, Category: model.CategoryFlowEdge, ObjectID: e.ID}
	pts := make([][2]int, len(path))
	for i, p := range path {
		x, y := grid.point(p)
		pts[i] = [2]int{x, y}
	}
	// clip the first/last cell to the node box edge rather than center.
	if len(pts) >= 2 {
		pts[0] = clampToBox(pts[0], pts[1], grid, e.From)
		last := len(pts) - 1
		pts[last] = clampToBox(pts[last], pts[last-1], grid, e.To)
	}

	bestLen, bestSeg := -1, -1
	for i := 0; i < len(pts)-1; i++ {
		x0, y0 := pts[i][0], pts[i][1]
		x1, y1 := pts[i+1][0], pts[i+1][1]
		if y0 == y1 {
			c.HLine(x0, x1, y0, '─')
			lo, hi2 := x0, x1
			if lo > hi2 {
				lo, hi2 = hi2, lo
			}
			if hi2-lo > bestLen {
				bestLen, bestSeg = hi2-lo, i
			}
			hi.add(ref, LineSpan{Y: y0, X0: lo, X1: hi2}, grid.width, grid.height)
		} else {
			c.VLine(y0, y1, x0, '│')
			lo, hiY := y0, y1
			if lo > hiY {
				lo, hiY = hiY, lo
			}
			for y := lo; y <= hiY; y++ {
				hi.add(ref, LineSpan{Y: y, X0: x0, X1: x0}, grid.width, grid.height)
			}
		}
	}

	last := len(pts) - 1
	if last > 0 {
		px, py := pts[last-1][0], pts[last-1][1]
		ex, ey := pts[last][0], pts[last][1]
		arrow := arrowRune(px, py, ex, ey)
		if arrow != 0 {
			ax, ay := arrowCell(px, py, ex, ey)
			c.Set(ax, ay, arrow)
			hi.add(ref, LineSpan{Y: ay, X0: ax, X1: ax}, grid.width, grid.height)
		}
	}

	if e.Label != "" && bestSeg >= 0 {
		x0, y0 := pts[bestSeg][0], pts[bestSeg][1]
		x1 := pts[bestSeg+1][0]
		lo, hi2 := x0, x1
		if lo > hi2 {
			lo, hi2 = hi2, lo
		}
		avail := hi2 - lo - 1
		if avail > 0 {
			label := clip(e.Label, avail)
			start := lo + 1 + (avail-len([]rune(label)))/2
			c.WriteText(start, y0, label)
			hi.add(ref, LineSpan{Y: y0, X0: start, X1: start + len([]rune(label)) - 1}, grid.width, grid.height)
		}
	}
}

func clampToBox(p, toward [2]int, grid cellGrid, nodeID string) [2]int {
	x0, y0, x1, y1 := grid.nodeBox(nodeID)
	x, y := p[0], p[1]
	if x >= x0 && x <= x1 && y >= y0 && y <= y1 {
		if toward[1] == y {
			if toward[0] > x {
				return [2]int{x1 + 1, y}
			}
			return [2]int{x0 - 1, y}
		}
		if toward[1] > y {
			return [2]int{x, y1 + 1}
		}
		return [2]int{x, y0 - 1}
	}
	return p
}

func arrowRune(px, py, ex, ey int) rune {
	switch {
	case ex > px:
		return '▶'
	case ex < px:
		return '◀'
	case ey > py:
		return '▼'
	case ey < py:
		return '▲'
	default:
		return 0
	}
}

func arrowCell(px, py, ex, ey int) (int, int) {
	switch {
	case ex > px:
		return ex - 1, ey
	case ex < px:
		return ex + 1, ey
	case ey > py:
		return ex, ey - 1
	case ey < py:
		return ex, ey + 1
	default:
		return ex, ey
	}
}
