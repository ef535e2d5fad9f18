package render

import (
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/truncate"

	"github.com/julianshen/nereid-core/internal/model"
)

const (
	walkthroughBoxWidth = 28
	walkthroughGap      = 1
)

// Walkthrough draws a walkthrough's nodes as a vertical stack of titled
// boxes, each with a one-line Markdown body preview, connected by simple
// directed arrows in canonical node-id order. Node order, not graph
// topology, drives layout: walkthroughs may contain cycles, and a plain
// list stays deterministic regardless of shape.
func Walkthrough(w *model.Walkthrough) (*Canvas, WalkthroughHighlightIndex, error) {
	ids := make([]string, 0, len(w.Nodes))
	for id := range w.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("ascii"),
		glamour.WithWordWrap(walkthroughBoxWidth-2),
	)
	if err != nil {
		return nil, nil, err
	}

	boxHeight := 4
	rowStride := boxHeight + walkthroughGap
	width := walkthroughBoxWidth + 2
	height := len(ids)*rowStride + 1

	c := NewCanvas(width, height)
	hi := WalkthroughHighlightIndex{}

	rowOf := map[string]int{}
	for i, id := range ids {
		rowOf[id] = i
	}

	for i, id := range ids {
		node := w.Nodes[id]
		y0 := i * rowStride
		y1 := y0 + boxHeight - 1
		c.Box(0, y0, width-1, y1)
		c.WriteText(2, y0+1, clip(node.Title, width-4))

		preview, rerr := previewBody(md, node.BodyMD)
		if rerr != nil {
			return nil, nil, &WalkthroughRender{NodeID: id, Detail: rerr.Error()}
		}
		c.WriteText(2, y0+2, clip(preview, width-4))

		ref := model.WalkthroughRef{WalkthroughID: w.ID, Kind: model.WalkthroughRefNode, ObjectID: id}
		for y := y0; y <= y1; y++ {
			hi.add(ref, LineSpan{Y: y, X0: 0, X1: width - 1}, width, height)
		}
	}

	sortedEdges := append([]model.WalkthroughEdge(nil), w.Edges...)
	sort.Slice(sortedEdges, func(i, j int) bool {
		if sortedEdges[i].From != sortedEdges[j].From {
			return sortedEdges[i].From < sortedEdges[j].From
		}
		return sortedEdges[i].To < sortedEdges[j].To
	})
	for _, e := range sortedEdges {
		fromRow, ok1 := rowOf[e.From]
		toRow, ok2 := rowOf[e.To]
		if !ok1 || !ok2 {
			continue
		}
		edgeRef := model.WalkthroughRef{WalkthroughID: w.ID, Kind: model.WalkthroughRefEdge, ObjectID: e.From + ">>" + e.To}
		top, bottom := fromRow, toRow
		descending := true
		if top > bottom {
			top, bottom = bottom, top
			descending = false
		}
		x := width - 1
		y0 := top*rowStride + boxHeight
		y1 := bottom * rowStride
		if y1 <= y0 {
			continue
		}
		c.VLine(y0, y1, x, '│')
		arrow := '▼'
		arrowY := y1
		if !descending {
			arrow = '▲'
			arrowY = y0
		}
		c.Set(x, arrowY, arrow)
		for y := y0; y <= y1; y++ {
			hi.add(edgeRef, LineSpan{Y: y, X0: x, X1: x}, width, height)
		}
	}

	return c, hi, nil
}

func previewBody(md *glamour.TermRenderer, bodyMD string) (string, error) {
	if bodyMD == "" {
		return "", nil
	}
	out, err := md.Render(bodyMD)
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			return truncate.StringWithTail(line, walkthroughBoxWidth-4, "…"), nil
		}
	}
	return "", nil
}
