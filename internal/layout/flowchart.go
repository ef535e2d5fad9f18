package layout

import (
	"sort"

	"github.com/julianshen/nereid-core/internal/model"
)

// NodePosition is a single node's layer/index assignment plus its derived
// grid coordinates and box dimensions.
type NodePosition struct {
	Layer  int
	Index  int
	X, Y   int
	Width  int
	Height int
}

// FlowLayout is the coordinate-only result of laying out a flowchart.
type FlowLayout struct {
	Nodes map[string]NodePosition
}

// Flowchart assigns nodes to layers via longest-path-from-source, orders
// each layer with a single deterministic barycentric sweep over
// predecessor positions (tie-broken by ObjectId), and derives grid
// coordinates and box dimensions. It never mutates ast and always
// terminates: a cycle is reported as an error rather than looped over.
func Flowchart(ast *model.FlowAST, opts Options) (FlowLayout, error) {
	nodeIDs := map[string]bool{}
	for _, n := range ast.Nodes {
		nodeIDs[n.ID] = true
	}
	preds := map[string][]string{}
	succs := map[string][]string{}
	indeg := map[string]int{}
	for _, n := range ast.Nodes {
		indeg[n.ID] = 0
	}
	for _, e := range ast.Edges {
		if !nodeIDs[e.From] {
			return FlowLayout{}, &UnknownNode{ID: e.From}
		}
		if !nodeIDs[e.To] {
			return FlowLayout{}, &UnknownNode{ID: e.To}
		}
		preds[e.To] = append(preds[e.To], e.From)
		succs[e.From] = append(succs[e.From], e.To)
		indeg[e.To]++
	}

	// Kahn's algorithm gives a topological order and detects cycles: any
	// node never dequeued belongs to one.
	var queue []string
	for _, n := range ast.CanonicalNodes() {
		if indeg[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}
	var topo []string
	remaining := map[string]int{}
	for k, v := range indeg {
		remaining[k] = v
	}
	for len(queue) > 0 {
		sort.Strings(queue)
		id := queue[0]
		queue = queue[1:]
		topo = append(topo, id)
		next := append([]string(nil), succs[id]...)
		sort.Strings(next)
		for _, s := range next {
			remaining[s]--
			if remaining[s] == 0 {
				queue = append(queue, s)
			}
		}
	}
	if len(topo) != len(ast.Nodes) {
		processed := map[string]bool{}
		for _, id := range topo {
			processed[id] = true
		}
		var cyc []string
		for _, n := range ast.CanonicalNodes() {
			if !processed[n.ID] {
				cyc = append(cyc, n.ID)
			}
		}
		return FlowLayout{}, &Cycle{Nodes: cyc}
	}

	layerOf := map[string]int{}
	for _, id := range topo {
		maxPred := -1
		for _, p := range preds[id] {
			if layerOf[p] > maxPred {
				maxPred = layerOf[p]
			}
		}
		layerOf[id] = maxPred + 1
	}

	maxLayer := -1
	for _, l := range layerOf {
		if l > maxLayer {
			maxLayer = l
		}
	}
	layers := make([][]string, maxLayer+1)
	for _, n := range ast.CanonicalNodes() {
		l := layerOf[n.ID]
		layers[l] = append(layers[l], n.ID)
	}

	indexInLayer := map[string]int{}
	for layerNum, ids := range layers {
		sort.Strings(ids)
		if layerNum == 0 {
			for i, id := range ids {
				indexInLayer[id] = i
			}
			layers[layerNum] = ids
			continue
		}
		type scored struct {
			id   string
			bary float64
		}
		var ss []scored
		for _, id := range ids {
			ps := preds[id]
			if len(ps) == 0 {
				ss = append(ss, scored{id: id, bary: 0})
				continue
			}
			sum := 0
			for _, p := range ps {
				sum += indexInLayer[p]
			}
			ss = append(ss, scored{id: id, bary: float64(sum) / float64(len(ps))})
		}
		sort.Slice(ss, func(i, j int) bool {
			if ss[i].bary != ss[j].bary {
				return ss[i].bary < ss[j].bary
			}
			return ss[i].id < ss[j].id
		})
		ordered := make([]string, len(ss))
		for i, s := range ss {
			ordered[i] = s.id
			indexInLayer[s.id] = i
		}
		layers[layerNum] = ordered
	}

	labelOf := map[string]string{}
	for _, n := range ast.Nodes {
		labelOf[n.ID] = n.Label
	}

	out := FlowLayout{Nodes: map[string]NodePosition{}}
	for layerNum, ids := range layers {
		for idx, id := range ids {
			height := 3
			if opts.ShowNotes {
				height = 4
			}
			width := opts.MinNodeWidth
			if lw := len(labelOf[id]) + 2*opts.BorderPad; lw > width {
				width = lw
			}
			out.Nodes[id] = NodePosition{
				Layer: layerNum, Index: idx,
				X: layerNum * 2, Y: idx * 2,
				Width: width, Height: height,
			}
		}
	}
	return out, nil
}
