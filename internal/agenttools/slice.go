package agenttools

import (
	"sort"

	"github.com/julianshen/nereid-core/internal/model"
)

// SliceFilter narrows DiagramGetSlice to objects matching every populated
// field.
type SliceFilter struct {
	Category model.Category
}

// GetSliceRequest is get_slice's input: expand radius hops outward from
// center within diagramID, descending at most depth levels into sequence
// block nesting.
type GetSliceRequest struct {
	DiagramID string
	CenterRef model.ObjectRef
	Radius    int
	Depth     int
	Filter    SliceFilter
}

// Slice is a bounded neighborhood of a diagram's objects around a center,
// for an agent to pull just enough context without fetching the whole AST.
type Slice struct {
	Refs []model.ObjectRef
}

// DiagramGetSlice returns every ObjectRef within req.Radius structural hops
// of req.CenterRef inside req.DiagramID (the center included), sorted by
// their formatted ObjectRef strings. Hops follow the
// same local adjacency as the rendered diagram: participant↔message for
// sequences, node↔edge↔node for flowcharts. req.Depth additionally bounds
// how many levels of block/section nesting are descended into when the
// center (or a reached message) sits inside one.
func DiagramGetSlice(ws *Workspace, req GetSliceRequest) (Slice, error) {
	d, err := diagramOrNotFound(ws, req.DiagramID)
	if err != nil {
		return Slice{}, err
	}

	adj := map[model.ObjectRef][]model.ObjectRef{}
	addBoth := func(a, b model.ObjectRef) {
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	switch d.Kind {
	case model.KindSequence:
		seq := d.Sequence()
		for _, p := range seq.Participants {
			ref := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategorySeqParticipant, ObjectID: p.ID}
			if _, ok := adj[ref]; !ok {
				adj[ref] = nil
			}
		}
		for _, m := range seq.Messages {
			mRef := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategorySeqMessage, ObjectID: m.ID}
			fromRef := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategorySeqParticipant, ObjectID: m.FromID}
			toRef := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategorySeqParticipant, ObjectID: m.ToID}
			addBoth(fromRef, mRef)
			addBoth(mRef, toRef)
		}
		if req.Depth > 0 {
			addBlockAdjacency(adj, req.DiagramID, seq, req.Depth)
		}
	case model.KindFlowchart:
		flow := d.Flow()
		for _, n := range flow.Nodes {
			ref := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategoryFlowNode, ObjectID: n.ID}
			if _, ok := adj[ref]; !ok {
				adj[ref] = nil
			}
		}
		for _, e := range flow.Edges {
			fromRef := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategoryFlowNode, ObjectID: e.From}
			toRef := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategoryFlowNode, ObjectID: e.To}
			edgeRef := model.ObjectRef{DiagramID: req.DiagramID, Category: model.CategoryFlowEdge, ObjectID: e.ID}
			addBoth(fromRef, edgeRef)
			addBoth(edgeRef, toRef)
		}
	}

	if _, ok := adj[req.CenterRef]; !ok {
		return Slice{}, nil
	}

	visited := map[model.ObjectRef]int{req.CenterRef: 0}
	queue := []model.ObjectRef{req.CenterRef}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] >= req.Radius {
			continue
		}
		for _, next := range adj[cur] {
			if _, seen := visited[next]; !seen {
				visited[next] = visited[cur] + 1
				queue = append(queue, next)
			}
		}
	}

	out := make([]model.ObjectRef, 0, len(visited))
	for ref := range visited {
		if req.Filter.Category != "" && ref.Category != req.Filter.Category {
			continue
		}
		out = append(out, ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Format() < out[j].Format() })
	return Slice{Refs: out}, nil
}

// addBlockAdjacency links each block/section to its member messages and
// child blocks, up to maxDepth levels deep, so a slice query can pull in
// the structural frame around a message without fetching the whole AST.
func addBlockAdjacency(adj map[model.ObjectRef][]model.ObjectRef, diagramID string, seq *model.SequenceAST, maxDepth int) {
	var visit func(b model.Block, depth int)
	visit = func(b model.Block, depth int) {
		if depth > maxDepth {
			return
		}
		bRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqBlock, ObjectID: b.ID}
		for _, sec := range b.Sections {
			secRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqSection, ObjectID: sec.ID}
			adj[bRef] = append(adj[bRef], secRef)
			adj[secRef] = append(adj[secRef], bRef)
			for _, mid := range sec.MessageIDs {
				mRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqMessage, ObjectID: mid}
				adj[secRef] = append(adj[secRef], mRef)
				adj[mRef] = append(adj[mRef], secRef)
			}
			for _, childID := range sec.ChildBlockIDs {
				for _, child := range seq.Blocks {
					if child.ID == childID {
						visit(child, depth+1)
					}
				}
			}
		}
	}
	isChild := map[string]bool{}
	for _, b := range seq.Blocks {
		for _, sec := range b.Sections {
			for _, cid := range sec.ChildBlockIDs {
				isChild[cid] = true
			}
		}
	}
	for _, b := range seq.Blocks {
		if isChild[b.ID] {
			continue
		}
		visit(b, 1)
	}
}
