package query

import (
	"sort"

	"github.com/julianshen/nereid-core/internal/model"
)

// Graph is the session meta-graph adjacency: a directed multigraph over
// ObjectRef spanning every diagram's structural edges plus Session XRefs.
// Build once with BuildGraph and reuse across multiple FindRoutes calls.
type Graph struct {
	adj map[model.ObjectRef][]model.ObjectRef
}

func (g *Graph) addEdge(from, to model.ObjectRef) {
	g.adj[from] = append(g.adj[from], to)
}

func (g *Graph) addBoth(a, b model.ObjectRef) {
	g.addEdge(a, b)
	g.addEdge(b, a)
}

// BuildGraph derives the session meta-graph from every diagram's structural
// adjacency plus the Session's XRefs, per spec.md §4.7.
func BuildGraph(sess *model.Session) *Graph {
	g := &Graph{adj: map[model.ObjectRef][]model.ObjectRef{}}

	for _, diagramID := range sess.DiagramIDs() {
		d := sess.Diagram(diagramID)
		switch d.Kind {
		case model.KindFlowchart:
			flow := d.Flow()
			for _, n := range flow.Nodes {
				nodeRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategoryFlowNode, ObjectID: n.ID}
				g.touch(nodeRef)
			}
			for _, e := range flow.Edges {
				fromRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategoryFlowNode, ObjectID: e.From}
				toRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategoryFlowNode, ObjectID: e.To}
				edgeRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategoryFlowEdge, ObjectID: e.ID}
				g.addEdge(fromRef, toRef)
				g.addBoth(fromRef, edgeRef)
				g.addBoth(edgeRef, toRef)
			}
		case model.KindSequence:
			seq := d.Sequence()
			for _, p := range seq.Participants {
				pRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqParticipant, ObjectID: p.ID}
				g.touch(pRef)
			}
			canonical := seq.CanonicalMessages()
			for i, m := range canonical {
				mRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqMessage, ObjectID: m.ID}
				fromRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqParticipant, ObjectID: m.FromID}
				toRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqParticipant, ObjectID: m.ToID}
				g.addBoth(fromRef, mRef)
				g.addBoth(mRef, toRef)
				if i+1 < len(canonical) {
					nextRef := model.ObjectRef{DiagramID: diagramID, Category: model.CategorySeqMessage, ObjectID: canonical[i+1].ID}
					g.addEdge(mRef, nextRef)
				}
			}
		}
	}

	for _, x := range sess.XRefs() {
		g.addBoth(x.From, x.To)
	}

	return g
}

func (g *Graph) touch(ref model.ObjectRef) {
	if _, ok := g.adj[ref]; !ok {
		g.adj[ref] = nil
	}
}

// RouteOrdering selects how FindRoutes ranks candidate routes.
type RouteOrdering string

const (
	FewestHops    RouteOrdering = "fewest_hops"
	Lexicographic RouteOrdering = "lexicographic"
)

// Route is a simple (loopless) sequence of ObjectRefs from the first to the
// last element.
type Route struct {
	Refs []model.ObjectRef
}

// FindRoutes returns up to limit simple paths from fromRef to toRef no
// longer than maxHops edges, ordered per ordering with a deterministic
// lexicographic tie-break over each path's ObjectRef strings. limit<=0
// returns an empty list without error.
func FindRoutes(g *Graph, fromRef, toRef model.ObjectRef, limit, maxHops int, ordering RouteOrdering) ([]Route, error) {
	if ordering != FewestHops && ordering != Lexicographic {
		return nil, &InvalidParams{Detail: "unknown ordering: " + string(ordering)}
	}
	if _, ok := g.adj[fromRef]; !ok {
		return nil, &NotFound{Kind: "objectref", ID: fromRef.Format()}
	}
	if _, ok := g.adj[toRef]; !ok {
		return nil, &NotFound{Kind: "objectref", ID: toRef.Format()}
	}
	if limit <= 0 {
		return nil, nil
	}

	var found []Route
	visited := map[model.ObjectRef]bool{fromRef: true}
	var walk func(cur model.ObjectRef, path []model.ObjectRef)
	walk = func(cur model.ObjectRef, path []model.ObjectRef) {
		if len(path)-1 > maxHops {
			return
		}
		if cur == toRef {
			found = append(found, Route{Refs: append([]model.ObjectRef(nil), path...)})
			return
		}
		neighbors := append([]model.ObjectRef(nil), g.adj[cur]...)
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].Format() < neighbors[j].Format() })
		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			visited[next] = true
			walk(next, append(path, next))
			visited[next] = false
		}
	}
	walk(fromRef, []model.ObjectRef{fromRef})

	sort.Slice(found, func(i, j int) bool {
		if ordering == FewestHops && len(found[i].Refs) != len(found[j].Refs) {
			return len(found[i].Refs) < len(found[j].Refs)
		}
		return routeKey(found[i].Refs) < routeKey(found[j].Refs)
	})
	if limit < len(found) {
		found = found[:limit]
	}
	return found, nil
}

func routeKey(refs []model.ObjectRef) string {
	key := ""
	for i, r := range refs {
		if i > 0 {
			key += "\x00"
		}
		key += r.Format()
	}
	return key
}
