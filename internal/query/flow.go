package query

import (
	"sort"

	"github.com/julianshen/nereid-core/internal/model"
)

// Direction selects which edge orientation a flow query follows.
type Direction string

const (
	Out  Direction = "out"
	In   Direction = "in"
	Both Direction = "both"
)

type flowAdjacency struct {
	out map[string][]string
	in  map[string][]string
}

func buildFlowAdjacency(ast *model.FlowAST) flowAdjacency {
	adj := flowAdjacency{out: map[string][]string{}, in: map[string][]string{}}
	for _, n := range ast.Nodes {
		adj.out[n.ID] = nil
		adj.in[n.ID] = nil
	}
	for _, e := range ast.CanonicalEdges() {
		adj.out[e.From] = append(adj.out[e.From], e.To)
		adj.in[e.To] = append(adj.in[e.To], e.From)
	}
	return adj
}

func (a flowAdjacency) neighbors(id string, dir Direction) []string {
	switch dir {
	case Out:
		return a.out[id]
	case In:
		return a.in[id]
	case Both:
		return append(append([]string(nil), a.out[id]...), a.in[id]...)
	}
	return nil
}

// Reachable returns every node reachable from fromID by following dir,
// including fromID itself when it names an existing node, sorted by id.
func Reachable(ast *model.FlowAST, fromID string, dir Direction) ([]model.Node, error) {
	if dir != Out && dir != In && dir != Both {
		return nil, &InvalidParams{Detail: "unknown direction: " + string(dir)}
	}
	adj := buildFlowAdjacency(ast)
	if _, ok := adj.out[fromID]; !ok {
		return nil, nil
	}

	visited := map[string]bool{fromID: true}
	queue := []string{fromID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj.neighbors(cur, dir) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	byID := map[string]model.Node{}
	for _, n := range ast.Nodes {
		byID[n.ID] = n
	}
	out := make([]model.Node, 0, len(visited))
	for id := range visited {
		out = append(out, byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Unreachable returns nodes not reachable from start via Out edges. If
// start is empty, the implicit root set is every node with zero in-degree
// (every natural entry point of the graph); unreachable is the complement
// of the union of their Out-reachable sets.
func Unreachable(ast *model.FlowAST, start string) ([]model.Node, error) {
	adj := buildFlowAdjacency(ast)

	roots := []string{}
	if start != "" {
		if _, ok := adj.out[start]; !ok {
			return nil, &NotFound{Kind: "node", ID: start}
		}
		roots = append(roots, start)
	} else {
		for _, n := range ast.Nodes {
			if len(adj.in[n.ID]) == 0 {
				roots = append(roots, n.ID)
			}
		}
	}

	reached := map[string]bool{}
	for _, root := range roots {
		nodes, err := Reachable(ast, root, Out)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			reached[n.ID] = true
		}
	}

	var out []model.Node
	for _, n := range ast.Nodes {
		if !reached[n.ID] {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeadEnds returns every node with zero out-degree, sorted by id.
func DeadEnds(ast *model.FlowAST) []model.Node {
	adj := buildFlowAdjacency(ast)
	var out []model.Node
	for _, n := range ast.Nodes {
		if len(adj.out[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Cycle is a strongly connected component of size greater than one, or a
// single node with a self-loop edge.
type Cycle struct {
	NodeIDs []string
}

// Cycles returns every strongly connected component that forms a cycle, via
// Tarjan's algorithm, sorted by each component's smallest member id and with
// each component's own members sorted.
func Cycles(ast *model.FlowAST) []Cycle {
	adj := buildFlowAdjacency(ast)

	var index int
	indices := map[string]int{}
	lowlink := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	var sccs [][]string

	ids := make([]string, 0, len(ast.Nodes))
	for _, n := range ast.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		neighbors := append([]string(nil), adj.out[v]...)
		sort.Strings(neighbors)
		for _, w := range neighbors {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, id := range ids {
		if _, seen := indices[id]; !seen {
			strongconnect(id)
		}
	}

	selfLoop := map[string]bool{}
	for from, tos := range adj.out {
		for _, to := range tos {
			if from == to {
				selfLoop[from] = true
			}
		}
	}

	var out []Cycle
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && selfLoop[scc[0]]) {
			sort.Strings(scc)
			out = append(out, Cycle{NodeIDs: scc})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NodeIDs[0] < out[j].NodeIDs[0] })
	return out
}

// DegreeSort selects which degree Degrees ranks by.
type DegreeSort string

const (
	SortByIn    DegreeSort = "in"
	SortByOut   DegreeSort = "out"
	SortByTotal DegreeSort = "total"
)

// Degree reports a node's in/out/total edge counts.
type Degree struct {
	NodeID string
	In     int
	Out    int
	Total  int
}

// Degrees returns the top entries ranked by sortBy descending, tie-broken by
// node id ascending. top<=0 returns no entries; top beyond the node count
// returns every node.
func Degrees(ast *model.FlowAST, top int, sortBy DegreeSort) ([]Degree, error) {
	if sortBy != SortByIn && sortBy != SortByOut && sortBy != SortByTotal {
		return nil, &InvalidParams{Detail: "unknown sort_by: " + string(sortBy)}
	}
	if top <= 0 {
		return nil, nil
	}
	adj := buildFlowAdjacency(ast)
	out := make([]Degree, 0, len(ast.Nodes))
	for _, n := range ast.Nodes {
		in, o := len(adj.in[n.ID]), len(adj.out[n.ID])
		out = append(out, Degree{NodeID: n.ID, In: in, Out: o, Total: in + o})
	}

	rank := func(d Degree) int {
		switch sortBy {
		case SortByIn:
			return d.In
		case SortByOut:
			return d.Out
		default:
			return d.Total
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := rank(out[i]), rank(out[j])
		if ri != rj {
			return ri > rj
		}
		return out[i].NodeID < out[j].NodeID
	})

	if top < len(out) {
		out = out[:top]
	}
	return out, nil
}

// Path is a simple (loopless) sequence of node ids from the first to the
// last element.
type Path struct {
	NodeIDs []string
}

// Paths returns the shortest path from "from" to "to" plus alternates no
// longer than the shortest path's length plus maxExtraHops, up to limit
// paths, ordered by length then lexicographically by node id sequence.
func Paths(ast *model.FlowAST, from, to string, limit, maxExtraHops int) ([]Path, error) {
	adj := buildFlowAdjacency(ast)
	if _, ok := adj.out[from]; !ok {
		return nil, &NotFound{Kind: "node", ID: from}
	}
	if _, ok := adj.out[to]; !ok {
		return nil, &NotFound{Kind: "node", ID: to}
	}
	if limit <= 0 {
		return nil, nil
	}

	shortest, ok := bfsDistance(adj, from, to)
	if !ok {
		return nil, nil
	}
	maxLen := shortest + maxExtraHops

	var found []Path
	visited := map[string]bool{from: true}
	var walk func(cur string, path []string)
	walk = func(cur string, path []string) {
		if len(path)-1 > maxLen {
			return
		}
		if cur == to {
			found = append(found, Path{NodeIDs: append([]string(nil), path...)})
			return
		}
		neighbors := append([]string(nil), adj.out[cur]...)
		sort.Strings(neighbors)
		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			visited[next] = true
			walk(next, append(path, next))
			visited[next] = false
		}
	}
	walk(from, []string{from})

	sort.Slice(found, func(i, j int) bool {
		if len(found[i].NodeIDs) != len(found[j].NodeIDs) {
			return len(found[i].NodeIDs) < len(found[j].NodeIDs)
		}
		return pathKey(found[i].NodeIDs) < pathKey(found[j].NodeIDs)
	})
	if limit < len(found) {
		found = found[:limit]
	}
	return found, nil
}

func pathKey(ids []string) string {
	key := ""
	for i, id := range ids {
		if i > 0 {
			key += "\x00"
		}
		key += id
	}
	return key
}

func bfsDistance(adj flowAdjacency, from, to string) (int, bool) {
	if from == to {
		return 0, true
	}
	dist := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj.out[cur] {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[cur] + 1
			if next == to {
				return dist[next], true
			}
			queue = append(queue, next)
		}
	}
	return 0, false
}
