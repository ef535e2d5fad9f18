package routing

import (
	"container/heap"
	"sort"

	"github.com/julianshen/nereid-core/internal/model"
)

// GridPoint is a cell on the integer routing grid. Nodes occupy even/even
// cells; odd coordinates are the traversable street lanes between them.
type GridPoint struct {
	X, Y int
}

func (p GridPoint) isNodeCell() bool { return p.X%2 == 0 && p.Y%2 == 0 }

var neighborOrder = [4]GridPoint{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} // N, E, S, W

const occupancyPenalty = 3

// Router routes edges on a shared grid, tracking which street cells prior
// edges have already traversed so later edges prefer unoccupied ones.
type Router struct {
	positions   map[string]GridPoint
	occupied    map[GridPoint]bool
	maxX, maxY  int
	maxExpand   int
}

// NewRouter builds a Router over the given node grid positions (as
// produced by layout.Flowchart: even/even coordinates).
func NewRouter(positions map[string]GridPoint) *Router {
	maxX, maxY := 0, 0
	for _, p := range positions {
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return &Router{
		positions: positions,
		occupied:  map[GridPoint]bool{},
		maxX:      maxX + 2,
		maxY:      maxY + 2,
		maxExpand: (maxX + 4) * (maxY + 4) * 4,
	}
}

type edgeKey struct {
	from, to, id string
}

// RouteAll routes every edge in lexicographic (from_id, to_id, edge_id)
// order, marking traversed lanes as occupied so later edges are steered
// away from already-busy cells. Edges whose bounded search is exhausted
// fall back to a deterministic L-shaped polyline; RouteAll never errors.
func (r *Router) RouteAll(edges []model.Edge) map[string][]GridPoint {
	sorted := append([]model.Edge(nil), edges...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.ID < b.ID
	})

	out := map[string][]GridPoint{}
	for _, e := range sorted {
		from, ok1 := r.positions[e.From]
		to, ok2 := r.positions[e.To]
		if !ok1 || !ok2 {
			continue
		}
		path, ok := r.route(from, to)
		if !ok {
			path = fallbackPolyline(from, to)
		}
		for _, p := range path {
			if !p.isNodeCell() {
				r.occupied[p] = true
			}
		}
		out[e.ID] = path
	}
	return out
}

type pqItem struct {
	point GridPoint
	cost  int
	seq   int
	index int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].seq < pq[j].seq
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// route performs a soft-occupancy weighted shortest path from "from" to
// "to" over the street grid, expanding neighbors in a fixed N/E/S/W order
// for deterministic tie-breaking. Intermediate cells must be lanes (not
// even/even), except the start and goal themselves.
func (r *Router) route(from, to GridPoint) ([]GridPoint, bool) {
	dist := map[GridPoint]int{from: 0}
	prev := map[GridPoint]GridPoint{}
	visited := map[GridPoint]bool{}

	pq := &priorityQueue{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &pqItem{point: from, cost: 0, seq: seq})

	expansions := 0
	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		cur := item.point
		if visited[cur] {
			continue
		}
		visited[cur] = true
		if cur == to {
			return reconstruct(prev, from, to), true
		}
		expansions++
		if expansions > r.maxExpand {
			return nil, false
		}

		for _, d := range neighborOrder {
			next := GridPoint{cur.X + d.X, cur.Y + d.Y}
			if next.X < -1 || next.Y < -1 || next.X > r.maxX || next.Y > r.maxY {
				continue
			}
			if next != from && next != to && next.isNodeCell() {
				continue // lane-only traversal: no cutting through node boxes
			}
			cost := dist[cur] + 1
			if r.occupied[next] {
				cost += occupancyPenalty
			}
			if existing, ok := dist[next]; !ok || cost < existing {
				dist[next] = cost
				prev[next] = cur
				seq++
				heap.Push(pq, &pqItem{point: next, cost: cost, seq: seq})
			}
		}
	}
	return nil, false
}

func reconstruct(prev map[GridPoint]GridPoint, from, to GridPoint) []GridPoint {
	var path []GridPoint
	cur := to
	for {
		path = append(path, cur)
		if cur == from {
			break
		}
		cur = prev[cur]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// fallbackPolyline is the deterministic baseline L-shaped route used when
// the bounded search is exhausted: straight out vertically from the
// source to the target's row, then straight across.
func fallbackPolyline(from, to GridPoint) []GridPoint {
	if from == to {
		return []GridPoint{from}
	}
	bend := GridPoint{X: from.X, Y: to.Y}
	if bend == from || bend == to {
		return []GridPoint{from, to}
	}
	return []GridPoint{from, bend, to}
}
