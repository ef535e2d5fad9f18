package routing

import "github.com/julianshen/nereid-core/internal/layout"

// PositionsFromLayout projects a flowchart layout's per-node grid
// assignments down to the GridPoint coordinates the router operates on.
func PositionsFromLayout(nodes map[string]layout.NodePosition) map[string]GridPoint {
	out := make(map[string]GridPoint, len(nodes))
	for id, pos := range nodes {
		out[id] = GridPoint{X: pos.X, Y: pos.Y}
	}
	return out
}
