// Package routing computes orthogonal polylines for flowchart edges on an
// integer grid, with soft occupancy that nudges later edges away from
// segments already used by earlier ones. Routing never modifies the AST
// and always terminates: when no path is found within a bounded search it
// falls back to a deterministic L-shaped polyline rather than failing.
package routing

import "fmt"

// RoutingExhausted describes a bounded search that gave up before finding
// a path. Router never returns or records it: RouteAll substitutes the
// fallback polyline instead.
type RoutingExhausted struct {
	From, To string
}

func (e *RoutingExhausted) Error() string {
	return fmt.Sprintf("routing exhausted for %s -> %s", e.From, e.To)
}
