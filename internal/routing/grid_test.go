package routing

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
)

func TestRouteAllSimpleAdjacent(t *testing.T) {
	positions := map[string]GridPoint{
		"n:1": {X: 0, Y: 0},
		"n:2": {X: 2, Y: 0},
	}
	r := NewRouter(positions)
	edges := []model.Edge{{ID: "e:1", From: "n:1", To: "n:2"}}
	paths := r.RouteAll(edges)
	p := paths["e:1"]
	if len(p) == 0 {
		t.Fatal("expected non-empty path")
	}
	if p[0] != (GridPoint{0, 0}) || p[len(p)-1] != (GridPoint{2, 0}) {
		t.Fatalf("path must start/end at node anchors, got %+v", p)
	}
	for _, pt := range p[1 : len(p)-1] {
		if pt.isNodeCell() {
			t.Fatalf("intermediate waypoint %+v must not be a node cell", pt)
		}
	}
}

func TestRouteAllAvoidsNodeInteriors(t *testing.T) {
	positions := map[string]GridPoint{
		"n:1": {X: 0, Y: 0},
		"n:2": {X: 4, Y: 0},
		"n:3": {X: 2, Y: 0}, // sits directly between n:1 and n:2
	}
	r := NewRouter(positions)
	edges := []model.Edge{{ID: "e:1", From: "n:1", To: "n:2"}}
	paths := r.RouteAll(edges)
	p := paths["e:1"]
	for _, pt := range p {
		if pt == (GridPoint{2, 0}) {
			t.Fatalf("path must not cross node n:3's interior cell: %+v", p)
		}
	}
}

func TestRouteAllStableOrderAndOccupancy(t *testing.T) {
	positions := map[string]GridPoint{
		"n:1": {X: 0, Y: 0},
		"n:2": {X: 2, Y: 0},
		"n:3": {X: 0, Y: 2},
		"n:4": {X: 2, Y: 2},
	}
	r := NewRouter(positions)
	edges := []model.Edge{
		{ID: "e:2", From: "n:1", To: "n:4"},
		{ID: "e:1", From: "n:1", To: "n:2"},
	}
	paths := r.RouteAll(edges)
	if len(paths) != 2 {
		t.Fatalf("expected both edges routed, got %d", len(paths))
	}
}

func TestFallbackPolylineDeterministic(t *testing.T) {
	from := GridPoint{0, 0}
	to := GridPoint{4, 4}
	p1 := fallbackPolyline(from, to)
	p2 := fallbackPolyline(from, to)
	if len(p1) != len(p2) {
		t.Fatal("expected deterministic fallback")
	}
	for i := range p1 {
		if p1[i] != p2[i] {
			t.Fatal("expected identical fallback polylines")
		}
	}
}
