package layout

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
)

func buildChain() *model.FlowAST {
	a := model.NewFlowAST()
	a.Nodes = []model.Node{
		{ID: "n:1", MermaidID: "a", Label: "Start"},
		{ID: "n:2", MermaidID: "b", Label: "Middle"},
		{ID: "n:3", MermaidID: "c", Label: "End"},
	}
	a.Edges = []model.Edge{
		{ID: "e:1", From: "n:1", To: "n:2"},
		{ID: "e:2", From: "n:2", To: "n:3"},
	}
	return a
}

func TestFlowchartLayersLinearChain(t *testing.T) {
	l, err := Flowchart(buildChain(), DefaultOptions())
	if err != nil {
		t.Fatalf("Flowchart: %v", err)
	}
	if l.Nodes["n:1"].Layer != 0 || l.Nodes["n:2"].Layer != 1 || l.Nodes["n:3"].Layer != 2 {
		t.Fatalf("unexpected layering: %+v", l.Nodes)
	}
}

func TestFlowchartDetectsCycle(t *testing.T) {
	a := model.NewFlowAST()
	a.Nodes = []model.Node{{ID: "n:1", MermaidID: "a"}, {ID: "n:2", MermaidID: "b"}}
	a.Edges = []model.Edge{
		{ID: "e:1", From: "n:1", To: "n:2"},
		{ID: "e:2", From: "n:2", To: "n:1"},
	}
	_, err := Flowchart(a, DefaultOptions())
	if err == nil {
		t.Fatal("expected cycle error")
	}
	var cyc *Cycle
	if !isCycleError(err, &cyc) {
		t.Fatalf("expected *Cycle error, got %T: %v", err, err)
	}
}

func isCycleError(err error, target **Cycle) bool {
	c, ok := err.(*Cycle)
	if ok {
		*target = c
	}
	return ok
}

func TestFlowchartSplitMergeBarycenterOrder(t *testing.T) {
	a := model.NewFlowAST()
	a.Nodes = []model.Node{
		{ID: "n:1", MermaidID: "a"},
		{ID: "n:2", MermaidID: "b"},
		{ID: "n:3", MermaidID: "c"},
		{ID: "n:4", MermaidID: "d"},
	}
	a.Edges = []model.Edge{
		{ID: "e:1", From: "n:1", To: "n:2"},
		{ID: "e:2", From: "n:1", To: "n:3"},
		{ID: "e:3", From: "n:2", To: "n:4"},
		{ID: "e:4", From: "n:3", To: "n:4"},
	}
	l, err := Flowchart(a, DefaultOptions())
	if err != nil {
		t.Fatalf("Flowchart: %v", err)
	}
	if l.Nodes["n:2"].Index >= l.Nodes["n:3"].Index {
		t.Fatalf("expected n:2 before n:3 by tie-break order, got %+v / %+v", l.Nodes["n:2"], l.Nodes["n:3"])
	}
}

func TestFlowchartDimensionsReflectLabelWidth(t *testing.T) {
	a := model.NewFlowAST()
	a.Nodes = []model.Node{{ID: "n:1", MermaidID: "a", Label: "a very long label indeed"}}
	l, err := Flowchart(a, DefaultOptions())
	if err != nil {
		t.Fatalf("Flowchart: %v", err)
	}
	if l.Nodes["n:1"].Width <= DefaultOptions().MinNodeWidth {
		t.Fatalf("expected width to grow with label, got %d", l.Nodes["n:1"].Width)
	}
}

func TestFlowchartUnknownNodeInEdge(t *testing.T) {
	a := model.NewFlowAST()
	a.Nodes = []model.Node{{ID: "n:1", MermaidID: "a"}}
	a.Edges = []model.Edge{{ID: "e:1", From: "n:1", To: "n:missing"}}
	_, err := Flowchart(a, DefaultOptions())
	if err == nil {
		t.Fatal("expected unknown node error")
	}
}
