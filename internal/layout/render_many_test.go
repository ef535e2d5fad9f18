package layout

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
)

func TestRenderManyDeterministicOrder(t *testing.T) {
	var diagrams []*model.Diagram
	for _, id := range []string{"d3", "d1", "d2"} {
		d := model.NewSequenceDiagram(id, id)
		diagrams = append(diagrams, d)
	}

	for i := 0; i < 5; i++ {
		results := RenderMany(diagrams, DefaultOptions(), 4)
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if results[0].DiagramID != "d1" || results[1].DiagramID != "d2" || results[2].DiagramID != "d3" {
			t.Fatalf("expected sorted diagram ids, got %v", []string{results[0].DiagramID, results[1].DiagramID, results[2].DiagramID})
		}
	}
}

func TestRenderManyReportsFlowchartCycle(t *testing.T) {
	d := model.NewFlowchartDiagram("bad", "bad")
	d.Flow().Nodes = []model.Node{{ID: "n:1", MermaidID: "a"}, {ID: "n:2", MermaidID: "b"}}
	d.Flow().Edges = []model.Edge{
		{ID: "e:1", From: "n:1", To: "n:2"},
		{ID: "e:2", From: "n:2", To: "n:1"},
	}
	results := RenderMany([]*model.Diagram{d}, DefaultOptions(), 2)
	if results[0].Err == nil {
		t.Fatal("expected cycle error surfaced from RenderMany")
	}
}
