package model

import "testing"

func buildValidFlow() *FlowAST {
	a := NewFlowAST()
	a.Nodes = []Node{
		{ID: "n:1", MermaidID: "a", Label: "A", Shape: ShapeRect},
		{ID: "n:2", MermaidID: "b", Label: "B", Shape: ShapeRound},
	}
	a.Edges = []Edge{
		{ID: "e:1", From: "n:1", To: "n:2", Label: "go"},
	}
	return a
}

func TestFlowASTValidateOK(t *testing.T) {
	a := buildValidFlow()
	if err := a.Validate(); err != nil {
		t.Fatalf("expected valid AST, got %v", err)
	}
}

func TestFlowASTValidateUnknownEndpoint(t *testing.T) {
	a := buildValidFlow()
	a.Edges[0].To = "n:missing"
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for unknown edge endpoint")
	}
}

func TestFlowASTValidateDuplicateMermaidID(t *testing.T) {
	a := buildValidFlow()
	a.Nodes[1].MermaidID = a.Nodes[0].MermaidID
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for duplicate mermaid id")
	}
}

func TestFlowASTCanonicalEdgesOrder(t *testing.T) {
	a := NewFlowAST()
	a.Nodes = []Node{{ID: "n:1", MermaidID: "a"}, {ID: "n:2", MermaidID: "b"}, {ID: "n:3", MermaidID: "c"}}
	a.Edges = []Edge{
		{ID: "e:2", From: "n:2", To: "n:3"},
		{ID: "e:1", From: "n:1", To: "n:3"},
	}
	got := a.CanonicalEdges()
	if got[0].ID != "e:1" || got[1].ID != "e:2" {
		t.Fatalf("unexpected canonical edge order: %+v", got)
	}
}

func TestFlowASTCloneIndependence(t *testing.T) {
	a := buildValidFlow()
	clone := a.Clone()
	clone.Nodes[0].Label = "changed"
	if a.Nodes[0].Label == "changed" {
		t.Fatal("clone should not alias original")
	}
}
