package model

import "testing"

func TestSessionAddAndResolveDiagram(t *testing.T) {
	s := NewSession()
	d := NewFlowchartDiagram("diag1", "Flow")
	d.Flow().Nodes = []Node{{ID: "n:1", MermaidID: "a"}}
	if err := s.AddDiagram(d); err != nil {
		t.Fatalf("AddDiagram: %v", err)
	}

	ref := ObjectRef{DiagramID: "diag1", Category: CategoryFlowNode, ObjectID: "n:1"}
	if !s.Resolves(ref) {
		t.Fatal("expected node ref to resolve")
	}
	missing := ObjectRef{DiagramID: "diag1", Category: CategoryFlowNode, ObjectID: "n:missing"}
	if s.Resolves(missing) {
		t.Fatal("expected missing node ref to not resolve")
	}
}

func TestSessionXRefStatusRecompute(t *testing.T) {
	s := NewSession()
	d := NewFlowchartDiagram("diag1", "Flow")
	d.Flow().Nodes = []Node{{ID: "n:1", MermaidID: "a"}, {ID: "n:2", MermaidID: "b"}}
	if err := s.AddDiagram(d); err != nil {
		t.Fatal(err)
	}

	from := ObjectRef{DiagramID: "diag1", Category: CategoryFlowNode, ObjectID: "n:1"}
	to := ObjectRef{DiagramID: "diag1", Category: CategoryFlowNode, ObjectID: "n:2"}
	s.AddXRef(&XRef{ID: "x:1", From: from, To: to, Kind: "nav"})

	xrefs := s.XRefs()
	if len(xrefs) != 1 || xrefs[0].Status != XRefOk {
		t.Fatalf("expected single Ok xref, got %+v", xrefs)
	}

	d.Flow().Nodes = d.Flow().Nodes[:1] // remove n:2
	s.RecomputeXRefStatuses()
	xrefs = s.XRefs()
	if xrefs[0].Status != XRefDanglingTo {
		t.Fatalf("expected DanglingTo after removal, got %s", xrefs[0].Status)
	}
}

func TestSessionRemoveDiagramClearsActive(t *testing.T) {
	s := NewSession()
	d := NewFlowchartDiagram("diag1", "Flow")
	if err := s.AddDiagram(d); err != nil {
		t.Fatal(err)
	}
	s.ActiveDiagramID = "diag1"
	s.RemoveDiagram("diag1")
	if s.ActiveDiagramID != "" {
		t.Fatal("expected active diagram id cleared after removal")
	}
	if s.Diagram("diag1") != nil {
		t.Fatal("expected diagram gone after removal")
	}
}
