package mermaid

import "testing"

func TestParseFlowchartBasic(t *testing.T) {
	src := `flowchart TD
    a[Start] --> b{Decision}
    b --> |yes| c(Done)
`
	ast, err := ParseFlowchart(src)
	if err != nil {
		t.Fatalf("ParseFlowchart: %v", err)
	}
	if len(ast.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(ast.Nodes))
	}
	if len(ast.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(ast.Edges))
	}
	if ast.Edges[1].Label != "yes" {
		t.Fatalf("expected edge label 'yes', got %q", ast.Edges[1].Label)
	}
}

func TestParseFlowchartStandaloneNode(t *testing.T) {
	src := "flowchart TD\n    a[Isolated]\n"
	ast, err := ParseFlowchart(src)
	if err != nil {
		t.Fatalf("ParseFlowchart: %v", err)
	}
	if len(ast.Nodes) != 1 || len(ast.Edges) != 0 {
		t.Fatalf("unexpected parse result: %+v", ast)
	}
}

func TestParseFlowchartDuplicateNode(t *testing.T) {
	src := "flowchart TD\n    a[One]\n    a[Two]\n"
	_, err := ParseFlowchart(src)
	if err == nil {
		t.Fatal("expected error for duplicate node declaration")
	}
}

func TestParseFlowchartMissingHeader(t *testing.T) {
	src := "a --> b\n"
	_, err := ParseFlowchart(src)
	if err == nil {
		t.Fatal("expected error for missing header")
	}
}
