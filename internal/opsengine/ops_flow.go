package opsengine

import "github.com/julianshen/nereid-core/internal/model"

// FlowOp is a single typed mutation against a FlowAST clone.
type FlowOp interface {
	Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error
}

func flowRef(diagramID string, cat model.Category, id string) model.ObjectRef {
	return model.ObjectRef{DiagramID: diagramID, Category: cat, ObjectID: id}
}

// AddNode appends a new flowchart box.
type AddNode struct {
	ID        string
	MermaidID string
	Label     string
	Shape     model.NodeShape
}

func (op AddNode) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	if containsNewlineOp(op.Label) {
		return &InvalidText{Detail: "node label must be single line"}
	}
	for _, n := range ast.Nodes {
		if n.ID == op.ID {
			return &DuplicateID{Kind: "node", ID: op.ID}
		}
		if n.MermaidID == op.MermaidID {
			return &IdentifierCollision{Ident: op.MermaidID}
		}
	}
	ast.Nodes = append(ast.Nodes, model.Node{
		ID: op.ID, MermaidID: op.MermaidID, Label: op.Label, Shape: op.Shape,
	})
	dt.recordAdd(flowRef(diagramID, model.CategoryFlowNode, op.ID))
	return nil
}

// NodePatch applies only the non-nil fields.
type NodePatch struct {
	Label *string
	Shape *model.NodeShape
}

// UpdateNode patches mutable node fields in place.
type UpdateNode struct {
	ID    string
	Patch NodePatch
}

func (op UpdateNode) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	for i := range ast.Nodes {
		if ast.Nodes[i].ID != op.ID {
			continue
		}
		if op.Patch.Label != nil {
			if containsNewlineOp(*op.Patch.Label) {
				return &InvalidText{Detail: "node label must be single line"}
			}
			ast.Nodes[i].Label = *op.Patch.Label
		}
		if op.Patch.Shape != nil {
			ast.Nodes[i].Shape = *op.Patch.Shape
		}
		dt.recordUpdate(flowRef(diagramID, model.CategoryFlowNode, op.ID))
		return nil
	}
	return &NotFound{Kind: "node", ID: op.ID}
}

// SetNodeNote sets or clears a node's note.
type SetNodeNote struct {
	ID   string
	Note string
}

func (op SetNodeNote) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	for i := range ast.Nodes {
		if ast.Nodes[i].ID != op.ID {
			continue
		}
		ast.Nodes[i].Note = op.Note
		dt.recordUpdate(flowRef(diagramID, model.CategoryFlowNode, op.ID))
		return nil
	}
	return &NotFound{Kind: "node", ID: op.ID}
}

// RenameNodeMermaidID changes a node's mermaid identifier, rejecting any
// collision with an existing one.
type RenameNodeMermaidID struct {
	ID       string
	NewIdent string
}

func (op RenameNodeMermaidID) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	idx := -1
	for i, n := range ast.Nodes {
		if n.ID == op.ID {
			idx = i
		}
		if n.MermaidID == op.NewIdent && n.ID != op.ID {
			return &IdentifierCollision{Ident: op.NewIdent}
		}
	}
	if idx < 0 {
		return &NotFound{Kind: "node", ID: op.ID}
	}
	ast.Nodes[idx].MermaidID = op.NewIdent
	dt.recordUpdate(flowRef(diagramID, model.CategoryFlowNode, op.ID))
	return nil
}

// RemoveNode removes a node and cascades removal of every edge incident to
// it.
type RemoveNode struct {
	ID string
}

func (op RemoveNode) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	idx := -1
	for i, n := range ast.Nodes {
		if n.ID == op.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return &NotFound{Kind: "node", ID: op.ID}
	}
	kept := ast.Edges[:0:0]
	for _, e := range ast.Edges {
		if e.From == op.ID || e.To == op.ID {
			dt.recordRemove(flowRef(diagramID, model.CategoryFlowEdge, e.ID))
			continue
		}
		kept = append(kept, e)
	}
	ast.Edges = kept
	ast.Nodes = append(ast.Nodes[:idx], ast.Nodes[idx+1:]...)
	dt.recordRemove(flowRef(diagramID, model.CategoryFlowNode, op.ID))
	return nil
}

// AddEdge appends a new directed connector.
type AddEdge struct {
	ID    string
	From  string
	To    string
	Label string
	Style string
}

func (op AddEdge) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	if containsNewlineOp(op.Label) {
		return &InvalidText{Detail: "edge label must be single line"}
	}
	fromOK, toOK := false, false
	for _, n := range ast.Nodes {
		if n.ID == op.From {
			fromOK = true
		}
		if n.ID == op.To {
			toOK = true
		}
	}
	if !fromOK {
		return &InvalidEndpoint{Detail: "unknown from node " + op.From}
	}
	if !toOK {
		return &InvalidEndpoint{Detail: "unknown to node " + op.To}
	}
	for _, e := range ast.Edges {
		if e.ID == op.ID {
			return &DuplicateID{Kind: "edge", ID: op.ID}
		}
	}
	ast.Edges = append(ast.Edges, model.Edge{
		ID: op.ID, From: op.From, To: op.To, Label: op.Label, Style: op.Style,
	})
	dt.recordAdd(flowRef(diagramID, model.CategoryFlowEdge, op.ID))
	return nil
}

// EdgePatch applies only the non-nil fields.
type EdgePatch struct {
	Label *string
	Style *string
}

// UpdateEdge patches mutable edge fields in place.
type UpdateEdge struct {
	ID    string
	Patch EdgePatch
}

func (op UpdateEdge) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	for i := range ast.Edges {
		if ast.Edges[i].ID != op.ID {
			continue
		}
		if op.Patch.Label != nil {
			if containsNewlineOp(*op.Patch.Label) {
				return &InvalidText{Detail: "edge label must be single line"}
			}
			ast.Edges[i].Label = *op.Patch.Label
		}
		if op.Patch.Style != nil {
			ast.Edges[i].Style = *op.Patch.Style
		}
		dt.recordUpdate(flowRef(diagramID, model.CategoryFlowEdge, op.ID))
		return nil
	}
	return &NotFound{Kind: "edge", ID: op.ID}
}

// RemoveEdge removes a single edge.
type RemoveEdge struct {
	ID string
}

func (op RemoveEdge) Apply(ast *model.FlowAST, diagramID string, dt *deltaTracker) error {
	for i, e := range ast.Edges {
		if e.ID != op.ID {
			continue
		}
		ast.Edges = append(ast.Edges[:i], ast.Edges[i+1:]...)
		dt.recordRemove(flowRef(diagramID, model.CategoryFlowEdge, op.ID))
		return nil
	}
	return &NotFound{Kind: "edge", ID: op.ID}
}
