package opsengine

import "github.com/julianshen/nereid-core/internal/model"

// WalkthroughOp is a single typed mutation against a Walkthrough clone.
type WalkthroughOp interface {
	Apply(w *model.Walkthrough, dt *walkthroughDeltaTracker) error
}

func wRef(walkthroughID string, kind model.WalkthroughRefKind, id string) model.WalkthroughRef {
	return model.WalkthroughRef{WalkthroughID: walkthroughID, Kind: kind, ObjectID: id}
}

// AddWalkthroughNode appends a new node.
type AddWalkthroughNode struct {
	ID     string
	Title  string
	BodyMD string
	Refs   []model.ObjectRef
	Tags   []string
	Status string
}

func (op AddWalkthroughNode) Apply(w *model.Walkthrough, dt *walkthroughDeltaTracker) error {
	if _, exists := w.Nodes[op.ID]; exists {
		return &DuplicateID{Kind: "walkthrough_node", ID: op.ID}
	}
	w.Nodes[op.ID] = &model.WalkthroughNode{
		ID: op.ID, Title: op.Title, BodyMD: op.BodyMD,
		Refs: append([]model.ObjectRef(nil), op.Refs...),
		Tags: append([]string(nil), op.Tags...),
		Status: op.Status,
	}
	dt.recordAdd(wRef(w.ID, model.WalkthroughRefNode, op.ID))
	return nil
}

// WalkthroughNodePatch applies only the non-nil fields.
type WalkthroughNodePatch struct {
	Title  *string
	BodyMD *string
	Status *string
}

// UpdateWalkthroughNode patches mutable node fields in place.
type UpdateWalkthroughNode struct {
	ID    string
	Patch WalkthroughNodePatch
}

func (op UpdateWalkthroughNode) Apply(w *model.Walkthrough, dt *walkthroughDeltaTracker) error {
	n, ok := w.Nodes[op.ID]
	if !ok {
		return &NotFound{Kind: "walkthrough_node", ID: op.ID}
	}
	if op.Patch.Title != nil {
		n.Title = *op.Patch.Title
	}
	if op.Patch.BodyMD != nil {
		n.BodyMD = *op.Patch.BodyMD
	}
	if op.Patch.Status != nil {
		n.Status = *op.Patch.Status
	}
	dt.recordUpdate(wRef(w.ID, model.WalkthroughRefNode, op.ID))
	return nil
}

// RemoveWalkthroughNode removes a node and cascades removal of any edge
// incident to it.
type RemoveWalkthroughNode struct {
	ID string
}

func (op RemoveWalkthroughNode) Apply(w *model.Walkthrough, dt *walkthroughDeltaTracker) error {
	if _, ok := w.Nodes[op.ID]; !ok {
		return &NotFound{Kind: "walkthrough_node", ID: op.ID}
	}
	kept := w.Edges[:0:0]
	for _, e := range w.Edges {
		if e.From == op.ID || e.To == op.ID {
			dt.recordRemove(wRef(w.ID, model.WalkthroughRefEdge, e.From+">>"+e.To))
			continue
		}
		kept = append(kept, e)
	}
	w.Edges = kept
	delete(w.Nodes, op.ID)
	dt.recordRemove(wRef(w.ID, model.WalkthroughRefNode, op.ID))
	return nil
}

// AddWalkthroughEdge appends a new connector between two existing nodes.
type AddWalkthroughEdge struct {
	From, To, Kind, Label string
}

func (op AddWalkthroughEdge) Apply(w *model.Walkthrough, dt *walkthroughDeltaTracker) error {
	if _, ok := w.Nodes[op.From]; !ok {
		return &NotFound{Kind: "walkthrough_node", ID: op.From}
	}
	if _, ok := w.Nodes[op.To]; !ok {
		return &NotFound{Kind: "walkthrough_node", ID: op.To}
	}
	w.Edges = append(w.Edges, model.WalkthroughEdge{From: op.From, To: op.To, Kind: op.Kind, Label: op.Label})
	dt.recordAdd(wRef(w.ID, model.WalkthroughRefEdge, op.From+">>"+op.To))
	return nil
}

// RemoveWalkthroughEdge removes the first edge matching From/To/Kind.
type RemoveWalkthroughEdge struct {
	From, To, Kind string
}

func (op RemoveWalkthroughEdge) Apply(w *model.Walkthrough, dt *walkthroughDeltaTracker) error {
	for i, e := range w.Edges {
		if e.From == op.From && e.To == op.To && e.Kind == op.Kind {
			w.Edges = append(w.Edges[:i], w.Edges[i+1:]...)
			dt.recordRemove(wRef(w.ID, model.WalkthroughRefEdge, op.From+">>"+op.To))
			return nil
		}
	}
	return &NotFound{Kind: "walkthrough_edge", ID: op.From + ">>" + op.To}
}

// SetWalkthroughTitle renames the walkthrough itself.
type SetWalkthroughTitle struct {
	Title string
}

func (op SetWalkthroughTitle) Apply(w *model.Walkthrough, dt *walkthroughDeltaTracker) error {
	w.Title = op.Title
	dt.recordUpdate(wRef(w.ID, model.WalkthroughRefNode, "<title>"))
	return nil
}
