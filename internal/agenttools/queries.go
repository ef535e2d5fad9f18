package agenttools

import (
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/query"
)

func sequenceASTFor(ws *Workspace, diagramID string) (*model.SequenceAST, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return nil, err
	}
	seq := d.Sequence()
	if seq == nil {
		return nil, &model.ErrKindMismatch{Want: model.KindSequence, Got: d.Kind}
	}
	return seq, nil
}

func flowASTFor(ws *Workspace, diagramID string) (*model.FlowAST, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return nil, err
	}
	flow := d.Flow()
	if flow == nil {
		return nil, &model.ErrKindMismatch{Want: model.KindFlowchart, Got: d.Kind}
	}
	return flow, nil
}

// SeqMessages lists diagramID's messages matching filter.
func SeqMessages(ws *Workspace, diagramID string, filter query.MessageFilter) ([]model.Message, error) {
	seq, err := sequenceASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Messages(seq, filter), nil
}

// SeqSearch searches diagramID's message text for needle.
func SeqSearch(ws *Workspace, diagramID, needle string, mode query.SearchMode, caseInsensitive bool) ([]model.Message, error) {
	seq, err := sequenceASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Search(seq, needle, mode, caseInsensitive)
}

// SeqTrace walks diagramID's canonical message order around an anchor.
func SeqTrace(ws *Workspace, diagramID, fromMessageID string, direction query.TraceDirection, limit int) ([]model.Message, error) {
	seq, err := sequenceASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Trace(seq, fromMessageID, direction, limit)
}

// FlowReachable returns nodes reachable from fromID in diagramID.
func FlowReachable(ws *Workspace, diagramID, fromID string, dir query.Direction) ([]model.Node, error) {
	flow, err := flowASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Reachable(flow, fromID, dir)
}

// FlowPaths returns shortest-plus-alternate paths between two nodes in
// diagramID.
func FlowPaths(ws *Workspace, diagramID, from, to string, limit, maxExtraHops int) ([]query.Path, error) {
	flow, err := flowASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Paths(flow, from, to, limit, maxExtraHops)
}

// FlowCycles returns every cycle in diagramID.
func FlowCycles(ws *Workspace, diagramID string) ([]query.Cycle, error) {
	flow, err := flowASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Cycles(flow), nil
}

// FlowUnreachable returns nodes unreachable from start in diagramID.
func FlowUnreachable(ws *Workspace, diagramID, start string) ([]model.Node, error) {
	flow, err := flowASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Unreachable(flow, start)
}

// FlowDeadEnds returns every zero-out-degree node in diagramID.
func FlowDeadEnds(ws *Workspace, diagramID string) ([]model.Node, error) {
	flow, err := flowASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.DeadEnds(flow), nil
}

// FlowDegrees returns the top nodes by degree in diagramID.
func FlowDegrees(ws *Workspace, diagramID string, top int, sortBy query.DegreeSort) ([]query.Degree, error) {
	flow, err := flowASTFor(ws, diagramID)
	if err != nil {
		return nil, err
	}
	return query.Degrees(flow, top, sortBy)
}

// RouteFind returns up to limit simple cross-diagram routes from fromRef to
// toRef over the session meta-graph.
func RouteFind(ws *Workspace, fromRef, toRef model.ObjectRef, limit, maxHops int, ordering query.RouteOrdering) ([]query.Route, error) {
	g := query.BuildGraph(ws.Session)
	return query.FindRoutes(g, fromRef, toRef, limit, maxHops, ordering)
}
