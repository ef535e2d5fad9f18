package agenttools

import "github.com/julianshen/nereid-core/internal/model"

// AttentionHumanRead returns where the human is currently looking, if set.
func AttentionHumanRead(ws *Workspace) (model.ObjectRef, bool) {
	return ws.Runtime.HumanAttention()
}

// AttentionAgentRead returns the objects an agent has currently highlighted.
func AttentionAgentRead(ws *Workspace) []model.ObjectRef {
	return ws.Runtime.AgentHighlights()
}

// AttentionAgentSet replaces the agent's highlighted objects.
func AttentionAgentSet(ws *Workspace, refs []model.ObjectRef) {
	ws.Runtime.SetAgentHighlights(refs)
}

// AttentionAgentClear removes all agent highlights.
func AttentionAgentClear(ws *Workspace) {
	ws.Runtime.ClearAgentHighlights()
}

// FollowAIRead reports whether the view currently tracks agent activity.
func FollowAIRead(ws *Workspace) bool {
	return ws.Runtime.FollowAI()
}

// FollowAISet toggles whether the view tracks agent activity.
func FollowAISet(ws *Workspace, on bool) {
	ws.Runtime.SetFollowAI(on)
}

// SelectionRead returns the current human/agent selection.
func SelectionRead(ws *Workspace) []model.ObjectRef {
	return ws.Runtime.Selection()
}

// SelectionUpdate replaces the current selection.
func SelectionUpdate(ws *Workspace, refs []model.ObjectRef) {
	ws.Runtime.SetSelection(refs)
}

// ViewReadState returns a copy of the opaque view-state key/value map.
func ViewReadState(ws *Workspace) map[string]string {
	return ws.Runtime.ViewState()
}
