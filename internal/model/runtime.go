package model

import "sync"

// Runtime holds collaboration state that lives beside a Session but has
// process lifetime only: selection, human/agent attention, the follow-ai
// flag, and view state. None of it is ever persisted; it is initialized
// empty on session open and dropped with the Session.
type Runtime struct {
	mu sync.Mutex

	humanAttention ObjectRef
	hasHuman       bool

	agentHighlights []ObjectRef
	selection       []ObjectRef
	followAI        bool
	viewState       map[string]string
}

// NewRuntime returns an empty runtime collaboration state container.
func NewRuntime() *Runtime {
	return &Runtime{viewState: make(map[string]string)}
}

// SetHumanAttention records what the human is currently looking at.
func (r *Runtime) SetHumanAttention(ref ObjectRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.humanAttention = ref
	r.hasHuman = true
}

// HumanAttention returns the human's current attention target, if any.
func (r *Runtime) HumanAttention() (ObjectRef, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.humanAttention, r.hasHuman
}

// SetAgentHighlights replaces the set of objects an agent has highlighted.
func (r *Runtime) SetAgentHighlights(refs []ObjectRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agentHighlights = append([]ObjectRef(nil), refs...)
}

// ClearAgentHighlights removes all agent highlights.
func (r *Runtime) ClearAgentHighlights() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agentHighlights = nil
}

// AgentHighlights returns the currently highlighted objects.
func (r *Runtime) AgentHighlights() []ObjectRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ObjectRef(nil), r.agentHighlights...)
}

// SetSelection replaces the current human/agent selection.
func (r *Runtime) SetSelection(refs []ObjectRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selection = append([]ObjectRef(nil), refs...)
}

// Selection returns the current selection.
func (r *Runtime) Selection() []ObjectRef {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ObjectRef(nil), r.selection...)
}

// SetFollowAI toggles whether the view should track agent activity.
func (r *Runtime) SetFollowAI(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followAI = on
}

// FollowAI reports the current follow-ai flag.
func (r *Runtime) FollowAI() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.followAI
}

// ViewState returns a copy of the opaque view-state key/value map (pane
// layout, scroll offsets, etc. — owned by the external UI shell, stored
// here only so it survives tool calls within one process).
func (r *Runtime) ViewState() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.viewState))
	for k, v := range r.viewState {
		out[k] = v
	}
	return out
}

// SetViewState sets a single view-state key.
func (r *Runtime) SetViewState(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewState[key] = value
}
