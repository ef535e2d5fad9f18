package model

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Session is the top-level in-memory container shared by a human user and
// any number of autonomous agents: a set of Diagrams, a set of
// Walkthroughs, and the XRefs linking objects across them.
type Session struct {
	mu sync.RWMutex

	SessionID     string
	SchemaVersion string

	diagrams     map[string]*Diagram
	walkthroughs map[string]*Walkthrough
	xrefs        []*XRef

	ActiveDiagramID    string
	ActiveWalkthroughID string
}

// CurrentSchemaVersion is the schema version stamped into new sessions.
const CurrentSchemaVersion = "1.0.0"

// NewSession constructs an empty Session with a freshly minted id.
func NewSession() *Session {
	return &Session{
		SessionID:     uuid.NewString(),
		SchemaVersion: CurrentSchemaVersion,
		diagrams:      make(map[string]*Diagram),
		walkthroughs:  make(map[string]*Walkthrough),
	}
}

// AddDiagram inserts a diagram, returning an error if its id is already in
// use.
func (s *Session) AddDiagram(d *Diagram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.diagrams[d.DiagramID]; exists {
		return fmt.Errorf("diagram id already in use: %s", d.DiagramID)
	}
	s.diagrams[d.DiagramID] = d
	return nil
}

// Diagram returns the diagram with the given id, or nil if absent.
func (s *Session) Diagram(id string) *Diagram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diagrams[id]
}

// RemoveDiagram deletes a diagram by id. No-op if absent.
func (s *Session) RemoveDiagram(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.diagrams, id)
	if s.ActiveDiagramID == id {
		s.ActiveDiagramID = ""
	}
}

// DiagramIDs returns every diagram id, sorted ascending.
func (s *Session) DiagramIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.diagrams))
	for id := range s.diagrams {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddWalkthrough inserts a walkthrough, returning an error if its id is
// already in use.
func (s *Session) AddWalkthrough(w *Walkthrough) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.walkthroughs[w.ID]; exists {
		return fmt.Errorf("walkthrough id already in use: %s", w.ID)
	}
	s.walkthroughs[w.ID] = w
	return nil
}

// Walkthrough returns the walkthrough with the given id, or nil if absent.
func (s *Session) Walkthrough(id string) *Walkthrough {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.walkthroughs[id]
}

// RemoveWalkthrough deletes a walkthrough by id. No-op if absent.
func (s *Session) RemoveWalkthrough(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.walkthroughs, id)
	if s.ActiveWalkthroughID == id {
		s.ActiveWalkthroughID = ""
	}
}

// WalkthroughIDs returns every walkthrough id, sorted ascending.
func (s *Session) WalkthroughIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.walkthroughs))
	for id := range s.walkthroughs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddXRef appends an XRef, recomputing its status against current state.
func (s *Session) AddXRef(x *XRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	x.Status = s.resolveStatusLocked(x.From, x.To)
	s.xrefs = append(s.xrefs, x)
}

// RemoveXRef deletes the XRef with the given id. No-op if absent.
func (s *Session) RemoveXRef(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.xrefs {
		if x.ID == id {
			s.xrefs = append(s.xrefs[:i], s.xrefs[i+1:]...)
			return
		}
	}
}

// XRefs returns a copy of the current XRef list, in insertion order.
func (s *Session) XRefs() []*XRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*XRef, len(s.xrefs))
	copy(out, s.xrefs)
	return out
}

// Resolves reports whether ref currently addresses an existing object.
func (s *Session) Resolves(ref ObjectRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolvesLocked(ref)
}

func (s *Session) resolvesLocked(ref ObjectRef) bool {
	d := s.diagrams[ref.DiagramID]
	if d == nil {
		return false
	}
	switch ref.Category {
	case CategorySeqParticipant:
		if seq := d.Sequence(); seq != nil {
			_, i := seq.findParticipant(ref.ObjectID)
			return i >= 0
		}
	case CategorySeqMessage:
		if seq := d.Sequence(); seq != nil {
			_, i := seq.findMessage(ref.ObjectID)
			return i >= 0
		}
	case CategorySeqBlock:
		if seq := d.Sequence(); seq != nil {
			_, i := seq.findBlock(ref.ObjectID)
			return i >= 0
		}
	case CategorySeqSection:
		if seq := d.Sequence(); seq != nil {
			for _, b := range seq.Blocks {
				for _, sec := range b.Sections {
					if sec.ID == ref.ObjectID {
						return true
					}
				}
			}
		}
	case CategoryFlowNode:
		if flow := d.Flow(); flow != nil {
			_, i := flow.findNode(ref.ObjectID)
			return i >= 0
		}
	case CategoryFlowEdge:
		if flow := d.Flow(); flow != nil {
			_, i := flow.findEdge(ref.ObjectID)
			return i >= 0
		}
	}
	return false
}

func (s *Session) resolveStatusLocked(from, to ObjectRef) XRefStatus {
	return ComputeXRefStatus(s.resolvesLocked(from), s.resolvesLocked(to))
}

// RecomputeXRefStatuses re-derives every XRef's Status against the current
// diagram state. Callers run this after any op batch that could have added
// or removed an endpoint, and always after a load.
func (s *Session) RecomputeXRefStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.xrefs {
		x.Status = s.resolveStatusLocked(x.From, x.To)
	}
}
