// Package agenttools implements the semantics (never the transport) of the
// agent tool surface spec.md §6 requires: diagram, walkthrough,
// collaboration, xref/object, and query tools, each a typed Go
// request/response function operating on a shared Workspace. A Dispatcher
// registry makes every tool addressable by name for a future transport
// layer without this package depending on one.
package agenttools

import (
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/julianshen/nereid-core/internal/persist"
)

// Workspace is the shared state every tool function operates on: the
// Session and its runtime collaboration state, the ops engine owning
// history/conflict tracking, and (in persistent mode) the session root
// mutating tool calls write through to after each successful commit.
type Workspace struct {
	Session *model.Session
	Runtime *model.Runtime
	Engine  *opsengine.Engine

	// PersistRoot, when non-empty, is the session directory every
	// successful mutating tool call is saved to immediately after commit.
	// Empty means in-memory-only (e.g. --demo mode).
	PersistRoot string
	Durable     bool
}

// NewWorkspace returns a Workspace over an existing Session. engine may be
// shared across multiple Sessions' tool calls only if callers never
// interleave mutating calls for diagrams sharing an id across Sessions;
// ordinarily one Engine per Session.
func NewWorkspace(sess *model.Session, engine *opsengine.Engine) *Workspace {
	return &Workspace{Session: sess, Runtime: model.NewRuntime(), Engine: engine}
}

// persistIfEnabled saves the Session to PersistRoot when persistent mode is
// on. Mutating tools call this immediately after a successful in-memory
// commit; a save failure surfaces as the tool's own error so the caller
// knows to retry the save (the in-memory commit already stands, since the
// ops engine's own clone-validate-commit boundary is purely in-memory and
// precedes this step).
func (ws *Workspace) persistIfEnabled() error {
	if ws.PersistRoot == "" {
		return nil
	}
	return persist.Save(ws.Session, ws.PersistRoot, ws.Durable)
}

func diagramOrNotFound(ws *Workspace, diagramID string) (*model.Diagram, error) {
	d := ws.Session.Diagram(diagramID)
	if d == nil {
		return nil, &opsengine.NotFound{Kind: "diagram", ID: diagramID}
	}
	return d, nil
}

func walkthroughOrNotFound(ws *Workspace, walkthroughID string) (*model.Walkthrough, error) {
	w := ws.Session.Walkthrough(walkthroughID)
	if w == nil {
		return nil, &opsengine.NotFound{Kind: "walkthrough", ID: walkthroughID}
	}
	return w, nil
}
