package agenttools

import (
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/julianshen/nereid-core/internal/render"
)

// WalkthroughSummary is the stable-field projection of a Walkthrough
// returned by the list/current/open tools.
type WalkthroughSummary struct {
	WalkthroughID string
	Title         string
	Rev           uint64
}

func summarizeWalkthrough(w *model.Walkthrough) WalkthroughSummary {
	return WalkthroughSummary{WalkthroughID: w.ID, Title: w.Title, Rev: w.Rev()}
}

// WalkthroughList returns every walkthrough's summary, ordered by id.
func WalkthroughList(ws *Workspace) []WalkthroughSummary {
	ids := ws.Session.WalkthroughIDs()
	out := make([]WalkthroughSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, summarizeWalkthrough(ws.Session.Walkthrough(id)))
	}
	return out
}

// WalkthroughCurrent returns the active walkthrough's summary, if any.
func WalkthroughCurrent(ws *Workspace) (WalkthroughSummary, bool) {
	id := ws.Session.ActiveWalkthroughID
	if id == "" {
		return WalkthroughSummary{}, false
	}
	w := ws.Session.Walkthrough(id)
	if w == nil {
		return WalkthroughSummary{}, false
	}
	return summarizeWalkthrough(w), true
}

// WalkthroughOpen makes walkthroughID active and returns its summary.
func WalkthroughOpen(ws *Workspace, walkthroughID string) (WalkthroughSummary, error) {
	w, err := walkthroughOrNotFound(ws, walkthroughID)
	if err != nil {
		return WalkthroughSummary{}, err
	}
	ws.Session.ActiveWalkthroughID = walkthroughID
	return summarizeWalkthrough(w), nil
}

// WalkthroughDelete removes walkthroughID, clearing ActiveWalkthroughID if
// it pointed there.
func WalkthroughDelete(ws *Workspace, walkthroughID string) error {
	if _, err := walkthroughOrNotFound(ws, walkthroughID); err != nil {
		return err
	}
	ws.Session.RemoveWalkthrough(walkthroughID)
	if ws.Session.ActiveWalkthroughID == walkthroughID {
		ws.Session.ActiveWalkthroughID = ""
	}
	return ws.persistIfEnabled()
}

// WalkthroughCreate adds a new, empty walkthrough.
func WalkthroughCreate(ws *Workspace, walkthroughID, title string, makeActive bool) (WalkthroughSummary, error) {
	w := model.NewWalkthrough(walkthroughID, title)
	if err := ws.Session.AddWalkthrough(w); err != nil {
		return WalkthroughSummary{}, err
	}
	if makeActive {
		ws.Session.ActiveWalkthroughID = walkthroughID
	}
	if err := ws.persistIfEnabled(); err != nil {
		return summarizeWalkthrough(w), err
	}
	return summarizeWalkthrough(w), nil
}

// WalkthroughRead renders walkthroughID to its Unicode box-drawing text form.
func WalkthroughRead(ws *Workspace, walkthroughID string) (string, error) {
	w, err := walkthroughOrNotFound(ws, walkthroughID)
	if err != nil {
		return "", err
	}
	canvas, _, err := render.Walkthrough(w)
	if err != nil {
		return "", err
	}
	return canvas.String(), nil
}

// WalkthroughApplyOps applies ops to walkthroughID, commits, and persists —
// per spec.md §6, walkthrough apply_ops always persists in persistent mode.
func WalkthroughApplyOps(ws *Workspace, walkthroughID string, baseRev uint64, ops []opsengine.WalkthroughOp) (uint64, opsengine.WalkthroughDelta, error) {
	w, err := walkthroughOrNotFound(ws, walkthroughID)
	if err != nil {
		return 0, opsengine.WalkthroughDelta{}, err
	}
	rev, delta, err := ws.Engine.ApplyWalkthroughBatch(w, baseRev, ops)
	if err != nil {
		return 0, opsengine.WalkthroughDelta{}, err
	}
	if err := ws.persistIfEnabled(); err != nil {
		return rev, delta, err
	}
	return rev, delta, nil
}

// WalkthroughProposeOps validates ops against walkthroughID without
// committing or persisting.
func WalkthroughProposeOps(ws *Workspace, walkthroughID string, baseRev uint64, ops []opsengine.WalkthroughOp) (uint64, opsengine.WalkthroughDelta, error) {
	w, err := walkthroughOrNotFound(ws, walkthroughID)
	if err != nil {
		return 0, opsengine.WalkthroughDelta{}, err
	}
	return ws.Engine.ProposeWalkthroughBatch(w, baseRev, ops)
}

// WalkthroughDiff returns the minimal WalkthroughDelta since sinceRev.
func WalkthroughDiff(ws *Workspace, walkthroughID string, sinceRev uint64) (opsengine.WalkthroughDelta, error) {
	w, err := walkthroughOrNotFound(ws, walkthroughID)
	if err != nil {
		return opsengine.WalkthroughDelta{}, err
	}
	return ws.Engine.GetWalkthroughDelta(walkthroughID, sinceRev, w.Rev())
}
