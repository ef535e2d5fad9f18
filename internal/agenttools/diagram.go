package agenttools

import (
	"strings"

	"github.com/julianshen/nereid-core/internal/mermaid"
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/julianshen/nereid-core/internal/render"
)

// DiagramSummary is the stable-field projection of a Diagram returned by
// the list/current/open/stat tools.
type DiagramSummary struct {
	DiagramID string
	Name      string
	Kind      model.DiagramKind
	Rev       uint64
}

func summarizeDiagram(d *model.Diagram) DiagramSummary {
	return DiagramSummary{DiagramID: d.DiagramID, Name: d.Name, Kind: d.Kind, Rev: d.Rev()}
}

// DiagramList returns every diagram's summary, ordered by id.
func DiagramList(ws *Workspace) []DiagramSummary {
	ids := ws.Session.DiagramIDs()
	out := make([]DiagramSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, summarizeDiagram(ws.Session.Diagram(id)))
	}
	return out
}

// DiagramCurrent returns the active diagram's summary, if any is set.
func DiagramCurrent(ws *Workspace) (DiagramSummary, bool) {
	id := ws.Session.ActiveDiagramID
	if id == "" {
		return DiagramSummary{}, false
	}
	d := ws.Session.Diagram(id)
	if d == nil {
		return DiagramSummary{}, false
	}
	return summarizeDiagram(d), true
}

// DiagramOpen makes diagramID the Session's active diagram and returns its
// summary.
func DiagramOpen(ws *Workspace, diagramID string) (DiagramSummary, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return DiagramSummary{}, err
	}
	ws.Session.ActiveDiagramID = diagramID
	return summarizeDiagram(d), nil
}

// DiagramDelete removes diagramID, clearing ActiveDiagramID if it pointed
// there.
func DiagramDelete(ws *Workspace, diagramID string) error {
	if _, err := diagramOrNotFound(ws, diagramID); err != nil {
		return err
	}
	ws.Session.RemoveDiagram(diagramID)
	if ws.Session.ActiveDiagramID == diagramID {
		ws.Session.ActiveDiagramID = ""
	}
	ws.Session.RecomputeXRefStatuses()
	return ws.persistIfEnabled()
}

// DiagramStat returns diagramID's summary.
func DiagramStat(ws *Workspace, diagramID string) (DiagramSummary, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return DiagramSummary{}, err
	}
	return summarizeDiagram(d), nil
}

// CreateFromMermaidRequest is create_from_mermaid's input: raw Mermaid
// text plus the new diagram's identity.
type CreateFromMermaidRequest struct {
	Mermaid    string
	DiagramID string
	Name       string
	MakeActive bool
}

// DiagramCreateFromMermaid parses req.Mermaid, sniffing sequence vs
// flowchart from its first non-blank line, then runs layout and a render
// preflight before adding anything to the Session — parse, layout, and
// render all succeed or nothing changes.
func DiagramCreateFromMermaid(ws *Workspace, req CreateFromMermaidRequest) (DiagramSummary, error) {
	kind, err := sniffMermaidKind(req.Mermaid)
	if err != nil {
		return DiagramSummary{}, err
	}

	var d *model.Diagram
	switch kind {
	case model.KindSequence:
		ast, err := mermaid.ParseSequence(req.Mermaid)
		if err != nil {
			return DiagramSummary{}, err
		}
		if _, _, err := render.Sequence(req.DiagramID, ast, render.DefaultOptions()); err != nil {
			return DiagramSummary{}, err
		}
		d = model.NewSequenceDiagram(req.DiagramID, req.Name)
		if err := d.ReplaceSequence(ast); err != nil {
			return DiagramSummary{}, err
		}
	case model.KindFlowchart:
		ast, err := mermaid.ParseFlowchart(req.Mermaid)
		if err != nil {
			return DiagramSummary{}, err
		}
		if _, _, err := render.Flowchart(req.DiagramID, ast, render.DefaultOptions()); err != nil {
			return DiagramSummary{}, err
		}
		d = model.NewFlowchartDiagram(req.DiagramID, req.Name)
		if err := d.ReplaceFlow(ast); err != nil {
			return DiagramSummary{}, err
		}
	}

	if err := ws.Session.AddDiagram(d); err != nil {
		return DiagramSummary{}, err
	}
	if req.MakeActive {
		ws.Session.ActiveDiagramID = d.DiagramID
	}
	if err := ws.persistIfEnabled(); err != nil {
		return summarizeDiagram(d), err
	}
	return summarizeDiagram(d), nil
}

func sniffMermaidKind(text string) (model.DiagramKind, error) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "sequenceDiagram"):
			return model.KindSequence, nil
		case strings.HasPrefix(trimmed, "flowchart") || strings.HasPrefix(trimmed, "graph"):
			return model.KindFlowchart, nil
		default:
			return "", &Unsupported{Detail: "unrecognized diagram header: " + trimmed}
		}
	}
	return "", &Unsupported{Detail: "empty mermaid text"}
}

// DiagramDiff returns the minimal Delta since sinceRev for diagramID.
func DiagramDiff(ws *Workspace, diagramID string, sinceRev uint64) (opsengine.Delta, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return opsengine.Delta{}, err
	}
	return ws.Engine.GetDelta(diagramID, sinceRev, d.Rev())
}

// DiagramRead exports diagramID's canonical Mermaid text.
func DiagramRead(ws *Workspace, diagramID string) (string, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return "", err
	}
	switch d.Kind {
	case model.KindSequence:
		return mermaid.ExportSequence(d.Sequence())
	case model.KindFlowchart:
		return mermaid.ExportFlowchart(d.Flow())
	}
	return "", &opsengine.NotFound{Kind: "diagram kind", ID: string(d.Kind)}
}

// DiagramGetAST returns a clone of diagramID's AST: *model.SequenceAST or
// *model.FlowAST depending on Kind.
func DiagramGetAST(ws *Workspace, diagramID string) (any, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return nil, err
	}
	switch d.Kind {
	case model.KindSequence:
		return d.Sequence().Clone(), nil
	case model.KindFlowchart:
		return d.Flow().Clone(), nil
	}
	return nil, &opsengine.NotFound{Kind: "diagram kind", ID: string(d.Kind)}
}

// DiagramRenderText renders diagramID to its Unicode box-drawing text form.
func DiagramRenderText(ws *Workspace, diagramID string, opts render.Options) (string, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return "", err
	}
	switch d.Kind {
	case model.KindSequence:
		canvas, _, err := render.Sequence(diagramID, d.Sequence(), opts)
		if err != nil {
			return "", err
		}
		return canvas.String(), nil
	case model.KindFlowchart:
		canvas, _, err := render.Flowchart(diagramID, d.Flow(), opts)
		if err != nil {
			return "", err
		}
		return canvas.String(), nil
	}
	return "", &opsengine.NotFound{Kind: "diagram kind", ID: string(d.Kind)}
}

// DiagramApplySequenceOps applies ops to diagramID's sequence AST, commits,
// and persists when persistent mode is on.
func DiagramApplySequenceOps(ws *Workspace, diagramID string, baseRev uint64, ops []opsengine.SeqOp) (uint64, opsengine.Delta, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return 0, opsengine.Delta{}, err
	}
	rev, delta, err := ws.Engine.ApplySequenceBatch(d, baseRev, ops)
	if err != nil {
		return 0, opsengine.Delta{}, err
	}
	ws.Session.RecomputeXRefStatuses()
	if err := ws.persistIfEnabled(); err != nil {
		return rev, delta, err
	}
	return rev, delta, nil
}

// DiagramProposeSequenceOps validates ops against diagramID without
// committing or persisting.
func DiagramProposeSequenceOps(ws *Workspace, diagramID string, baseRev uint64, ops []opsengine.SeqOp) (uint64, opsengine.Delta, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return 0, opsengine.Delta{}, err
	}
	return ws.Engine.ProposeSequenceBatch(d, baseRev, ops)
}

// DiagramApplyFlowOps applies ops to diagramID's flow AST, commits, and
// persists when persistent mode is on.
func DiagramApplyFlowOps(ws *Workspace, diagramID string, baseRev uint64, ops []opsengine.FlowOp) (uint64, opsengine.Delta, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return 0, opsengine.Delta{}, err
	}
	rev, delta, err := ws.Engine.ApplyFlowBatch(d, baseRev, ops)
	if err != nil {
		return 0, opsengine.Delta{}, err
	}
	ws.Session.RecomputeXRefStatuses()
	if err := ws.persistIfEnabled(); err != nil {
		return rev, delta, err
	}
	return rev, delta, nil
}

// DiagramProposeFlowOps validates ops against diagramID without committing
// or persisting.
func DiagramProposeFlowOps(ws *Workspace, diagramID string, baseRev uint64, ops []opsengine.FlowOp) (uint64, opsengine.Delta, error) {
	d, err := diagramOrNotFound(ws, diagramID)
	if err != nil {
		return 0, opsengine.Delta{}, err
	}
	return ws.Engine.ProposeFlowBatch(d, baseRev, ops)
}
