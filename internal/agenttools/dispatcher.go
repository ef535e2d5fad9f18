package agenttools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/julianshen/nereid-core/internal/query"
	"github.com/julianshen/nereid-core/internal/render"
)

// HandlerFunc is a name-addressable tool entry point: it receives the
// Workspace and a request value already typed to the specific tool's
// request struct, and returns that tool's typed response (or an error).
// The indirection through `any` exists only so every tool can share one
// registry; callers that already know a tool's signature should prefer
// calling the typed function (DiagramList, SeqSearch, ...) directly.
type HandlerFunc func(ws *Workspace, req any) (any, error)

// Dispatcher is a name -> HandlerFunc registry for the agent tool surface.
// It is a lookup table only: nothing here reads from or writes to a wire
// format, and no transport (stdio, HTTP, MCP) is wired against it — that is
// left as the documented extension point spec.md's external collaborators
// are expected to build.
type Dispatcher struct {
	mu          sync.RWMutex
	handlers    map[string]HandlerFunc
	rateLimiter *opsengine.RateLimitedDispatcher
}

// batchOpTools are the tool names that submit an op batch to the Engine —
// the calls RateLimitedDispatcher is meant to pace.
var batchOpTools = map[string]bool{
	"diagram.apply_ops.sequence":   true,
	"diagram.propose_ops.sequence": true,
	"diagram.apply_ops.flow":       true,
	"diagram.propose_ops.flow":     true,
	"walkthrough.apply_ops":        true,
	"walkthrough.propose_ops":      true,
}

// NewDispatcher returns a Dispatcher with every tool in spec.md §6's
// required set registered under its dotted name.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]HandlerFunc)}
	d.registerDiagramTools()
	d.registerWalkthroughTools()
	d.registerCollabTools()
	d.registerXRefTools()
	d.registerQueryTools()
	return d
}

// Register adds a handler under name. Returns an error if name is already
// registered.
func (d *Dispatcher) Register(name string, h HandlerFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h == nil {
		return fmt.Errorf("cannot register nil handler for %q", name)
	}
	if _, exists := d.handlers[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}
	d.handlers[name] = h
	return nil
}

// Get retrieves the handler registered under name.
func (d *Dispatcher) Get(name string) (HandlerFunc, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, ok := d.handlers[name]
	return h, ok
}

// Names returns every registered tool name, sorted.
func (d *Dispatcher) Names() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetRateLimiter installs rl so Dispatch paces batch-op submissions
// (apply_ops/propose_ops) through it ahead of the Engine. nil, the default,
// disables pacing.
func (d *Dispatcher) SetRateLimiter(rl *opsengine.RateLimitedDispatcher) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rateLimiter = rl
}

// Dispatch resolves name and invokes its handler against ws and req. Batch
// op submissions wait on the configured rate limiter, if any, before the
// handler runs; every other tool call is unpaced.
func (d *Dispatcher) Dispatch(ctx context.Context, ws *Workspace, name string, req any) (any, error) {
	h, ok := d.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	d.mu.RLock()
	rl := d.rateLimiter
	d.mu.RUnlock()
	if rl != nil && batchOpTools[name] {
		if err := rl.Wait(ctx); err != nil {
			return nil, err
		}
	}
	return h(ws, req)
}

func (d *Dispatcher) mustRegister(name string, h HandlerFunc) {
	if err := d.Register(name, h); err != nil {
		panic(err)
	}
}

// diagramIDReq and walkthroughIDReq are the shared request shape for the
// many tools whose only parameter is a subject id.
type diagramIDReq struct{ DiagramID string }
type walkthroughIDReq struct{ WalkthroughID string }

func (d *Dispatcher) registerDiagramTools() {
	d.mustRegister("diagram.list", func(ws *Workspace, _ any) (any, error) {
		return DiagramList(ws), nil
	})
	d.mustRegister("diagram.current", func(ws *Workspace, _ any) (any, error) {
		summary, ok := DiagramCurrent(ws)
		if !ok {
			return nil, nil
		}
		return summary, nil
	})
	d.mustRegister("diagram.open", func(ws *Workspace, req any) (any, error) {
		return DiagramOpen(ws, req.(diagramIDReq).DiagramID)
	})
	d.mustRegister("diagram.delete", func(ws *Workspace, req any) (any, error) {
		return nil, DiagramDelete(ws, req.(diagramIDReq).DiagramID)
	})
	d.mustRegister("diagram.create_from_mermaid", func(ws *Workspace, req any) (any, error) {
		return DiagramCreateFromMermaid(ws, req.(CreateFromMermaidRequest))
	})
	d.mustRegister("diagram.stat", func(ws *Workspace, req any) (any, error) {
		return DiagramStat(ws, req.(diagramIDReq).DiagramID)
	})
	d.mustRegister("diagram.get_slice", func(ws *Workspace, req any) (any, error) {
		return DiagramGetSlice(ws, req.(GetSliceRequest))
	})
	d.mustRegister("diagram.read", func(ws *Workspace, req any) (any, error) {
		return DiagramRead(ws, req.(diagramIDReq).DiagramID)
	})
	d.mustRegister("diagram.get_ast", func(ws *Workspace, req any) (any, error) {
		return DiagramGetAST(ws, req.(diagramIDReq).DiagramID)
	})
	d.mustRegister("object.read", func(ws *Workspace, req any) (any, error) {
		return ObjectRead(ws, req.(model.ObjectRef))
	})
	d.mustRegister("diagram.diff", func(ws *Workspace, req any) (any, error) {
		r := req.(diagramDiffReq)
		return DiagramDiff(ws, r.DiagramID, r.SinceRev)
	})
	d.mustRegister("diagram.render_text", func(ws *Workspace, req any) (any, error) {
		r := req.(diagramRenderTextReq)
		return DiagramRenderText(ws, r.DiagramID, r.Opts)
	})
	d.mustRegister("diagram.apply_ops.sequence", func(ws *Workspace, req any) (any, error) {
		r := req.(diagramSeqOpsReq)
		rev, delta, err := DiagramApplySequenceOps(ws, r.DiagramID, r.BaseRev, r.Ops)
		return diagramOpsResult{Rev: rev, Delta: delta}, err
	})
	d.mustRegister("diagram.propose_ops.sequence", func(ws *Workspace, req any) (any, error) {
		r := req.(diagramSeqOpsReq)
		rev, delta, err := DiagramProposeSequenceOps(ws, r.DiagramID, r.BaseRev, r.Ops)
		return diagramOpsResult{Rev: rev, Delta: delta}, err
	})
	d.mustRegister("diagram.apply_ops.flow", func(ws *Workspace, req any) (any, error) {
		r := req.(diagramFlowOpsReq)
		rev, delta, err := DiagramApplyFlowOps(ws, r.DiagramID, r.BaseRev, r.Ops)
		return diagramOpsResult{Rev: rev, Delta: delta}, err
	})
	d.mustRegister("diagram.propose_ops.flow", func(ws *Workspace, req any) (any, error) {
		r := req.(diagramFlowOpsReq)
		rev, delta, err := DiagramProposeFlowOps(ws, r.DiagramID, r.BaseRev, r.Ops)
		return diagramOpsResult{Rev: rev, Delta: delta}, err
	})
}

type diagramDiffReq struct {
	DiagramID string
	SinceRev  uint64
}

type diagramRenderTextReq struct {
	DiagramID string
	Opts      render.Options
}

type diagramSeqOpsReq struct {
	DiagramID string
	BaseRev   uint64
	Ops       []opsengine.SeqOp
}

type diagramFlowOpsReq struct {
	DiagramID string
	BaseRev   uint64
	Ops       []opsengine.FlowOp
}

type diagramOpsResult struct {
	Rev   uint64
	Delta opsengine.Delta
}

func (d *Dispatcher) registerWalkthroughTools() {
	d.mustRegister("walkthrough.list", func(ws *Workspace, _ any) (any, error) {
		return WalkthroughList(ws), nil
	})
	d.mustRegister("walkthrough.current", func(ws *Workspace, _ any) (any, error) {
		summary, ok := WalkthroughCurrent(ws)
		if !ok {
			return nil, nil
		}
		return summary, nil
	})
	d.mustRegister("walkthrough.open", func(ws *Workspace, req any) (any, error) {
		return WalkthroughOpen(ws, req.(walkthroughIDReq).WalkthroughID)
	})
	d.mustRegister("walkthrough.delete", func(ws *Workspace, req any) (any, error) {
		return nil, WalkthroughDelete(ws, req.(walkthroughIDReq).WalkthroughID)
	})
	d.mustRegister("walkthrough.read", func(ws *Workspace, req any) (any, error) {
		return WalkthroughRead(ws, req.(walkthroughIDReq).WalkthroughID)
	})
	d.mustRegister("walkthrough.create", func(ws *Workspace, req any) (any, error) {
		r := req.(walkthroughCreateReq)
		return WalkthroughCreate(ws, r.WalkthroughID, r.Title, r.MakeActive)
	})
	d.mustRegister("walkthrough.apply_ops", func(ws *Workspace, req any) (any, error) {
		r := req.(walkthroughOpsReq)
		rev, delta, err := WalkthroughApplyOps(ws, r.WalkthroughID, r.BaseRev, r.Ops)
		return walkthroughOpsResult{Rev: rev, Delta: delta}, err
	})
	d.mustRegister("walkthrough.propose_ops", func(ws *Workspace, req any) (any, error) {
		r := req.(walkthroughOpsReq)
		rev, delta, err := WalkthroughProposeOps(ws, r.WalkthroughID, r.BaseRev, r.Ops)
		return walkthroughOpsResult{Rev: rev, Delta: delta}, err
	})
	d.mustRegister("walkthrough.diff", func(ws *Workspace, req any) (any, error) {
		r := req.(walkthroughDiffReq)
		return WalkthroughDiff(ws, r.WalkthroughID, r.SinceRev)
	})
}

type walkthroughCreateReq struct {
	WalkthroughID string
	Title         string
	MakeActive    bool
}

type walkthroughOpsReq struct {
	WalkthroughID string
	BaseRev       uint64
	Ops           []opsengine.WalkthroughOp
}

type walkthroughOpsResult struct {
	Rev   uint64
	Delta opsengine.WalkthroughDelta
}

type walkthroughDiffReq struct {
	WalkthroughID string
	SinceRev      uint64
}

func (d *Dispatcher) registerCollabTools() {
	d.mustRegister("attention.human.read", func(ws *Workspace, _ any) (any, error) {
		ref, ok := AttentionHumanRead(ws)
		if !ok {
			return nil, nil
		}
		return ref, nil
	})
	d.mustRegister("attention.agent.read", func(ws *Workspace, _ any) (any, error) {
		return AttentionAgentRead(ws), nil
	})
	d.mustRegister("attention.agent.set", func(ws *Workspace, req any) (any, error) {
		AttentionAgentSet(ws, req.([]model.ObjectRef))
		return nil, nil
	})
	d.mustRegister("attention.agent.clear", func(ws *Workspace, _ any) (any, error) {
		AttentionAgentClear(ws)
		return nil, nil
	})
	d.mustRegister("follow_ai.read", func(ws *Workspace, _ any) (any, error) {
		return FollowAIRead(ws), nil
	})
	d.mustRegister("follow_ai.set", func(ws *Workspace, req any) (any, error) {
		FollowAISet(ws, req.(bool))
		return nil, nil
	})
	d.mustRegister("selection.read", func(ws *Workspace, _ any) (any, error) {
		return SelectionRead(ws), nil
	})
	d.mustRegister("selection.update", func(ws *Workspace, req any) (any, error) {
		SelectionUpdate(ws, req.([]model.ObjectRef))
		return nil, nil
	})
	d.mustRegister("view.read_state", func(ws *Workspace, _ any) (any, error) {
		return ViewReadState(ws), nil
	})
}

func (d *Dispatcher) registerXRefTools() {
	d.mustRegister("xref.list", func(ws *Workspace, req any) (any, error) {
		return XRefList(ws, req.(XRefListFilter)), nil
	})
	d.mustRegister("xref.neighbors", func(ws *Workspace, req any) (any, error) {
		r := req.(xrefNeighborsReq)
		return XRefNeighbors(ws, r.Ref, r.Direction), nil
	})
	d.mustRegister("xref.add", func(ws *Workspace, req any) (any, error) {
		return nil, XRefAdd(ws, req.(*model.XRef))
	})
	d.mustRegister("xref.remove", func(ws *Workspace, req any) (any, error) {
		return nil, XRefRemove(ws, req.(string))
	})
}

type xrefNeighborsReq struct {
	Ref       model.ObjectRef
	Direction XRefDirection
}

func (d *Dispatcher) registerQueryTools() {
	d.mustRegister("route.find", func(ws *Workspace, req any) (any, error) {
		r := req.(routeFindReq)
		return RouteFind(ws, r.From, r.To, r.Limit, r.MaxHops, r.Ordering)
	})
	d.mustRegister("seq.messages", func(ws *Workspace, req any) (any, error) {
		r := req.(seqMessagesReq)
		return SeqMessages(ws, r.DiagramID, r.Filter)
	})
	d.mustRegister("seq.search", func(ws *Workspace, req any) (any, error) {
		r := req.(seqSearchReq)
		return SeqSearch(ws, r.DiagramID, r.Needle, r.Mode, r.CaseInsensitive)
	})
	d.mustRegister("seq.trace", func(ws *Workspace, req any) (any, error) {
		r := req.(seqTraceReq)
		return SeqTrace(ws, r.DiagramID, r.FromMessageID, r.Direction, r.Limit)
	})
	d.mustRegister("flow.reachable", func(ws *Workspace, req any) (any, error) {
		r := req.(flowReachableReq)
		return FlowReachable(ws, r.DiagramID, r.FromID, r.Direction)
	})
	d.mustRegister("flow.paths", func(ws *Workspace, req any) (any, error) {
		r := req.(flowPathsReq)
		return FlowPaths(ws, r.DiagramID, r.From, r.To, r.Limit, r.MaxExtraHops)
	})
	d.mustRegister("flow.cycles", func(ws *Workspace, req any) (any, error) {
		return FlowCycles(ws, req.(diagramIDReq).DiagramID)
	})
	d.mustRegister("flow.dead_ends", func(ws *Workspace, req any) (any, error) {
		return FlowDeadEnds(ws, req.(diagramIDReq).DiagramID)
	})
	d.mustRegister("flow.unreachable", func(ws *Workspace, req any) (any, error) {
		r := req.(flowUnreachableReq)
		return FlowUnreachable(ws, r.DiagramID, r.Start)
	})
	d.mustRegister("flow.degrees", func(ws *Workspace, req any) (any, error) {
		r := req.(flowDegreesReq)
		return FlowDegrees(ws, r.DiagramID, r.Top, r.SortBy)
	})
}

type routeFindReq struct {
	From, To model.ObjectRef
	Limit    int
	MaxHops  int
	Ordering query.RouteOrdering
}

type seqMessagesReq struct {
	DiagramID string
	Filter    query.MessageFilter
}

type seqSearchReq struct {
	DiagramID       string
	Needle          string
	Mode            query.SearchMode
	CaseInsensitive bool
}

type seqTraceReq struct {
	DiagramID     string
	FromMessageID string
	Direction     query.TraceDirection
	Limit         int
}

type flowReachableReq struct {
	DiagramID string
	FromID    string
	Direction query.Direction
}

type flowPathsReq struct {
	DiagramID    string
	From, To     string
	Limit        int
	MaxExtraHops int
}

type flowUnreachableReq struct {
	DiagramID string
	Start     string
}

type flowDegreesReq struct {
	DiagramID string
	Top       int
	SortBy    query.DegreeSort
}
