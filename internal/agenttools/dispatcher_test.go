package agenttools

import (
	"context"
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDispatcherRegistersCoreTools(t *testing.T) {
	d := NewDispatcher()
	names := d.Names()
	assert.Contains(t, names, "diagram.list")
	assert.Contains(t, names, "diagram.create_from_mermaid")
	assert.Contains(t, names, "object.read")
	assert.Contains(t, names, "route.find")
	assert.Contains(t, names, "walkthrough.apply_ops")
	assert.Contains(t, names, "xref.add")
	// Names() is sorted.
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}

func TestDispatcherRegisterRejectsDuplicateName(t *testing.T) {
	d := NewDispatcher()
	err := d.Register("diagram.list", func(ws *Workspace, req any) (any, error) { return nil, nil })
	require.Error(t, err)
}

func TestDispatcherGetMissingToolNotFound(t *testing.T) {
	d := NewDispatcher()
	_, ok := d.Get("no.such.tool")
	assert.False(t, ok)
}

func TestDispatcherObjectReadDispatchesByName(t *testing.T) {
	d := NewDispatcher()
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{Mermaid: validSequenceMermaid, DiagramID: "d1"})
	require.NoError(t, err)
	seq := ws.Session.Diagram("d1").Sequence()

	h, ok := d.Get("object.read")
	require.True(t, ok)
	ref := model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqParticipant, ObjectID: seq.Participants[0].ID}
	result, err := h(ws, ref)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestDispatcherRateLimiterPacesBatchOpToolsOnly(t *testing.T) {
	d := NewDispatcher()
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{Mermaid: validSequenceMermaid, DiagramID: "d1"})
	require.NoError(t, err)

	// burst 0 makes every Wait call fail immediately rather than block,
	// so the rejection is deterministic without a real clock.
	d.SetRateLimiter(opsengine.NewRateLimitedDispatcher(ws.Engine, 1, 0))

	_, err = d.Dispatch(context.Background(), ws, "diagram.apply_ops.sequence", diagramSeqOpsReq{DiagramID: "d1"})
	assert.Error(t, err)

	// diagram.list never submits an op batch, so it is never paced.
	result, err := d.Dispatch(context.Background(), ws, "diagram.list", nil)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestDispatcherDiagramListDispatchesByName(t *testing.T) {
	d := NewDispatcher()
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{Mermaid: validSequenceMermaid, DiagramID: "d1"})
	require.NoError(t, err)

	h, ok := d.Get("diagram.list")
	require.True(t, ok)
	result, err := h(ws, nil)
	require.NoError(t, err)
	list, ok := result.([]DiagramSummary)
	require.True(t, ok)
	assert.Len(t, list, 1)
}
