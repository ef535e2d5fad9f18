package agenttools

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXRefAddListNeighborsRemove(t *testing.T) {
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{Mermaid: validSequenceMermaid, DiagramID: "seq1"})
	require.NoError(t, err)
	_, err = DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{Mermaid: validFlowchartMermaid, DiagramID: "flow1"})
	require.NoError(t, err)

	seq := ws.Session.Diagram("seq1").Sequence()
	flow := ws.Session.Diagram("flow1").Flow()
	from := model.ObjectRef{DiagramID: "seq1", Category: model.CategorySeqMessage, ObjectID: seq.Messages[0].ID}
	to := model.ObjectRef{DiagramID: "flow1", Category: model.CategoryFlowNode, ObjectID: flow.Nodes[0].ID}

	require.NoError(t, XRefAdd(ws, &model.XRef{ID: "x:1", From: from, To: to, Kind: "implements"}))

	all := XRefList(ws, XRefListFilter{})
	require.Len(t, all, 1)
	assert.Equal(t, model.XRefOk, all[0].Status)

	filteredByKind := XRefList(ws, XRefListFilter{Kind: "implements"})
	assert.Len(t, filteredByKind, 1)
	assert.Empty(t, XRefList(ws, XRefListFilter{Kind: "nope"}))

	neighbors := XRefNeighbors(ws, from, XRefFrom)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "x:1", neighbors[0].ID)
	assert.Empty(t, XRefNeighbors(ws, from, XRefTo))
	assert.Len(t, XRefNeighbors(ws, to, XRefAny), 1)

	require.NoError(t, XRefRemove(ws, "x:1"))
	assert.Empty(t, XRefList(ws, XRefListFilter{}))
}

func TestXRefAddDuplicateIDRejected(t *testing.T) {
	ws := newTestWorkspace()
	ref := model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqMessage, ObjectID: "m:1"}
	require.NoError(t, XRefAdd(ws, &model.XRef{ID: "x:1", From: ref, To: ref, Kind: "self"}))

	err := XRefAdd(ws, &model.XRef{ID: "x:1", From: ref, To: ref, Kind: "self"})
	var dup *opsengine.DuplicateID
	require.ErrorAs(t, err, &dup)
}

func TestXRefStatusDanglingWhenDiagramDeleted(t *testing.T) {
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{Mermaid: validSequenceMermaid, DiagramID: "seq1"})
	require.NoError(t, err)
	seq := ws.Session.Diagram("seq1").Sequence()
	from := model.ObjectRef{DiagramID: "seq1", Category: model.CategorySeqMessage, ObjectID: seq.Messages[0].ID}
	to := model.ObjectRef{DiagramID: "seq1", Category: model.CategorySeqParticipant, ObjectID: seq.Participants[0].ID}

	require.NoError(t, XRefAdd(ws, &model.XRef{ID: "x:1", From: from, To: to, Kind: "uses"}))
	require.NoError(t, DiagramDelete(ws, "seq1"))

	all := ws.Session.XRefs()
	require.Len(t, all, 1)
	assert.Equal(t, model.XRefDanglingBoth, all[0].Status)
}
