package agenttools

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectReadEverySequenceCategory(t *testing.T) {
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{
		Mermaid: validSequenceMermaid, DiagramID: "d1",
	})
	require.NoError(t, err)
	seq := ws.Session.Diagram("d1").Sequence()

	_, _, err = DiagramApplySequenceOps(ws, "d1", 0, []opsengine.SeqOp{
		opsengine.AddBlock{ID: "b:1", Kind: model.BlockOpt, Header: "maybe", FirstSectionID: "s:1"},
		opsengine.AddMessageToSection{SectionID: "s:1", MessageID: seq.Messages[0].ID},
	})
	require.NoError(t, err)

	cases := []struct {
		name string
		ref  model.ObjectRef
	}{
		{"participant", model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqParticipant, ObjectID: seq.Participants[0].ID}},
		{"message", model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqMessage, ObjectID: seq.Messages[0].ID}},
		{"block", model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqBlock, ObjectID: "b:1"}},
		{"section", model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqSection, ObjectID: "s:1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := ObjectRead(ws, tc.ref)
			require.NoError(t, err)
			assert.NotNil(t, obj)
		})
	}
}

func TestObjectReadEveryFlowCategory(t *testing.T) {
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{
		Mermaid: validFlowchartMermaid, DiagramID: "d1",
	})
	require.NoError(t, err)
	flow := ws.Session.Diagram("d1").Flow()

	node, err := ObjectRead(ws, model.ObjectRef{DiagramID: "d1", Category: model.CategoryFlowNode, ObjectID: flow.Nodes[0].ID})
	require.NoError(t, err)
	assert.NotNil(t, node)

	edge, err := ObjectRead(ws, model.ObjectRef{DiagramID: "d1", Category: model.CategoryFlowEdge, ObjectID: flow.Edges[0].ID})
	require.NoError(t, err)
	assert.NotNil(t, edge)
}

func TestObjectReadUnknownObjectIsNotFound(t *testing.T) {
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{
		Mermaid: validSequenceMermaid, DiagramID: "d1",
	})
	require.NoError(t, err)

	_, err = ObjectRead(ws, model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqParticipant, ObjectID: "nope"})
	var nf *opsengine.NotFound
	require.ErrorAs(t, err, &nf)
}

func TestObjectReadKindMismatch(t *testing.T) {
	ws := newTestWorkspace()
	_, err := DiagramCreateFromMermaid(ws, CreateFromMermaidRequest{
		Mermaid: validFlowchartMermaid, DiagramID: "d1",
	})
	require.NoError(t, err)

	_, err = ObjectRead(ws, model.ObjectRef{DiagramID: "d1", Category: model.CategorySeqMessage, ObjectID: "m:1"})
	var mismatch *model.ErrKindMismatch
	require.ErrorAs(t, err, &mismatch)
}

func TestObjectReadUnknownDiagramIsNotFound(t *testing.T) {
	ws := newTestWorkspace()
	_, err := ObjectRead(ws, model.ObjectRef{DiagramID: "missing", Category: model.CategoryFlowNode, ObjectID: "n:1"})
	var nf *opsengine.NotFound
	require.ErrorAs(t, err, &nf)
}
