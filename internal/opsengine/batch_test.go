package opsengine

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeqDiagram() *model.Diagram {
	d := model.NewSequenceDiagram("diag1", "Test")
	return d
}

func TestApplySequenceBatchAddsParticipantsAndMessage(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()

	rev, delta, err := e.ApplySequenceBatch(d, 0, []SeqOp{
		AddParticipant{ID: "p:1", MermaidIdent: "a"},
		AddParticipant{ID: "p:2", MermaidIdent: "b"},
		AddMessage{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: model.MessageSync, Text: "hi", OrderKey: model.FirstOrderKey()},
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rev)
	assert.Len(t, delta.Added, 3)
	assert.Equal(t, uint64(1), d.Rev())
	assert.Len(t, d.Sequence().Messages, 1)
}

func TestApplySequenceBatchRevConflict(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	_, _, err := e.ApplySequenceBatch(d, 5, []SeqOp{AddParticipant{ID: "p:1", MermaidIdent: "a"}})
	require.Error(t, err)
	var conflict *RevConflict
	require.ErrorAs(t, err, &conflict)
}

func TestApplySequenceBatchAllOrNothing(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	_, _, err := e.ApplySequenceBatch(d, 0, []SeqOp{
		AddParticipant{ID: "p:1", MermaidIdent: "a"},
		AddMessage{ID: "m:1", FromID: "p:1", ToID: "p:missing", Kind: model.MessageSync, Text: "hi"},
	})
	require.Error(t, err)
	assert.Equal(t, uint64(0), d.Rev())
	assert.Len(t, d.Sequence().Participants, 0)
}

func TestRemoveParticipantCascadesMessage(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	_, _, err := e.ApplySequenceBatch(d, 0, []SeqOp{
		AddParticipant{ID: "p:1", MermaidIdent: "a"},
		AddParticipant{ID: "p:2", MermaidIdent: "b"},
		AddMessage{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: model.MessageSync, Text: "hi", OrderKey: model.FirstOrderKey()},
	})
	require.NoError(t, err)

	rev, delta, err := e.ApplySequenceBatch(d, rev1(d), []SeqOp{RemoveParticipant{ID: "p:1"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), rev)
	assert.Len(t, d.Sequence().Messages, 0)
	assert.Contains(t, refIDs(delta.Removed), "m:1")
	assert.Contains(t, refIDs(delta.Removed), "p:1")
}

func rev1(d *model.Diagram) uint64 { return d.Rev() }

func refIDs(refs []model.ObjectRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.ObjectID
	}
	return out
}

func TestGetDeltaUnavailableBeforeHistory(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	_, _, err := e.ApplySequenceBatch(d, 0, []SeqOp{AddParticipant{ID: "p:1", MermaidIdent: "a"}})
	require.NoError(t, err)
	for i := 0; i < DefaultHistoryCapacity; i++ {
		_, _, err = e.ApplySequenceBatch(d, d.Rev(), nil)
		require.NoError(t, err)
	}

	_, err = e.GetDelta(d.DiagramID, 0, d.Rev())
	require.Error(t, err)
	var unavailable *Unavailable
	require.ErrorAs(t, err, &unavailable)
}

func TestGetDeltaMergesAcrossBatches(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	_, _, err := e.ApplySequenceBatch(d, 0, []SeqOp{AddParticipant{ID: "p:1", MermaidIdent: "a"}})
	require.NoError(t, err)
	_, _, err = e.ApplySequenceBatch(d, 1, []SeqOp{AddParticipant{ID: "p:2", MermaidIdent: "b"}})
	require.NoError(t, err)

	delta, err := e.GetDelta(d.DiagramID, 0, d.Rev())
	require.NoError(t, err)
	assert.Len(t, delta.Added, 2)
}

func TestProposeSequenceBatchDoesNotMutate(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	newRev, _, err := e.ProposeSequenceBatch(d, 0, []SeqOp{AddParticipant{ID: "p:1", MermaidIdent: "a"}})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), newRev)
	assert.Equal(t, uint64(0), d.Rev())
	assert.Len(t, d.Sequence().Participants, 0)
}

func TestApplyFlowBatchCascadesEdgeRemoval(t *testing.T) {
	e := NewEngine()
	d := model.NewFlowchartDiagram("diagF", "Flow")
	_, _, err := e.ApplyFlowBatch(d, 0, []FlowOp{
		AddNode{ID: "n:1", MermaidID: "a", Shape: model.ShapeRect},
		AddNode{ID: "n:2", MermaidID: "b", Shape: model.ShapeRect},
		AddEdge{ID: "e:1", From: "n:1", To: "n:2"},
	})
	require.NoError(t, err)

	_, delta, err := e.ApplyFlowBatch(d, d.Rev(), []FlowOp{RemoveNode{ID: "n:1"}})
	require.NoError(t, err)
	assert.Len(t, d.Flow().Edges, 0)
	assert.Contains(t, refIDs(delta.Removed), "e:1")
}

func TestAddBlockAndSectionNesting(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	_, _, err := e.ApplySequenceBatch(d, 0, []SeqOp{
		AddParticipant{ID: "p:1", MermaidIdent: "a"},
		AddParticipant{ID: "p:2", MermaidIdent: "b"},
		AddMessage{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: model.MessageSync, Text: "hi", OrderKey: model.FirstOrderKey()},
		AddBlock{ID: "b:1", Kind: model.BlockAlt, FirstSectionID: "s:1", Header: "ok"},
		AddMessageToSection{SectionID: "s:1", MessageID: "m:1"},
	})
	require.NoError(t, err)
	require.Len(t, d.Sequence().Blocks, 1)
	assert.Equal(t, []string{"m:1"}, d.Sequence().Blocks[0].Sections[0].MessageIDs)
}

func TestAddSectionRejectsKindMismatchedWithBlock(t *testing.T) {
	e := NewEngine()
	d := newTestSeqDiagram()
	_, _, err := e.ApplySequenceBatch(d, 0, []SeqOp{
		AddParticipant{ID: "p:1", MermaidIdent: "a"},
		AddParticipant{ID: "p:2", MermaidIdent: "b"},
		AddMessage{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: model.MessageSync, Text: "hi", OrderKey: model.FirstOrderKey()},
		AddBlock{ID: "b:1", Kind: model.BlockAlt, FirstSectionID: "s:1", Header: "ok"},
		AddMessageToSection{SectionID: "s:1", MessageID: "m:1"},
	})
	require.NoError(t, err)

	_, _, err = e.ApplySequenceBatch(d, d.Rev(), []SeqOp{
		AddSection{BlockID: "b:1", ID: "s:2", Kind: model.SectionAnd, Header: "parallel"},
	})
	var invalid *InvalidSection
	require.ErrorAs(t, err, &invalid)
	require.Len(t, d.Sequence().Blocks[0].Sections, 1)
}
