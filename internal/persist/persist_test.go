package persist

import (
	"path/filepath"
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/stretchr/testify/require"
)

func buildTestSession(t *testing.T) *model.Session {
	t.Helper()
	sess := model.NewSession()

	d := model.NewSequenceDiagram("diag-1", "Checkout flow")
	seq := d.Sequence()
	seq.Participants = []model.Participant{
		{ID: "p:1", MermaidIdent: "client", DisplayLabel: "Client"},
		{ID: "p:2", MermaidIdent: "server", DisplayLabel: "Server", Note: "handles auth"},
	}
	k1 := model.FirstOrderKey()
	k2 := model.OrderKeyBetween(k1, "")
	seq.Messages = []model.Message{
		{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: model.MessageSync, Text: "login", OrderKey: k1},
		{ID: "m:2", FromID: "p:2", ToID: "p:1", Kind: model.MessageReturn, Text: "ok", OrderKey: k2},
	}
	require.NoError(t, sess.AddDiagram(d))

	fd := model.NewFlowchartDiagram("diag-2", "Request path")
	flow := fd.Flow()
	flow.Nodes = []model.Node{
		{ID: "n:1", MermaidID: "a", Label: "Start", Shape: model.ShapeRect},
		{ID: "n:2", MermaidID: "b", Label: "End", Shape: model.ShapeRound, Note: "terminal"},
	}
	flow.Edges = []model.Edge{
		{ID: "e:1", From: "n:1", To: "n:2", Label: "go", Style: "dashed"},
	}
	require.NoError(t, sess.AddDiagram(fd))

	w := model.NewWalkthrough("wt-1", "Incident review")
	w.Nodes["wn:1"] = &model.WalkthroughNode{ID: "wn:1", Title: "Entry", BodyMD: "The request arrives."}
	require.NoError(t, sess.AddWalkthrough(w))

	xref := &model.XRef{ID: "x:1", Kind: "relates_to",
		From: model.ObjectRef{DiagramID: "diag-1", Category: model.CategorySeqMessage, ObjectID: "m:1"},
		To:   model.ObjectRef{DiagramID: "diag-2", Category: model.CategoryFlowNode, ObjectID: "n:1"}}
	sess.AddXRef(xref)

	return sess
}

func TestSaveLoadRoundTripPreservesIdentity(t *testing.T) {
	dir := t.TempDir()
	sess := buildTestSession(t)

	require.NoError(t, Save(sess, dir, false))

	loaded, err := Load(dir)
	require.NoError(t, err)

	d := loaded.Diagram("diag-1")
	require.NotNil(t, d)
	seq := d.Sequence()
	require.NotNil(t, seq)
	_, found := indexOfParticipant(seq, "p:2")
	require.True(t, found, "stable participant id p:2 should survive a round trip")
	require.Equal(t, "handles auth", noteOf(seq, "p:2"))

	fd := loaded.Diagram("diag-2")
	require.NotNil(t, fd)
	flow := fd.Flow()
	require.NotNil(t, flow)
	edge, found := findEdge(flow, "e:1")
	require.True(t, found)
	require.Equal(t, "dashed", edge.Style)

	xrefs := loaded.XRefs()
	require.Len(t, xrefs, 1)
	require.Equal(t, model.XRefOk, xrefs[0].Status)
}

func TestSaveRejectsAbsoluteEscapePath(t *testing.T) {
	dir := t.TempDir()
	_, err := safeResolve(dir, "../../etc/passwd")
	require.Error(t, err)
	_, err = safeResolve(dir, "/etc/passwd")
	require.Error(t, err)
}

func TestSaveWritesMermaidAndTextFiles(t *testing.T) {
	dir := t.TempDir()
	sess := buildTestSession(t)
	require.NoError(t, Save(sess, dir, false))

	mmdPath := filepath.Join(dir, "diagrams", stemFor("diag-1")+".mmd")
	require.FileExists(t, mmdPath)
	textPath := filepath.Join(dir, "diagrams", stemFor("diag-1")+".text.txt")
	require.FileExists(t, textPath)
}

func TestLoadMissingSessionMeta(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	var missing *MissingFile
	require.ErrorAs(t, err, &missing)
}

func indexOfParticipant(seq *model.SequenceAST, id string) (model.Participant, bool) {
	for _, p := range seq.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return model.Participant{}, false
}

func noteOf(seq *model.SequenceAST, id string) string {
	p, _ := indexOfParticipant(seq, id)
	return p.Note
}

func findEdge(flow *model.FlowAST, id string) (model.Edge, bool) {
	for _, e := range flow.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return model.Edge{}, false
}
