package query

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/stretchr/testify/require"
)

func sampleRouteSession(t *testing.T) *model.Session {
	t.Helper()
	sess := model.NewSession()

	fd := model.NewFlowchartDiagram("diag-flow", "Flow")
	flow := fd.Flow()
	flow.Nodes = []model.Node{
		{ID: "n:1", MermaidID: "a", Label: "A"},
		{ID: "n:2", MermaidID: "b", Label: "B"},
	}
	flow.Edges = []model.Edge{{ID: "e:1", From: "n:1", To: "n:2"}}
	require.NoError(t, sess.AddDiagram(fd))

	sd := model.NewSequenceDiagram("diag-seq", "Seq")
	seq := sd.Sequence()
	seq.Participants = []model.Participant{{ID: "p:1", MermaidIdent: "client"}}
	require.NoError(t, sess.AddDiagram(sd))

	xref := &model.XRef{
		ID:   "x:1",
		Kind: "implements",
		From: model.ObjectRef{DiagramID: "diag-flow", Category: model.CategoryFlowNode, ObjectID: "n:2"},
		To:   model.ObjectRef{DiagramID: "diag-seq", Category: model.CategorySeqParticipant, ObjectID: "p:1"},
	}
	sess.AddXRef(xref)

	return sess
}

func TestFindRoutesCrossDiagramViaXRef(t *testing.T) {
	sess := sampleRouteSession(t)
	g := BuildGraph(sess)

	from := model.ObjectRef{DiagramID: "diag-flow", Category: model.CategoryFlowNode, ObjectID: "n:1"}
	to := model.ObjectRef{DiagramID: "diag-seq", Category: model.CategorySeqParticipant, ObjectID: "p:1"}

	routes, err := FindRoutes(g, from, to, 5, 10, FewestHops)
	require.NoError(t, err)
	require.NotEmpty(t, routes)
	require.Equal(t, from, routes[0].Refs[0])
	require.Equal(t, to, routes[0].Refs[len(routes[0].Refs)-1])
}

func TestFindRoutesZeroLimitReturnsEmpty(t *testing.T) {
	sess := sampleRouteSession(t)
	g := BuildGraph(sess)

	from := model.ObjectRef{DiagramID: "diag-flow", Category: model.CategoryFlowNode, ObjectID: "n:1"}
	to := model.ObjectRef{DiagramID: "diag-seq", Category: model.CategorySeqParticipant, ObjectID: "p:1"}

	routes, err := FindRoutes(g, from, to, 0, 10, FewestHops)
	require.NoError(t, err)
	require.Empty(t, routes)
}

func TestFindRoutesUnknownRefIsNotFound(t *testing.T) {
	sess := sampleRouteSession(t)
	g := BuildGraph(sess)

	from := model.ObjectRef{DiagramID: "diag-flow", Category: model.CategoryFlowNode, ObjectID: "n:missing"}
	to := model.ObjectRef{DiagramID: "diag-seq", Category: model.CategorySeqParticipant, ObjectID: "p:1"}

	_, err := FindRoutes(g, from, to, 5, 10, FewestHops)
	require.Error(t, err)
	var notFound *NotFound
	require.ErrorAs(t, err, &notFound)
}
