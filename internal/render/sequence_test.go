package render

import (
	"strings"
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
	"github.com/stretchr/testify/require"
)

func simpleSequenceAST() *model.SequenceAST {
	ast := model.NewSequenceAST()
	ast.Participants = []model.Participant{
		{ID: "p:1", MermaidIdent: "alice", DisplayLabel: "Alice"},
		{ID: "p:2", MermaidIdent: "bob", DisplayLabel: "Bob"},
	}
	k1 := model.FirstOrderKey()
	k2 := model.OrderKeyBetween(k1, "")
	ast.Messages = []model.Message{
		{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: model.MessageSync, Text: "hello", OrderKey: k1},
		{ID: "m:2", FromID: "p:2", ToID: "p:1", Kind: model.MessageReturn, Text: "hi", OrderKey: k2},
	}
	return ast
}

func TestSequenceRendersParticipantsAndMessages(t *testing.T) {
	ast := simpleSequenceAST()
	c, hi, err := Sequence("d:1", ast, DefaultOptions())
	require.NoError(t, err)

	out := c.String()
	require.Contains(t, out, "Alice")
	require.Contains(t, out, "Bob")
	require.Contains(t, out, "▶")
	require.Contains(t, out, "◀")

	refM1 := model.ObjectRef{DiagramID: "d:1", Category: model.CategorySeqMessage, ObjectID: "m:1"}
	require.NotEmpty(t, hi[refM1])
	refP1 := model.ObjectRef{DiagramID: "d:1", Category: model.CategorySeqParticipant, ObjectID: "p:1"}
	require.NotEmpty(t, hi[refP1])
}

func TestSequenceSelfMessageLoop(t *testing.T) {
	ast := model.NewSequenceAST()
	ast.Participants = []model.Participant{{ID: "p:1", MermaidIdent: "a"}}
	ast.Messages = []model.Message{
		{ID: "m:1", FromID: "p:1", ToID: "p:1", Kind: model.MessageSync, Text: "loop", OrderKey: model.FirstOrderKey()},
	}
	c, hi, err := Sequence("d:1", ast, DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, c.String(), "◀")
	ref := model.ObjectRef{DiagramID: "d:1", Category: model.CategorySeqMessage, ObjectID: "m:1"}
	require.Len(t, hi[ref], 2)
}

func TestSequenceBlockFrameDrawn(t *testing.T) {
	ast := simpleSequenceAST()
	ast.Blocks = []model.Block{
		{
			ID: "b:1", Kind: model.BlockAlt, Header: "cond",
			Sections: []model.Section{
				{ID: "s:1", Kind: model.SectionMain, MessageIDs: []string{"m:1"}},
			},
		},
	}
	c, hi, err := Sequence("d:1", ast, DefaultOptions())
	require.NoError(t, err)
	require.Contains(t, c.String(), "cond")
	ref := model.ObjectRef{DiagramID: "d:1", Category: model.CategorySeqBlock, ObjectID: "b:1"}
	require.NotEmpty(t, hi[ref])
}

func TestSequenceDeterministic(t *testing.T) {
	ast := simpleSequenceAST()
	c1, _, err := Sequence("d:1", ast, DefaultOptions())
	require.NoError(t, err)
	c2, _, err := Sequence("d:1", ast, DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, c1.String(), c2.String())
}

func TestClipEllipsis(t *testing.T) {
	require.Equal(t, "ab…", clip("abcdef", 3))
	require.True(t, strings.HasSuffix(clip("abcdef", 3), "…"))
	require.Equal(t, "abc", clip("abc", 3))
}
