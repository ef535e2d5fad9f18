package layout

import (
	"testing"

	"github.com/julianshen/nereid-core/internal/model"
)

func TestSequenceLayoutColumnsAndRows(t *testing.T) {
	ast := model.NewSequenceAST()
	ast.Participants = []model.Participant{{ID: "p:1", MermaidIdent: "a"}, {ID: "p:2", MermaidIdent: "b"}}
	ast.Messages = []model.Message{
		{ID: "m:1", FromID: "p:1", ToID: "p:2", OrderKey: model.FirstOrderKey()},
	}
	l := Sequence(ast, DefaultOptions())
	if l.Participants["p:1"] != 0 || l.Participants["p:2"] != 16 {
		t.Fatalf("unexpected column assignment: %+v", l.Participants)
	}
	if l.Messages["m:1"] != 0 {
		t.Fatalf("unexpected row assignment: %+v", l.Messages)
	}
}

func TestSequenceLayoutSelfMessageExtraRow(t *testing.T) {
	ast := model.NewSequenceAST()
	ast.Participants = []model.Participant{{ID: "p:1", MermaidIdent: "a"}}
	k1 := model.FirstOrderKey()
	k2 := model.OrderKeyBetween(k1, "")
	ast.Messages = []model.Message{
		{ID: "m:1", FromID: "p:1", ToID: "p:1", OrderKey: k1},
		{ID: "m:2", FromID: "p:1", ToID: "p:1", OrderKey: k2},
	}
	l := Sequence(ast, DefaultOptions())
	if l.Messages["m:2"] != 3 {
		t.Fatalf("expected self-message to reserve an extra row, got %d", l.Messages["m:2"])
	}
}
