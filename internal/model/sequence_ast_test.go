package model

import "testing"

func buildValidSeq() *SequenceAST {
	a := NewSequenceAST()
	a.Participants = []Participant{
		{ID: "p:1", MermaidIdent: "a"},
		{ID: "p:2", MermaidIdent: "b"},
	}
	a.Messages = []Message{
		{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: MessageSync, Text: "ping", OrderKey: FirstOrderKey()},
	}
	return a
}

func TestSequenceASTValidateOK(t *testing.T) {
	a := buildValidSeq()
	if err := a.Validate(); err != nil {
		t.Fatalf("expected valid AST, got %v", err)
	}
}

func TestSequenceASTValidateUnknownParticipant(t *testing.T) {
	a := buildValidSeq()
	a.Messages[0].ToID = "p:missing"
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for unknown participant")
	}
}

func TestSequenceASTValidateNewlineInText(t *testing.T) {
	a := buildValidSeq()
	a.Messages[0].Text = "line1\nline2"
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for newline in text")
	}
}

func TestSequenceASTValidateEmptySection(t *testing.T) {
	a := buildValidSeq()
	a.Blocks = []Block{
		{ID: "b:1", Kind: BlockAlt, Sections: []Section{
			{ID: "s:1", Kind: SectionMain, MessageIDs: nil},
		}},
	}
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for empty section")
	}
}

func TestSequenceASTValidateDepthExceeded(t *testing.T) {
	a := buildValidSeq()
	var blocks []Block
	for i := 0; i <= MaxBlockNestDepth+1; i++ {
		id := "b:" + string(rune('a'+i))
		b := Block{ID: id, Kind: BlockAlt, Sections: []Section{{ID: id + "s", Kind: SectionMain, MessageIDs: []string{"m:1"}}}}
		blocks = append(blocks, b)
	}
	for i := 0; i < len(blocks)-1; i++ {
		blocks[i].Sections[0].ChildBlockIDs = []string{blocks[i+1].ID}
	}
	a.Blocks = blocks
	if err := a.Validate(); err == nil {
		t.Fatal("expected error for excessive nesting depth")
	}
}

func TestSequenceASTCanonicalMessagesOrder(t *testing.T) {
	a := NewSequenceAST()
	a.Participants = []Participant{{ID: "p:1"}, {ID: "p:2"}}
	k1 := FirstOrderKey()
	k0 := OrderKeyBetween("", k1)
	a.Messages = []Message{
		{ID: "m:2", FromID: "p:1", ToID: "p:2", OrderKey: k1},
		{ID: "m:1", FromID: "p:1", ToID: "p:2", OrderKey: k0},
	}
	got := a.CanonicalMessages()
	if got[0].ID != "m:1" || got[1].ID != "m:2" {
		t.Fatalf("unexpected canonical order: %+v", got)
	}
}

func TestSequenceASTCloneIndependence(t *testing.T) {
	a := buildValidSeq()
	clone := a.Clone()
	clone.Messages[0].Text = "changed"
	if a.Messages[0].Text == "changed" {
		t.Fatal("clone should not alias original")
	}
}
