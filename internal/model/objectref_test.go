package model

import "testing"

func TestObjectRefRoundTrip(t *testing.T) {
	cases := []ObjectRef{
		{DiagramID: "diag1", Category: CategorySeqParticipant, ObjectID: "p:1"},
		{DiagramID: "diag1", Category: CategorySeqMessage, ObjectID: "m:2"},
		{DiagramID: "diag2", Category: CategoryFlowNode, ObjectID: "n:authorize"},
		{DiagramID: "diag2", Category: CategoryFlowEdge, ObjectID: "e:3"},
	}
	for _, c := range cases {
		s := c.Format()
		got, err := ParseObjectRef(s)
		if err != nil {
			t.Fatalf("ParseObjectRef(%q): %v", s, err)
		}
		if got != c {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, c)
		}
	}
}

func TestObjectRefParseRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"d:diag1/seq/participant",
		"diag1/seq/participant/p1",
		"d:diag1/unknown/cat/p1",
		"d:/seq/participant/p1",
		"d:diag1/seq/participant/",
		"d:diag1/seq/participant/has/slash",
	}
	for _, s := range bad {
		if _, err := ParseObjectRef(s); err == nil {
			t.Errorf("ParseObjectRef(%q): expected error, got nil", s)
		}
	}
}

func TestIDAllocatorMonotonic(t *testing.T) {
	a := NewIDAllocator("p")
	first := a.Next()
	second := a.Next()
	if first != "p:1" || second != "p:2" {
		t.Fatalf("unexpected ids: %s, %s", first, second)
	}
}

func TestIDAllocatorObserveAdvances(t *testing.T) {
	a := NewIDAllocator("p")
	a.Observe("p:5")
	next := a.Next()
	if next != "p:6" {
		t.Fatalf("expected p:6, got %s", next)
	}
}

func TestIsValidID(t *testing.T) {
	if IsValidID("") {
		t.Error("empty id should be invalid")
	}
	if IsValidID("has/slash") {
		t.Error("id with slash should be invalid")
	}
	if IsValidID("has\nnewline") {
		t.Error("id with newline should be invalid")
	}
	if !IsValidID("p:1") {
		t.Error("p:1 should be valid")
	}
}
