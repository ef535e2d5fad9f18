package model

import "testing"

func TestOrderKeyBetweenEmptyBounds(t *testing.T) {
	k := OrderKeyBetween("", "")
	if k == "" {
		t.Fatal("expected non-empty key")
	}
}

func TestOrderKeyBetweenOrdering(t *testing.T) {
	lo := OrderKeyBetween("", "")
	hi := OrderKeyBetween(lo, "")
	if !lo.Less(hi) {
		t.Fatalf("expected lo < hi: lo=%q hi=%q", lo, hi)
	}

	mid := OrderKeyBetween(lo, hi)
	if !lo.Less(mid) || !mid.Less(hi) {
		t.Fatalf("expected lo < mid < hi: lo=%q mid=%q hi=%q", lo, mid, hi)
	}
}

func TestOrderKeyBetweenRepeatedInsertion(t *testing.T) {
	lo := OrderKeyBetween("", "")
	hi := OrderKeyBetween(lo, "")

	cur := lo
	for i := 0; i < 20; i++ {
		next := OrderKeyBetween(cur, hi)
		if !cur.Less(next) || !next.Less(hi) {
			t.Fatalf("iteration %d: expected %q < %q < %q", i, cur, next, hi)
		}
		cur = next
	}
}

func TestOrderKeyBetweenLowerBoundOnly(t *testing.T) {
	lo := OrderKeyBetween("", "")
	next := OrderKeyBetween(lo, "")
	if !lo.Less(next) {
		t.Fatalf("expected %q < %q", lo, next)
	}
}

func TestOrderKeyBetweenUpperBoundOnly(t *testing.T) {
	hi := OrderKeyBetween("", "")
	prev := OrderKeyBetween("", hi)
	if !prev.Less(hi) {
		t.Fatalf("expected %q < %q", prev, hi)
	}
}
