package render

import "testing"

func TestCanvasJunctionMerge(t *testing.T) {
	c := NewCanvas(5, 5)
	c.HLine(0, 4, 2, '─')
	c.VLine(0, 4, 2, '│')
	got := c.Get(2, 2)
	if got != '┼' {
		t.Fatalf("expected cross junction, got %q", got)
	}
}

func TestCanvasBoxCorners(t *testing.T) {
	c := NewCanvas(5, 3)
	c.Box(0, 0, 4, 2)
	if c.Get(0, 0) != '┌' || c.Get(4, 0) != '┐' || c.Get(0, 2) != '└' || c.Get(4, 2) != '┘' {
		t.Fatalf("unexpected box corners:\n%s", c.String())
	}
}

func TestCanvasStringTrimsTrailingWhitespaceAndLines(t *testing.T) {
	c := NewCanvas(4, 3)
	c.WriteText(0, 0, "hi")
	got := c.String()
	if got != "hi" {
		t.Fatalf("expected trailing blank rows trimmed, got %q", got)
	}
}

func TestCanvasSetOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	if c.Set(-1, 0, 'x') {
		t.Fatal("expected out-of-bounds Set to report false")
	}
	if c.Set(5, 5, 'x') {
		t.Fatal("expected out-of-bounds Set to report false")
	}
}
