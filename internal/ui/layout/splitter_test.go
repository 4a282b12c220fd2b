package layout

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestOrientationFor(t *testing.T) {
	tests := []struct {
		width int
		want  Orientation
	}{
		{80, Vertical},
		{99, Vertical},
		{100, Horizontal},
		{200, Horizontal},
	}
	for _, tt := range tests {
		if got := OrientationFor(tt.width); got != tt.want {
			t.Errorf("OrientationFor(%d) = %s, want %s", tt.width, got, tt.want)
		}
	}
}

func TestPanesHorizontal(t *testing.T) {
	s := NewSplitter()
	c := Rect{X: 0, Y: 3, W: 120, H: 30}
	a, h, b := s.Panes(c)

	if a != (Rect{0, 3, 60, 30}) {
		t.Errorf("a = %+v", a)
	}
	if h != (Rect{60, 3, 1, 30}) {
		t.Errorf("handle = %+v", h)
	}
	if b != (Rect{61, 3, 59, 30}) {
		t.Errorf("b = %+v", b)
	}
}

func TestPanesVertical(t *testing.T) {
	s := NewSplitter()
	c := Rect{X: 0, Y: 3, W: 80, H: 30}
	a, h, b := s.Panes(c)

	if a.H != 15 || a.W != 80 {
		t.Errorf("a = %+v", a)
	}
	if h != (Rect{0, 18, 80, 1}) {
		t.Errorf("handle = %+v", h)
	}
	if b.Y != 19 || b.H != 14 {
		t.Errorf("b = %+v", b)
	}
}

func TestDragHorizontal(t *testing.T) {
	s := NewSplitter()
	c := Rect{X: 0, Y: 3, W: 120, H: 30}

	if s.Press(c, 10, 10) {
		t.Fatal("press off the handle started a drag")
	}
	if s.Drag(c, 80, 10) {
		t.Fatal("drag without press moved the split")
	}
	if !s.Press(c, 60, 10) || !s.Dragging() {
		t.Fatal("press on the handle did not start a drag")
	}

	if !s.Drag(c, 80, 10) {
		t.Fatal("drag inside bounds was ignored")
	}
	if !near(s.Percent, 80.0/120*100) {
		t.Errorf("Percent = %v", s.Percent)
	}
	if a, _, _ := s.Panes(c); a.W != 80 {
		t.Errorf("a.W = %d, want 80", a.W)
	}

	before := s.Percent
	for _, x := range []int{10, 29, 91, 119} {
		if s.Drag(c, x, 10) {
			t.Errorf("drag to x=%d should be clamped out", x)
		}
	}
	if s.Percent != before {
		t.Errorf("Percent changed to %v", s.Percent)
	}

	if !s.Drag(c, 90, 10) {
		t.Error("drag to the exact maximum should apply")
	}
	if s.StackPercent != DefaultPercent {
		t.Error("horizontal drag changed the stacked split")
	}

	s.Release()
	if s.Dragging() || s.Drag(c, 60, 10) {
		t.Error("drag after release moved the split")
	}
}

func TestDragVertical(t *testing.T) {
	s := NewSplitter()
	c := Rect{X: 0, Y: 3, W: 80, H: 30}

	if !s.Press(c, 5, 18) {
		t.Fatal("press on the handle did not start a drag")
	}
	if !s.Drag(c, 5, 23) {
		t.Fatal("drag inside bounds was ignored")
	}
	if !near(s.StackPercent, 20.0/30*100) {
		t.Errorf("StackPercent = %v", s.StackPercent)
	}
	if s.Drag(c, 5, 8) || s.Drag(c, 5, 28) {
		t.Error("drag outside the height bounds should be ignored")
	}
	if s.Percent != DefaultPercent {
		t.Error("vertical drag changed the side-by-side split")
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 2, Y: 2, W: 3, H: 2}
	if !r.Contains(2, 2) || !r.Contains(4, 3) {
		t.Error("corner cells should be inside")
	}
	if r.Contains(5, 2) || r.Contains(2, 4) || r.Contains(1, 2) {
		t.Error("cells past the edge should be outside")
	}
}
