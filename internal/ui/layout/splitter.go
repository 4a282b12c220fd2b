package layout

import "math"

// Orientation is the arrangement of the two editor/feedback panes.
type Orientation int

const (
	// Horizontal places the panes side by side.
	Horizontal Orientation = iota
	// Vertical stacks the panes.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

const (
	// Breakpoint is the container width at which panes go side by side.
	Breakpoint = CompactWidthThreshold

	MinPaneWidth  = 30
	MinPaneHeight = 6

	DefaultPercent = 50.0
)

// OrientationFor returns the pane orientation for a container width.
func OrientationFor(width int) Orientation {
	if width >= Breakpoint {
		return Horizontal
	}
	return Vertical
}

// Rect is a cell-addressed rectangle.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Splitter divides a container into two panes separated by a one-cell
// handle. Side-by-side and stacked splits keep separate percentages so that
// crossing the breakpoint does not lose either.
type Splitter struct {
	Percent      float64 // first pane width, horizontal
	StackPercent float64 // first pane height, vertical
	MinWidth     int
	MinHeight    int

	dragging bool
	dir      Orientation
}

// NewSplitter returns a 50/50 splitter with the default pane minimums.
func NewSplitter() Splitter {
	return Splitter{
		Percent:      DefaultPercent,
		StackPercent: DefaultPercent,
		MinWidth:     MinPaneWidth,
		MinHeight:    MinPaneHeight,
	}
}

// Panes returns the first pane, the handle and the second pane for c.
func (s Splitter) Panes(c Rect) (a, handle, b Rect) {
	if OrientationFor(c.W) == Horizontal {
		w := split(c.W, s.Percent)
		a = Rect{X: c.X, Y: c.Y, W: w, H: c.H}
		handle = Rect{X: c.X + w, Y: c.Y, W: 1, H: c.H}
		b = Rect{X: c.X + w + 1, Y: c.Y, W: max(c.W-w-1, 0), H: c.H}
		return a, handle, b
	}

	h := split(c.H, s.StackPercent)
	a = Rect{X: c.X, Y: c.Y, W: c.W, H: h}
	handle = Rect{X: c.X, Y: c.Y + h, W: c.W, H: 1}
	b = Rect{X: c.X, Y: c.Y + h + 1, W: c.W, H: max(c.H-h-1, 0)}
	return a, handle, b
}

func split(size int, pct float64) int {
	if size <= 1 {
		return 0
	}
	n := int(math.Round(float64(size) * pct / 100))
	return min(max(n, 0), size-1)
}

// Press starts a drag when (x, y) is on the handle.
func (s *Splitter) Press(c Rect, x, y int) bool {
	_, handle, _ := s.Panes(c)
	if !handle.Contains(x, y) {
		return false
	}
	s.dragging = true
	s.dir = OrientationFor(c.W)
	return true
}

// Drag moves the split to the pointer. Positions that would leave either
// pane below its minimum are ignored. It reports whether the split changed.
func (s *Splitter) Drag(c Rect, x, y int) bool {
	if !s.dragging {
		return false
	}

	if s.dir == Horizontal {
		px := x - c.X
		if c.W <= 0 || px < s.MinWidth || px > c.W-s.MinWidth {
			return false
		}
		s.Percent = float64(px) / float64(c.W) * 100
		return true
	}

	py := y - c.Y
	if c.H <= 0 || py < s.MinHeight || py > c.H-s.MinHeight {
		return false
	}
	s.StackPercent = float64(py) / float64(c.H) * 100
	return true
}

// Release ends any drag in progress.
func (s *Splitter) Release() { s.dragging = false }

// Dragging reports whether a drag is in progress.
func (s Splitter) Dragging() bool { return s.dragging }
