package editor

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/lang"
)

// Offset is a scroll position in cells.
type Offset struct {
	Top  int
	Left int
}

// Pos is a row/column location in runes.
type Pos struct {
	Row int
	Col int
}

func (p Pos) before(q Pos) bool {
	return p.Row < q.Row || (p.Row == q.Row && p.Col < q.Col)
}

// Span is a half-open selection range in document order.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) contains(p Pos) bool {
	return !p.before(s.Start) && p.before(s.End)
}

// Surface stacks a highlighted text layer under the live input layer and
// keeps a line-number gutter beside them. The input layer owns scrolling;
// every scroll is mirrored to the text layer (both axes) and the gutter
// (vertical only) before Scroll returns.
type Surface struct {
	Input  Offset
	Text   Offset
	Gutter Offset

	language  lang.Language
	palette   highlight.Palette
	content   string
	lines     [][]highlight.Token
	lineCount int

	width  int
	height int

	GutterStyle    lipgloss.Style
	CaretStyle     lipgloss.Style
	SelectionStyle lipgloss.Style
}

// NewSurface returns an empty surface for l.
func NewSurface(l lang.Language, p highlight.Palette) *Surface {
	s := &Surface{
		language:       l,
		palette:        p,
		GutterStyle:    lipgloss.NewStyle().Faint(true),
		CaretStyle:     lipgloss.NewStyle().Reverse(true),
		SelectionStyle: lipgloss.NewStyle().Reverse(true).Faint(true),
	}
	s.SetContent("")
	return s
}

// SetContent re-tokenizes text and recomputes the line count.
func (s *Surface) SetContent(text string) {
	s.content = text
	s.lineCount = 1 + strings.Count(text, "\n")
	s.lines = highlight.Lines(highlight.Tokenize(text, s.language))
	s.Scroll(s.Input.Top, s.Input.Left)
}

// SetLanguage switches the tokenizer and re-highlights.
func (s *Surface) SetLanguage(l lang.Language) {
	s.language = l
	s.SetContent(s.content)
}

// SetPalette changes the colors used for tokens.
func (s *Surface) SetPalette(p highlight.Palette) {
	s.palette = p
}

// LineCount is one more than the number of newlines in the content.
func (s *Surface) LineCount() int { return s.lineCount }

// Resize sets the viewport size including the gutter.
func (s *Surface) Resize(width, height int) {
	s.width = width
	s.height = height
	s.Scroll(s.Input.Top, s.Input.Left)
}

// Scroll moves the input layer and synchronizes the other layers.
func (s *Surface) Scroll(top, left int) {
	maxTop := s.lineCount - 1
	if maxTop < 0 {
		maxTop = 0
	}
	top = clamp(top, 0, maxTop)
	if left < 0 {
		left = 0
	}

	s.Input = Offset{Top: top, Left: left}
	s.Text = Offset{Top: top, Left: left}
	s.Gutter = Offset{Top: top}
}

// ScrollToCursor scrolls just enough to keep p inside the viewport.
func (s *Surface) ScrollToCursor(p Pos) {
	top, left := s.Input.Top, s.Input.Left
	rows, cols := s.textHeight(), s.textWidth()

	if p.Row < top {
		top = p.Row
	} else if rows > 0 && p.Row >= top+rows {
		top = p.Row - rows + 1
	}
	if p.Col < left {
		left = p.Col
	} else if cols > 0 && p.Col >= left+cols {
		left = p.Col - cols + 1
	}
	s.Scroll(top, left)
}

func (s *Surface) gutterWidth() int {
	return len(fmt.Sprint(s.lineCount)) + 2
}

func (s *Surface) textWidth() int {
	w := s.width - s.gutterWidth()
	if w < 1 {
		return 1
	}
	return w
}

func (s *Surface) textHeight() int {
	if s.height < 1 {
		return 1
	}
	return s.height
}

// View renders the visible window with the caret at caret. sel may be
// nil. When focused is false the caret is hidden.
func (s *Surface) View(caret Pos, sel *Span, focused bool) string {
	gw := s.gutterWidth()
	tw := s.textWidth()
	rows := s.textHeight()

	out := make([]string, 0, rows)
	for r := 0; r < rows; r++ {
		gutterRow := s.Gutter.Top + r
		textRow := s.Text.Top + r

		var num string
		if gutterRow < s.lineCount {
			num = fmt.Sprintf("%*d ", gw-1, gutterRow+1)
		} else {
			num = strings.Repeat(" ", gw)
		}

		var body string
		if textRow < len(s.lines) {
			body = s.renderLine(textRow, tw, caret, sel, focused)
		}
		out = append(out, s.GutterStyle.Render(num)+body)
	}
	return strings.Join(out, "\n")
}

type cell struct {
	r     rune
	class highlight.Class
}

func (s *Surface) renderLine(row, width int, caret Pos, sel *Span, focused bool) string {
	var cells []cell
	for _, tok := range s.lines[row] {
		for _, r := range tok.Text {
			if r == '\t' {
				r = ' '
			}
			cells = append(cells, cell{r: r, class: tok.Class})
		}
	}

	var b strings.Builder
	var run strings.Builder
	runClass := highlight.ClassNone
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(s.palette.Style(runClass).Render(run.String()))
			run.Reset()
		}
	}

	for x := 0; x < width; x++ {
		col := s.Text.Left + x
		isCaret := focused && caret.Row == row && caret.Col == col
		selected := sel != nil && sel.contains(Pos{Row: row, Col: col})

		if col >= len(cells) {
			if isCaret {
				flush()
				b.WriteString(s.CaretStyle.Render(" "))
			}
			break
		}

		c := cells[col]
		switch {
		case isCaret:
			flush()
			b.WriteString(s.CaretStyle.Render(string(c.r)))
		case selected:
			flush()
			b.WriteString(s.SelectionStyle.Render(string(c.r)))
		default:
			if c.class != runClass {
				flush()
				runClass = c.class
			}
			run.WriteRune(c.r)
		}
	}
	flush()
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
