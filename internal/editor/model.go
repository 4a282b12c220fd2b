// Package editor implements the code editor: a snapshot history with
// language-aware keystroke policies and a layered, highlighted surface.
package editor

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"

	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/lang"
)

// Model is the editor component. Its pointer fields are shared between
// copies, so a Model value returned from Update is the same editor.
type Model struct {
	history  *History
	surface  *Surface
	language lang.Language

	cursor int // byte offset into the current snapshot
	anchor int // selection anchor, -1 when nothing is selected

	focused bool
}

// New creates an editor holding initial.
func New(l lang.Language, p highlight.Palette, initial string) Model {
	m := Model{
		history:  NewHistory(initial),
		surface:  NewSurface(l, p),
		language: l,
		cursor:   len(initial),
		anchor:   -1,
		focused:  true,
	}
	m.sync()
	return m
}

// Value returns the current text.
func (m Model) Value() string { return m.history.Current() }

// SetValue replaces the content and starts a fresh history.
func (m *Model) SetValue(text string) {
	m.history.Reset(text)
	m.cursor = len(text)
	m.anchor = -1
	m.surface.Scroll(0, 0)
	m.sync()
}

// Replace swaps in text as one undoable edit and moves the caret to the
// top.
func (m *Model) Replace(text string) {
	m.apply(Edit{Text: text, Cursor: 0})
}

// Language returns the language used for highlighting and indentation.
func (m Model) Language() lang.Language { return m.language }

// SetLanguage switches highlighting and indentation rules.
func (m *Model) SetLanguage(l lang.Language) {
	m.language = l
	m.surface.SetLanguage(l)
}

// SetPalette recolors the highlighted layer.
func (m *Model) SetPalette(p highlight.Palette) { m.surface.SetPalette(p) }

// SetSize sets the viewport including the gutter.
func (m *Model) SetSize(width, height int) {
	m.surface.Resize(width, height)
	m.surface.ScrollToCursor(m.Cursor())
}

func (m *Model) Focus()        { m.focused = true }
func (m *Model) Blur()         { m.focused = false }
func (m Model) Focused() bool  { return m.focused }
func (m Model) LineCount() int { return m.surface.LineCount() }

// History exposes the snapshot log.
func (m Model) History() *History { return m.history }

// Surface exposes the layered view, mostly for scroll inspection.
func (m Model) Surface() *Surface { return m.surface }

// Cursor returns the caret position in rows and rune columns.
func (m Model) Cursor() Pos { return posOf(m.Value(), m.cursor) }

// Undo steps back one snapshot. It reports false at the oldest snapshot.
func (m *Model) Undo() bool {
	if !m.history.Undo() {
		return false
	}
	m.afterTravel()
	return true
}

// Redo steps forward one snapshot. It reports false at the newest one.
func (m *Model) Redo() bool {
	if !m.history.Redo() {
		return false
	}
	m.afterTravel()
	return true
}

func (m *Model) afterTravel() {
	text := m.Value()
	if m.cursor > len(text) {
		m.cursor = len(text)
	}
	for m.cursor > 0 && m.cursor < len(text) && !utf8.RuneStart(text[m.cursor]) {
		m.cursor--
	}
	m.anchor = -1
	m.sync()
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles keys, pastes and mouse wheel scrolling while focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		mouse := msg.Mouse()
		top, left := m.surface.Input.Top, m.surface.Input.Left
		switch mouse.Button {
		case tea.MouseWheelUp:
			top -= 3
		case tea.MouseWheelDown:
			top += 3
		case tea.MouseWheelLeft:
			left -= 4
		case tea.MouseWheelRight:
			left += 4
		}
		m.surface.Scroll(top, left)
		return m, nil

	case tea.PasteMsg:
		start, end := m.selection()
		m.apply(Insert(m.Value(), start, end, msg.Content))

	case tea.KeyPressMsg:
		m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) {
	text := m.Value()
	start, end := m.selection()

	switch msg.String() {
	case "ctrl+z":
		m.Undo()
	case "ctrl+y", "ctrl+shift+z":
		m.Redo()
	case "enter":
		m.apply(Enter(text, start, end, m.language))
	case "tab":
		m.apply(Tab(text, start, end))
	case "backspace":
		if start == end {
			if start == 0 {
				return
			}
			_, size := utf8.DecodeLastRuneInString(text[:start])
			start -= size
		}
		m.apply(Edit{Text: text[:start] + text[end:], Cursor: start})
	case "delete":
		if start == end {
			if end >= len(text) {
				return
			}
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
		}
		m.apply(Edit{Text: text[:start] + text[end:], Cursor: start})
	case "left", "shift+left":
		m.move(msg.String(), prevRune(text, m.cursor))
	case "right", "shift+right":
		m.move(msg.String(), nextRune(text, m.cursor))
	case "up", "shift+up":
		p := m.Cursor()
		m.move(msg.String(), offsetOf(text, Pos{Row: p.Row - 1, Col: p.Col}))
	case "down", "shift+down":
		p := m.Cursor()
		m.move(msg.String(), offsetOf(text, Pos{Row: p.Row + 1, Col: p.Col}))
	case "home", "shift+home":
		p := m.Cursor()
		m.move(msg.String(), offsetOf(text, Pos{Row: p.Row}))
	case "end", "shift+end":
		p := m.Cursor()
		m.move(msg.String(), lineEnd(text, offsetOf(text, Pos{Row: p.Row})))
	case "pgup":
		p := m.Cursor()
		m.move("pgup", offsetOf(text, Pos{Row: p.Row - m.surface.textHeight(), Col: p.Col}))
	case "pgdown":
		p := m.Cursor()
		m.move("pgdown", offsetOf(text, Pos{Row: p.Row + m.surface.textHeight(), Col: p.Col}))
	default:
		if msg.Text != "" && !strings.HasPrefix(msg.String(), "ctrl+") && !strings.HasPrefix(msg.String(), "alt+") {
			m.apply(Insert(text, start, end, msg.Text))
		}
	}
}

// apply commits an edit when it changes the text. Cursor-only changes
// never reach the history.
func (m *Model) apply(e Edit) {
	if e.Text != m.Value() {
		m.history.Commit(e.Text)
	}
	m.cursor = e.Cursor
	m.anchor = -1
	m.sync()
}

func (m *Model) move(key string, to int) {
	if strings.HasPrefix(key, "shift+") {
		if m.anchor < 0 {
			m.anchor = m.cursor
		}
	} else {
		m.anchor = -1
	}
	m.cursor = to
	m.surface.ScrollToCursor(m.Cursor())
}

func (m *Model) sync() {
	m.surface.SetContent(m.Value())
	m.surface.ScrollToCursor(m.Cursor())
}

// selection returns the selected byte range, or an empty range at the
// cursor.
func (m Model) selection() (int, int) {
	if m.anchor < 0 || m.anchor == m.cursor {
		return m.cursor, m.cursor
	}
	if m.anchor < m.cursor {
		return m.anchor, m.cursor
	}
	return m.cursor, m.anchor
}

// View renders the editor.
func (m Model) View() string {
	var sel *Span
	if start, end := m.selection(); start != end {
		text := m.Value()
		sel = &Span{Start: posOf(text, start), End: posOf(text, end)}
	}
	return m.surface.View(m.Cursor(), sel, m.focused)
}

func posOf(text string, offset int) Pos {
	if offset > len(text) {
		offset = len(text)
	}
	head := text[:offset]
	row := strings.Count(head, "\n")
	lineStart := strings.LastIndexByte(head, '\n') + 1
	return Pos{Row: row, Col: utf8.RuneCountInString(head[lineStart:])}
}

func offsetOf(text string, p Pos) int {
	if p.Row < 0 {
		return 0
	}
	off := 0
	for r := 0; r < p.Row; r++ {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return len(text)
		}
		off += i + 1
	}
	end := lineEnd(text, off)
	for c := 0; c < p.Col && off < end; c++ {
		_, size := utf8.DecodeRuneInString(text[off:])
		off += size
	}
	return off
}

func lineEnd(text string, from int) int {
	if i := strings.IndexByte(text[from:], '\n'); i >= 0 {
		return from + i
	}
	return len(text)
}

func prevRune(text string, off int) int {
	if off <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRuneInString(text[:off])
	return off - size
}

func nextRune(text string, off int) int {
	if off >= len(text) {
		return len(text)
	}
	_, size := utf8.DecodeRuneInString(text[off:])
	return off + size
}
