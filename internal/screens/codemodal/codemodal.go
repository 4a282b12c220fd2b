// Package codemodal shows the improved code from a refactor as an overlay
// on the tutor workspace.
package codemodal

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/router"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Title is the modal heading.
const Title = "✅ Improvised Code"

// ApplyMsg asks the workspace to replace its editor content.
type ApplyMsg struct {
	Code string
}

// Modal is a read-only, scrollable view of a code block.
type Modal struct {
	code     string
	language lang.Language
	palette  func() highlight.Palette
	top      int
	copied   bool
}

var _ screen.Screen = (*Modal)(nil)

// New creates a modal for code. palette is read on every render so a theme
// toggle applies immediately.
func New(code string, l lang.Language, palette func() highlight.Palette) *Modal {
	return &Modal{code: code, language: l, palette: palette}
}

func (m *Modal) Init() tea.Cmd { return nil }

func (m *Modal) Title() string { return "Improvised Code" }

func pop() tea.Msg { return router.PopScreenMsg{} }

func (m *Modal) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "c", "y":
			m.copied = true
			return m, tea.SetClipboard(m.code)
		case "a":
			code := m.code
			return m, tea.Batch(
				func() tea.Msg { return ApplyMsg{Code: code} },
				pop,
			)
		case "q":
			return m, pop
		case "up", "k":
			m.top = max(m.top-1, 0)
		case "down", "j":
			m.top++
		case "home", "g":
			m.top = 0
		}
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			m.top = max(m.top-3, 0)
		case tea.MouseWheelDown:
			m.top += 3
		}
	}
	return m, nil
}

func (m *Modal) View(width, height int) string {
	boxW := min(max(width-8, 30), 110)
	boxH := max(height-4, 8)
	innerH := boxH - 6

	lines := strings.Split(highlight.Terminal(m.code, m.language, m.palette()), "\n")
	m.top = min(m.top, max(len(lines)-innerH, 0))
	end := min(m.top+innerH, len(lines))
	body := strings.Join(lines[m.top:end], "\n")

	status := theme.Hint.Render("c copy · a apply to editor · esc close")
	if m.copied {
		status = lipgloss.NewStyle().Foreground(theme.Success).Render("Copied to clipboard") +
			"  " + status
	}

	content := theme.Selected.Render(Title) + "\n\n" + body + "\n\n" + status
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1).
		Width(boxW).
		MaxHeight(boxH).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Modal) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "c", Description: "Copy"},
		{Key: "a", Description: "Apply"},
		{Key: "Esc", Description: "Close"},
	}
}
