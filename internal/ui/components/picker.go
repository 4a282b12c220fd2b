package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Picker is a grid selector over short options such as avatars.
type Picker struct {
	Options  []string
	Columns  int
	Selected int
	Chosen   int // -1 until enter is pressed
}

// NewPicker creates a picker with current preselected when present.
func NewPicker(options []string, columns int, current string) Picker {
	sel := 0
	for i, o := range options {
		if o == current {
			sel = i
			break
		}
	}
	return Picker{
		Options:  options,
		Columns:  max(columns, 1),
		Selected: sel,
		Chosen:   -1,
	}
}

// Update handles arrow navigation and selection.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(p.Options) == 0 {
		return p, nil
	}

	switch kmsg.String() {
	case "left", "h":
		if p.Selected > 0 {
			p.Selected--
		}
	case "right", "l":
		if p.Selected < len(p.Options)-1 {
			p.Selected++
		}
	case "up", "k":
		if p.Selected-p.Columns >= 0 {
			p.Selected -= p.Columns
		}
	case "down", "j":
		if p.Selected+p.Columns < len(p.Options) {
			p.Selected += p.Columns
		}
	case "enter":
		p.Chosen = p.Selected
	}
	return p, nil
}

// Value returns the chosen option, if enter has been pressed.
func (p Picker) Value() (string, bool) {
	if p.Chosen < 0 || p.Chosen >= len(p.Options) {
		return "", false
	}
	return p.Options[p.Chosen], true
}

// View renders the grid.
func (p Picker) View() string {
	cell := lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.HiddenBorder())
	active := cell.Border(lipgloss.RoundedBorder()).BorderForeground(theme.Primary)

	var rows []string
	for start := 0; start < len(p.Options); start += p.Columns {
		end := min(start+p.Columns, len(p.Options))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			if i == p.Selected {
				cells = append(cells, active.Render(p.Options[i]))
			} else {
				cells = append(cells, cell.Render(p.Options[i]))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}
