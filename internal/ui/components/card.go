package components

import (
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked cards so their
// borders line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 100 {
		w = 100
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded card at the given outer width.
func Card(content string, width int) string {
	return theme.Card.
		Width(max(width-2, 0)).
		Render(content)
}

// StatCard renders a small card with an icon, a big value and a caption.
func StatCard(icon, value, caption string, width int) string {
	v := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(icon + " " + value)
	c := theme.Hint.Render(caption)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(max(width-2, 0)).
		Padding(0, 1).
		Render(v + "\n" + c)
}

// StatRow lays cards out side by side.
func StatRow(cards ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
