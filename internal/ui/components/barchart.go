package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Bar is one labelled value in a chart.
type Bar struct {
	Label string
	Value int
}

// HBarChart renders one row per bar, scaled to the largest value.
func HBarChart(bars []Bar, width int) string {
	labelW := 0
	peak := 0
	for _, b := range bars {
		labelW = max(labelW, lipgloss.Width(b.Label))
		peak = max(peak, b.Value)
	}

	barW := max(width-labelW-8, 4)
	var sb strings.Builder
	for _, b := range bars {
		n := 0
		if peak > 0 {
			n = b.Value * barW / peak
		}
		if b.Value > 0 && n == 0 {
			n = 1
		}
		label := b.Label + strings.Repeat(" ", labelW-lipgloss.Width(b.Label))
		sb.WriteString(theme.Body.Render(label) + " ")
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Render(strings.Repeat("█", n)))
		sb.WriteString(theme.Hint.Render(fmt.Sprintf(" %d", b.Value)) + "\n")
	}
	return sb.String()
}

// VBarChart renders vertical columns of the given height with labels below.
// Labels are cut to three cells.
func VBarChart(bars []Bar, height int) string {
	height = max(height, 1)
	peak := 0
	for _, b := range bars {
		peak = max(peak, b.Value)
	}

	cols := make([]string, 0, len(bars))
	for _, b := range bars {
		n := 0
		if peak > 0 {
			n = b.Value * height / peak
		}
		if b.Value > 0 && n == 0 {
			n = 1
		}
		rows := make([]string, 0, height+2)
		rows = append(rows, theme.Hint.Render(fmt.Sprintf("%3d", b.Value)))
		for i := 0; i < height; i++ {
			if height-i <= n {
				rows = append(rows, lipgloss.NewStyle().Foreground(theme.Secondary).Render("███"))
			} else {
				rows = append(rows, "   ")
			}
		}
		label := b.Label
		if len([]rune(label)) > 3 {
			label = string([]rune(label)[:3])
		}
		rows = append(rows, theme.Body.Render(fmt.Sprintf("%-3s", label)))
		cols = append(cols, strings.Join(rows, "\n"), " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, cols...)
}
