package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..1
	ShowPercent bool
	Width       int
	Suffix      string // replaces the percentage when set, e.g. "3/5"
}

// Ratio returns done/total, or 0 for an empty total.
func Ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	trailer := p.Suffix
	if trailer == "" && p.ShowPercent {
		trailer = fmt.Sprintf("%d%%", int(p.Percent*100))
	}

	barWidth := p.Width - lipgloss.Width(result)
	if trailer != "" {
		barWidth -= lipgloss.Width(trailer) + 2
	}
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = min(max(filled, 0), barWidth)

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	if trailer != "" {
		result += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(trailer)
	}

	return result
}
