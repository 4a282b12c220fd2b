package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

const titleFull = `  ___          _    _____      _
 / __|___  __| |__|_   _|   _| |_ ___ _ _
| (__/ _ \/ _' / -_)| || || |  _/ _ \ '_|
 \___\___/\__,_\___||_| \_,_|\__\___/_|`

const titleCompact = "C · O · D · E · T · U · T · O · R"

// contentWidth returns the inner width shared by every section.
func contentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// stats is the learner summary shown under the title.
type stats struct {
	name      string
	level     string
	points    int
	streak    int
	pathDone  int
	pathTotal int
}

func renderStatsBar(s stats, cw int, compact bool) string {
	pointsStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	pathStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var line string
	if compact {
		line = fmt.Sprintf("%s %s %s",
			pointsStyle.Render(fmt.Sprintf("★%d", s.points)),
			streakStyle.Render(fmt.Sprintf("🔥%d", s.streak)),
			pathStyle.Render(fmt.Sprintf("🐍%d/%d", s.pathDone, s.pathTotal)),
		)
	} else {
		line = fmt.Sprintf("%s  %s  %s",
			pointsStyle.Render(fmt.Sprintf("★ %d PTS", s.points)),
			streakStyle.Render(fmt.Sprintf("🔥 %d STREAK", s.streak)),
			pathStyle.Render(fmt.Sprintf("🐍 %d/%d PATH", s.pathDone, s.pathTotal)),
		)
	}
	greeting := theme.Body.Render(fmt.Sprintf("Welcome back, %s", s.name)) +
		"  " + theme.Hint.Render(s.level)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(greeting + "\n" + line)
}

const buttonWidth = 24

// renderMenu renders each item as a fixed-width button.
func renderMenu(items []string, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.Bg).
		Background(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	buttons := make([]string, 0, len(items))
	for i, label := range items {
		if i == selected {
			buttons = append(buttons, selectedBtn.Render("▸ "+label))
		} else {
			buttons = append(buttons, normalBtn.Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders items as plain lines for short terminals.
func renderMenuCompact(items []string, selected int, cw int) string {
	lines := make([]string, 0, len(items))
	for i, label := range items {
		if i == selected {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Bg).
				Background(theme.Primary).
				Bold(true).
				Render(" ▸ "+label+" "))
		} else {
			lines = append(lines, theme.Unselected.Render("   "+label))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderOfflineBanner warns that AI features need a provider key.
func renderOfflineBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to enable AI feedback (see codetutor llm --help)")
}

func renderQuote(q curriculum.Quote, cw int) string {
	if q.Text == "" {
		return ""
	}
	text := lipgloss.NewStyle().Foreground(theme.Text).Italic(true).Render("“" + q.Text + "”")
	author := theme.Hint.Render("- " + q.Author)
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(text + "\n" + author)
}

// renderFrame wraps content in a double border centered in the area.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
