package workspace

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/tutor"
	"github.com/codetutor/codetutor/internal/ui/components"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

const idleHint = "Press Ctrl+A to analyze your code or Ctrl+R to get an enhanced version. Ctrl+E predicts what it prints."

func (s *Screen) View(width, height int) string {
	s.width, s.height = width, height
	if pal := s.env.Palette(); pal.Name != s.paletteName {
		s.editor.SetPalette(pal)
		s.paletteName = pal.Name
	}

	c := s.container()
	a, handle, b := s.splitter.Panes(c)

	s.editor.SetSize(max(a.W-2, 1), max(a.H-3, 1))
	editorPane := layout.RenderPane(s.editorTitle(), s.editor.View(), a, s.focus == focusEditor)

	innerW := max(b.W-2, 1)
	s.feedback.SetWidth(innerW)
	s.feedback.SetHeight(max(b.H-3, 1))
	s.feedback.SetContent(s.feedbackContent(innerW))
	feedbackPane := layout.RenderPane("AI Feedback", s.feedback.View(), b, s.focus == focusFeedback)

	var panes string
	if layout.OrientationFor(c.W) == layout.Horizontal {
		bar := s.handleStyle().Render(strings.TrimSuffix(strings.Repeat("┃\n", handle.H), "\n"))
		panes = lipgloss.JoinHorizontal(lipgloss.Top, editorPane, bar, feedbackPane)
	} else {
		bar := s.handleStyle().Render(strings.Repeat("━", handle.W))
		panes = lipgloss.JoinVertical(lipgloss.Left, editorPane, bar, feedbackPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left, s.infoBar(width), panes, s.buttons())
}

func (s *Screen) handleStyle() lipgloss.Style {
	if s.splitter.Dragging() {
		return lipgloss.NewStyle().Foreground(theme.Primary)
	}
	return lipgloss.NewStyle().Foreground(theme.Border)
}

func (s *Screen) editorTitle() string {
	if s.ws.InTask() {
		return "🎯 " + s.ws.Task.Title
	}
	return fmt.Sprintf("%s · %s", s.ws.Language, s.ws.Difficulty)
}

func (s *Screen) infoBar(width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(string(s.ws.Language)) +
		theme.Hint.Render("  "+string(s.ws.Difficulty))
	if s.ws.InTask() {
		left += "  " + lipgloss.NewStyle().Foreground(theme.Accent).
			Render(fmt.Sprintf("Task: %s (%d pts)", s.ws.Task.Title, s.ws.Task.Points))
	}

	var right string
	if s.env.Tutor != nil {
		if n := s.env.Tutor.Remaining(s.env.Ctx); n >= 0 {
			right = theme.Hint.Render(fmt.Sprintf("%d AI requests left today", n))
		}
	}
	if s.status != "" {
		right = lipgloss.NewStyle().Foreground(theme.Success).Render(s.status)
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right)-1, 1)
	return lipgloss.NewStyle().MaxWidth(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Screen) buttons() string {
	busy := s.Busy()
	analyze := components.NewButton("Analyze", "^A", nil)
	enhance := components.NewButton("Enhance", "^R", nil)
	run := components.NewButton("Run", "^E", nil)
	analyze.Disabled, enhance.Disabled, run.Disabled = busy, busy, busy

	row := []components.Button{analyze, enhance, run}
	if !s.ws.InTask() {
		sample := components.NewButton("Sample", "^L", nil)
		sample.Disabled = busy
		row = append(row, sample)
	}
	clearLabel := "Clear"
	if s.ws.InTask() {
		clearLabel = "Exit task"
	}
	clr := components.NewButton(clearLabel, "^K", nil)
	clr.Disabled = busy
	row = append(row, clr)
	if s.canAdvance() {
		next := components.NewButton("Next task", "^N", nil)
		next.Active = true
		row = append(row, next)
	}
	return components.ButtonRow(row...)
}

// feedbackContent renders execution output, the loader or error, and the
// analysis sections.
func (s *Screen) feedbackContent(width int) string {
	var parts []string

	switch {
	case s.executing:
		parts = append(parts, theme.Hint.Render("▶ Running…"))
	case s.execution != nil:
		parts = append(parts, renderExecution(*s.execution, width))
	}

	switch s.pipeline.State() {
	case feedback.Idle:
		if len(parts) == 0 {
			parts = append(parts, theme.Hint.Width(width).Render(idleHint))
		}
	case feedback.Loading, feedback.Streaming:
		s.loader.Width = width
		parts = append(parts, s.loader.View())
	case feedback.Errored:
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Error).Width(width).
			Render("⚠ "+s.pipeline.Message()))
	}

	if body := s.renderSections(width); body != "" {
		parts = append(parts, body)
	}
	if s.code != nil && s.pipeline.State() == feedback.Complete {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render("✨ Enhanced code ready. Press Ctrl+O to view it."))
	}
	return strings.Join(parts, "\n\n")
}

func renderExecution(ex tutor.Execution, width int) string {
	title := theme.Selected.Render("▶ Output")
	if ex.Failed() {
		return title + "\n" + lipgloss.NewStyle().Foreground(theme.Error).Width(width).Render(ex.Error)
	}
	style := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
	if ex.TaskSolved {
		title += "  " + theme.Correct.Render("✓ Task solved")
	}
	return title + "\n" + style.Render(ex.Output)
}

func (s *Screen) renderSections(width int) string {
	if len(s.sections) == 0 {
		return ""
	}
	var b strings.Builder
	for i, sec := range s.sections {
		marker := "▸ "
		if s.isOpen(i) {
			marker = "▾ "
		}
		head := theme.Unselected.Render(marker + sec.Title())
		if s.focus == focusFeedback && i == s.cursor {
			head = theme.Selected.Render(marker + sec.Title())
		}
		b.WriteString(head + "\n")
		if s.isOpen(i) {
			b.WriteString(s.env.Renderer.Section(sec, width) + "\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
