// Package roadmap is the Python Path page: the guided task list grouped by
// section, with per-section progress.
package roadmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/ui/components"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

type rowKind int

const (
	rowSection rowKind = iota
	rowTask
)

type row struct {
	kind    rowKind
	section int
	task    curriculum.Task
}

// Screen lists the roadmap.
type Screen struct {
	env          *screen.Env
	rows         []row
	cursor       int
	scrollOffset int
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the roadmap with the cursor on the first unfinished task.
func New(env *screen.Env) *Screen {
	s := &Screen{env: env}
	for i, sec := range env.Curriculum.Path {
		s.rows = append(s.rows, row{kind: rowSection, section: i})
		for _, t := range sec.Tasks {
			s.rows = append(s.rows, row{kind: rowTask, section: i, task: t})
		}
	}

	done := s.completed()
	s.cursor = -1
	for i, r := range s.rows {
		if r.kind != rowTask {
			continue
		}
		if s.cursor < 0 {
			s.cursor = i
		}
		if !done[r.task.ID] {
			s.cursor = i
			break
		}
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Python Path" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Tab", Description: "Section"},
		{Key: "Enter", Description: "Start task"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "up", "k":
		s.moveCursor(-1)
	case "down", "j":
		s.moveCursor(1)
	case "tab":
		s.jumpSection(1)
	case "shift+tab":
		s.jumpSection(-1)
	case "enter":
		return s, s.start()
	}
	return s, nil
}

// Selected returns the task under the cursor.
func (s *Screen) Selected() (curriculum.Task, bool) {
	if s.cursor < 0 || s.cursor >= len(s.rows) || s.rows[s.cursor].kind != rowTask {
		return curriculum.Task{}, false
	}
	return s.rows[s.cursor].task, true
}

func (s *Screen) start() tea.Cmd {
	task, ok := s.Selected()
	if !ok {
		return nil
	}
	ctrl := s.env.Controller
	return screen.OpenWorkspace(func(w state.Workspace) state.Workspace {
		return ctrl.OpenTask(w, task)
	})
}

func (s *Screen) moveCursor(delta int) {
	for next := s.cursor + delta; next >= 0 && next < len(s.rows); next += delta {
		if s.rows[next].kind == rowTask {
			s.cursor = next
			return
		}
	}
}

// jumpSection moves to the first task of the next or previous section.
func (s *Screen) jumpSection(dir int) {
	if len(s.rows) == 0 {
		return
	}
	target := s.rows[s.cursor].section + dir
	for i, r := range s.rows {
		if r.kind == rowTask && r.section == target {
			s.cursor = i
			return
		}
	}
}

func (s *Screen) completed() map[string]bool {
	ids := s.env.State.Get().Progress.Analytics.CompletedTasks
	done := make(map[string]bool, len(ids))
	for _, id := range ids {
		done[id] = true
	}
	return done
}

func (s *Screen) View(width, height int) string {
	if len(s.rows) == 0 {
		return theme.Hint.Render("No roadmap tasks.")
	}

	p := s.env.State.Get().Progress
	total := s.env.Curriculum.TotalTasks()
	overall := components.ProgressBar{
		Label:   "Overall",
		Percent: components.Ratio(len(p.Analytics.CompletedTasks), total),
		Width:   min(width-4, 70),
		Suffix:  fmt.Sprintf("%d/%d tasks", len(p.Analytics.CompletedTasks), total),
	}
	top := []string{"  " + overall.View(), ""}

	bodyHeight := max(height-len(top), 1)
	s.adjustScroll(bodyHeight)

	done := s.completed()
	lines := top
	for i := s.scrollOffset; i < len(s.rows) && len(lines) < height; i++ {
		r := s.rows[i]
		if r.kind == rowSection {
			lines = append(lines, s.renderSection(r.section, width, p.Analytics.CompletedTasks))
			continue
		}
		lines = append(lines, renderTask(r.task, done[r.task.ID], i == s.cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) adjustScroll(height int) {
	headerRow := s.cursor
	for headerRow > 0 && s.rows[headerRow-1].kind == rowSection {
		headerRow--
	}
	if headerRow < s.scrollOffset {
		s.scrollOffset = headerRow
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *Screen) renderSection(i, width int, completed []string) string {
	sec := s.env.Curriculum.Path[i]
	done, total := sec.Progress(completed)
	name := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(strings.ToUpper(sec.Title))
	bar := components.ProgressBar{
		Percent: components.Ratio(done, total),
		Width:   24,
		Suffix:  fmt.Sprintf("%d/%d", done, total),
	}
	line := "  " + name + "  " + bar.View()
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

func renderTask(t curriculum.Task, done, selected bool, width int) string {
	icon := theme.Hint.Render("○")
	if done {
		icon = theme.Correct.Render("✓")
	}

	pts := fmt.Sprintf("%3d pts", t.Points)
	nameWidth := max(width-18, 10)
	name := t.Title
	if lipgloss.Width(name) > nameWidth {
		name = string([]rune(name)[:nameWidth-1]) + "…"
	}
	name = fmt.Sprintf("%-*s", nameWidth, name)

	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case selected:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	case done:
		nameStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}
	return fmt.Sprintf("  %s%s %s %s", cursor, icon, nameStyle.Render(name), theme.Hint.Render(pts))
}
