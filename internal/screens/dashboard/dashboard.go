// Package dashboard shows the learner's points, streak, skill
// distribution, weekly chart and recent activity.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/ui/components"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Screen renders the dashboard from the live state on every View.
type Screen struct {
	env *screen.Env
	top int
	now func() time.Time
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

func New(env *screen.Env) *Screen {
	return &Screen{env: env, now: time.Now}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Dashboard" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.top = max(s.top-1, 0)
		case "down", "j":
			s.top++
		case "home", "g":
			s.top = 0
		}
	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			s.top = max(s.top-3, 0)
		case tea.MouseWheelDown:
			s.top += 3
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	lines := strings.Split(Render(s.env.State.Get().Progress, s.env.Curriculum, width, s.now()), "\n")
	s.top = min(s.top, max(len(lines)-height, 0))
	end := min(s.top+height, len(lines))
	return strings.Join(lines[s.top:end], "\n")
}

// Render draws the dashboard for p. It is shared with the stats command.
func Render(p rewards.Progress, cur *curriculum.Curriculum, width int, now time.Time) string {
	cw := components.ContentWidth(width)
	a := p.Analytics

	next := rewards.NextStreakMilestone(a.Streak)
	stats := [][3]string{
		{"⭐", fmt.Sprint(p.Points), "Total points"},
		{"🎓", fmt.Sprintf("%d/%d", len(a.CompletedTasks), cur.TotalTasks()), "Python Path"},
		{"🧐", fmt.Sprint(a.ProblemsAnalyzed), "Problems analyzed"},
		{"🔥", fmt.Sprint(a.Streak), fmt.Sprintf("Streak · next %d", next)},
	}
	perRow := 4
	if cw/4 < 20 {
		perRow = 2
	}
	var rows []string
	for i := 0; i < len(stats); i += perRow {
		var row []string
		for _, st := range stats[i:min(i+perRow, len(stats))] {
			row = append(row, components.StatCard(st[0], st[1], st[2], cw/perRow))
		}
		rows = append(rows, components.StatRow(row...))
	}
	cards := lipgloss.JoinVertical(lipgloss.Left, rows...)

	level := rewards.LevelFor(p.Points)
	lvl := components.ProgressBar{
		Label:   "Level: " + level.Name,
		Percent: level.ProgressToNext(p.Points),
		Width:   cw - 4,
		Suffix:  levelSuffix(level, p.Points),
	}

	blocks := []string{
		cards,
		components.Card(lvl.View(), cw),
		components.Card(heading("Skill distribution")+"\n"+skills(a, cw-4), cw),
		components.Card(heading("This week")+"\n"+weekly(a, now), cw),
		components.Card(heading("Recent activity")+"\n"+recent(a, now, cw-4), cw),
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func heading(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(s)
}

func levelSuffix(l rewards.Level, points int) string {
	if l.IsTop() {
		return "max level"
	}
	return fmt.Sprintf("%d pts to next", l.PointsToNext(points))
}

func skills(a rewards.Analytics, width int) string {
	if !a.HasSkillData() {
		return theme.Hint.Render("Analyze some code to see your skill areas.")
	}
	bars := make([]components.Bar, 0, len(lang.All()))
	for _, l := range lang.All() {
		bars = append(bars, components.Bar{Label: string(l), Value: a.SkillAreas[l]})
	}
	return strings.TrimRight(components.HBarChart(bars, width), "\n")
}

// weekly shows the Sun..Sat buckets, zeroed when the last activity was in
// an earlier week.
func weekly(a rewards.Analytics, now time.Time) string {
	current := rewards.SameWeek(now, a.LastActivity)
	bars := make([]components.Bar, 0, len(a.WeeklyProgress))
	for _, d := range a.WeeklyProgress {
		v := d.Points
		if !current {
			v = 0
		}
		bars = append(bars, components.Bar{Label: d.Name, Value: v})
	}
	return components.VBarChart(bars, 5)
}

func recent(a rewards.Analytics, now time.Time, width int) string {
	if len(a.RecentActivity) == 0 {
		return theme.Hint.Render("No activity yet.")
	}
	var lines []string
	for _, act := range a.RecentActivity {
		pts := lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("+%d", act.Points))
		when := theme.Hint.Render(ago(now.Sub(act.Timestamp)))
		line := fmt.Sprintf("%s %s  %s  %s", act.Kind.Icon(), act.Description, pts, when)
		lines = append(lines, lipgloss.NewStyle().MaxWidth(width).Render(line))
	}
	return strings.Join(lines, "\n")
}

func ago(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
