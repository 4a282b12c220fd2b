// Package profile lets the learner edit their name and avatar and shows
// their level.
package profile

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/ui/components"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// MaxNameLength caps the display name.
const MaxNameLength = 24

type field int

const (
	fieldName field = iota
	fieldAvatar
)

// Screen is the profile editor.
type Screen struct {
	env    *screen.Env
	name   components.TextInput
	picker components.Picker
	field  field
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.BackHandler     = (*Screen)(nil)
)

func New(env *screen.Env) *Screen {
	u := env.State.Get().User
	name := components.NewTextInput("Your name", MaxNameLength)
	name.SetValue(u.Name)
	return &Screen{
		env:    env,
		name:   name,
		picker: components.NewPicker(env.Curriculum.Avatars, 8, u.Avatar),
	}
}

func (s *Screen) Init() tea.Cmd { return s.name.Init() }

func (s *Screen) Title() string { return "Profile" }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.field == fieldName {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Save name"},
			{Key: "Tab", Description: "Avatar"},
			{Key: "Esc", Description: "Home"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→↑↓", Description: "Pick"},
		{Key: "Enter", Description: "Save avatar"},
		{Key: "Tab", Description: "Name"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.field == fieldName {
			var cmd tea.Cmd
			s.name, cmd = s.name.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	switch kmsg.String() {
	case "tab", "shift+tab":
		return s, s.toggle()
	case "enter":
		if s.field == fieldName {
			return s, s.saveName()
		}
		s.picker, _ = s.picker.Update(msg)
		return s, s.saveAvatar()
	}

	var cmd tea.Cmd
	if s.field == fieldName {
		s.name, cmd = s.name.Update(msg)
	} else {
		s.picker, cmd = s.picker.Update(msg)
	}
	return s, cmd
}

func (s *Screen) toggle() tea.Cmd {
	if s.field == fieldName {
		s.field = fieldAvatar
		s.name.Blur()
		return nil
	}
	s.field = fieldName
	return s.name.Focus()
}

// Back returns from the avatar grid to the name field.
func (s *Screen) Back() bool {
	if s.field == fieldAvatar {
		s.toggle()
		return true
	}
	return false
}

func (s *Screen) saveName() tea.Cmd {
	name := s.name.Value()
	s.name.Submit(name != "")
	if name == "" {
		return screen.Notice("Name cannot be empty.", true)
	}
	return s.commit(state.User{Name: name}, "Name saved.")
}

func (s *Screen) saveAvatar() tea.Cmd {
	avatar, ok := s.picker.Value()
	if !ok {
		return nil
	}
	return s.commit(state.User{Avatar: avatar}, "Avatar updated.")
}

func (s *Screen) commit(u state.User, note string) tea.Cmd {
	next, keys := s.env.State.Get().WithUser(u)
	if len(keys) == 0 {
		return nil
	}
	s.env.Commit(next, keys)
	return screen.Notice(note, false)
}

func (s *Screen) View(width, height int) string {
	st := s.env.State.Get()
	cw := min(components.ContentWidth(width), 72)

	who := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).
		Render(fmt.Sprintf("%s  %s", st.User.Avatar, st.User.Name))
	level := st.Level()
	bar := components.ProgressBar{
		Label:   level.Name,
		Percent: level.ProgressToNext(st.Progress.Points),
		Width:   cw - 4,
		Suffix:  levelCaption(level, st.Progress.Points),
	}
	header := components.Card(who+"\n"+theme.Hint.Render(fmt.Sprintf("%d points", st.Progress.Points))+"\n\n"+bar.View(), cw)

	label := func(text string, active bool) string {
		if active {
			return theme.Selected.Render("▸ " + text)
		}
		return theme.Unselected.Render("  " + text)
	}
	nameBlock := label("Name", s.field == fieldName) + "\n  " + s.name.View()
	avatarBlock := label("Avatar", s.field == fieldAvatar) + "\n" + indent(s.picker.View(), "  ")

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", nameBlock, "", avatarBlock, "", levelTable(level))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func levelCaption(l rewards.Level, points int) string {
	if l.IsTop() {
		return "top level"
	}
	return fmt.Sprintf("%d to %s", l.PointsToNext(points), nextLevel(l).Name)
}

func nextLevel(l rewards.Level) rewards.Level {
	return rewards.LevelFor(l.Max)
}

func levelTable(current rewards.Level) string {
	var lines []string
	for _, l := range rewards.Levels() {
		rng := fmt.Sprintf("%d+", l.Min)
		if !l.IsTop() {
			rng = fmt.Sprintf("%d-%d", l.Min, l.Max-1)
		}
		line := fmt.Sprintf("%-14s %s", l.Name, rng)
		if l == current {
			lines = append(lines, theme.Selected.Render("★ "+line))
		} else {
			lines = append(lines, theme.Hint.Render("  "+line))
		}
	}
	return strings.Join(lines, "\n")
}

func indent(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
