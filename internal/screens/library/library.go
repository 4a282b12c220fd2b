// Package library is the snippet library page: example programs grouped
// by language that can be opened in the tutor.
package library

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Screen shows one language tab at a time with a list and a preview of
// the selected snippet.
type Screen struct {
	env       *screen.Env
	languages []lang.Language
	tab       int
	selected  int
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the library. Languages without snippets are left out.
func New(env *screen.Env) *Screen {
	s := &Screen{env: env}
	for _, l := range lang.All() {
		if len(env.Curriculum.Snippets(l)) > 0 {
			s.languages = append(s.languages, l)
		}
	}
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Code Library" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Language"},
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Open in tutor"},
		{Key: "Esc", Description: "Home"},
	}
}

// Language returns the active tab.
func (s *Screen) Language() lang.Language {
	if len(s.languages) == 0 {
		return lang.Python
	}
	return s.languages[s.tab]
}

func (s *Screen) snippets() []curriculum.Snippet {
	return s.env.Curriculum.Snippets(s.Language())
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.languages) == 0 {
		return s, nil
	}
	switch kmsg.String() {
	case "tab", "right", "l":
		s.tab = (s.tab + 1) % len(s.languages)
		s.selected = 0
	case "shift+tab", "left", "h":
		s.tab = (s.tab - 1 + len(s.languages)) % len(s.languages)
		s.selected = 0
	case "up", "k":
		s.selected = max(s.selected-1, 0)
	case "down", "j":
		s.selected = min(s.selected+1, max(len(s.snippets())-1, 0))
	case "enter":
		return s, s.open()
	}
	return s, nil
}

func (s *Screen) open() tea.Cmd {
	list := s.snippets()
	if s.selected >= len(list) {
		return nil
	}
	snip, l, ctrl := list[s.selected], s.Language(), s.env.Controller
	return screen.OpenWorkspace(func(w state.Workspace) state.Workspace {
		return ctrl.OpenSnippet(w, l, snip)
	})
}

func (s *Screen) View(width, height int) string {
	if len(s.languages) == 0 {
		return theme.Hint.Render("The library is empty.")
	}

	var tabs []string
	for i, l := range s.languages {
		label := fmt.Sprintf("%s (%d)", l, len(s.env.Curriculum.Snippets(l)))
		if i == s.tab {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Underline(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	tabLine := lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "    "))
	divider := lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 80), 0))))

	bodyH := max(height-4, 3)
	listW := min(max(width/3, 24), 40)
	previewW := max(width-listW-3, 20)

	list := s.renderList(listW, bodyH)
	preview := s.renderPreview(previewW, bodyH)
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, "   ", preview)

	return strings.Join([]string{tabLine, divider, "", body}, "\n")
}

func (s *Screen) renderList(width, height int) string {
	list := s.snippets()
	start := 0
	if s.selected >= height {
		start = s.selected - height + 1
	}
	var lines []string
	for i := start; i < len(list) && len(lines) < height; i++ {
		sn := list[i]
		title := sn.Title
		if lipgloss.Width(title) > width-4 {
			title = string([]rune(title)[:max(width-5, 1)]) + "…"
		}
		if i == s.selected {
			lines = append(lines, theme.Selected.Render("▸ "+title))
		} else {
			lines = append(lines, theme.Unselected.Render("  "+title))
		}
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (s *Screen) renderPreview(width, height int) string {
	list := s.snippets()
	if s.selected >= len(list) {
		return ""
	}
	sn := list[s.selected]

	head := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(sn.Title)
	if sn.Difficulty != "" {
		head += "  " + theme.Hint.Render(string(sn.Difficulty))
	}
	desc := lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(sn.Description)

	codeLines := strings.Split(highlight.Terminal(sn.Code, s.Language(), s.env.Palette()), "\n")
	room := max(height-lipgloss.Height(desc)-3, 1)
	if len(codeLines) > room {
		codeLines = append(codeLines[:max(room-1, 0)], theme.Hint.Render("…"))
	}
	code := lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(codeLines, "\n"))

	return strings.Join([]string{head, desc, "", code}, "\n")
}
