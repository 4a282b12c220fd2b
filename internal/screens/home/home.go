package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/ui/components"
	"github.com/codetutor/codetutor/internal/ui/layout"
)

// HomeScreen is the landing page: a menu over the other pages plus a
// short learner summary.
type HomeScreen struct {
	env        *screen.Env
	menu       components.Menu
	menuLabels []string
	quote      int
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	nav := func(p screen.Page) func() tea.Cmd {
		return func() tea.Cmd { return screen.Navigate(p) }
	}

	menuLabels := []string{"CODE TUTOR", "PYTHON PATH", "LIBRARY", "DASHBOARD", "PROFILE", "CHAT WITH LIKI", "QUIT"}
	items := []components.MenuItem{
		{Label: menuLabels[0], Action: nav(screen.PageTutor)},
		{Label: menuLabels[1], Action: nav(screen.PagePath)},
		{Label: menuLabels[2], Action: nav(screen.PageLibrary)},
		{Label: menuLabels[3], Action: nav(screen.PageDashboard)},
		{Label: menuLabels[4], Action: nav(screen.PageProfile)},
		{Label: menuLabels[5], Action: nav(screen.PageChat)},
		{Label: menuLabels[6], Action: func() tea.Cmd { return tea.Quit }},
	}

	quote := 0
	if env.Controller.Rand != nil && len(env.Curriculum.Quotes) > 0 {
		quote = env.Controller.Rand(len(env.Curriculum.Quotes))
	}

	return &HomeScreen{
		env:        env,
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		quote:      quote,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "q" {
		h.quote++
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) stats() stats {
	st := h.env.State.Get()
	done := len(st.Progress.Analytics.CompletedTasks)
	return stats{
		name:      st.User.Name,
		level:     st.Level().Name,
		points:    st.Progress.Points,
		streak:    st.Progress.Analytics.Streak,
		pathDone:  done,
		pathTotal: h.env.Curriculum.TotalTasks(),
	}
}

func (h *HomeScreen) View(width, height int) string {
	compact := height+layout.HeaderHeight+layout.FooterHeight < 34 || width < 100
	cw := contentWidth(width)
	s := h.stats()
	online := h.env.Tutor != nil

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascot(MascotFor(s.streak, online), cw))
	}
	sections = append(sections, renderStatsBar(s, cw, compact))
	if compact {
		sections = append(sections, renderMenuCompact(h.menuLabels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.menuLabels, h.menu.Selected, cw))
	}
	if !online {
		sections = append(sections, renderOfflineBanner(cw))
	}
	if q := renderQuote(h.env.Curriculum.Quote(h.quote), cw); q != "" && !compact {
		sections = append(sections, q)
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "q", Description: "Next quote"},
		{Key: "Ctrl+T", Description: "Theme"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
