package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/router"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/screens/chat"
	"github.com/codetutor/codetutor/internal/screens/dashboard"
	"github.com/codetutor/codetutor/internal/screens/home"
	"github.com/codetutor/codetutor/internal/screens/library"
	"github.com/codetutor/codetutor/internal/screens/profile"
	"github.com/codetutor/codetutor/internal/screens/roadmap"
	"github.com/codetutor/codetutor/internal/screens/welcome"
	"github.com/codetutor/codetutor/internal/screens/workspace"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Options configures the TUI.
type Options struct {
	// SkipSplash opens the home page directly.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model. The tutor workspace and the chat
// are kept for the whole run; every other page is rebuilt when opened.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	tutor  *workspace.Screen
	chat   *chat.Screen

	notice    screen.NoticeMsg
	hasNotice bool

	width  int
	height int
}

// newAppModel creates the root model, starting on the splash unless
// opts.SkipSplash is set.
func newAppModel(env *screen.Env, opts Options) AppModel {
	m := AppModel{
		env:   env,
		tutor: workspace.New(env),
		chat:  chat.New(env),
	}
	var first screen.Screen = home.New(env)
	if !opts.SkipSplash {
		first = welcome.New(func() screen.Screen { return home.New(env) })
	}
	m.router = router.New(first)
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.NavigateMsg:
		return m, m.navigate(msg.Page)

	case screen.OpenWorkspaceMsg:
		m.tutor.Load(msg.Open(m.tutor.Workspace()))
		return m, m.router.Reset(m.tutor)

	case screen.NoticeMsg:
		m.notice, m.hasNotice = msg, true
		return m, nil

	case tea.KeyPressMsg:
		m.hasNotice = false
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			m.toggleTheme()
			return m, nil
		case "ctrl+b":
			return m, m.navigate(screen.PageChat)
		case "esc":
			if cmd, handled := m.back(); handled {
				return m, cmd
			}
		}
		return m, m.router.Update(msg)

	case tea.KeyMsg, tea.MouseMsg, tea.PasteMsg,
		router.PushScreenMsg, router.PopScreenMsg, router.ReplaceScreenMsg:
		return m, m.router.Update(msg)
	}

	return m, m.broadcast(msg)
}

// back unwinds one level for esc: an overlay, then the page's own inner
// state, then the page itself. The splash and home pages get the key.
func (m AppModel) back() (tea.Cmd, bool) {
	if m.router.Depth() > 1 {
		return m.router.Pop(), true
	}
	switch m.router.Root().(type) {
	case *home.HomeScreen, *welcome.WelcomeScreen:
		return nil, false
	}
	if b, ok := m.router.Active().(screen.BackHandler); ok && b.Back() {
		return nil, true
	}
	return m.navigate(screen.PageHome), true
}

// broadcast delivers a background message, such as a stream chunk or a
// timer tick, to every open screen and to the kept pages that are not
// showing.
func (m AppModel) broadcast(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.router.Broadcast(msg)}
	for _, s := range []screen.Screen{m.tutor, m.chat} {
		if m.router.Contains(s) {
			continue
		}
		_, cmd := s.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m AppModel) navigate(p screen.Page) tea.Cmd {
	var next screen.Screen
	switch p {
	case screen.PageTutor:
		next = m.tutor
	case screen.PageChat:
		next = m.chat
	case screen.PagePath:
		next = roadmap.New(m.env)
	case screen.PageLibrary:
		next = library.New(m.env)
	case screen.PageDashboard:
		next = dashboard.New(m.env)
	case screen.PageProfile:
		next = profile.New(m.env)
	default:
		next = home.New(m.env)
	}
	return m.router.Reset(next)
}

func (m AppModel) toggleTheme() {
	next, keys := m.env.State.Get().ToggleTheme()
	m.env.Commit(next, keys)
	theme.Apply(next.Theme)
	m.env.Renderer.SetStyle(theme.GlamourStyle())
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	st := m.env.State.Get()
	header := layout.RenderHeader(title, layout.HeaderStats{
		Avatar: st.User.Avatar,
		Points: st.Progress.Points,
		Streak: st.Progress.Analytics.Streak,
	}, m.width)

	var footer string
	if m.hasNotice {
		footer = layout.RenderNotice(m.notice.Text, m.notice.IsError, m.width)
	} else {
		footer = layout.RenderFooter(m.hints(active), m.width)
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	if o, ok := active.(screen.Origin); ok {
		o.SetOrigin(0, headerHeight)
	}
	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) hints(active screen.Screen) []layout.KeyHint {
	var hints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	} else {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	return append(hints,
		layout.KeyHint{Key: "^T", Description: "Theme"},
		layout.KeyHint{Key: "^C", Description: "Quit"},
	)
}

// Run starts the Bubble Tea program.
func Run(env *screen.Env, opts Options) error {
	p := tea.NewProgram(newAppModel(env, opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
