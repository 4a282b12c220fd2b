package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/llm"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/screen/screentest"
	"github.com/codetutor/codetutor/internal/screens/chat"
	"github.com/codetutor/codetutor/internal/screens/dashboard"
	"github.com/codetutor/codetutor/internal/screens/home"
	"github.com/codetutor/codetutor/internal/screens/roadmap"
	"github.com/codetutor/codetutor/internal/screens/welcome"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

func newModel(t *testing.T, provider llm.Provider) AppModel {
	t.Helper()
	m := newAppModel(screentest.NewEnv(provider), Options{SkipSplash: true})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel)
}

// send runs msg through the model and feeds back every resulting message
// that is not a tick or a quit.
func send(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(AppModel)
	for _, out := range screentest.Drain(cmd) {
		switch out.(type) {
		case screen.NavigateMsg, screen.OpenWorkspaceMsg, screen.NoticeMsg:
			m = send(t, m, out)
		}
	}
	return m
}

func TestSplashStartsFirst(t *testing.T) {
	m := newAppModel(screentest.NewEnv(nil), Options{})
	_, ok := m.router.Active().(*welcome.WelcomeScreen)
	assert.True(t, ok, "expected the splash")
}

func TestNavigatePages(t *testing.T) {
	m := newModel(t, nil)

	m = send(t, m, screen.NavigateMsg{Page: screen.PagePath})
	_, ok := m.router.Active().(*roadmap.Screen)
	require.True(t, ok)
	assert.Equal(t, 1, m.router.Depth())

	m = send(t, m, screen.NavigateMsg{Page: screen.PageTutor})
	assert.Same(t, m.tutor, m.router.Active())

	m = send(t, m, screen.NavigateMsg{Page: screen.PageDashboard})
	_, ok = m.router.Active().(*dashboard.Screen)
	assert.True(t, ok)
}

func TestEscReturnsHome(t *testing.T) {
	m := newModel(t, nil)
	m = send(t, m, screen.NavigateMsg{Page: screen.PageDashboard})

	m = send(t, m, screentest.Key("esc"))
	_, ok := m.router.Active().(*home.HomeScreen)
	assert.True(t, ok, "esc from a page goes home")
}

func TestEscUnwindsWorkspaceFocusFirst(t *testing.T) {
	m := newModel(t, nil)
	m = send(t, m, screen.NavigateMsg{Page: screen.PageTutor})
	m = send(t, m, screentest.Key("ctrl+f"))

	m = send(t, m, screentest.Key("esc"))
	assert.Same(t, m.tutor, m.router.Active(), "first esc returns focus to the editor")

	m = send(t, m, screentest.Key("esc"))
	_, ok := m.router.Active().(*home.HomeScreen)
	assert.True(t, ok)
}

func TestOpenWorkspaceKeepsEditorInstance(t *testing.T) {
	m := newModel(t, nil)
	task := m.env.Curriculum.Tasks()[0]
	ctrl := m.env.Controller

	m = send(t, m, screen.OpenWorkspaceMsg{Open: func(w state.Workspace) state.Workspace {
		return ctrl.OpenTask(w, task)
	}})
	assert.Same(t, m.tutor, m.router.Active())
	w := m.tutor.Workspace()
	require.True(t, w.InTask())
	assert.Equal(t, task.ID, w.Task.ID)
	assert.Equal(t, lang.Python, w.Language)
}

func TestNoticeClearsOnKey(t *testing.T) {
	m := newModel(t, nil)
	m = send(t, m, screen.NoticeMsg{Text: "Saved"})
	assert.True(t, m.hasNotice)
	assert.Equal(t, "Saved", m.notice.Text)

	m = send(t, m, screentest.Key("down"))
	assert.False(t, m.hasNotice)
}

func TestToggleTheme(t *testing.T) {
	m := newModel(t, nil)
	t.Cleanup(func() { theme.Apply(theme.Dark) })

	m = send(t, m, screentest.Key("ctrl+t"))
	assert.Equal(t, theme.Light, m.env.State.Get().Theme)
	assert.Equal(t, theme.Light, theme.Current())
	assert.Equal(t, "light", m.env.Renderer.Style())
}

func TestChatShortcut(t *testing.T) {
	m := newModel(t, nil)
	m = send(t, m, screentest.Key("ctrl+b"))
	assert.Same(t, m.chat, m.router.Active())
	assert.True(t, m.env.State.Get().ChatbotOpened)

	_, isChat := m.router.Active().(*chat.Screen)
	assert.True(t, isChat)
}

func TestStreamContinuesOffPage(t *testing.T) {
	provider := llm.NewMockProvider(llm.MockResponse{Chunks: []string{"### Summary\nok ", "done"}})
	m := newModel(t, provider)
	m = send(t, m, screen.NavigateMsg{Page: screen.PageTutor})

	updated, cmd := m.Update(screentest.Key("ctrl+a"))
	m = updated.(AppModel)
	require.NotNil(t, cmd)
	require.True(t, m.tutor.Busy())

	m = send(t, m, screen.NavigateMsg{Page: screen.PageDashboard})
	require.False(t, m.router.Contains(m.tutor))

	var pending []tea.Msg
	for _, out := range screentest.Drain(cmd) {
		switch out.(type) {
		case screen.StreamChunkMsg, screen.StreamEndMsg:
			pending = append(pending, out)
		}
	}
	for i := 0; len(pending) > 0; i++ {
		require.Less(t, i, 50, "stream did not end")
		msg := pending[0]
		pending = pending[1:]
		updated, cmd := m.Update(msg)
		m = updated.(AppModel)
		for _, out := range screentest.Drain(cmd) {
			switch out.(type) {
			case screen.StreamChunkMsg, screen.StreamEndMsg:
				pending = append(pending, out)
			}
		}
	}
	assert.False(t, m.tutor.Busy(), "analysis finished while another page was showing")
}
