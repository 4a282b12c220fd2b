package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/tutor"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Origin is implemented by screens that need the content area's position
// on the terminal, for mouse hit testing. The root model calls SetOrigin
// before every View.
type Origin interface {
	SetOrigin(x, y int)
}

// BackHandler is implemented by screens with inner state that esc should
// unwind first, such as a focused sub-pane. Back reports whether it
// consumed the key.
type BackHandler interface {
	Back() bool
}

// Env is the shared context every screen is built with. It is only read
// and written from the update loop.
type Env struct {
	Ctx        context.Context
	State      *state.Shared
	Controller state.Controller
	Curriculum *curriculum.Curriculum
	// Tutor is nil when no LLM provider is configured.
	Tutor    *tutor.Service
	Renderer *feedback.Renderer
	Palettes map[theme.Mode]highlight.Palette
	Logger   *log.Logger
}

// Palette returns the syntax palette for the current theme.
func (e *Env) Palette() highlight.Palette {
	return e.Palettes[e.State.Get().Theme]
}

// Commit replaces the learner state and persists the named slots. Write
// failures are logged; the new state is kept.
func (e *Env) Commit(next state.State, keys []string) {
	if err := e.State.Set(e.Ctx, next, keys); err != nil {
		e.Logger.Warn("persist state", "keys", keys, "err", err)
	}
}

// Page names a top-level destination.
type Page int

const (
	PageHome Page = iota
	PageTutor
	PagePath
	PageLibrary
	PageDashboard
	PageProfile
	PageChat
)

// NavigateMsg asks the root model to show a top-level page.
type NavigateMsg struct {
	Page Page
}

// OpenWorkspaceMsg loads code (and possibly a task) into the tutor and
// shows it. Open derives the new workspace from the current one so the
// chosen difficulty carries over.
type OpenWorkspaceMsg struct {
	Open func(state.Workspace) state.Workspace
}

// OpenWorkspace returns a command emitting OpenWorkspaceMsg.
func OpenWorkspace(open func(state.Workspace) state.Workspace) tea.Cmd {
	return func() tea.Msg { return OpenWorkspaceMsg{Open: open} }
}

// NoticeMsg shows a one-line message in the footer until the next key.
type NoticeMsg struct {
	Text    string
	IsError bool
}

// Navigate returns a command emitting NavigateMsg.
func Navigate(p Page) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Page: p} }
}

// Notice returns a command emitting NoticeMsg.
func Notice(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text, IsError: isError} }
}
