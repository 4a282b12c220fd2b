// Package screentest builds in-memory screen environments for tests.
package screentest

import (
	"context"
	"io"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/log"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/highlight"
	"github.com/codetutor/codetutor/internal/llm"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/tutor"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// NewEnv returns an env with unsaved state, the embedded curriculum and
// samples always picked at index 0. A nil provider leaves Tutor unset.
func NewEnv(provider llm.Provider) *screen.Env {
	ctrl := state.NewController(curriculum.Default())
	ctrl.Rand = func(int) int { return 0 }

	env := &screen.Env{
		Ctx:        context.Background(),
		State:      state.NewShared(state.New(theme.Dark), nil),
		Controller: ctrl,
		Curriculum: curriculum.Default(),
		Renderer:   feedback.NewRenderer("dark"),
		Palettes: map[theme.Mode]highlight.Palette{
			theme.Dark:  highlight.NewPalette("github-dark"),
			theme.Light: highlight.NewPalette("github"),
		},
		Logger: log.New(io.Discard),
	}
	if provider != nil {
		env.Tutor = tutor.NewService(provider, tutor.DefaultConfig(), nil)
	}
	return env
}

// Key builds a key press for a key name such as "enter" or "ctrl+a".
func Key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	}
	if len(s) > 5 && s[:5] == "ctrl+" {
		return tea.KeyPressMsg{Code: rune(s[5]), Mod: tea.ModCtrl}
	}
	r := []rune(s)
	return tea.KeyPressMsg{Code: r[0], Text: s}
}

// Drain runs cmd and any batched or sequenced commands it returns,
// collecting every message. Tick commands block for their interval.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch m := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range m {
			out = append(out, Drain(c)...)
		}
		return out
	case nil:
		return nil
	}
	return []tea.Msg{msg}
}
