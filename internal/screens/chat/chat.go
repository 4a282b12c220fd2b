// Package chat is the conversation with Liki, the in-app assistant.
package chat

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/llm"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/tutor"
	"github.com/codetutor/codetutor/internal/ui/components"
	"github.com/codetutor/codetutor/internal/ui/layout"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// MaxInputLength caps one question.
const MaxInputLength = 500

// Screen holds the transcript. The root model keeps one instance so the
// conversation and any reply in flight survive navigation.
type Screen struct {
	env        *screen.Env
	transcript []tutor.ChatMessage
	input      components.TextInput
	view       viewport.Model
	spin       spinner.Model

	stream *screen.Stream
	// replying is the index of the assistant message being streamed.
	replying int
	follow   bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

func New(env *screen.Env) *Screen {
	return &Screen{
		env:        env,
		transcript: []tutor.ChatMessage{tutor.GreetingMessage()},
		input:      components.NewTextInput("Ask Liki about the app…", MaxInputLength),
		view:       viewport.New(),
		spin: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
		replying: -1,
		follow:   true,
	}
}

// Init records that the assistant has been opened and focuses the input.
func (s *Screen) Init() tea.Cmd {
	if next, keys := s.env.State.Get().OpenChatbot(); len(keys) > 0 {
		s.env.Commit(next, keys)
	}
	return s.input.Focus()
}

func (s *Screen) Title() string { return "Chat with Liki" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "^K", Description: "New chat"},
		{Key: "Esc", Description: "Home"},
	}
}

// Transcript returns the conversation so far.
func (s *Screen) Transcript() []tutor.ChatMessage { return s.transcript }

// Busy reports whether a reply is streaming.
func (s *Screen) Busy() bool { return s.stream != nil }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StreamChunkMsg:
		if msg.Stream != s.stream {
			msg.Stream.Release()
			return s, nil
		}
		s.transcript[s.replying].Content += msg.Text
		return s, s.stream.Next()

	case screen.StreamEndMsg:
		if msg.Stream != s.stream {
			return s, nil
		}
		s.finish(msg.Err)
		return s, nil

	case spinner.TickMsg:
		if !s.Busy() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			s.view.ScrollUp(3)
			s.follow = false
		case tea.MouseWheelDown:
			s.view.ScrollDown(3)
			s.follow = s.view.AtBottom()
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return s, s.send()
		case "ctrl+k":
			s.reset()
			return s, nil
		case "pgup":
			s.view.ScrollUp(max(s.view.Height()-1, 1))
			s.follow = false
			return s, nil
		case "pgdown":
			s.view.ScrollDown(max(s.view.Height()-1, 1))
			s.follow = s.view.AtBottom()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) send() tea.Cmd {
	text := s.input.Value()
	if text == "" || s.Busy() {
		return nil
	}
	s.input.SetValue("")
	s.transcript = append(s.transcript, tutor.NewChatMessage(llm.RoleUser, text))
	history := append([]tutor.ChatMessage(nil), s.transcript...)
	s.transcript = append(s.transcript, tutor.NewChatMessage(llm.RoleAssistant, ""))
	s.replying = len(s.transcript) - 1
	s.follow = true

	if s.env.Tutor == nil {
		s.transcript[s.replying].Content = tutor.FailureMessage
		s.replying = -1
		return nil
	}

	s.stream = screen.NewStream(s.env.Tutor.Chat(s.env.Ctx, history))
	return tea.Batch(s.stream.Next(), s.spin.Tick)
}

// finish closes the reply. A failed or empty reply is replaced by the
// fallback message.
func (s *Screen) finish(err error) {
	reply := &s.transcript[s.replying]
	if err != nil {
		s.env.Logger.Warn("chat failed", "err", err)
		reply.Content = tutor.FailureMessage
	} else if strings.TrimSpace(reply.Content) == "" {
		reply.Content = tutor.FailureMessage
	}
	s.stream = nil
	s.replying = -1
}

// reset abandons any reply in flight and starts over from the greeting.
func (s *Screen) reset() {
	s.stream.Abandon()
	s.stream = nil
	s.replying = -1
	s.transcript = []tutor.ChatMessage{tutor.GreetingMessage()}
	s.input.SetValue("")
	s.follow = true
}

func (s *Screen) View(width, height int) string {
	inputBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Width(max(width-2, 10)).
		Render(s.input.View())

	s.view.SetWidth(width)
	s.view.SetHeight(max(height-lipgloss.Height(inputBox), 1))
	s.view.SetContent(s.render(max(width-4, 20)))
	if s.follow {
		s.view.GotoBottom()
	}
	return lipgloss.JoinVertical(lipgloss.Left, s.view.View(), inputBox)
}

func (s *Screen) render(width int) string {
	user := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	bot := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var parts []string
	if s.env.Tutor == nil {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Error).Width(width).
			Render("⚠ No AI provider configured. Liki can't answer until an API key is set."))
	}
	for i, m := range s.transcript {
		if m.Role == llm.RoleUser {
			body := lipgloss.NewStyle().Foreground(theme.Text).Width(width).Render(m.Content)
			parts = append(parts, user.Render("You")+"\n"+body)
			continue
		}
		body := s.env.Renderer.Markdown(m.Content, width)
		if i == s.replying && m.Content == "" {
			body = s.spin.View() + theme.Hint.Render(" Liki is typing…")
		}
		parts = append(parts, bot.Render("🤖 Liki")+"\n"+body)
	}
	return strings.Join(parts, "\n\n")
}
