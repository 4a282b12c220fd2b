// Package workspace is the tutor page: a code editor beside the streamed
// AI feedback, with execution prediction and roadmap task handling.
package workspace

import (
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/editor"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/screens/codemodal"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/tutor"
	"github.com/codetutor/codetutor/internal/ui/components"
	"github.com/codetutor/codetutor/internal/ui/layout"
)

type focus int

const (
	focusEditor focus = iota
	focusFeedback
)

// Rows used above and below the split panes.
const (
	infoHeight    = 1
	buttonsHeight = 3
)

// Screen is the tutor workspace. The root model keeps a single instance so
// the editor survives navigation.
type Screen struct {
	env *screen.Env
	ws  state.Workspace

	editor   editor.Model
	splitter layout.Splitter
	focus    focus
	feedback viewport.Model

	pipeline feedback.Pipeline
	loader   components.Loader
	stream   *screen.Stream
	sections []feedback.Section
	code     *feedback.CodeSection
	open     map[int]bool
	cursor   int

	executing bool
	execution *tutor.Execution
	execGen   int

	// completed is the task solved by the last action, kept until the
	// workspace changes so ctrl+n can advance past it.
	completed *curriculum.Task
	status    string

	paletteName   string
	originX       int
	originY       int
	width, height int
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.Origin          = (*Screen)(nil)
	_ screen.BackHandler     = (*Screen)(nil)
)

// New creates the workspace with the first-launch sample loaded.
func New(env *screen.Env) *Screen {
	ws := env.Controller.Start()
	pal := env.Palette()
	s := &Screen{
		env:         env,
		ws:          ws,
		editor:      editor.New(ws.Language, pal, ws.Code),
		splitter:    layout.NewSplitter(),
		feedback:    viewport.New(),
		loader:      components.NewLoader(30),
		open:        map[int]bool{},
		paletteName: pal.Name,
	}
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Code Tutor" }

// SetOrigin records where the content area starts on the terminal.
func (s *Screen) SetOrigin(x, y int) {
	s.originX, s.originY = x, y
}

// Close ends any splitter drag when the page is left.
func (s *Screen) Close() {
	s.splitter.Release()
}

// Workspace returns the current workspace with the editor text.
func (s *Screen) Workspace() state.Workspace {
	w := s.ws
	w.Code = s.editor.Value()
	return w
}

// Busy reports whether an analysis or execution is in flight.
func (s *Screen) Busy() bool {
	return s.pipeline.Busy() || s.executing
}

// Load replaces the workspace. Any analysis in flight is abandoned and the
// feedback pane is cleared.
func (s *Screen) Load(w state.Workspace) {
	s.stream.Abandon()
	s.stream = nil
	s.loader.Stop()
	s.pipeline.Reset()
	s.sections, s.code = nil, nil
	s.open = map[int]bool{}
	s.cursor = 0
	s.executing = false
	s.execution = nil
	s.execGen++
	s.completed = nil
	s.status = ""

	s.ws = w
	s.editor.SetLanguage(w.Language)
	s.editor.SetValue(w.Code)
	s.feedback.GotoTop()
	s.setFocus(focusEditor)
}

func (s *Screen) setFocus(f focus) {
	s.focus = f
	if f == focusEditor {
		s.editor.Focus()
	} else {
		s.editor.Blur()
	}
}

// container is the split area in terminal coordinates.
func (s *Screen) container() layout.Rect {
	return layout.Rect{
		X: s.originX,
		Y: s.originY + infoHeight,
		W: s.width,
		H: max(s.height-infoHeight-buttonsHeight, 0),
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.StreamChunkMsg:
		if msg.Stream != s.stream {
			msg.Stream.Release()
			return s, nil
		}
		return s, s.onChunk(msg.Text)

	case screen.StreamEndMsg:
		if msg.Stream != s.stream {
			return s, nil
		}
		return s, s.onStreamEnd(msg.Err)

	case executionMsg:
		if msg.gen != s.execGen {
			return s, nil
		}
		return s, s.onExecution(msg)

	case components.LoaderTickMsg:
		var cmd tea.Cmd
		s.loader, cmd = s.loader.Update(msg)
		return s, cmd

	case codemodal.ApplyMsg:
		s.editor.Replace(msg.Code)
		s.setFocus(focusEditor)
		return s, screen.Notice("Enhanced code applied to the editor.", false)

	case tea.PasteMsg:
		if s.focus == focusEditor {
			var cmd tea.Cmd
			s.editor, cmd = s.editor.Update(msg)
			return s, cmd
		}
		return s, nil

	case tea.MouseClickMsg:
		return s, s.onMouseClick(msg)
	case tea.MouseMotionMsg:
		m := msg.Mouse()
		s.splitter.Drag(s.container(), m.X, m.Y)
		return s, nil
	case tea.MouseReleaseMsg:
		s.splitter.Release()
		return s, nil
	case tea.MouseWheelMsg:
		return s, s.onMouseWheel(msg)

	case tea.KeyPressMsg:
		return s, s.onKey(msg)
	}

	// Spinner ticks and other loader traffic.
	var cmd tea.Cmd
	s.loader, cmd = s.loader.Update(msg)
	return s, cmd
}

func (s *Screen) onMouseClick(msg tea.MouseClickMsg) tea.Cmd {
	m := msg.Mouse()
	if m.Button != tea.MouseLeft {
		return nil
	}
	c := s.container()
	if s.splitter.Press(c, m.X, m.Y) {
		return nil
	}
	a, _, b := s.splitter.Panes(c)
	switch {
	case a.Contains(m.X, m.Y):
		s.setFocus(focusEditor)
	case b.Contains(m.X, m.Y):
		s.setFocus(focusFeedback)
	}
	return nil
}

func (s *Screen) onMouseWheel(msg tea.MouseWheelMsg) tea.Cmd {
	m := msg.Mouse()
	_, _, b := s.splitter.Panes(s.container())
	if b.Contains(m.X, m.Y) {
		switch m.Button {
		case tea.MouseWheelUp:
			s.feedback.ScrollUp(3)
		case tea.MouseWheelDown:
			s.feedback.ScrollDown(3)
		}
		return nil
	}
	if !s.editor.Focused() {
		return nil
	}
	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return cmd
}

func (s *Screen) onKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+a":
		return s.analyze(feedback.ModeAnalyze)
	case "ctrl+r":
		return s.analyze(feedback.ModeRefactor)
	case "ctrl+e":
		return s.execute()
	case "ctrl+l":
		return s.loadSample()
	case "ctrl+k":
		return s.clear()
	case "ctrl+n":
		return s.nextTask()
	case "ctrl+o":
		return s.openCode()
	case "ctrl+g":
		return s.cycleLanguage()
	case "ctrl+d":
		return s.cycleDifficulty()
	case "ctrl+f":
		if s.focus == focusEditor {
			s.setFocus(focusFeedback)
		} else {
			s.setFocus(focusEditor)
		}
		return nil
	}

	if s.focus == focusFeedback {
		return s.onFeedbackKey(msg)
	}

	var cmd tea.Cmd
	s.editor, cmd = s.editor.Update(msg)
	return cmd
}

func (s *Screen) onFeedbackKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, max(len(s.sections)-1, 0))
	case "enter", "space":
		if s.cursor < len(s.sections) {
			s.open[s.cursor] = !s.isOpen(s.cursor)
		}
	case "pgup":
		s.feedback.ScrollUp(max(s.feedback.Height()-1, 1))
	case "pgdown":
		s.feedback.ScrollDown(max(s.feedback.Height()-1, 1))
	case "home", "g":
		s.feedback.GotoTop()
	case "end", "G":
		s.feedback.GotoBottom()
	}
	return nil
}

// Back returns focus to the editor. It reports false when the editor
// already has focus, letting esc leave the page.
func (s *Screen) Back() bool {
	if s.focus == focusFeedback {
		s.setFocus(focusEditor)
		return true
	}
	return false
}

func (s *Screen) isOpen(i int) bool {
	if v, ok := s.open[i]; ok {
		return v
	}
	return feedback.DefaultOpen(i)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "^A", Description: "Analyze"},
		{Key: "^R", Description: "Enhance"},
		{Key: "^E", Description: "Run"},
	}
	if s.ws.InTask() {
		hints = append(hints, layout.KeyHint{Key: "^K", Description: "Exit task"})
	} else {
		hints = append(hints,
			layout.KeyHint{Key: "^L", Description: "Sample"},
			layout.KeyHint{Key: "^K", Description: "Clear"},
			layout.KeyHint{Key: "^G", Description: "Language"},
		)
	}
	hints = append(hints, layout.KeyHint{Key: "^D", Description: "Level"})
	if s.canAdvance() {
		hints = append(hints, layout.KeyHint{Key: "^N", Description: "Next task"})
	}
	if s.code != nil {
		hints = append(hints, layout.KeyHint{Key: "^O", Description: "Code"})
	}
	hints = append(hints,
		layout.KeyHint{Key: "^F", Description: "Focus"},
		layout.KeyHint{Key: "Esc", Description: "Home"},
	)
	return hints
}
