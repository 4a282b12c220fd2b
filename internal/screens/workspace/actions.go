package workspace

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/router"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/screens/codemodal"
	"github.com/codetutor/codetutor/internal/state"
	"github.com/codetutor/codetutor/internal/tutor"
)

const noProviderMessage = "No AI provider configured. Set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY and restart."

type executionMsg struct {
	gen int
	ex  tutor.Execution
	err error
}

func (s *Screen) analyze(mode feedback.Mode) tea.Cmd {
	if s.Busy() {
		return nil
	}
	w := s.Workspace()
	if strings.TrimSpace(w.Code) == "" {
		return screen.Notice("Write some code first.", true)
	}
	if err := s.pipeline.Start(mode, w.InTask()); err != nil {
		return nil
	}
	s.ws = w
	s.sections, s.code = nil, nil
	s.open = map[int]bool{}
	s.cursor = 0
	s.completed = nil
	s.status = ""
	s.feedback.GotoTop()

	if s.env.Tutor == nil {
		s.pipeline.Fail(errors.New(noProviderMessage))
		return nil
	}

	s.stream = screen.NewStream(s.env.Tutor.Analyze(s.env.Ctx, tutor.AnalyzeInput{
		Code:       w.Code,
		Language:   w.Language,
		Difficulty: w.Difficulty,
		Task:       w.Task,
		Mode:       mode,
	}))
	return tea.Batch(s.loader.Start(), s.stream.Next())
}

func (s *Screen) onChunk(text string) tea.Cmd {
	if err := s.pipeline.Append(text); err != nil {
		return nil
	}
	s.reparse()
	return s.stream.Next()
}

func (s *Screen) onStreamEnd(err error) tea.Cmd {
	s.stream = nil
	if err != nil {
		s.loader.Stop()
		s.pipeline.Fail(err)
		s.reparse()
		s.env.Logger.Warn("analysis failed", "mode", s.pipeline.Mode(), "err", err)
		return nil
	}

	out, ferr := s.pipeline.Finish()
	if ferr != nil {
		return nil
	}
	s.loader.Complete()
	s.reparse()

	p := s.env.State.Get().Progress
	d := s.env.Controller.AfterAnalysis(p, s.ws, out.Mode, out)
	return s.apply(d)
}

func (s *Screen) reparse() {
	rest, code := feedback.Split(feedback.Parse(s.pipeline.Display()))
	s.sections, s.code = rest, code
	if s.cursor >= len(s.sections) {
		s.cursor = max(len(s.sections)-1, 0)
	}
}

func (s *Screen) execute() tea.Cmd {
	if s.Busy() {
		return nil
	}
	w := s.Workspace()
	if strings.TrimSpace(w.Code) == "" {
		return screen.Notice("Write some code first.", true)
	}
	s.ws = w
	s.execution = nil
	s.completed = nil

	if s.env.Tutor == nil {
		s.execution = &tutor.Execution{Error: noProviderMessage}
		return nil
	}

	s.executing = true
	s.execGen++
	gen, svc, ctx := s.execGen, s.env.Tutor, s.env.Ctx
	return func() tea.Msg {
		ex, err := svc.Predict(ctx, w.Code, w.Language, w.Task)
		return executionMsg{gen: gen, ex: ex, err: err}
	}
}

func (s *Screen) onExecution(msg executionMsg) tea.Cmd {
	s.executing = false
	if msg.err != nil {
		s.env.Logger.Warn("execution failed", "language", s.ws.Language, "err", msg.err)
		var limit *tutor.ErrDailyLimit
		if errors.As(msg.err, &limit) {
			s.execution = &tutor.Execution{Error: limit.Error()}
		} else {
			s.execution = &tutor.Execution{Error: tutor.UnexpectedErrorMessage(msg.err)}
		}
		return nil
	}

	ex := msg.ex
	s.execution = &ex
	d := s.env.Controller.AfterExecution(s.env.State.Get().Progress, s.ws, ex)
	return s.apply(d)
}

// apply commits a reward decision and reports it in the footer.
func (s *Screen) apply(d state.Decision) tea.Cmd {
	if d.Changed() {
		next, keys := s.env.State.Get().WithProgress(d.Progress)
		s.env.Commit(next, keys)
	}

	var notes []string
	if d.Completed != nil {
		s.completed = d.Completed
		if _, ok := s.env.Curriculum.Next(d.Completed.ID); ok {
			notes = append(notes, "✅ Task solved! Press Ctrl+N for the next task.")
		} else {
			notes = append(notes, "✅ Task solved! Press Ctrl+N to finish the path.")
		}
	}
	switch {
	case d.Grant.Granted():
		notes = append(notes, fmt.Sprintf("+%d points", d.Grant.Points))
	case d.Grant.Duplicate && d.Completed != nil:
		notes = append(notes, "Already completed, no new points.")
	case d.Grant.Duplicate:
		notes = append(notes, "You've already earned points for this code.")
	}
	if d.Milestone > 0 {
		notes = append(notes, fmt.Sprintf("🔥 Streak milestone: %d!", d.Milestone))
	}
	s.status = strings.Join(notes, "  ")
	if s.status == "" {
		return nil
	}
	return screen.Notice(s.status, false)
}

func (s *Screen) canAdvance() bool {
	return s.completed != nil && s.ws.InTask() && s.ws.Task.ID == s.completed.ID && !s.Busy()
}

func (s *Screen) nextTask() tea.Cmd {
	if !s.canAdvance() {
		return nil
	}
	w, ok := s.env.Controller.NextTask(s.Workspace(), *s.completed)
	if !ok {
		s.Load(s.env.Controller.Clear(s.Workspace()))
		return tea.Batch(
			screen.Notice(curriculum.CompletionMessage, false),
			screen.Navigate(screen.PagePath),
		)
	}
	s.Load(w)
	return screen.Notice("🎯 "+w.Task.Title, false)
}

func (s *Screen) loadSample() tea.Cmd {
	if s.Busy() {
		return nil
	}
	if s.ws.InTask() {
		return screen.Notice("Samples are not available during a task. Press Ctrl+K to exit it.", true)
	}
	s.Load(s.env.Controller.LoadSample(s.Workspace()))
	return nil
}

func (s *Screen) clear() tea.Cmd {
	if s.Busy() {
		return nil
	}
	wasTask := s.ws.InTask()
	s.Load(s.env.Controller.Clear(s.Workspace()))
	if wasTask {
		return screen.Notice("Left the task.", false)
	}
	return nil
}

func (s *Screen) cycleLanguage() tea.Cmd {
	if s.Busy() {
		return nil
	}
	if s.ws.InTask() {
		return screen.Notice("Python Path tasks are Python only.", true)
	}
	w := s.Workspace()
	s.Load(s.env.Controller.ChangeLanguage(w, w.Language.Next()))
	return nil
}

func (s *Screen) cycleDifficulty() tea.Cmd {
	if s.Busy() {
		return nil
	}
	s.ws.Difficulty = s.ws.Difficulty.Next()
	return nil
}

func (s *Screen) openCode() tea.Cmd {
	if s.code == nil {
		return nil
	}
	m := codemodal.New(s.code.Code(), s.ws.Language, s.env.Palette)
	return func() tea.Msg { return router.PushScreenMsg{Screen: m} }
}
