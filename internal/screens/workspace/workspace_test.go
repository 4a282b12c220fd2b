package workspace

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/llm"
	"github.com/codetutor/codetutor/internal/router"
	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/screen/screentest"
	"github.com/codetutor/codetutor/internal/screens/codemodal"
	"github.com/codetutor/codetutor/internal/state"
)

func newWorkspace(responses ...llm.MockResponse) (*Screen, *screen.Env) {
	var provider llm.Provider
	if len(responses) > 0 {
		provider = llm.NewMockProvider(responses...)
	}
	env := screentest.NewEnv(provider)
	s := New(env)
	s.SetOrigin(0, 3)
	s.View(120, 34)
	return s, env
}

// drainStream feeds every chunk of the active stream back into the screen.
func drainStream(t *testing.T, s *Screen) {
	t.Helper()
	for i := 0; s.stream != nil; i++ {
		if i > 100 {
			t.Fatal("stream did not end")
		}
		msg := s.stream.Next()()
		if msg == nil {
			t.Fatal("stream produced no message")
		}
		s.Update(msg)
	}
}

func TestStartsWithSample(t *testing.T) {
	s, env := newWorkspace()
	w := s.Workspace()
	if w.Language != lang.Python || w.Difficulty != lang.Beginner {
		t.Errorf("unexpected start workspace %v/%v", w.Language, w.Difficulty)
	}
	if w.Code != env.Curriculum.Samples[lang.Python][0] {
		t.Errorf("expected the first Python sample, got %q", w.Code)
	}
}

func TestAnalyzeWithoutProvider(t *testing.T) {
	s, _ := newWorkspace()
	s.Update(screentest.Key("ctrl+a"))

	if s.pipeline.State() != feedback.Errored {
		t.Fatalf("expected error state, got %v", s.pipeline.State())
	}
	if !strings.Contains(s.View(120, 34), "No AI provider configured") {
		t.Error("expected provider hint in the feedback pane")
	}
}

func TestAnalyzeStreamsAndAwards(t *testing.T) {
	s, env := newWorkspace(llm.MockResponse{Chunks: []string{
		"### 🧐 Code Analysis\nLooks ",
		"good.\n### 💡 Suggestions\nAdd tests.",
	}})

	_, cmd := s.Update(screentest.Key("ctrl+a"))
	if cmd == nil {
		t.Fatal("expected stream command")
	}
	if !s.Busy() {
		t.Fatal("workspace should be busy while streaming")
	}
	drainStream(t, s)

	if s.pipeline.State() != feedback.Complete {
		t.Fatalf("expected complete, got %v", s.pipeline.State())
	}
	if len(s.sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(s.sections))
	}
	p := env.State.Get().Progress
	if want := rewards.AnalyzePoints(lang.Beginner); p.Points != want {
		t.Errorf("expected %d points, got %d", want, p.Points)
	}
	if p.Analytics.ProblemsAnalyzed != 1 {
		t.Errorf("expected one analysis recorded, got %d", p.Analytics.ProblemsAnalyzed)
	}
	if !strings.Contains(s.status, "+5 points") {
		t.Errorf("expected points notice, got %q", s.status)
	}
}

func TestSplitMarkerAwardsTaskOnce(t *testing.T) {
	s, env := newWorkspace(llm.MockResponse{Chunks: []string{
		"\n", "[TASK", "_SUCC", "ESS]", "\n### 🧐 Code Analysis\n", "Correct!",
	}})
	task := env.Curriculum.Tasks()[0]
	s.Load(env.Controller.OpenTask(s.Workspace(), task))

	s.Update(screentest.Key("ctrl+a"))
	for i := 0; s.stream != nil; i++ {
		if i > 100 {
			t.Fatal("stream did not end")
		}
		s.Update(s.stream.Next()())
		if s.stream != nil && env.State.Get().Progress.Points != 0 {
			t.Fatal("task awarded before the stream completed")
		}
	}

	p := env.State.Get().Progress
	if p.Points != task.Points {
		t.Errorf("expected %d points, got %d", task.Points, p.Points)
	}
	if len(p.Analytics.CompletedTasks) != 1 || len(p.Analytics.RecentActivity) != 1 {
		t.Errorf("expected one completion, got tasks=%v activity=%d",
			p.Analytics.CompletedTasks, len(p.Analytics.RecentActivity))
	}
	if got := s.pipeline.Display(); got != "### 🧐 Code Analysis\nCorrect!" {
		t.Errorf("display = %q", got)
	}
}

func TestBusyIgnoresSecondAnalyze(t *testing.T) {
	s, _ := newWorkspace(llm.MockResponse{Chunks: []string{"### A\nx"}})
	s.Update(screentest.Key("ctrl+a"))
	first := s.stream

	_, cmd := s.Update(screentest.Key("ctrl+r"))
	if cmd != nil || s.stream != first {
		t.Error("a busy workspace should ignore new requests")
	}
}

func TestTaskSolvedOffersNextTask(t *testing.T) {
	s, env := newWorkspace(llm.MockResponse{Chunks: []string{
		feedback.SuccessMarker + "\n### 🧐 Code Analysis\nCorrect!",
	}})
	task := env.Curriculum.Tasks()[0]
	s.Load(env.Controller.OpenTask(s.Workspace(), task))

	s.Update(screentest.Key("ctrl+a"))
	drainStream(t, s)

	p := env.State.Get().Progress
	if !p.Analytics.HasCompleted(task.ID) {
		t.Fatal("task should be completed")
	}
	if p.Points != task.Points {
		t.Errorf("expected %d points, got %d", task.Points, p.Points)
	}
	if strings.Contains(s.pipeline.Display(), feedback.SuccessMarker) {
		t.Error("marker should be hidden")
	}
	if !s.canAdvance() {
		t.Fatal("next task should be offered")
	}

	_, cmd := s.Update(screentest.Key("ctrl+n"))
	if cmd == nil {
		t.Fatal("expected a notice for the next task")
	}
	next := env.Curriculum.Tasks()[1]
	if w := s.Workspace(); !w.InTask() || w.Task.ID != next.ID || w.Code != next.Code {
		t.Errorf("expected task %s loaded, got %+v", next.ID, w.Task)
	}
}

func TestLastTaskNavigatesToPath(t *testing.T) {
	s, env := newWorkspace()
	tasks := env.Curriculum.Tasks()
	last := tasks[len(tasks)-1]
	s.Load(env.Controller.OpenTask(s.Workspace(), last))
	s.completed = &last

	_, cmd := s.Update(screentest.Key("ctrl+n"))
	var navigated, congratulated bool
	for _, msg := range screentest.Drain(cmd) {
		switch msg := msg.(type) {
		case screen.NavigateMsg:
			navigated = msg.Page == screen.PagePath
		case screen.NoticeMsg:
			congratulated = strings.Contains(msg.Text, "Congratulations")
		}
	}
	if !navigated || !congratulated {
		t.Errorf("expected completion notice and path navigation")
	}
	if s.Workspace().InTask() {
		t.Error("task should be cleared at the end of the path")
	}
}

func TestRefactorOpensCodeModal(t *testing.T) {
	s, _ := newWorkspace(llm.MockResponse{Chunks: []string{
		"### Code Analysis\nFine.\n### ✨ Enhanced Code\n```python\nprint('hi')\n```",
	}})
	s.Update(screentest.Key("ctrl+r"))
	drainStream(t, s)

	if s.code == nil {
		t.Fatal("expected enhanced code section")
	}
	if got := s.code.Code(); got != "print('hi')" {
		t.Errorf("unexpected code %q", got)
	}

	_, cmd := s.Update(screentest.Key("ctrl+o"))
	if cmd == nil {
		t.Fatal("expected modal push")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if _, ok := push.Screen.(*codemodal.Modal); !ok {
		t.Errorf("expected code modal, got %T", push.Screen)
	}

	before := s.Workspace().Code
	s.Update(codemodal.ApplyMsg{Code: "print('hi')"})
	if s.Workspace().Code != "print('hi')" {
		t.Error("apply should replace editor content")
	}

	s.Update(screentest.Key("ctrl+z"))
	if s.Workspace().Code != before {
		t.Errorf("undo after apply gave %q, want %q", s.Workspace().Code, before)
	}
}

func TestStreamErrorKeepsPartial(t *testing.T) {
	s, env := newWorkspace(llm.MockResponse{
		Chunks: []string{"### Code Analysis\npartial"},
		Err:    &llm.ErrProviderUnavailable{Err: errors.New("down")},
	})
	s.Update(screentest.Key("ctrl+a"))
	drainStream(t, s)

	if s.pipeline.State() != feedback.Errored {
		t.Fatalf("expected error state, got %v", s.pipeline.State())
	}
	if !strings.Contains(s.pipeline.Display(), "partial") {
		t.Error("partial text should be kept")
	}
	if env.State.Get().Progress.Points != 0 {
		t.Error("a failed analysis should not award points")
	}
}

func TestExecuteAwardsPoints(t *testing.T) {
	s, env := newWorkspace(llm.MockResponse{
		Content: json.RawMessage(`{"output":"Hello","error":"","isSuccess":true}`),
	})

	_, cmd := s.Update(screentest.Key("ctrl+e"))
	if cmd == nil || !s.executing {
		t.Fatal("expected execution to start")
	}
	s.Update(cmd())

	if s.execution == nil || s.execution.Output != "Hello" {
		t.Fatalf("unexpected execution %+v", s.execution)
	}
	if got := env.State.Get().Progress.Points; got != rewards.ExecutePoints {
		t.Errorf("expected %d points, got %d", rewards.ExecutePoints, got)
	}
}

func TestExecuteUnsupportedLanguage(t *testing.T) {
	s, env := newWorkspace(llm.MockResponse{})
	s.Load(state.Workspace{Language: lang.C, Difficulty: lang.Beginner, Code: "int main(){}"})

	_, cmd := s.Update(screentest.Key("ctrl+e"))
	s.Update(cmd())

	if s.execution == nil || s.execution.Error != "Execution for C is not supported." {
		t.Fatalf("unexpected execution %+v", s.execution)
	}
	if env.State.Get().Progress.Points != 0 {
		t.Error("unsupported execution should not award points")
	}
}

func TestStaleExecutionDropped(t *testing.T) {
	s, _ := newWorkspace(llm.MockResponse{
		Content: json.RawMessage(`{"output":"Hello","error":"","isSuccess":true}`),
	})
	_, cmd := s.Update(screentest.Key("ctrl+e"))
	s.Load(s.env.Controller.Clear(s.Workspace()))
	s.Update(cmd())

	if s.execution != nil {
		t.Error("result for an old workspace should be dropped")
	}
}

func TestLoadAbandonsStream(t *testing.T) {
	s, _ := newWorkspace(llm.MockResponse{Chunks: []string{"### A\nx", "y"}})
	s.Update(screentest.Key("ctrl+a"))
	old := s.stream

	s.Load(s.env.Controller.Clear(s.Workspace()))
	if msg := old.Next()(); msg != nil {
		t.Errorf("abandoned stream should go quiet, got %T", msg)
	}
	if s.pipeline.State() != feedback.Idle {
		t.Errorf("expected idle pipeline, got %v", s.pipeline.State())
	}
}

func TestLanguageLockedInTask(t *testing.T) {
	s, env := newWorkspace()
	s.Load(env.Controller.OpenTask(s.Workspace(), env.Curriculum.Tasks()[0]))

	_, cmd := s.Update(screentest.Key("ctrl+g"))
	if s.Workspace().Language != lang.Python {
		t.Error("language should stay Python in a task")
	}
	notice, ok := cmd().(screen.NoticeMsg)
	if !ok || !notice.IsError {
		t.Errorf("expected an error notice, got %v", notice)
	}

	_, cmd = s.Update(screentest.Key("ctrl+l"))
	if !s.Workspace().InTask() || cmd == nil {
		t.Error("samples should be refused in a task")
	}
}

func TestChangeLanguageLoadsSample(t *testing.T) {
	s, env := newWorkspace()
	s.Update(screentest.Key("ctrl+g"))

	w := s.Workspace()
	if w.Language != lang.JavaScript {
		t.Fatalf("expected JavaScript, got %v", w.Language)
	}
	if w.Code != env.Curriculum.Samples[lang.JavaScript][0] {
		t.Errorf("expected a JavaScript sample, got %q", w.Code)
	}
}

func TestClearResetsToPlaceholder(t *testing.T) {
	s, env := newWorkspace()
	s.Update(screentest.Key("ctrl+k"))
	if got := s.Workspace().Code; got != env.Curriculum.Placeholder(lang.Python) {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestTypingEditsCode(t *testing.T) {
	s, _ := newWorkspace()
	s.Update(screentest.Key("ctrl+k"))
	before := s.Workspace().Code
	s.Update(screentest.Key("x"))
	if got := s.Workspace().Code; got != before+"x" {
		t.Errorf("expected typed character appended, got %q", got)
	}

	s.Update(screentest.Key("ctrl+f"))
	s.Update(screentest.Key("y"))
	if got := s.Workspace().Code; got != before+"x" {
		t.Error("keys should not reach the editor while feedback has focus")
	}
	if !s.Back() || s.focus != focusEditor {
		t.Error("back should return focus to the editor")
	}
	if s.Back() {
		t.Error("back with the editor focused should not be consumed")
	}
}

func TestSplitterDrag(t *testing.T) {
	s, _ := newWorkspace()
	c := s.container()
	_, handle, _ := s.splitter.Panes(c)

	s.Update(tea.MouseClickMsg{X: handle.X, Y: handle.Y + 2, Button: tea.MouseLeft})
	if !s.splitter.Dragging() {
		t.Fatal("click on the handle should start a drag")
	}
	s.Update(tea.MouseMotionMsg{X: c.X + c.W*3/4, Y: handle.Y + 2, Button: tea.MouseLeft})
	s.Update(tea.MouseReleaseMsg{X: c.X + c.W*3/4, Y: handle.Y + 2, Button: tea.MouseLeft})

	if s.splitter.Dragging() {
		t.Error("release should end the drag")
	}
	if s.splitter.Percent < 70 || s.splitter.Percent > 80 {
		t.Errorf("expected about 75%%, got %.1f", s.splitter.Percent)
	}
}
