package roadmap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/screen/screentest"
	"github.com/codetutor/codetutor/internal/state"
)

func completeTasks(env *screen.Env, ids ...string) {
	st := env.State.Get()
	p := st.Progress.Clone()
	p.Analytics.CompletedTasks = append(p.Analytics.CompletedTasks, ids...)
	next, keys := st.WithProgress(p)
	env.Commit(next, keys)
}

func TestCursorStartsOnFirstUnfinishedTask(t *testing.T) {
	env := screentest.NewEnv(nil)
	tasks := env.Curriculum.Tasks()
	completeTasks(env, tasks[0].ID, tasks[1].ID)

	s := New(env)
	got, ok := s.Selected()
	if !ok {
		t.Fatal("expected a task under the cursor")
	}
	if got.ID != tasks[2].ID {
		t.Errorf("expected cursor on %q, got %q", tasks[2].ID, got.ID)
	}
}

func TestNavigationSkipsSectionHeaders(t *testing.T) {
	env := screentest.NewEnv(nil)
	s := New(env)
	first := env.Curriculum.Path[0]

	for range first.Tasks {
		s.Update(screentest.Key("down"))
	}
	got, ok := s.Selected()
	if !ok {
		t.Fatal("cursor landed on a header")
	}
	if want := env.Curriculum.Path[1].Tasks[0].ID; got.ID != want {
		t.Errorf("expected %q after the first section, got %q", want, got.ID)
	}

	s.Update(screentest.Key("up"))
	got, _ = s.Selected()
	if want := first.Tasks[len(first.Tasks)-1].ID; got.ID != want {
		t.Errorf("expected %q, got %q", want, got.ID)
	}
}

func TestTabJumpsSection(t *testing.T) {
	env := screentest.NewEnv(nil)
	s := New(env)

	s.Update(screentest.Key("tab"))
	got, _ := s.Selected()
	if want := env.Curriculum.Path[1].Tasks[0].ID; got.ID != want {
		t.Errorf("expected %q, got %q", want, got.ID)
	}
}

func TestEnterOpensTaskKeepingDifficulty(t *testing.T) {
	env := screentest.NewEnv(nil)
	s := New(env)

	_, cmd := s.Update(screentest.Key("enter"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(screen.OpenWorkspaceMsg)
	if !ok {
		t.Fatalf("expected OpenWorkspaceMsg, got %T", cmd())
	}

	w := msg.Open(state.Workspace{Language: lang.JavaScript, Difficulty: lang.Advanced})
	if !w.InTask() {
		t.Fatal("expected task mode")
	}
	first := env.Curriculum.Tasks()[0]
	if w.Task.ID != first.ID || w.Code != first.Code {
		t.Errorf("expected first task loaded, got %+v", w.Task)
	}
	if w.Language != lang.Python {
		t.Errorf("tasks are Python, got %s", w.Language)
	}
	if w.Difficulty != lang.Advanced {
		t.Errorf("difficulty should carry over, got %s", w.Difficulty)
	}
}

func TestViewShowsProgress(t *testing.T) {
	env := screentest.NewEnv(nil)
	completeTasks(env, env.Curriculum.Tasks()[0].ID)
	s := New(env)

	view := s.View(100, 40)
	total := env.Curriculum.TotalTasks()
	if !strings.Contains(view, fmt.Sprintf("1/%d tasks", total)) {
		t.Errorf("expected overall progress in view:\n%s", view)
	}
	if !strings.Contains(view, "✓") {
		t.Error("expected a completed mark")
	}
	if !strings.Contains(view, strings.ToUpper(env.Curriculum.Path[0].Title)) {
		t.Error("expected section header")
	}
}
