package state

import (
	"math/rand/v2"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/tutor"
)

// Workspace is what the editor is currently working on.
type Workspace struct {
	Code       string
	Language   lang.Language
	Difficulty lang.Difficulty
	Task       *curriculum.Task
}

// InTask reports whether a roadmap task is active.
func (w Workspace) InTask() bool { return w.Task != nil }

// Decision is the outcome of applying reward rules to a finished action.
type Decision struct {
	Progress rewards.Progress
	Grant    rewards.Grant

	// Completed is the active task when the action solved it, even if it
	// had been completed before.
	Completed *curriculum.Task

	// Milestone is the streak milestone crossed by this action, or 0.
	Milestone int
}

// Changed reports whether Progress differs from the input.
func (d Decision) Changed() bool { return d.Grant.Granted() }

// Controller applies the tutor's reward and editor-reset rules.
type Controller struct {
	Ledger     rewards.Ledger
	Curriculum *curriculum.Curriculum
	// Rand returns a value in [0, n). It picks samples.
	Rand func(n int) int
}

// NewController returns a controller over the default curriculum.
func NewController(c *curriculum.Curriculum) Controller {
	return Controller{Ledger: rewards.NewLedger(), Curriculum: c, Rand: rand.IntN}
}

func (c Controller) decide(before, after rewards.Progress, g rewards.Grant) Decision {
	d := Decision{Progress: after, Grant: g}
	if m, ok := rewards.ReachedMilestone(before.Analytics.Streak, after.Analytics.Streak); ok {
		d.Milestone = m
	}
	return d
}

func (c Controller) completeTask(p rewards.Progress, task *curriculum.Task) Decision {
	next, g := c.Ledger.AwardForTask(p, *task)
	d := c.decide(p, next, g)
	d.Completed = task
	return d
}

// AfterAnalysis rewards a completed analysis or refactor. In task mode only
// a solved task pays; otherwise the difficulty table applies.
func (c Controller) AfterAnalysis(p rewards.Progress, w Workspace, mode feedback.Mode, out feedback.Outcome) Decision {
	if w.InTask() {
		if out.TaskSolved {
			return c.completeTask(p, w.Task)
		}
		return Decision{Progress: p}
	}

	kind := rewards.KindAnalyze
	if mode == feedback.ModeRefactor {
		kind = rewards.KindEnhance
	}
	next, g := c.Ledger.AwardForActivity(p, w.Code, w.Language, rewards.PointsFor(kind, w.Difficulty), kind)
	return c.decide(p, next, g)
}

// AfterExecution rewards a predicted run. A task pays when the prediction
// says it was solved; free-form code pays for any clean run.
func (c Controller) AfterExecution(p rewards.Progress, w Workspace, ex tutor.Execution) Decision {
	if w.InTask() {
		if ex.TaskSolved {
			return c.completeTask(p, w.Task)
		}
		return Decision{Progress: p}
	}
	if ex.Failed() {
		return Decision{Progress: p}
	}
	next, g := c.Ledger.AwardForActivity(p, w.Code, w.Language, rewards.ExecutePoints, rewards.KindExecute)
	return c.decide(p, next, g)
}

func (c Controller) sample(l lang.Language) string {
	pick := c.Rand
	if pick == nil {
		pick = rand.IntN
	}
	return c.Curriculum.SampleFrom(l, pick)
}

// Start returns the workspace shown on first launch.
func (c Controller) Start() Workspace {
	return Workspace{Language: lang.Python, Difficulty: lang.Beginner, Code: c.sample(lang.Python)}
}

// LoadSample replaces the code with a random beginner sample. It is only
// offered outside task mode; it leaves a task anyway.
func (c Controller) LoadSample(w Workspace) Workspace {
	w.Task = nil
	w.Code = c.sample(w.Language)
	return w
}

// Clear leaves task mode, if active, and resets to the placeholder.
func (c Controller) Clear(w Workspace) Workspace {
	w.Task = nil
	w.Code = c.Curriculum.Placeholder(w.Language)
	return w
}

// ChangeLanguage switches language. Outside a task the editor gets a
// fresh sample; in a task the language is locked.
func (c Controller) ChangeLanguage(w Workspace, l lang.Language) Workspace {
	if w.InTask() || w.Language == l {
		return w
	}
	w.Language = l
	w.Code = c.sample(l)
	return w
}

// OpenTask loads a roadmap task into a Python workspace.
func (c Controller) OpenTask(w Workspace, task curriculum.Task) Workspace {
	t := task
	w.Task = &t
	w.Language = lang.Python
	w.Code = task.Code
	return w
}

// OpenSnippet loads library code outside task mode.
func (c Controller) OpenSnippet(w Workspace, l lang.Language, s curriculum.Snippet) Workspace {
	w.Task = nil
	w.Language = l
	if s.Difficulty != "" {
		w.Difficulty = s.Difficulty
	}
	w.Code = s.Code
	return w
}

// NextTask advances past completed. ok is false at the end of the path.
func (c Controller) NextTask(w Workspace, completed curriculum.Task) (Workspace, bool) {
	next, ok := c.Curriculum.Next(completed.ID)
	if !ok {
		return w, false
	}
	return c.OpenTask(w, next), true
}
