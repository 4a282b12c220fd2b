// Package rewards computes points, streaks and analytics for learner
// activity. Ledger methods are pure: they take a Progress snapshot and
// return a new one, leaving persistence to the caller.
package rewards

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/lang"
)

// Grant describes the effect of an award call.
type Grant struct {
	Points    int
	Duplicate bool
	Activity  *Activity
}

// Granted reports whether the call changed anything.
func (g Grant) Granted() bool { return g.Points > 0 }

// Ledger applies awards. Clock and NewID are injectable for tests.
type Ledger struct {
	Clock func() time.Time
	NewID func() string
}

// NewLedger returns a ledger using the wall clock and random UUIDs.
func NewLedger() Ledger {
	return Ledger{Clock: time.Now, NewID: uuid.NewString}
}

func (l Ledger) now() time.Time {
	if l.Clock == nil {
		return time.Now()
	}
	return l.Clock()
}

func (l Ledger) newID() string {
	if l.NewID == nil {
		return uuid.NewString()
	}
	return l.NewID()
}

// AwardForTask grants a roadmap task's points once. Repeat completions are
// reported as Duplicate and change nothing.
func (l Ledger) AwardForTask(p Progress, task curriculum.Task) (Progress, Grant) {
	if p.Analytics.HasCompleted(task.ID) {
		return p, Grant{Duplicate: true}
	}

	now := l.now()
	next := p.Clone()
	next.Points += task.Points
	next.Analytics.PathPoints += task.Points
	next.Analytics.CompletedTasks = append(next.Analytics.CompletedTasks, task.ID)
	bucket(&next.Analytics, now, task.Points)

	act := Activity{
		ID:          l.newID(),
		Kind:        KindTask,
		Description: fmt.Sprintf("Completed Python Path task: \"%s\"", task.Title),
		Points:      task.Points,
		Timestamp:   now,
	}
	prepend(&next.Analytics, act)
	return next, Grant{Points: task.Points, Activity: &act}
}

// AwardForActivity grants points for free-form work. Code already seen
// (modulo whitespace) earns nothing; non-positive points are ignored.
func (l Ledger) AwardForActivity(p Progress, code string, language lang.Language, points int, kind ActivityKind) (Progress, Grant) {
	if points <= 0 {
		return p, Grant{}
	}
	fp := Fingerprint(code)
	for _, seen := range p.Analytics.Fingerprints {
		if seen == fp {
			return p, Grant{Duplicate: true}
		}
	}

	now := l.now()
	next := p.Clone()
	next.Points += points
	if kind == KindAnalyze {
		next.Analytics.ProblemsAnalyzed++
	}
	next.Analytics.Streak++
	if next.Analytics.SkillAreas == nil {
		next.Analytics.SkillAreas = make(map[lang.Language]int)
	}
	next.Analytics.SkillAreas[language]++
	bucket(&next.Analytics, now, points)

	act := Activity{
		ID:          l.newID(),
		Kind:        kind,
		Description: fmt.Sprintf("%s %s code.", kind.Verb(), language),
		Points:      points,
		Timestamp:   now,
	}
	prepend(&next.Analytics, act)
	next.Analytics.Fingerprints = append(next.Analytics.Fingerprints, fp)
	return next, Grant{Points: points, Activity: &act}
}

func prepend(a *Analytics, act Activity) {
	feed := make([]Activity, 0, MaxRecentActivity)
	feed = append(feed, act)
	for _, old := range a.RecentActivity {
		if len(feed) == MaxRecentActivity {
			break
		}
		feed = append(feed, old)
	}
	a.RecentActivity = feed
}
