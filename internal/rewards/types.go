package rewards

import (
	"time"

	"github.com/codetutor/codetutor/internal/lang"
)

// ActivityKind identifies what earned points.
type ActivityKind string

const (
	KindAnalyze ActivityKind = "analyze"
	KindEnhance ActivityKind = "enhance"
	KindExecute ActivityKind = "execute"
	KindTask    ActivityKind = "task"
)

// AllKinds returns all activity kinds in display order.
func AllKinds() []ActivityKind {
	return []ActivityKind{KindAnalyze, KindEnhance, KindExecute, KindTask}
}

// DisplayName returns a human-readable label for the kind.
func (k ActivityKind) DisplayName() string {
	switch k {
	case KindAnalyze:
		return "Analysis"
	case KindEnhance:
		return "Enhancement"
	case KindExecute:
		return "Execution"
	case KindTask:
		return "Python Path"
	default:
		return string(k)
	}
}

// Icon returns the display icon for the kind.
func (k ActivityKind) Icon() string {
	switch k {
	case KindAnalyze:
		return "🧐"
	case KindEnhance:
		return "✨"
	case KindExecute:
		return "▶"
	case KindTask:
		return "🎓"
	default:
		return "✦"
	}
}

// Verb is the past tense used in activity descriptions.
func (k ActivityKind) Verb() string {
	switch k {
	case KindAnalyze:
		return "Analyzed"
	case KindEnhance:
		return "Enhanced"
	case KindExecute:
		return "Executed"
	default:
		return "Completed"
	}
}

// Activity is one entry in the recent-activity feed.
type Activity struct {
	ID          string       `json:"id"`
	Kind        ActivityKind `json:"kind"`
	Description string       `json:"description"`
	Points      int          `json:"points"`
	Timestamp   time.Time    `json:"timestamp"`
}

// DayPoints is one bucket of the weekly chart.
type DayPoints struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// MaxRecentActivity caps the activity feed.
const MaxRecentActivity = 5

// Analytics is the persisted learning record.
type Analytics struct {
	ProblemsAnalyzed int                   `json:"problemsAnalyzed"`
	SuccessRate      float64               `json:"successRate"`
	Streak           int                   `json:"streak"`
	SkillAreas       map[lang.Language]int `json:"skillAreas"`
	WeeklyProgress   [7]DayPoints          `json:"weeklyProgress"`
	LastActivity     time.Time             `json:"lastActivity"`
	RecentActivity   []Activity            `json:"recentActivity"`
	PathPoints       int                   `json:"pythonPathPoints"`
	CompletedTasks   []string              `json:"completedPythonPathTasks"`
	Fingerprints     []string              `json:"analyzedCodeHashes"`
}

// Progress pairs the point total with analytics. Both are persisted in
// separate slots but always change together.
type Progress struct {
	Points    int       `json:"points"`
	Analytics Analytics `json:"analytics"`
}

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// NewAnalytics returns an empty record with every language present and the
// week labelled Sun..Sat.
func NewAnalytics() Analytics {
	a := Analytics{SkillAreas: make(map[lang.Language]int)}
	for _, l := range lang.All() {
		a.SkillAreas[l] = 0
	}
	for i, name := range weekdayNames {
		a.WeeklyProgress[i] = DayPoints{Name: name}
	}
	return a
}

// Clone returns a deep copy.
func (a Analytics) Clone() Analytics {
	out := a
	out.SkillAreas = make(map[lang.Language]int, len(a.SkillAreas))
	for k, v := range a.SkillAreas {
		out.SkillAreas[k] = v
	}
	out.RecentActivity = append([]Activity(nil), a.RecentActivity...)
	out.CompletedTasks = append([]string(nil), a.CompletedTasks...)
	out.Fingerprints = append([]string(nil), a.Fingerprints...)
	return out
}

// Clone returns a deep copy.
func (p Progress) Clone() Progress {
	return Progress{Points: p.Points, Analytics: p.Analytics.Clone()}
}

// HasCompleted reports whether the roadmap task id is done.
func (a Analytics) HasCompleted(id string) bool {
	for _, c := range a.CompletedTasks {
		if c == id {
			return true
		}
	}
	return false
}

// HasSkillData reports whether any language has recorded activity.
func (a Analytics) HasSkillData() bool {
	for _, v := range a.SkillAreas {
		if v > 0 {
			return true
		}
	}
	return false
}
