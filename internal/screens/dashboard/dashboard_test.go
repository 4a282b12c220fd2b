package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/codetutor/codetutor/internal/curriculum"
	"github.com/codetutor/codetutor/internal/lang"
	"github.com/codetutor/codetutor/internal/rewards"
	"github.com/codetutor/codetutor/internal/screen/screentest"
)

var wed = time.Date(2026, 10, 14, 12, 0, 0, 0, time.Local)

func activeProgress(t *testing.T) rewards.Progress {
	t.Helper()
	l := rewards.Ledger{Clock: func() time.Time { return wed }, NewID: func() string { return "id" }}
	p := rewards.Progress{Analytics: rewards.NewAnalytics()}
	p, g := l.AwardForActivity(p, "print(1)", lang.Python, 5, rewards.KindAnalyze)
	if !g.Granted() {
		t.Fatal("expected a grant")
	}
	p, _ = l.AwardForTask(p, curriculum.Default().Tasks()[0])
	return p
}

func TestRenderEmpty(t *testing.T) {
	out := Render(rewards.Progress{Analytics: rewards.NewAnalytics()}, curriculum.Default(), 120, wed)

	for _, want := range []string{"Total points", "Python Path", "Streak · next 5", "No activity yet.", "Analyze some code", "Level: Beginner", "Sun"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in dashboard", want)
		}
	}
}

func TestRenderActivity(t *testing.T) {
	p := activeProgress(t)
	out := Render(p, curriculum.Default(), 120, wed.Add(2*time.Hour))

	if !strings.Contains(out, "Analyzed Python code.") {
		t.Error("expected the analysis in recent activity")
	}
	if !strings.Contains(out, "2h ago") {
		t.Error("expected relative timestamps")
	}
	if strings.Contains(out, "Analyze some code") {
		t.Error("skill chart should replace the empty hint")
	}
	if !strings.Contains(out, "pts to next") {
		t.Error("expected points to the next level")
	}
}

func TestWeeklyZeroedAfterRollover(t *testing.T) {
	p := activeProgress(t)
	if got := weekly(p.Analytics, wed); !strings.Contains(got, "  5") && !strings.Contains(got, " 10") {
		t.Errorf("expected this week's points in the chart:\n%s", got)
	}
	nextWeek := wed.AddDate(0, 0, 7)
	got := weekly(p.Analytics, nextWeek)
	if strings.Contains(got, "█") {
		t.Errorf("stale week should render no bars:\n%s", got)
	}
}

func TestAgo(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{50 * time.Hour, "2d ago"},
	}
	for _, tt := range tests {
		if got := ago(tt.d); got != tt.want {
			t.Errorf("ago(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestViewScrollClamps(t *testing.T) {
	s := New(screentest.NewEnv(nil))
	for i := 0; i < 200; i++ {
		s.Update(screentest.Key("down"))
	}
	view := s.View(120, 10)
	if got := strings.Count(view, "\n") + 1; got != 10 {
		t.Errorf("expected 10 lines, got %d", got)
	}
	if s.top == 0 {
		t.Error("expected the dashboard to scroll")
	}
}
