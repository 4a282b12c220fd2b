package components

import (
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/harmonica"

	"github.com/codetutor/codetutor/internal/feedback"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

// LoaderInterval is the simulated progress step.
const LoaderInterval = 50 * time.Millisecond

// LoaderTickMsg advances a running loader. Ticks from an earlier run are
// recognised by their generation and dropped.
type LoaderTickMsg struct {
	gen int
}

// Loader is the analysis progress indicator. The simulated percentage
// climbs one point per tick toward the ceiling; the drawn bar follows it on
// a spring so jumps (such as the final 100) ease in.
type Loader struct {
	Width int

	pct      int
	pos, vel float64
	spring   harmonica.Spring
	spin     spinner.Model
	running  bool
	gen      int
}

// NewLoader returns a stopped loader.
func NewLoader(width int) Loader {
	return Loader{
		Width:  width,
		spring: harmonica.NewSpring(harmonica.FPS(int(time.Second/LoaderInterval)), 8.0, 0.9),
		spin: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

// Start resets the loader to 0 and begins ticking.
func (l *Loader) Start() tea.Cmd {
	l.gen++
	l.pct, l.pos, l.vel = 0, 0, 0
	l.running = true
	return tea.Batch(l.tick(), l.spin.Tick)
}

// Complete jumps the target to 100 and stops the simulation. The bar keeps
// easing until it arrives.
func (l *Loader) Complete() {
	l.pct = feedback.ProgressDone
	l.running = false
}

// Stop halts the loader without completing it.
func (l *Loader) Stop() {
	l.running = false
	l.gen++
}

// Running reports whether the simulation is ticking.
func (l Loader) Running() bool { return l.running }

// Percent returns the simulated percentage.
func (l Loader) Percent() int { return l.pct }

// Message returns the caption for the current percentage.
func (l Loader) Message() string { return feedback.ProgressMessage(l.pct) }

func (l Loader) tick() tea.Cmd {
	gen := l.gen
	return tea.Tick(LoaderInterval, func(time.Time) tea.Msg {
		return LoaderTickMsg{gen: gen}
	})
}

// Update advances the simulation and the spinner.
func (l Loader) Update(msg tea.Msg) (Loader, tea.Cmd) {
	switch msg := msg.(type) {
	case LoaderTickMsg:
		if msg.gen != l.gen {
			return l, nil
		}
		if l.running {
			l.pct = feedback.NextProgress(l.pct)
		}
		l.pos, l.vel = l.spring.Update(l.pos, l.vel, float64(l.pct))
		if l.running || l.pct-int(l.pos+0.5) != 0 {
			return l, l.tick()
		}
		l.pos, l.vel = float64(l.pct), 0
		return l, nil
	case spinner.TickMsg:
		if !l.running {
			return l, nil
		}
		var cmd tea.Cmd
		l.spin, cmd = l.spin.Update(msg)
		return l, cmd
	}
	return l, nil
}

// View renders the spinner, caption and bar.
func (l Loader) View() string {
	caption := l.Message()
	if l.running {
		caption = l.spin.View() + " " + caption
	}
	bar := ProgressBar{
		Percent:     min(max(l.pos, 0), 100) / 100,
		ShowPercent: true,
		Width:       l.Width,
	}
	return theme.Body.Render(caption) + "\n\n" + bar.View()
}
