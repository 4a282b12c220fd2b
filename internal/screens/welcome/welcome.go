package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/router"
	"github.com/codetutor/codetutor/internal/screen"
	"github.com/codetutor/codetutor/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 600 * time.Millisecond
	phase2End    = 1800 * time.Millisecond
	totalDur     = 3500 * time.Millisecond
)

// Tagline is shown under the banner.
const Tagline = "Learn to code, one line at a time."

// symbols swirl in toward the center during the first phase.
var symbols = []string{"{", "}", "<", "/>", "( )", "[ ]", ";", "=>"}

type tickMsg time.Time

// WelcomeScreen is the splash shown at launch. It hands over to the screen
// produced by next after the animation, or on the first key.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by next.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.tickCount++
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
		return w, tick()

	case tea.KeyPressMsg, tea.MouseClickMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	nextScreen := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: nextScreen}
	}
}

// swirl renders the symbols on a ring that shrinks as the first phase
// progresses.
func (w *WelcomeScreen) swirl() string {
	const size = 9
	grid := make([][]string, size)
	for i := range grid {
		grid[i] = make([]string, size)
		for j := range grid[i] {
			grid[i][j] = "   "
		}
	}

	frac := float64(w.elapsed) / float64(phase1End)
	radius := int(float64(size/2) * (1 - frac))
	c := size / 2
	ring := [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}}

	colors := []lipgloss.Style{
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true),
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true),
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
	}
	for i, d := range ring {
		k := (i + w.tickCount) % len(ring)
		r, col := c+d[0]*radius, c+d[1]*radius
		sym := symbols[k%len(symbols)]
		grid[r][col] = colors[i%len(colors)].Render(lipgloss.PlaceHorizontal(3, lipgloss.Center, sym))
	}

	lines := make([]string, size)
	for i, row := range grid {
		lines[i] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	if w.elapsed < phase1End {
		sections = append(sections, w.swirl())
	} else {
		logo := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("</>")
		sections = append(sections, logo)
	}

	if w.elapsed >= phase2End {
		sections = append(sections, "", RenderBanner(width), "")
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline)
		sections = append(sections, tagline)

		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", hint)
	}

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
