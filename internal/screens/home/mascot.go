package home

import (
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/ui/theme"
)

// MascotVariant selects which Liki art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // streak milestone reached
	MascotOffline                   // no AI provider configured
)

const mascotIdle = `╭─────╮
│ ● ● │
│  ‿  │
│ </> │
╰─────╯`

const mascotCelebrating = `╭─────╮
│ ★ ★ │
│  ◡  │
│ </> │
╰─╥─╥─╯
  ╚═╝`

const mascotOffline = `╭─────╮
│ - - │ z
│  ─  │
│ </> │
╰─────╯`

// MascotFor picks the variant from the learner's streak and whether AI is
// available.
func MascotFor(streak int, online bool) MascotVariant {
	switch {
	case !online:
		return MascotOffline
	case streak >= 5:
		return MascotCelebrating
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Accent
	case MascotOffline:
		art = mascotOffline
		fg = theme.TextDim
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}

func renderMascot(v MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(v))
}
