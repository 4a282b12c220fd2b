package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Mode selects the light or dark palette.
type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

// ParseMode returns Light for "light" and Dark otherwise.
func ParseMode(s string) Mode {
	if s == string(Light) {
		return Light
	}
	return Dark
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Palette is one set of UI colors.
type Palette struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
}

var palettes = map[Mode]Palette{
	Dark: {
		Primary:   lipgloss.Color("#06B6D4"), // Cyan
		Secondary: lipgloss.Color("#10B981"), // Emerald
		Accent:    lipgloss.Color("#F59E0B"), // Amber
		Success:   lipgloss.Color("#22C55E"),
		Error:     lipgloss.Color("#EF4444"),
		Text:      lipgloss.Color("#F0F6FC"),
		TextDim:   lipgloss.Color("#8B949E"),
		Bg:        lipgloss.Color("#0D1117"),
		BgCard:    lipgloss.Color("#161B22"),
		Border:    lipgloss.Color("#30363D"),
	},
	Light: {
		Primary:   lipgloss.Color("#0891B2"),
		Secondary: lipgloss.Color("#059669"),
		Accent:    lipgloss.Color("#D97706"),
		Success:   lipgloss.Color("#16A34A"),
		Error:     lipgloss.Color("#DC2626"),
		Text:      lipgloss.Color("#111827"),
		TextDim:   lipgloss.Color("#6B7280"),
		Bg:        lipgloss.Color("#F9FAFB"),
		BgCard:    lipgloss.Color("#FFFFFF"),
		Border:    lipgloss.Color("#E5E7EB"),
	},
}

// Color palette. Apply swaps these in place; they are only read on the
// UI goroutine.
var (
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color
	Success   color.Color
	Error     color.Color
	Text      color.Color
	TextDim   color.Color
	Bg        color.Color
	BgCard    color.Color
	Border    color.Color
)

// Typography
var (
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
)

// Layout
var (
	Card        lipgloss.Style
	Panel       lipgloss.Style
	PanelActive lipgloss.Style
)

// States
var (
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Correct    lipgloss.Style
	Incorrect  lipgloss.Style
)

// Components
var (
	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style
	ButtonActive   lipgloss.Style
	ButtonInactive lipgloss.Style
	ButtonDisabled lipgloss.Style
)

// Chroma styles used for syntax colors in each mode. Config may override
// them before the first Apply.
var ChromaStyles = map[Mode]string{
	Dark:  "github-dark",
	Light: "github",
}

var current = Dark

func init() {
	Apply(Dark)
}

// Current returns the active mode.
func Current() Mode { return current }

// ChromaStyle returns the syntax style for the active mode.
func ChromaStyle() string { return ChromaStyles[current] }

// GlamourStyle returns the glamour standard style for the active mode.
func GlamourStyle() string { return string(current) }

// Apply switches every color and style to mode m.
func Apply(m Mode) {
	p, ok := palettes[m]
	if !ok {
		m, p = Dark, palettes[Dark]
	}
	current = m

	Primary, Secondary, Accent = p.Primary, p.Secondary, p.Accent
	Success, Error = p.Success, p.Error
	Text, TextDim = p.Text, p.TextDim
	Bg, BgCard, Border = p.Bg, p.BgCard, p.Border

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
		Foreground(TextDim).
		Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border)

	PanelActive = Panel.
		BorderForeground(Primary)

	Selected = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Unselected = lipgloss.NewStyle().
		Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	ProgressFilled = lipgloss.NewStyle().
		Background(Primary)

	ProgressEmpty = lipgloss.NewStyle().
		Background(Border)

	ButtonActive = lipgloss.NewStyle().
		Background(Primary).
		Foreground(Bg).
		Bold(true).
		Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)

	ButtonDisabled = lipgloss.NewStyle().
		Foreground(TextDim).
		Faint(true).
		Padding(0, 2)
}
