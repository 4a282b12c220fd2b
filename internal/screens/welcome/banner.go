package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/codetutor/codetutor/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗ ██████╗ ███████╗████████╗██╗   ██╗████████╗ ██████╗ ██████╗
 ██╔════╝██╔═══██╗██╔══██╗██╔════╝╚══██╔══╝██║   ██║╚══██╔══╝██╔═══██╗██╔══██╗
 ██║     ██║   ██║██║  ██║█████╗     ██║   ██║   ██║   ██║   ██║   ██║██████╔╝
 ██║     ██║   ██║██║  ██║██╔══╝     ██║   ██║   ██║   ██║   ██║   ██║██╔══██╗
 ╚██████╗╚██████╔╝██████╔╝███████╗   ██║   ╚██████╔╝   ██║   ╚██████╔╝██║  ██║
  ╚═════╝ ╚═════╝ ╚═════╝ ╚══════╝   ╚═╝    ╚═════╝    ╚═╝    ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "C O D E T U T O R"

// RenderBanner returns the banner styled in the primary color. Terminals
// narrower than 80 columns get the compact form.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 80 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
