package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/proctor/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██████╗  ██████╗  ██████╗████████╗ ██████╗ ██████╗
 ██╔══██╗██╔══██╗██╔═══██╗██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗
 ██████╔╝██████╔╝██║   ██║██║        ██║   ██║   ██║██████╔╝
 ██╔═══╝ ██╔══██╗██║   ██║██║        ██║   ██║   ██║██╔══██╗
 ██║     ██║  ██║╚██████╔╝╚██████╗   ██║   ╚██████╔╝██║  ██║
 ╚═╝     ╚═╝  ╚═╝ ╚═════╝  ╚═════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "P R O C T O R"

// RenderBanner returns the banner styled in the primary color, falling back
// to a compact form below 64 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 64 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
