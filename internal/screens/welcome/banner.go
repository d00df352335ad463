package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/learnai/internal/ui/theme"
)

const bannerArt = `
 ██╗     ███████╗ █████╗ ██████╗ ███╗   ██╗     █████╗ ██╗
 ██║     ██╔════╝██╔══██╗██╔══██╗████╗  ██║    ██╔══██╗██║
 ██║     █████╗  ███████║██████╔╝██╔██╗ ██║    ███████║██║
 ██║     ██╔══╝  ██╔══██║██╔══██╗██║╚██╗██║    ██╔══██║██║
 ███████╗███████╗██║  ██║██║  ██║██║ ╚████║    ██║  ██║██║
 ╚══════╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═══╝    ╚═╝  ╚═╝╚═╝`

const bannerCompact = "L E A R N  A I"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 62

// RenderBanner returns the LEARN AI banner styled in the primary color,
// falling back to a single line on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
