package tui

import "github.com/charmbracelet/lipgloss"

// ─── Color Palette ──────────────────────────────────────────────────────────

// Assigned by applyTheme; the initial values are overwritten in init.
var (
	colorBase     lipgloss.Color
	colorMantle   lipgloss.Color
	colorSurface0 lipgloss.Color
	colorSurface1 lipgloss.Color
	colorText     lipgloss.Color
	colorSubtext  lipgloss.Color
	colorDim      lipgloss.Color

	colorAccent   lipgloss.Color
	colorBlue     lipgloss.Color
	colorSapphire lipgloss.Color
	colorGreen    lipgloss.Color
	colorYellow   lipgloss.Color
	colorRed      lipgloss.Color
	colorPeach    lipgloss.Color
	colorTeal     lipgloss.Color
	colorLavender lipgloss.Color
	colorSky      lipgloss.Color
	colorFlamingo lipgloss.Color
)

// ─── Reusable Styles ────────────────────────────────────────────────────────

var (
	titleStyle         lipgloss.Style
	subtitleStyle      lipgloss.Style
	sectionHeaderStyle lipgloss.Style
	helpStyle          lipgloss.Style
	helpKeyStyle       lipgloss.Style
	labelStyle         lipgloss.Style
	valueStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	errorStyle         lipgloss.Style
	noticeStyle        lipgloss.Style

	// Drop zone around the path input
	dropZoneStyle       lipgloss.Style
	dropZoneActiveStyle lipgloss.Style

	// Summary cards on the results screen
	statCardStyle      lipgloss.Style
	statCardValueStyle lipgloss.Style
	statCardLabelStyle lipgloss.Style

	// View tabs (tmux-like)
	tabActiveStyle   lipgloss.Style
	tabInactiveStyle lipgloss.Style

	// Rankings
	rankIndexStyle lipgloss.Style
	rankNameStyle  lipgloss.Style
	rankValueStyle lipgloss.Style

	chartTitleStyle lipgloss.Style
	chartAxisStyle  lipgloss.Style
	chartLabelStyle lipgloss.Style
)

func rebuildStyles() {
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	helpStyle = lipgloss.NewStyle().Foreground(colorDim)
	helpKeyStyle = lipgloss.NewStyle().Foreground(colorSapphire).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	dimStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	noticeStyle = lipgloss.NewStyle().Foreground(colorPeach)

	dropZoneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(1, 2)
	dropZoneActiveStyle = dropZoneStyle.BorderForeground(colorGreen)

	statCardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface1).
		Padding(0, 1).
		Align(lipgloss.Center)
	statCardValueStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	statCardLabelStyle = lipgloss.NewStyle().Foreground(colorSubtext)

	tabActiveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorMantle).
		Background(colorAccent).
		Padding(0, 1)
	tabInactiveStyle = lipgloss.NewStyle().
		Foreground(colorDim).
		Padding(0, 1)

	rankIndexStyle = lipgloss.NewStyle().Foreground(colorDim)
	rankNameStyle = lipgloss.NewStyle().Foreground(colorText)
	rankValueStyle = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)

	chartTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	chartAxisStyle = lipgloss.NewStyle().Foreground(colorDim)
	chartLabelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
}

// viewColor is the bar color of each results tab.
func viewColor(idx int) lipgloss.Color {
	switch idx {
	case 0:
		return colorGreen
	case 1:
		return colorRed
	case 2:
		return colorAccent
	default:
		return colorSapphire
	}
}

// seriesPalette cycles through colors for per-user bars.
func seriesPalette() []lipgloss.Color {
	return []lipgloss.Color{
		colorGreen, colorTeal, colorSapphire, colorPeach,
		colorYellow, colorLavender, colorSky, colorFlamingo,
	}
}
