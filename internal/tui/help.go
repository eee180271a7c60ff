package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	heading string
	keys    []keyHint
}

var helpSections = []helpSection{
	{
		heading: "Upload",
		keys: []keyHint{
			{"drag & drop", "Drop a .txt export onto the terminal"},
			{"⏎ Enter", "Upload the typed or pasted path"},
			{"Ctrl+O", "Browse files (.txt only)"},
			{"Esc", "Clear input / dismiss error"},
			{"Ctrl+T", "Cycle theme"},
		},
	},
	{
		heading: "Results",
		keys: []keyHint{
			{"1 2 3 4", "Messages · Media · Mentions · Links"},
			{"Tab / → / l", "Next view"},
			{"Shift+Tab / ← / h", "Previous view"},
			{"↑↓ / j k", "Scroll"},
			{"PgUp / PgDn", "Scroll a page"},
			{"n / Esc", "Upload a new chat"},
			{"t", "Cycle theme"},
		},
	},
	{
		heading: "Global",
		keys: []keyHint{
			{"? / F1", "Toggle this help"},
			{"q / Ctrl+C", "Quit"},
		},
	},
}

// renderHelpOverlay draws a centered key reference. Any key dismisses it.
func (m Model) renderHelpOverlay(screenW, screenH int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	desc := lipgloss.NewStyle().Foreground(colorText)
	hint := lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(colorLavender).Render("  chatwrapped help"),
		"",
	}
	for _, s := range helpSections {
		lines = append(lines, heading.Render("  "+s.heading), "")
		for _, k := range s.keys {
			lines = append(lines, "    "+helpKeyStyle.Render(padRight(k.key, 20))+desc.Render(k.desc))
		}
		lines = append(lines, "")
	}
	if m.opts.BaseURL != "" {
		lines = append(lines, "  "+labelStyle.Render("Backend: ")+valueStyle.Render(m.opts.BaseURL), "")
	}
	lines = append(lines, "  "+hint.Render("Press any key to dismiss"))

	contentW := 0
	for _, l := range lines {
		contentW = max(contentW, lipgloss.Width(l))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorBase).
		Padding(1, 2).
		Width(min(contentW+4, screenW-4)).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}

// padRight pads s with spaces to width display cells.
func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
