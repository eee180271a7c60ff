package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/chatwrapped/internal/analytics"
)

type keyHint struct {
	key, desc string
}

func (m Model) renderHeader(w int, title, info string) string {
	left := " " + titleStyle.Render(title)
	right := info + " " + dimStyle.Render(m.themeLabel) + " "
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
		right = ""
	}
	line := fitAnsiWidth(left+strings.Repeat(" ", gap)+right, w)
	return line + "\n" + renderSeparator(w)
}

func (m Model) renderFooter(w int, hints []keyHint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = helpKeyStyle.Render(h.key) + " " + helpStyle.Render(h.desc)
	}
	return renderSeparator(w) + "\n" + fitAnsiWidth(" "+strings.Join(parts, helpStyle.Render(" · ")), w)
}

func renderSeparator(w int) string {
	if w <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("━", w))
}

func (m Model) renderResults(w, h int) string {
	header := m.renderHeader(w, "WhatsApp Wrapped 🎉", helpKeyStyle.Render("n")+dimStyle.Render(" ← Upload New Chat"))
	footer := m.renderFooter(w, []keyHint{
		{"1-4/tab", "switch view"}, {"↑/↓", "scroll"}, {"n", "new chat"},
		{"t", "theme"}, {"?", "help"}, {"q", "quit"},
	})

	fixed := m.renderSummary(w) + "\n\n" + m.renderViewTabs() + "\n"
	contentH := h - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(fixed)

	body := strings.Split(m.renderView(m.results.Current(), w), "\n")
	visible := max(1, contentH)
	indicator := ""
	if len(body) > visible {
		visible = max(1, visible-1)
		indicator = renderScrollIndicator(w, m.scroll, visible, len(body))
	}
	offset := clamp(m.scroll, 0, max(0, len(body)-visible))
	end := min(len(body), offset+visible)
	shown := strings.Join(body[offset:end], "\n")
	if indicator != "" {
		shown = padToSize(shown, w, visible) + "\n" + indicator
	}

	return header + "\n" + fixed + padToSize(shown, w, max(1, contentH)) + "\n" + footer
}

func (m Model) renderSummary(w int) string {
	cards := m.results.Summary()
	cardW := clamp((w-2)/len(cards)-2, 12, 24)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = statCardStyle.Width(cardW).Render(
			statCardValueStyle.Render(fmt.Sprintf("%d", c.Value)) + "\n" + statCardLabelStyle.Render(c.Label),
		)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if lipgloss.Width(row) > w {
		// Narrow terminals get a two-by-two grid.
		row = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, rendered[0], rendered[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, rendered[2], rendered[3]),
		)
	}
	lines := strings.Split(row, "\n")
	for i := range lines {
		lines[i] = fitAnsiWidth(" "+lines[i], w)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderViewTabs() string {
	current := m.results.Selection()
	parts := make([]string, len(analytics.Selections))
	for i, sel := range analytics.Selections {
		label := fmt.Sprintf("%d:%s", i+1, sel.Label())
		if sel == current {
			parts[i] = tabActiveStyle.Render(label)
		} else {
			parts[i] = tabInactiveStyle.Render(label)
		}
	}
	return " " + strings.Join(parts, "")
}

// renderView draws one projection. Empty views show only their message and
// never construct a chart.
func (m Model) renderView(v analytics.ViewData, w int) string {
	lines := []string{"", "  " + chartTitleStyle.Render(v.Title), ""}
	if v.Empty {
		lines = append(lines, "  "+dimStyle.Render(v.EmptyMessage))
		return strings.Join(lines, "\n")
	}

	if v.Selection == analytics.SelectLinks {
		lines = append(lines, renderLinkGroups(v.Links, w))
		return strings.Join(lines, "\n")
	}

	if chart := renderColumnChart(v.Primary.Entries, viewColor(int(v.Selection)), w-4); chart != "" {
		for _, l := range strings.Split(chart, "\n") {
			lines = append(lines, "  "+l)
		}
		lines = append(lines, "")
	}
	lines = append(lines, renderRanking(v.Primary, w))

	if v.Secondary != nil {
		lines = append(lines, "", "  "+chartTitleStyle.Render("Mentions Given"), "")
		lines = append(lines, renderRanking(*v.Secondary, w))
	}
	return strings.Join(lines, "\n")
}
