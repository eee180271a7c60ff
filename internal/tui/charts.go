package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/samber/lo"

	"github.com/janekbaraniewski/chatwrapped/internal/analytics"
)

const (
	columnChartHeight = 10
	minColumnChartW   = 20
)

// renderColumnChart draws one bar per entry with ntcharts. Callers must not
// pass an empty slice; empty views render their message instead.
func renderColumnChart(entries []analytics.Entry, color lipgloss.Color, w int) string {
	if len(entries) == 0 || w < minColumnChartW {
		return ""
	}
	barStyle := lipgloss.NewStyle().Foreground(color)
	data := lo.Map(entries, func(e analytics.Entry, _ int) barchart.BarData {
		return barchart.BarData{
			Label: ansi.Truncate(e.Name, 6, ""),
			Values: []barchart.BarValue{{
				Name:  e.Name,
				Value: float64(e.Value),
				Style: barStyle,
			}},
		}
	})

	bc := barchart.New(w, columnChartHeight, barchart.WithStyles(chartAxisStyle, chartLabelStyle))
	bc.PushAll(data)
	bc.Draw()
	return bc.View()
}

// renderRanking lists entries in order as numbered horizontal bars.
func renderRanking(r analytics.Ranking, w int) string {
	var lines []string
	lines = append(lines, sectionHeaderStyle.Render("  "+r.Heading))
	if r.Empty {
		if r.EmptyMessage != "" {
			lines = append(lines, dimStyle.Render("  "+r.EmptyMessage))
		}
		return strings.Join(lines, "\n")
	}

	labelW := lo.Max(lo.Map(r.Entries, func(e analytics.Entry, _ int) int {
		return lipgloss.Width(e.Name)
	}))
	labelW = clamp(labelW, 6, 24)
	captionW := lo.Max(lo.Map(r.Entries, func(e analytics.Entry, _ int) int {
		return lipgloss.Width(e.Caption)
	}))
	indexW := len(fmt.Sprint(len(r.Entries)))
	barW := clamp(w-labelW-captionW-indexW-10, 4, 40)

	maxVal := lo.Max(lo.Map(r.Entries, func(e analytics.Entry, _ int) int { return e.Value }))
	if maxVal == 0 {
		maxVal = 1
	}

	palette := seriesPalette()
	for i, e := range r.Entries {
		color := palette[i%len(palette)]
		name := e.Name
		if lipgloss.Width(name) > labelW {
			name = ansi.Truncate(name, labelW, "…")
		}
		barLen := e.Value * barW / maxVal
		if barLen < 1 && e.Value > 0 {
			barLen = 1
		}

		idx := rankIndexStyle.Render(fmt.Sprintf("%*d.", indexW, i+1))
		label := rankNameStyle.Width(labelW).Render(name)
		bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", barLen))
		track := lipgloss.NewStyle().Foreground(colorSurface1).Render(strings.Repeat("░", barW-barLen))
		value := rankValueStyle.Render(e.Caption)

		lines = append(lines, fitAnsiWidth(fmt.Sprintf("  %s %s %s%s  %s", idx, label, bar, track, value), w))
	}
	return strings.Join(lines, "\n")
}

// renderLinkGroups renders the per-user platform table.
func renderLinkGroups(groups []analytics.LinkGroup, w int) string {
	var lines []string
	for i, g := range groups {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, "  "+lipgloss.NewStyle().Bold(true).Foreground(seriesPalette()[i%len(seriesPalette())]).Render(g.User))
		platformW := clamp(lo.Max(lo.Map(g.Platforms, func(e analytics.Entry, _ int) int {
			return lipgloss.Width(e.Name)
		})), 8, 24)
		for _, p := range g.Platforms {
			line := "    " + labelStyle.Width(platformW).Render(p.Name) + "  " + rankValueStyle.Render(p.Caption)
			lines = append(lines, fitAnsiWidth(line, w))
		}
	}
	return strings.Join(lines, "\n")
}
