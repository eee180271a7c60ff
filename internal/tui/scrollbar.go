package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderScrollIndicator draws a one-line horizontal track showing which slice
// of a tall results view is on screen. Empty when everything fits.
func renderScrollIndicator(width, offset, visible, total int) string {
	if width <= 0 || visible <= 0 || total <= visible {
		return ""
	}
	maxOffset := total - visible
	offset = clamp(offset, 0, maxOffset)

	prefix := "  ↕ "
	trackW := width - lipgloss.Width(prefix) - 2
	if trackW < 6 {
		return fitAnsiWidth(fmt.Sprintf("%s%d/%d", prefix, offset, maxOffset), width)
	}

	thumbW := clamp(int(math.Round(float64(visible)/float64(total)*float64(trackW))), 1, trackW)
	thumbPos := 0
	if trackW > thumbW {
		thumbPos = int(math.Round(float64(offset) / float64(maxOffset) * float64(trackW-thumbW)))
	}

	rail := lipgloss.NewStyle().Foreground(colorSurface1)
	thumb := lipgloss.NewStyle().Foreground(colorAccent)
	arrow := lipgloss.NewStyle().Foreground(colorDim)

	line := prefix +
		arrow.Render("▲") +
		rail.Render(strings.Repeat("─", thumbPos)) +
		thumb.Render(strings.Repeat("━", thumbW)) +
		rail.Render(strings.Repeat("─", trackW-thumbPos-thumbW)) +
		arrow.Render("▼")
	return fitAnsiWidth(line, width)
}

func fitAnsiWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	out := ansi.Cut(s, 0, width)
	if pad := width - lipgloss.Width(out); pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	return out
}

func padToSize(content string, w, h int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	if len(lines) > h {
		lines = lines[:h]
	}
	return strings.Join(lines, "\n")
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
