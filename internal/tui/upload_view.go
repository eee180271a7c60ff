package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/chatwrapped/internal/upload"
)

var exportSteps = []string{
	"Open WhatsApp and go to the group chat",
	"Tap Menu (three dots) → More → Export chat",
	`Choose "Without Media"`,
	"Upload the .txt file here",
}

func (m Model) renderUpload(w, h int) string {
	header := m.renderHeader(w, "📱 WhatsApp Wrapped", dimStyle.Render(m.opts.BaseURL))
	footer := m.renderFooter(w, m.uploadHints())
	contentH := max(3, h-lipgloss.Height(header)-lipgloss.Height(footer))

	var body string
	if m.picking {
		body = m.renderPicker(w)
	} else {
		body = m.renderDropZone(w)
	}
	return header + "\n" + padToSize(body, w, contentH) + "\n" + footer
}

func (m Model) renderDropZone(w int) string {
	st := m.ctl.State()
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  "+subtitleStyle.Render("Upload your exported group chat to see amazing insights"))
	lines = append(lines, "")

	zone := []string{
		"📂 Drag and drop your WhatsApp chat export here",
		dimStyle.Render("or"),
		helpKeyStyle.Render("ctrl+o") + labelStyle.Render(" Browse Files"),
		"",
		m.pathInput.View(),
	}
	boxW := clamp(w-6, 20, 76)
	style := dropZoneStyle
	if st.Phase.InFlight() {
		style = dropZoneActiveStyle
	}
	box := style.Width(boxW).Align(lipgloss.Center).Render(strings.Join(zone, "\n"))
	for _, l := range strings.Split(box, "\n") {
		lines = append(lines, "  "+l)
	}
	lines = append(lines, "")

	if status := m.renderStatus(st); status != "" {
		lines = append(lines, "  "+status)
		lines = append(lines, "")
	}
	if m.notice != "" {
		lines = append(lines, "  "+noticeStyle.Render("⚠ "+m.notice))
		lines = append(lines, "")
	}

	lines = append(lines, "  "+sectionHeaderStyle.Render("📝 How to Export Your Chat:"))
	for i, step := range exportSteps {
		lines = append(lines, "   "+rankIndexStyle.Render(string(rune('1'+i))+".")+" "+valueStyle.Render(step))
	}
	if m.opts.WatchDir != "" {
		lines = append(lines, "")
		lines = append(lines, "  "+dimStyle.Render("Watching "+m.opts.WatchDir+" for new exports"))
	}
	if u := m.update; u != nil {
		lines = append(lines, "")
		lines = append(lines, "  "+noticeStyle.Render("Update available: "+u.CurrentVersion+" → "+u.LatestVersion))
		if u.UpgradeHint != "" {
			lines = append(lines, "  "+dimStyle.Render(u.UpgradeHint))
		}
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fitAnsiWidth(l, w)
	}
	return strings.Join(out, "\n")
}

func (m Model) renderStatus(st upload.State) string {
	switch st.Phase {
	case upload.PhaseProbing:
		return m.spin.View() + " " + labelStyle.Render("Checking backend at "+m.opts.BaseURL+"...")
	case upload.PhaseUploading:
		return m.spin.View() + " " + labelStyle.Render("Processing "+st.File.Name+"...")
	case upload.PhaseError:
		return errorStyle.Render("✗ " + st.Message)
	}
	return ""
}

func (m Model) renderPicker(w int) string {
	lines := []string{
		"",
		"  " + sectionHeaderStyle.Render("Browse Files") + "  " + dimStyle.Render(m.picker.CurrentDirectory),
		"",
	}
	for _, l := range strings.Split(m.picker.View(), "\n") {
		lines = append(lines, fitAnsiWidth("  "+l, w))
	}
	if m.notice != "" {
		lines = append(lines, "", "  "+noticeStyle.Render("⚠ "+m.notice))
	}
	return strings.Join(lines, "\n")
}

func (m Model) uploadHints() []keyHint {
	if m.picking {
		return []keyHint{{"↑/↓", "move"}, {"enter", "open/select"}, {"←", "up"}, {"esc", "back"}}
	}
	hints := []keyHint{{"enter", "upload"}, {"ctrl+o", "browse"}}
	switch ph := m.ctl.State().Phase; {
	case ph == upload.PhaseError:
		hints = append(hints, keyHint{"esc", "dismiss"})
	case ph.InFlight():
		hints = append(hints, keyHint{"esc", "abandon"})
	}
	return append(hints, keyHint{"ctrl+t", "theme"}, keyHint{"f1", "help"}, keyHint{"ctrl+c", "quit"})
}
