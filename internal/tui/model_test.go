package tui

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/chatwrapped/internal/client"
	"github.com/janekbaraniewski/chatwrapped/internal/core"
	"github.com/janekbaraniewski/chatwrapped/internal/upload"
)

type stubBackend struct {
	probeErr error
	sendErr  error
	payload  core.AnalyticsPayload
}

func (s stubBackend) Probe(context.Context) error { return s.probeErr }

func (s stubBackend) Send(context.Context, core.Transcript) (core.AnalyticsPayload, error) {
	return s.payload, s.sendErr
}

func testPayload(t *testing.T, raw string) core.AnalyticsPayload {
	t.Helper()
	var p core.AnalyticsPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return p
}

const wrappedJSON = `{
	"total_messages": 120, "total_users": 3,
	"messages_per_user": {"Alice": 80, "Bob": 40},
	"media_stats": {},
	"mentions": {"mentions_received": {}, "mentions_given": {"Alice": 5}},
	"social_media_links": {"Bob": {"youtube": 2}}
}`

var chatFile = core.Transcript{Path: "/tmp/chat.txt", Name: "chat.txt"}

func newTestModel(backend upload.Backend) Model {
	ctl := upload.NewController(backend, zerolog.Nop())
	m := NewModel(context.Background(), ctl, Options{BaseURL: "http://localhost:8000", StartDir: os.TempDir()})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	return updated.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// readyModel drives a model through a successful upload.
func readyModel(t *testing.T, payload core.AnalyticsPayload) Model {
	t.Helper()
	m := newTestModel(stubBackend{payload: payload})
	m, cmd := update(t, m, FileDroppedMsg{Transcript: chatFile})
	if cmd == nil {
		t.Fatal("submit should start the probe")
	}
	if got := m.State().Phase; got != upload.PhaseProbing {
		t.Fatalf("phase after drop = %v, want probing", got)
	}

	m, cmd = update(t, m, probeResultMsg{ticket: 1})
	if got := m.State().Phase; got != upload.PhaseUploading {
		t.Fatalf("phase after probe = %v, want uploading", got)
	}
	if cmd == nil {
		t.Fatal("successful probe should start the transfer")
	}
	msg := cmd()
	if _, ok := msg.(transferResultMsg); !ok {
		t.Fatalf("transfer cmd returned %T", msg)
	}
	m, _ = update(t, m, msg)
	if got := m.State().Phase; got != upload.PhaseReady {
		t.Fatalf("phase after transfer = %v, want ready", got)
	}
	return m
}

func TestViewTooSmall(t *testing.T) {
	m := NewModel(context.Background(), upload.NewController(stubBackend{}, zerolog.Nop()), Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	if !strings.Contains(m.View(), "Terminal too small") {
		t.Fatal("expected too-small message")
	}
}

func TestUploadScreenRendersInstructions(t *testing.T) {
	view := newTestModel(stubBackend{}).View()
	for _, want := range []string{"WhatsApp Wrapped", "How to Export Your Chat", "Without Media", "Browse Files"} {
		if !strings.Contains(view, want) {
			t.Errorf("upload view missing %q", want)
		}
	}
}

func TestResultsScreen(t *testing.T) {
	m := readyModel(t, testPayload(t, wrappedJSON))
	view := m.View()

	for _, want := range []string{"WhatsApp Wrapped 🎉", "Total Messages", "120", "Users with Links", "Messages Per User", "80 messages", "40 messages"} {
		if !strings.Contains(view, want) {
			t.Errorf("results view missing %q", want)
		}
	}
	if strings.Index(view, "80 messages") > strings.Index(view, "40 messages") {
		t.Error("ranking should follow payload order")
	}
}

func TestResultsTabSwitching(t *testing.T) {
	m := readyModel(t, testPayload(t, wrappedJSON))

	m, _ = update(t, m, key("2"))
	if !strings.Contains(m.View(), "No media messages found") {
		t.Error("media tab should show empty state")
	}

	m, _ = update(t, m, key("3"))
	view := m.View()
	if !strings.Contains(view, "No mentions found") {
		t.Error("mentions tab should show empty state")
	}
	if strings.Contains(view, "Most Active Mention Makers") {
		t.Error("given ranking must be hidden when nobody was mentioned")
	}

	m, _ = update(t, m, key("tab"))
	view = m.View()
	if !strings.Contains(view, "Social Media Links Shared") || !strings.Contains(view, "youtube") {
		t.Error("links tab should list platforms")
	}
}

func TestResetReturnsToUpload(t *testing.T) {
	m := readyModel(t, testPayload(t, wrappedJSON))
	m, _ = update(t, m, key("n"))

	if m.State().Phase != upload.PhaseIdle {
		t.Fatalf("phase = %v, want idle", m.State().Phase)
	}
	if !strings.Contains(m.View(), "How to Export Your Chat") {
		t.Error("reset should show the upload screen")
	}
}

func TestProbeFailureShowsMessage(t *testing.T) {
	m := newTestModel(stubBackend{})
	m, _ = update(t, m, FileDroppedMsg{Transcript: chatFile})
	m, cmd := update(t, m, probeResultMsg{ticket: 1, err: &client.ProbeError{Address: "http://localhost:8000"}})

	if cmd != nil {
		t.Error("failed probe must not start a transfer")
	}
	if m.State().Phase != upload.PhaseError {
		t.Fatalf("phase = %v, want error", m.State().Phase)
	}
	if !strings.Contains(m.View(), "Backend unreachable at http://localhost:8000") {
		t.Error("error message not rendered")
	}

	m, _ = update(t, m, key("esc"))
	if m.State().Phase != upload.PhaseIdle {
		t.Fatalf("esc should dismiss the error, phase = %v", m.State().Phase)
	}
}

func TestLateTransferAfterResetIgnored(t *testing.T) {
	m := newTestModel(stubBackend{})
	m, _ = update(t, m, FileDroppedMsg{Transcript: chatFile})
	m, _ = update(t, m, probeResultMsg{ticket: 1})
	m, _ = update(t, m, key("esc"))
	m, _ = update(t, m, transferResultMsg{ticket: 1, err: errors.New("late")})

	if m.State().Phase == upload.PhaseError {
		t.Fatal("stale transfer result overwrote state")
	}
	if m.results != nil {
		t.Fatal("stale result produced a results screen")
	}
}

func TestSecondDropWhileBusy(t *testing.T) {
	m := newTestModel(stubBackend{})
	m, _ = update(t, m, FileDroppedMsg{Transcript: chatFile})
	m, cmd := update(t, m, FileDroppedMsg{Transcript: core.Transcript{Path: "/tmp/other.txt", Name: "other.txt"}})

	if cmd != nil {
		t.Error("busy submit must not start another probe")
	}
	if m.State().File.Name != "chat.txt" {
		t.Errorf("in-flight file = %q, want chat.txt", m.State().File.Name)
	}
	if !strings.Contains(m.View(), "already in progress") {
		t.Error("busy notice not shown")
	}
}

func TestEnterRejectsNonTextFile(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(stubBackend{})
	m.pathInput.SetValue(img)
	m, cmd := update(t, m, key("enter"))

	if cmd != nil {
		t.Error("non-text file must not be submitted")
	}
	if m.State().Phase != upload.PhaseIdle {
		t.Fatalf("phase = %v, want idle", m.State().Phase)
	}
	if !strings.Contains(m.View(), "Please choose a .txt chat export") {
		t.Error("rejection notice not shown")
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	m := readyModel(t, testPayload(t, wrappedJSON))
	m, _ = update(t, m, key("?"))
	if !strings.Contains(m.View(), "Press any key to dismiss") {
		t.Fatal("help overlay not shown")
	}
	m, _ = update(t, m, key("x"))
	if m.showHelp {
		t.Fatal("any key should dismiss help")
	}
}

func TestAppUpdateNoticeOnUploadScreen(t *testing.T) {
	m := newTestModel(stubBackend{})
	m, _ = update(t, m, AppUpdateMsg{CurrentVersion: "v1.0.0", LatestVersion: "v1.1.0", UpgradeHint: "brew upgrade chatwrapped"})

	view := m.View()
	if !strings.Contains(view, "Update available: v1.0.0 → v1.1.0") {
		t.Error("update notice not shown")
	}
	if !strings.Contains(view, "brew upgrade chatwrapped") {
		t.Error("upgrade hint not shown")
	}
}
