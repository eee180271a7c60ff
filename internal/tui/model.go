package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/janekbaraniewski/chatwrapped/internal/analytics"
	"github.com/janekbaraniewski/chatwrapped/internal/core"
	"github.com/janekbaraniewski/chatwrapped/internal/upload"
)

// FileDroppedMsg submits a transcript that arrived outside the upload screen,
// e.g. from the watched drop folder.
type FileDroppedMsg struct {
	Transcript core.Transcript
}

// AppUpdateMsg announces a newer release found by the startup check.
type AppUpdateMsg struct {
	CurrentVersion string
	LatestVersion  string
	UpgradeHint    string
}

type probeResultMsg struct {
	ticket upload.Ticket
	err    error
}

type transferResultMsg struct {
	ticket  upload.Ticket
	payload core.AnalyticsPayload
	err     error
}

type Options struct {
	BaseURL  string
	WatchDir string
	StartDir string
}

// Model is the Bubble Tea program state. The upload controller is only ever
// touched from Update; probe and transfer run inside commands and report back
// with the ticket they were started for.
type Model struct {
	ctx  context.Context
	ctl  *upload.Controller
	opts Options

	results *analytics.ViewModel

	pathInput  textinput.Model
	picker     filepicker.Model
	picking    bool
	spin       spinner.Model
	notice     string
	showHelp   bool
	scroll     int
	themeLabel string
	update     *AppUpdateMsg

	width  int
	height int
}

func NewModel(ctx context.Context, ctl *upload.Controller, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "path/to/WhatsApp Chat.txt"
	ti.Prompt = "📄 "
	ti.CharLimit = 1024
	ti.Width = 48
	ti.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".txt"}
	fp.ShowHidden = false
	fp.Height = 12
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:        ctx,
		ctl:        ctl,
		opts:       opts,
		pathInput:  ti,
		picker:     fp,
		spin:       sp,
		themeLabel: ThemeName(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.picker.Init())
}

// State exposes the controller state for callers outside the event loop.
func (m Model) State() upload.State { return m.ctl.State() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pathInput.Width = clamp(msg.Width-16, 10, 80)
		m.picker.Height = clamp(msg.Height-14, 4, 24)
		return m, nil

	case FileDroppedMsg:
		return m.submit(msg.Transcript)

	case AppUpdateMsg:
		m.update = &msg
		return m, nil

	case probeResultMsg:
		if !m.ctl.ApplyProbe(msg.ticket, msg.err) {
			return m, nil
		}
		st := m.ctl.State()
		if st.Phase != upload.PhaseUploading {
			return m, nil
		}
		return m, transferCmd(m.ctx, m.ctl, msg.ticket, st.File)

	case transferResultMsg:
		if !m.ctl.ApplyTransfer(msg.ticket, msg.payload, msg.err) {
			return m, nil
		}
		if st := m.ctl.State(); st.Phase == upload.PhaseReady {
			m.results = analytics.NewViewModel(*st.Payload)
			m.scroll = 0
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctl.State().Phase.InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.picking {
		return m.updatePicker(msg)
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.results != nil {
		return m.handleResultsKey(msg)
	}
	if m.picking {
		if msg.String() == "esc" {
			m.picking = false
			m.pathInput.Focus()
			return m, nil
		}
		return m.updatePicker(msg)
	}
	return m.handleUploadKey(msg)
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Esc abandons a pending upload too; its late result is discarded.
		if ph := m.ctl.State().Phase; ph == upload.PhaseError || ph.InFlight() {
			m.reset()
			return m, nil
		}
		m.pathInput.SetValue("")
		m.notice = ""
		return m, nil
	case "ctrl+o":
		if m.ctl.State().Phase.InFlight() {
			return m, nil
		}
		m.picking = true
		m.pathInput.Blur()
		return m, m.picker.Init()
	case "ctrl+t":
		m.themeLabel = m.cycleTheme()
		return m, nil
	case "f1":
		m.showHelp = true
		return m, nil
	case "enter":
		return m.submitPath(m.pathInput.Value())
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	// Terminals paste a dragged file as one burst; submit it right away.
	if msg.Paste {
		next, submitCmd := m.submitPath(m.pathInput.Value())
		return next, tea.Batch(cmd, submitCmd)
	}
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "esc", "backspace":
		m.reset()
		return m, nil
	case "?", "f1":
		m.showHelp = true
	case "t":
		m.themeLabel = m.cycleTheme()
	case "tab", "right", "l":
		m.results.Next()
		m.scroll = 0
	case "shift+tab", "left", "h":
		m.results.Prev()
		m.scroll = 0
	case "1", "2", "3", "4":
		m.results.Select(analytics.Selection(msg.String()[0] - '1'))
		m.scroll = 0
	case "down", "j":
		m.scroll++
	case "up", "k":
		m.scroll = max(0, m.scroll-1)
	case "pgdown":
		m.scroll += max(1, m.height/2)
	case "pgup":
		m.scroll = max(0, m.scroll-max(1, m.height/2))
	case "home", "g":
		m.scroll = 0
	}
	return m, nil
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.pathInput.Focus()
		next, submitCmd := m.submitPath(path)
		return next, tea.Batch(cmd, submitCmd)
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notice = fmt.Sprintf("%s is not a .txt file", core.NewTranscript(path).Name)
	}
	return m, cmd
}

func (m Model) submitPath(raw string) (Model, tea.Cmd) {
	if strings.TrimSpace(raw) == "" {
		return m, nil
	}
	tr, err := core.OpenTranscript(raw)
	if err != nil {
		m.notice = inputNotice(err)
		return m, nil
	}
	return m.submit(tr)
}

func (m Model) submit(tr core.Transcript) (Model, tea.Cmd) {
	if m.results != nil {
		// A drop while results are shown starts over from the upload screen.
		m.reset()
	}
	ticket, err := m.ctl.Submit(tr)
	if err != nil {
		if errors.Is(err, upload.ErrBusy) {
			m.notice = "An upload is already in progress"
		}
		return m, nil
	}
	m.notice = ""
	m.pathInput.SetValue(tr.Path)
	return m, tea.Batch(m.spin.Tick, probeCmd(m.ctx, m.ctl, ticket))
}

func (m *Model) reset() {
	m.ctl.Reset()
	m.results = nil
	m.scroll = 0
	m.notice = ""
	m.pathInput.SetValue("")
	m.pathInput.Focus()
}

func (m Model) cycleTheme() string {
	CycleTheme()
	return ThemeName()
}

func probeCmd(ctx context.Context, ctl *upload.Controller, t upload.Ticket) tea.Cmd {
	return func() tea.Msg {
		return probeResultMsg{ticket: t, err: ctl.Probe(ctx)}
	}
}

func transferCmd(ctx context.Context, ctl *upload.Controller, t upload.Ticket, f core.Transcript) tea.Cmd {
	return func() tea.Msg {
		payload, err := ctl.Transfer(ctx, f)
		return transferResultMsg{ticket: t, payload: payload, err: err}
	}
}

func inputNotice(err error) string {
	switch {
	case errors.Is(err, core.ErrNotPlainText):
		return "Please choose a .txt chat export"
	case errors.Is(err, os.ErrNotExist):
		return "File not found"
	default:
		return err.Error()
	}
}

func (m Model) View() string {
	if m.width < 30 || m.height < 8 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Render("\n  Terminal too small. Resize to at least 30×8.")
	}
	if m.showHelp {
		return m.renderHelpOverlay(m.width, m.height)
	}
	if m.results != nil {
		return m.renderResults(m.width, m.height)
	}
	return m.renderUpload(m.width, m.height)
}
