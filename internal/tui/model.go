package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/go-kit/log"
	"github.com/studiowebux/gpgdesk/internal/executor"
	"github.com/studiowebux/gpgdesk/internal/keybinds"
	"github.com/studiowebux/gpgdesk/internal/state"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// Requester sends one request and reports how it resolved
type Requester interface {
	Execute(ctx context.Context, req types.Request) executor.Outcome
}

// Recorder stores request outcomes. *history.Manager implements it.
type Recorder interface {
	Save(entry types.HistoryEntry) error
	Load(profileName string, limit int) ([]types.HistoryEntry, error)
}

// field identifies one form input, in focus order
type field int

const (
	fieldIdentity field = iota
	fieldCreatePassphrase
	fieldBits
	fieldArmoredKey
	fieldPrivatePassphrase
	fieldFingerprint
	fieldUnlockPassphrase
	fieldCount
)

type panel int

const (
	panelCreate panel = iota
	panelKeyRing
	panelUnlock
)

func (f field) panel() panel {
	switch {
	case f <= fieldBits:
		return panelCreate
	case f <= fieldPrivatePassphrase:
		return panelKeyRing
	}
	return panelUnlock
}

// Model represents the TUI state
type Model struct {
	app      state.AppState
	client   Requester
	history  Recorder
	keybinds *keybinds.Registry
	logger   log.Logger
	profile  string
	saveDir  string

	// Form inputs
	identity     textinput.Model
	createPass   textinput.Model
	bits         textinput.Model
	armoredKey   textarea.Model
	privatePass  textinput.Model
	fingerprint  textinput.Model
	unlockPass   textinput.Model
	focus        field
	inFlight     int
	lastOutcomes map[panel]executor.Outcome

	// History pane
	showHistory    bool
	historyView    viewport.Model
	historyEntries []types.HistoryEntry

	// UI state
	width         int
	height        int
	statusMsg     string
	fullStatusMsg string
	errorMsg      string
	fullErrorMsg  string
	msgTimeout    time.Duration
}

// Init starts the cursor blinking in the focused field
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case outcomeMsg:
		cmd = m.resolve(msg.outcome, msg.at)

	case historyLoadedMsg:
		if msg.err != nil {
			cmd = m.setErrorMessage("Failed to load history: " + msg.err.Error())
			break
		}
		m.historyEntries = msg.entries
		m.updateHistoryView()

	case statusMsg:
		cmd = m.setStatusMessage(string(msg))

	case errorMsg:
		cmd = m.setErrorMessage(string(msg))

	case clearStatusMsg:
		m.statusMsg = ""
		m.fullStatusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
		m.fullErrorMsg = ""

	default:
		// Cursor blink and other widget messages
		cmd = m.updateFocusedInput(msg)
	}

	return m, cmd
}

// View renders the TUI
func (m *Model) View() string {
	if m.showHistory {
		return m.renderHistory()
	}
	return m.renderMain()
}

// State returns the current application state
func (m *Model) State() state.AppState {
	return m.app
}

type outcomeMsg struct {
	outcome executor.Outcome
	at      time.Time
}

type historyLoadedMsg struct {
	entries []types.HistoryEntry
	err     error
}

type statusMsg string
type errorMsg string
type clearStatusMsg struct{}
type clearErrorMsg struct{}

// Helper methods for setting messages with optional timeout
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.fullStatusMsg = msg
	m.statusMsg = truncate(msg, StatusMaxLength)
	m.errorMsg = ""
	m.fullErrorMsg = ""

	if m.msgTimeout > 0 {
		return tea.Tick(m.msgTimeout, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})
	}
	return nil
}

func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.fullErrorMsg = msg
	m.errorMsg = truncate(msg, StatusMaxLength)

	if m.msgTimeout > 0 {
		return tea.Tick(m.msgTimeout, func(time.Time) tea.Msg {
			return clearErrorMsg{}
		})
	}
	return nil
}

// truncate cuts s to max terminal cells, keeping runes whole
func truncate(s string, max int) string {
	if xansi.StringWidth(s) > max {
		return xansi.Truncate(s, max, "...")
	}
	return s
}
