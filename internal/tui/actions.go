package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-kit/log/level"
	"github.com/studiowebux/gpgdesk/internal/executor"
	"github.com/studiowebux/gpgdesk/internal/remotedata"
	"github.com/studiowebux/gpgdesk/internal/state"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// writeClipboard is swapped in tests
var writeClipboard = clipboard.WriteAll

// input returns the single-line widget for f
func (m *Model) input(f field) *textinput.Model {
	switch f {
	case fieldIdentity:
		return &m.identity
	case fieldCreatePassphrase:
		return &m.createPass
	case fieldBits:
		return &m.bits
	case fieldPrivatePassphrase:
		return &m.privatePass
	case fieldFingerprint:
		return &m.fingerprint
	case fieldUnlockPassphrase:
		return &m.unlockPass
	}
	panic(fmt.Sprintf("tui: field %d has no text input", f))
}

// apply runs an event and sends the request it produces, if any.
// A panel's last outcome is dropped once its result is replaced, so a stale
// duration never shows next to a new one.
func (m *Model) apply(e state.Event) tea.Cmd {
	next, req := state.Update(m.app, e)
	m.app = next
	if _, ok := e.(state.SetManualKey); ok {
		delete(m.lastOutcomes, panelCreate)
	}
	if req == nil {
		return nil
	}
	delete(m.lastOutcomes, panelForPath(req.Path()))
	return m.send(req)
}

// send executes req off the UI loop and reports back with an outcomeMsg
func (m *Model) send(req types.Request) tea.Cmd {
	m.inFlight++
	client := m.client
	return func() tea.Msg {
		outcome := client.Execute(context.Background(), req)
		return outcomeMsg{outcome: outcome, at: time.Now()}
	}
}

// submitFocusedPanel submits the form that owns the focused field
func (m *Model) submitFocusedPanel() tea.Cmd {
	switch m.focus.panel() {
	case panelCreate:
		return m.apply(state.SubmitCreate{})
	case panelKeyRing:
		if _, ok := types.ValidatePrivateKey(m.app.PrivateKey); !ok {
			return m.setErrorMessage("No private key to submit - generate or paste one first")
		}
		return m.apply(state.SubmitToKeyRing{})
	default:
		return m.apply(state.SubmitUnlock{})
	}
}

// resolve folds a finished request into the state and the request log
func (m *Model) resolve(outcome executor.Outcome, at time.Time) tea.Cmd {
	if m.inFlight > 0 {
		m.inFlight--
	}
	m.app, _ = state.Update(m.app, outcome.Event)
	m.syncInputs(outcome.Event)
	m.lastOutcomes[panelFor(outcome.Event)] = outcome

	cmds := []tea.Cmd{m.reportOutcome(outcome)}
	m.record(outcome, at)
	if m.showHistory {
		cmds = append(cmds, m.loadHistory())
	}
	return tea.Batch(cmds...)
}

func panelForPath(path string) panel {
	switch path {
	case types.GenerateKeyPath:
		return panelCreate
	case types.AddPrivateKeyPath:
		return panelKeyRing
	}
	return panelUnlock
}

func panelFor(e state.Event) panel {
	switch e.(type) {
	case state.CreateResolved:
		return panelCreate
	case state.SubmitResolved:
		return panelKeyRing
	}
	return panelUnlock
}

// syncInputs copies fields the state filled in on its own back into the widgets.
// The key size input is never rewritten.
func (m *Model) syncInputs(e state.Event) {
	switch e.(type) {
	case state.CreateResolved:
		m.armoredKey.SetValue(m.app.PrivateKey.ArmoredKey.WithDefault(""))
		m.privatePass.SetValue(m.app.PrivateKey.Passphrase)
	case state.SubmitResolved:
		if m.app.KeyRing.IsSuccess() {
			m.fingerprint.SetValue(m.app.Unlock.Fingerprint)
			m.unlockPass.SetValue(m.app.Unlock.Passphrase)
		}
	}
}

func (m *Model) reportOutcome(outcome executor.Outcome) tea.Cmd {
	if outcome.Err != nil {
		return m.setErrorMessage(describeRequestError(outcome.Err))
	}
	return m.setStatusMessage(fmt.Sprintf("%s completed in %s",
		endpointLabel(outcome.Endpoint), executor.FormatDuration(outcome.Duration.Milliseconds())))
}

func endpointLabel(endpoint string) string {
	switch endpoint {
	case types.GenerateKeyPath:
		return "Key generation"
	case types.AddPrivateKeyPath:
		return "Key ring submission"
	case types.UnlockKeyPath:
		return "Unlock"
	}
	return endpoint
}

// record appends the outcome to the request log. Failures are logged, not shown.
func (m *Model) record(outcome executor.Outcome, at time.Time) {
	if m.history == nil {
		return
	}
	if err := m.history.Save(outcome.HistoryEntry(m.profile, at)); err != nil {
		level.Warn(m.logger).Log("msg", "failed to record request", "err", err)
	}
}

func (m *Model) loadHistory() tea.Cmd {
	if m.history == nil {
		return func() tea.Msg {
			return historyLoadedMsg{}
		}
	}
	store, profile := m.history, m.profile
	return func() tea.Msg {
		entries, err := store.Load(profile, HistoryLimit)
		return historyLoadedMsg{entries: entries, err: err}
	}
}

// copyTarget picks what the copy action puts on the clipboard: the armored
// key from the key creation form, the public key elsewhere when there is one
func (m *Model) copyTarget() (string, string, bool) {
	public, hasPublic := remotedata.Map(m.app.KeyRing, func(pk types.PublicKeyResult) string {
		return pk.ArmoredPublicKey
	}).Value()
	key, hasKey := m.app.PrivateKey.ArmoredKey.Value()

	if hasPublic && (m.focus.panel() != panelCreate || !hasKey) {
		return public, "Public key", true
	}
	if hasKey && key != "" {
		return key, "Private key", true
	}
	return "", "", false
}

func (m *Model) copyToClipboard() tea.Cmd {
	text, label, ok := m.copyTarget()
	if !ok {
		return m.setErrorMessage("Nothing to copy yet")
	}
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return errorMsg(fmt.Sprintf("Failed to copy to clipboard: %v", err))
		}
		return statusMsg(label + " copied to clipboard")
	}
}

// savePublicKey writes the returned public key to <fingerprint>.asc in the save directory
func (m *Model) savePublicKey() tea.Cmd {
	pk, ok := m.app.KeyRing.Value()
	if !ok {
		return m.setErrorMessage("No public key to save - submit a private key first")
	}
	dir := m.saveDir
	return func() tea.Msg {
		path, err := writePublicKey(dir, pk)
		if err != nil {
			return errorMsg(fmt.Sprintf("Failed to save public key: %v", err))
		}
		return statusMsg("Public key saved to " + path)
	}
}

func writePublicKey(dir string, pk types.PublicKeyResult) (string, error) {
	name := sanitizeFileName(pk.Fingerprint)
	if name == "" {
		return "", errors.New("public key has no fingerprint")
	}
	path := filepath.Join(dir, name+".asc")
	if err := os.WriteFile(path, []byte(pk.ArmoredPublicKey), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFileName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, s)
}
