package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/studiowebux/gpgdesk/internal/keybinds"
	"github.com/studiowebux/gpgdesk/internal/state"
)

// keyContext returns the keybinding context of the focused widget
func (m *Model) keyContext() keybinds.Context {
	switch {
	case m.showHistory:
		return keybinds.ContextHistory
	case m.focus == fieldArmoredKey:
		return keybinds.ContextKeyInput
	}
	return keybinds.ContextForm
}

// handleKeyPress routes bound keys to actions and everything else to the focused input
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if !msg.Paste {
		if action, ok := m.keybinds.Match(m.keyContext(), msg.String()); ok {
			return m.runAction(action)
		}
	}

	if m.showHistory {
		return nil
	}
	return m.updateFocusedInput(msg)
}

func (m *Model) runAction(action keybinds.Action) tea.Cmd {
	switch action {
	case keybinds.ActionQuit, keybinds.ActionQuitForce:
		return tea.Quit

	case keybinds.ActionNextField:
		return m.focusField((m.focus + 1) % fieldCount)

	case keybinds.ActionPrevField:
		return m.focusField((m.focus + fieldCount - 1) % fieldCount)

	case keybinds.ActionSubmit:
		return m.submitFocusedPanel()

	case keybinds.ActionCopy:
		return m.copyToClipboard()

	case keybinds.ActionSavePublicKey:
		return m.savePublicKey()

	case keybinds.ActionToggleHistory:
		m.showHistory = !m.showHistory
		if m.showHistory {
			return m.loadHistory()
		}

	case keybinds.ActionClose:
		m.showHistory = false

	case keybinds.ActionScrollUp:
		m.historyView.LineUp(1)

	case keybinds.ActionScrollDown:
		m.historyView.LineDown(1)
	}

	return nil
}

// focusField moves focus, blurring the previous input
func (m *Model) focusField(f field) tea.Cmd {
	m.blurAll()
	m.focus = f
	if f == fieldArmoredKey {
		return m.armoredKey.Focus()
	}
	return m.input(f).Focus()
}

func (m *Model) blurAll() {
	m.identity.Blur()
	m.createPass.Blur()
	m.bits.Blur()
	m.armoredKey.Blur()
	m.privatePass.Blur()
	m.fingerprint.Blur()
	m.unlockPass.Blur()
}

// updateFocusedInput forwards msg to the focused widget and, when its text
// changed, feeds the new text into the state as the matching edit event
func (m *Model) updateFocusedInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	if m.focus == fieldArmoredKey {
		before := m.armoredKey.Value()
		m.armoredKey, cmd = m.armoredKey.Update(msg)
		if after := m.armoredKey.Value(); after != before {
			m.apply(state.SetManualKey{Value: after})
		}
		return cmd
	}

	in := m.input(m.focus)
	before := in.Value()
	*in, cmd = in.Update(msg)
	if after := in.Value(); after != before {
		m.apply(editEvent(m.focus, after))
	}
	return cmd
}

func editEvent(f field, v string) state.Event {
	switch f {
	case fieldIdentity:
		return state.SetIdentity{Value: v}
	case fieldCreatePassphrase:
		return state.SetCreatePassphrase{Value: v}
	case fieldBits:
		return state.SetBits{Value: v}
	case fieldPrivatePassphrase:
		return state.SetPrivatePassphrase{Value: v}
	case fieldFingerprint:
		return state.SetFingerprint{Value: v}
	case fieldUnlockPassphrase:
		return state.SetUnlockPassphrase{Value: v}
	}
	return state.SetManualKey{Value: v}
}
