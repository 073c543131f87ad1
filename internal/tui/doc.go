/*
Package tui implements the terminal user interface for gpgdesk.

# Architecture

The TUI follows the Bubble Tea Model-Update-View pattern around a
state.AppState value:
  - model.go: Model struct, message types and the Update loop
  - keys.go: keybinding routing and input-to-event translation
  - actions.go: request dispatch, resolution, clipboard and file output
  - render.go: lipgloss rendering of the three forms and the request log

Every edit in a form field becomes a state event. Submitting a form runs
state.Update, which returns the request to send; the request is executed
in a tea.Cmd and comes back as an outcomeMsg carrying the resolution event.
After a resolution, fields the state filled in on its own (the generated
key, its passphrase, the fingerprint) are copied back into the widgets.

# Request log

When a Recorder is configured every resolution is saved to it, and the
history pane lists the active profile's entries.
*/
package tui
