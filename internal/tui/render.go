package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/studiowebux/gpgdesk/internal/executor"
	"github.com/studiowebux/gpgdesk/internal/keybinds"
	"github.com/studiowebux/gpgdesk/internal/remotedata"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleLabel = lipgloss.NewStyle().
			Width(14)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)
)

// renderMain renders the three forms and the status bar
func (m *Model) renderMain() string {
	width := m.width
	if width == 0 {
		width = InputWidthDefault + 20
	}

	panels := []string{
		m.renderPanel(panelCreate, "Create key", width, m.renderCreate()),
		m.renderPanel(panelKeyRing, "Key ring", width, m.renderKeyRing()),
		m.renderPanel(panelUnlock, "Unlock", width, m.renderUnlock()),
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinVertical(lipgloss.Left, panels...),
		m.renderStatusBar(width),
	)
}

func (m *Model) renderPanel(p panel, title string, width int, body string) string {
	border := colorGray
	switch {
	case m.focus.panel() == p:
		border = colorCyan
	case m.panelFailed(p):
		border = colorRed
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(width-PanelBorderWidth).
		Padding(0, PanelPaddingHorizontal/2).
		Render(styleTitle.Render(title) + "\n" + body)
}

// panelFailed reports whether the panel's last request failed
func (m *Model) panelFailed(p panel) bool {
	switch p {
	case panelCreate:
		return m.app.PrivateKey.ArmoredKey.IsFailure()
	case panelKeyRing:
		return m.app.KeyRing.IsFailure()
	}
	return m.app.Unlock.Status.IsFailure()
}

func row(label, view string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, styleLabel.Render(label), view)
}

func (m *Model) renderCreate() string {
	lines := []string{
		row("Identity", m.identity.View()),
		row("Passphrase", m.createPass.View()),
		row("Bits", m.bits.View()),
	}
	if hint := m.bitsHint(); hint != "" {
		lines = append(lines, styleWarning.Render(hint))
	}
	key := m.app.PrivateKey.ArmoredKey
	lines = append(lines, m.renderOutcomeLine(panelCreate, pending(key), remotedata.Match(key, remotedata.Cases[string, string]{
		NotAsked: func() string { return "" },
		Loading:  func() string { return styleWarning.Render("Generating key...") },
		Failure:  failureLine,
		Success: func(key string) string {
			return styleSuccess.Render(fmt.Sprintf("Key ready (%d lines)", strings.Count(key, "\n")+1))
		},
	})))
	return strings.Join(lines, "\n")
}

// bitsHint explains that typed text which is not a key size is ignored
func (m *Model) bitsHint() string {
	if n, err := strconv.Atoi(m.bits.Value()); err == nil && n >= 0 {
		return ""
	}
	return fmt.Sprintf("Not a key size, using %d", m.app.KeyCreation.Bits)
}

func (m *Model) renderKeyRing() string {
	lines := []string{
		styleLabel.Render("Private key"),
		m.armoredKey.View(),
		row("Passphrase", m.privatePass.View()),
	}
	lines = append(lines, m.renderOutcomeLine(panelKeyRing, pending(m.app.KeyRing), remotedata.Match(m.app.KeyRing, remotedata.Cases[types.PublicKeyResult, string]{
		NotAsked: func() string { return "" },
		Loading:  func() string { return styleWarning.Render("Submitting to key ring...") },
		Failure:  failureLine,
		Success: func(pk types.PublicKeyResult) string {
			return styleSuccess.Render("Fingerprint: "+pk.Fingerprint) + "\n" + previewLines(pk.ArmoredPublicKey, PublicKeyPreviewMax)
		},
	})))
	return strings.Join(lines, "\n")
}

func (m *Model) renderUnlock() string {
	lines := []string{
		row("Fingerprint", m.fingerprint.View()),
		row("Passphrase", m.unlockPass.View()),
	}
	lines = append(lines, m.renderOutcomeLine(panelUnlock, pending(m.app.Unlock.Status), remotedata.Match(m.app.Unlock.Status, remotedata.Cases[string, string]{
		NotAsked: func() string { return "" },
		Loading:  func() string { return styleWarning.Render("Unlocking...") },
		Failure:  failureLine,
		Success: func(status string) string {
			return styleSuccess.Render(types.UnlockDisplay(status))
		},
	})))
	return strings.Join(lines, "\n")
}

// pending reports whether d has no resolution to describe yet
func pending[T any](d remotedata.Data[T]) bool {
	return d.IsNotAsked() || d.IsLoading()
}

// renderOutcomeLine appends the last request duration to a resolved outcome
func (m *Model) renderOutcomeLine(p panel, unresolved bool, line string) string {
	outcome, ok := m.lastOutcomes[p]
	if !ok || unresolved || line == "" || outcome.Duration == 0 {
		return line
	}
	return line + styleSubtle.Render(" ("+executor.FormatDuration(outcome.Duration.Milliseconds())+")")
}

func failureLine(err error) string {
	var rerr *types.RequestError
	if errors.As(err, &rerr) {
		return styleError.Render(describeRequestError(rerr))
	}
	return styleError.Render(err.Error())
}

func previewLines(s string, max int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > max {
		lines = append(lines[:max], "...")
	}
	return styleSubtle.Render(strings.Join(lines, "\n"))
}

// renderStatusBar renders the status bar at the bottom
func (m *Model) renderStatusBar(width int) string {
	left := "Profile: " + m.profile
	if m.inFlight > 0 {
		left += styleWarning.Render(fmt.Sprintf(" | %d in flight", m.inFlight))
	}

	var right string
	switch {
	case m.errorMsg != "":
		right = styleError.Render(m.errorMsg)
	case m.statusMsg != "":
		right = styleSuccess.Render(m.statusMsg)
	default:
		ctx := m.keyContext()
		right = styleSubtle.Render(fmt.Sprintf("%s submit | %s next | %s copy | %s log | %s quit",
			m.keybinds.GetBindingString(ctx, keybinds.ActionSubmit),
			m.keybinds.GetBindingString(ctx, keybinds.ActionNextField),
			m.keybinds.GetBindingString(ctx, keybinds.ActionCopy),
			m.keybinds.GetBindingString(ctx, keybinds.ActionToggleHistory),
			m.keybinds.GetBindingString(ctx, keybinds.ActionQuit),
		))
	}

	spacing := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacing < 1 {
		spacing = 1
	}
	return left + strings.Repeat(" ", spacing) + right
}

// renderHistory renders the request log pane
func (m *Model) renderHistory() string {
	width := m.width
	if width == 0 {
		width = InputWidthDefault + 20
	}
	title := styleTitle.Render(fmt.Sprintf("Request log - %s (%d)", m.profile, len(m.historyEntries)))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCyan).
		Width(width - PanelBorderWidth).
		Render(title + "\n" + m.historyView.View())
	return lipgloss.JoinVertical(lipgloss.Left, box, m.renderStatusBar(width))
}

func (m *Model) updateHistoryView() {
	m.historyView.SetContent(formatHistory(m.historyEntries, m.history != nil))
	m.historyView.GotoTop()
}

// formatHistory lays out log entries one per line, newest first
func formatHistory(entries []types.HistoryEntry, enabled bool) string {
	if !enabled {
		return styleSubtle.Render("Request log is disabled (historyEnabled: false)")
	}
	if len(entries) == 0 {
		return styleSubtle.Render("No requests yet")
	}

	var lines []string
	for _, e := range entries {
		outcome := styleSuccess.Render(fmt.Sprintf("%-9s", e.Outcome))
		detail := fmt.Sprintf("%d", e.StatusCode)
		if e.ErrorKind != "" {
			outcome = styleError.Render(fmt.Sprintf("%-9s", e.Outcome))
			detail = e.ErrorKind
			if e.StatusCode != 0 {
				detail = fmt.Sprintf("%s %d", e.ErrorKind, e.StatusCode)
			}
		}
		lines = append(lines, fmt.Sprintf("%s  %s  %-32s %-18s %s",
			e.Timestamp, outcome, e.Endpoint, detail, executor.FormatDuration(e.DurationMs)))
	}
	return strings.Join(lines, "\n")
}

// resize fits inputs and the history viewport to the terminal
func (m *Model) resize() {
	inner := m.width - PanelBorderWidth - PanelPaddingHorizontal - styleLabel.GetWidth()
	if inner < 10 {
		inner = 10
	}
	for f := fieldIdentity; f < fieldCount; f++ {
		if f == fieldArmoredKey {
			continue
		}
		m.input(f).Width = inner
	}
	m.armoredKey.SetWidth(m.width - PanelBorderWidth - PanelPaddingHorizontal)

	m.historyView.Width = m.width - PanelBorderWidth
	m.historyView.Height = m.height - HistoryOverhead
	if m.historyView.Height < 1 {
		m.historyView.Height = 1
	}
}
