package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/studiowebux/gpgdesk/internal/keybinds"
)

// PrintBindings lists the effective key bindings, one table row per key
func PrintBindings(w io.Writer, registry *keybinds.Registry) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CONTEXT", "KEY", "ACTION", "DESCRIPTION")
	for _, context := range keybinds.AllContexts {
		for _, b := range registry.ListBindings(context) {
			t.Row(string(b.Context), b.Key, string(b.Action), b.Action.Description())
		}
	}
	fmt.Fprintln(w, t.String())
}
