/*
Package keybinds maps terminal key strings to application actions.

Bindings are grouped by context. The TUI asks the registry for the action
of a key in the context of the focused widget; context bindings win over
global ones:

	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	action, ok := registry.Match(keybinds.ContextForm, msg.String())

Users override defaults in keybinds.yaml, one comma-separated key list per
action. Listing an action replaces its default keys in that context.
The validator rejects configs that rebind ctrl+c or leave a form without a
submit key.
*/
package keybinds
