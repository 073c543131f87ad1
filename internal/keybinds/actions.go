package keybinds

// Action represents a user action that can be triggered by a keybinding
type Action string

// Context represents the context in which keybindings are active
type Context string

const (
	ContextGlobal   Context = "global"    // Available everywhere
	ContextForm     Context = "form"      // A single-line field has focus
	ContextKeyInput Context = "key_input" // The multi-line key field has focus
	ContextHistory  Context = "history"   // Request log pane
)

const (
	// Global actions
	ActionQuit      Action = "quit"
	ActionQuitForce Action = "quit_force"

	// Form actions
	ActionNextField Action = "next_field"
	ActionPrevField Action = "prev_field"
	ActionSubmit    Action = "submit"

	// Result actions
	ActionCopy          Action = "copy"
	ActionSavePublicKey Action = "save_public_key"

	// History pane
	ActionToggleHistory Action = "toggle_history"
	ActionScrollUp      Action = "scroll_up"
	ActionScrollDown    Action = "scroll_down"
	ActionClose         Action = "close"
)

// AllContexts lists every context in lookup order
var AllContexts = []Context{
	ContextGlobal,
	ContextForm,
	ContextKeyInput,
	ContextHistory,
}

var knownActions = map[Action]string{
	ActionQuit:          "Quit",
	ActionQuitForce:     "Quit immediately",
	ActionNextField:     "Next field",
	ActionPrevField:     "Previous field",
	ActionSubmit:        "Submit the focused form",
	ActionCopy:          "Copy the latest result",
	ActionSavePublicKey: "Save the public key to a file",
	ActionToggleHistory: "Show or hide the request log",
	ActionScrollUp:      "Scroll up",
	ActionScrollDown:    "Scroll down",
	ActionClose:         "Close the pane",
}

// IsKnown reports whether a is an action the application understands
func (a Action) IsKnown() bool {
	_, ok := knownActions[a]
	return ok
}

// Description returns the help text for a
func (a Action) Description() string {
	if desc, ok := knownActions[a]; ok {
		return desc
	}
	return string(a)
}
