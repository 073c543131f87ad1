package keybinds

// NewDefaultRegistry creates a registry with all default keybindings
func NewDefaultRegistry() *Registry {
	r := NewRegistry()

	registerGlobalBindings(r)
	registerFormBindings(r)
	registerKeyInputBindings(r)
	registerHistoryBindings(r)

	return r
}

// registerGlobalBindings sets up bindings available in all modes
func registerGlobalBindings(r *Registry) {
	r.Register(ContextGlobal, "ctrl+c", ActionQuitForce)
	r.Register(ContextGlobal, "ctrl+q", ActionQuit)
	r.Register(ContextGlobal, "ctrl+y", ActionCopy)
	r.Register(ContextGlobal, "ctrl+o", ActionSavePublicKey)
	r.Register(ContextGlobal, "f2", ActionToggleHistory)
}

// registerFormBindings covers single-line inputs, where enter submits
func registerFormBindings(r *Registry) {
	r.RegisterMultiple(ContextForm, []string{"tab", "down"}, ActionNextField)
	r.RegisterMultiple(ContextForm, []string{"shift+tab", "up"}, ActionPrevField)
	r.Register(ContextForm, "enter", ActionSubmit)
	r.Register(ContextForm, "esc", ActionQuit)
}

// registerKeyInputBindings covers the armored key textarea, where enter inserts a newline
func registerKeyInputBindings(r *Registry) {
	r.Register(ContextKeyInput, "tab", ActionNextField)
	r.Register(ContextKeyInput, "shift+tab", ActionPrevField)
	r.Register(ContextKeyInput, "ctrl+s", ActionSubmit)
	r.Register(ContextKeyInput, "esc", ActionQuit)
}

func registerHistoryBindings(r *Registry) {
	r.RegisterMultiple(ContextHistory, []string{"up", "k"}, ActionScrollUp)
	r.RegisterMultiple(ContextHistory, []string{"down", "j"}, ActionScrollDown)
	r.RegisterMultiple(ContextHistory, []string{"esc", "q"}, ActionClose)
}
