package keybinds

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestMatchPrefersContextOverGlobal(t *testing.T) {
	r := NewRegistry()
	r.Register(ContextGlobal, "esc", ActionQuit)
	r.Register(ContextHistory, "esc", ActionClose)

	if action, ok := r.Match(ContextHistory, "esc"); !ok || action != ActionClose {
		t.Errorf("history esc = %q, %v; want close", action, ok)
	}
	if action, ok := r.Match(ContextForm, "esc"); !ok || action != ActionQuit {
		t.Errorf("form esc = %q, %v; want quit from global", action, ok)
	}
	if _, ok := r.Match(ContextForm, "x"); ok {
		t.Error("unbound key matched")
	}
}

func TestDefaultBindings(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		context Context
		key     string
		want    Action
	}{
		{ContextForm, "enter", ActionSubmit},
		{ContextForm, "tab", ActionNextField},
		{ContextKeyInput, "ctrl+s", ActionSubmit},
		{ContextKeyInput, "ctrl+c", ActionQuitForce},
		{ContextHistory, "q", ActionClose},
		{ContextHistory, "f2", ActionToggleHistory},
	}

	for _, tt := range tests {
		t.Run(string(tt.context)+"/"+tt.key, func(t *testing.T) {
			got, ok := r.Match(tt.context, tt.key)
			if !ok || got != tt.want {
				t.Errorf("Match = %q, %v; want %q", got, ok, tt.want)
			}
		})
	}

	if _, ok := r.Match(ContextKeyInput, "enter"); ok {
		t.Error("enter must stay free for newlines in the key field")
	}
}

func TestGetBindingString(t *testing.T) {
	r := NewDefaultRegistry()

	if got := r.GetBindingString(ContextForm, ActionNextField); got != "down, tab" {
		t.Errorf("next_field = %q", got)
	}
	if got := r.GetBindingString(ContextForm, ActionCopy); got != "ctrl+y" {
		t.Errorf("copy falls back to global, got %q", got)
	}
	if got := r.GetBindingString(ContextHistory, ActionSubmit); got != "unbound" {
		t.Errorf("submit in history = %q", got)
	}
}

func TestListBindings(t *testing.T) {
	r := NewDefaultRegistry()

	got := r.ListBindings(ContextHistory)
	want := []Binding{
		{Key: "down", Action: ActionScrollDown, Context: ContextHistory},
		{Key: "esc", Action: ActionClose, Context: ContextHistory},
		{Key: "j", Action: ActionScrollDown, Context: ContextHistory},
		{Key: "k", Action: ActionScrollUp, Context: ContextHistory},
		{Key: "q", Action: ActionClose, Context: ContextHistory},
		{Key: "up", Action: ActionScrollUp, Context: ContextHistory},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListBindings(history) = %v, want %v", got, want)
	}

	for _, b := range r.ListBindings(ContextForm) {
		if b.Context != ContextForm {
			t.Errorf("form listing includes %s binding %q", b.Context, b.Key)
		}
	}

	if got := NewRegistry().ListBindings(ContextForm); len(got) != 0 {
		t.Errorf("empty registry listed %v", got)
	}
}

func TestApplyConfigReplacesDefaultKeys(t *testing.T) {
	r := NewDefaultRegistry()
	err := ApplyConfig(r, Config{ContextForm: {ActionSubmit: "ctrl+s, alt+enter"}})
	if err != nil {
		t.Fatalf("ApplyConfig failed: %v", err)
	}

	if _, ok := r.Match(ContextForm, "enter"); ok {
		t.Error("default enter binding should be replaced")
	}
	want := []string{"alt+enter", "ctrl+s"}
	if got := r.GetBinding(ContextForm, ActionSubmit); !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestApplyConfigRejectsUnknownContext(t *testing.T) {
	err := ApplyConfig(NewRegistry(), Config{"sidebar": {ActionQuit: "q"}})
	if err == nil {
		t.Error("expected error for unknown context")
	}
}

func TestLoadOrDefault(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file uses defaults", func(t *testing.T) {
		r, err := LoadOrDefault(filepath.Join(dir, "absent.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		if action, _ := r.Match(ContextForm, "enter"); action != ActionSubmit {
			t.Errorf("enter = %q", action)
		}
	})

	t.Run("overrides are applied", func(t *testing.T) {
		path := filepath.Join(dir, "keybinds.yaml")
		content := "global:\n  toggle_history: f3\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		r, err := LoadOrDefault(path)
		if err != nil {
			t.Fatal(err)
		}
		if action, _ := r.Match(ContextForm, "f3"); action != ActionToggleHistory {
			t.Errorf("f3 = %q", action)
		}
		if _, ok := r.Match(ContextForm, "f2"); ok {
			t.Error("f2 should no longer be bound")
		}
	})

	t.Run("invalid overrides are rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		content := "form:\n  submit: ctrl+c\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadOrDefault(path); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("unknown action is reported", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.yaml")
		content := "form:\n  launch: ctrl+l\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		_, err := LoadOrDefault(path)
		if err == nil || !strings.Contains(err.Error(), "invalid keybinds config") {
			t.Errorf("err = %v, want invalid keybinds config", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		if err := os.WriteFile(path, []byte("form: [unclosed"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadOrDefault(path); err == nil {
			t.Error("expected parse error")
		}
	})
}

func TestExportDefaultsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybinds.yaml")
	if err := SaveConfig(ExportDefaults(), path); err != nil {
		t.Fatal(err)
	}
	r, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("exported defaults failed to load: %v", err)
	}
	if !reflect.DeepEqual(r.bindings, NewDefaultRegistry().bindings) {
		t.Error("exported defaults differ from built-in defaults")
	}
}
