package keybinds

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the user's keybinding overrides: context -> action -> comma-separated keys.
//
//	form:
//	  submit: "enter,ctrl+s"
//	global:
//	  toggle_history: "f3"
type Config map[Context]map[Action]string

// LoadConfig loads keybinding overrides from a YAML file
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid keybinds format: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes keybinding overrides as YAML
func SaveConfig(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// SplitKeys parses a comma-separated key list, dropping blanks
func SplitKeys(list string) []string {
	var keys []string
	for _, key := range strings.Split(list, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// ApplyConfig applies user configuration to a registry.
// An action listed for a context loses its default keys in that context.
func ApplyConfig(registry *Registry, cfg Config) error {
	for context, actions := range cfg {
		if !isKnownContext(context) {
			return fmt.Errorf("unknown keybinding context %q", context)
		}
		for action, list := range actions {
			if !action.IsKnown() {
				return fmt.Errorf("unknown action %q in context %q", action, context)
			}
			keys := SplitKeys(list)
			for _, key := range keys {
				if err := ValidateKey(key); err != nil {
					return fmt.Errorf("action %q in context %q: %w", action, context, err)
				}
			}
			registry.Unbind(context, action)
			registry.RegisterMultiple(context, keys, action)
		}
	}

	return nil
}

func isKnownContext(c Context) bool {
	for _, known := range AllContexts {
		if c == known {
			return true
		}
	}
	return false
}

// LoadOrDefault loads user config if it exists, otherwise returns default registry
func LoadOrDefault(configPath string) (*Registry, error) {
	registry := NewDefaultRegistry()

	if _, err := os.Stat(configPath); err == nil {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load keybinds: %w", err)
		}

		result := NewValidator().ValidateConfig(cfg)
		if result.HasErrors() {
			return nil, fmt.Errorf("invalid keybinds config:\n%s", result.String())
		}

		if err := ApplyConfig(registry, cfg); err != nil {
			return nil, fmt.Errorf("failed to apply keybinds config: %w", err)
		}
	}

	return registry, nil
}

// ExportDefaults returns the default bindings in config form
func ExportDefaults() Config {
	registry := NewDefaultRegistry()
	cfg := Config{}

	for _, context := range AllContexts {
		grouped := map[Action][]string{}
		for key, action := range registry.bindings[context] {
			grouped[action] = append(grouped[action], key)
		}
		if len(grouped) == 0 {
			continue
		}
		cfg[context] = map[Action]string{}
		for action := range grouped {
			cfg[context][action] = strings.Join(keysFor(registry.bindings[context], action), ",")
		}
	}

	return cfg
}
