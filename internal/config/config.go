package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	// FilePermissions is the default permission mode for regular files (owner read/write only)
	FilePermissions = 0600
	// DirPermissions is the default permission mode for directories (rwx for owner)
	DirPermissions = 0700

	// LocalConfigFile overrides the global config when present in the working directory
	LocalConfigFile = ".gpgdesk.yaml"

	// DefaultTimeout applies when a profile does not set one
	DefaultTimeout = 30 * time.Second
)

var (
	// ConfigDir is the global configuration directory (~/.gpgdesk)
	ConfigDir string

	// ConfigFile is the YAML configuration file
	ConfigFile string

	// DatabasePath is the SQLite database holding the request log
	DatabasePath string

	// LogFile receives the application log while the TUI owns the terminal
	LogFile string

	// KeybindsFile holds user keybinding overrides
	KeybindsFile string
)

const defaultConfig = `activeProfile: local
historyEnabled: true
logLevel: info
profiles:
  - name: local
    baseUrl: http://localhost:8080
    timeoutSeconds: 30
    defaultBits: 4096
`

// Profile names one signer/key-ring backend
type Profile struct {
	Name           string     `yaml:"name" validate:"required"`
	BaseURL        string     `yaml:"baseUrl" validate:"required,url"`
	TimeoutSeconds int        `yaml:"timeoutSeconds" validate:"omitempty,min=1,max=600"`
	DefaultBits    int        `yaml:"defaultBits" validate:"omitempty,min=1024"`
	TLS            *TLSConfig `yaml:"tls,omitempty"`
}

// TLSConfig holds optional TLS/mTLS settings for a profile
type TLSConfig struct {
	CAFile             string `yaml:"caFile,omitempty"`
	CertFile           string `yaml:"certFile,omitempty" validate:"required_with=KeyFile"`
	KeyFile            string `yaml:"keyFile,omitempty" validate:"required_with=CertFile"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify,omitempty"`
}

// Timeout returns the request timeout for the profile
func (p Profile) Timeout() time.Duration {
	if p.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Config is the content of config.yaml
type Config struct {
	ActiveProfile  string    `yaml:"activeProfile" validate:"required"`
	HistoryEnabled *bool     `yaml:"historyEnabled,omitempty"`
	LogLevel       string    `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	Profiles       []Profile `yaml:"profiles" validate:"required,min=1,unique=Name,dive"`
}

// IsHistoryEnabled reports whether request outcomes are logged. Defaults to true.
func (c *Config) IsHistoryEnabled() bool {
	if c.HistoryEnabled == nil {
		return true
	}
	return *c.HistoryEnabled
}

// Profile returns the named profile, or the active one for an empty name
func (c *Config) Profile(name string) (Profile, error) {
	if name == "" {
		name = c.ActiveProfile
	}
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile %q not found", name)
}

var validate = validator.New()

// Validate checks field constraints and that the active profile exists
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Profile(c.ActiveProfile); err != nil {
		return fmt.Errorf("invalid config: active %w", err)
	}
	return nil
}

// Initialize sets up the configuration directory and files.
// It creates ~/.gpgdesk/ (or $GPGDESK_HOME) if it doesn't exist.
func Initialize() error {
	dir := os.Getenv("GPGDESK_HOME")
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".gpgdesk")
	}
	setPaths(dir)

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}

	if _, err := os.Stat(ConfigFile); os.IsNotExist(err) {
		if err := os.WriteFile(ConfigFile, []byte(defaultConfig), FilePermissions); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	return nil
}

func setPaths(dir string) {
	ConfigDir = dir
	ConfigFile = filepath.Join(dir, "config.yaml")
	DatabasePath = filepath.Join(dir, "gpgdesk.db")
	LogFile = filepath.Join(dir, "gpgdesk.log")
	KeybindsFile = filepath.Join(dir, "keybinds.yaml")
}

// GetConfigFilePath returns the config file path (local or global)
func GetConfigFilePath() string {
	if _, err := os.Stat(LocalConfigFile); err == nil {
		return LocalConfigFile
	}
	return ConfigFile
}

// Load reads and validates a config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault reads the local or global config file
func LoadDefault() (*Config, error) {
	return Load(GetConfigFilePath())
}
