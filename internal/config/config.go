// Package config handles global pastesearch configuration and the per-root
// settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the global pastesearch configuration.
type Config struct {
	// DefaultRoot is the name of the root used when none is given (from Roots).
	DefaultRoot string `toml:"default_root"`

	// Roots maps root names to directories.
	Roots map[string]string `toml:"roots"`

	Log       LogConfig       `toml:"log"`
	Clipboard ClipboardConfig `toml:"clipboard"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Empty means warn.
	Level string `toml:"level"`
	// Format is text or json. Empty means text.
	Format string `toml:"format"`
}

// Clipboard sources.
const (
	ClipboardAuto   = "auto"
	ClipboardSystem = "system"
	ClipboardStdin  = "stdin"
)

// ClipboardConfig selects where query and paste text come from.
type ClipboardConfig struct {
	Source string `toml:"source"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown rendering.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered context blocks.
	CodeTheme string `toml:"code_theme"`
}

// ClipboardSource returns the configured source, defaulting to auto.
func (c *Config) ClipboardSource() (string, error) {
	switch s := strings.ToLower(strings.TrimSpace(c.Clipboard.Source)); s {
	case "", ClipboardAuto:
		return ClipboardAuto, nil
	case ClipboardSystem, ClipboardStdin:
		return s, nil
	default:
		return "", fmt.Errorf("unknown clipboard source %q (want auto, system or stdin)", c.Clipboard.Source)
	}
}

// GetRootPath returns the directory for a named root.
// If name is empty, returns the default root.
func (c *Config) GetRootPath(name string) (string, error) {
	if name == "" {
		name = c.DefaultRoot
	}
	if name == "" {
		return "", fmt.Errorf("no default root configured")
	}
	if path, ok := c.Roots[name]; ok {
		return expandHome(path), nil
	}
	return "", fmt.Errorf("root '%s' not found in config", name)
}

// ListRoots returns all configured roots with their paths.
func (c *Config) ListRoots() map[string]string {
	result := make(map[string]string, len(c.Roots))
	for name, path := range c.Roots {
		result[name] = expandHome(path)
	}
	return result
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom loads the configuration from a specific path.
// A missing file yields an empty config.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}

	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := config.ClipboardSource(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

// ResolveConfigPath resolves the effective config path from an optional override.
func ResolveConfigPath(explicitConfigPath string) string {
	if strings.TrimSpace(explicitConfigPath) != "" {
		return explicitConfigPath
	}
	return DefaultPath()
}

// DefaultPath returns the default config file path.
// Checks ~/.config/pastesearch/config.toml first (XDG style),
// then falls back to OS-specific location.
func DefaultPath() string {
	if xdgPath, err := XDGPath(); err == nil {
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "pastesearch", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/pastesearch/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pastesearch", "config.toml"), nil
}

const defaultConfigTemplate = `# pastesearch configuration

# Default root name (must exist in [roots] below)
# default_root = "projects"

# Named search roots
# [roots]
# projects = "~/src"
# notes = "~/notes"

# Diagnostic logging, written to stderr.
# [log]
# level = "warn"    # debug, info, warn, error
# format = "text"   # text or json

# Where query and paste text come from:
#   auto   - stdin when it is piped, otherwise the system clipboard
#   system - always the system clipboard
#   stdin  - always standard input
# [clipboard]
# source = "auto"

# Optional UI accent color for headers in terminal output.
# Supports ANSI color codes (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
# code_theme = "monokai"
`

// CreateDefault creates a commented default config at path if it doesn't exist.
// It reports whether a file was created.
func CreateDefault(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}
	return true, nil
}
