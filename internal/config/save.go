package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/aidanlsb/pastesearch/internal/atomicfile"
)

type persistedConfig struct {
	DefaultRoot *string              `toml:"default_root,omitempty"`
	Roots       map[string]string    `toml:"roots,omitempty"`
	Log         *persistedLog        `toml:"log,omitempty"`
	Clipboard   *persistedClipboard  `toml:"clipboard,omitempty"`
	UI          *persistedUISettings `toml:"ui,omitempty"`
}

type persistedLog struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
}

type persistedClipboard struct {
	Source *string `toml:"source,omitempty"`
}

type persistedUISettings struct {
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SaveTo writes the global config to path atomically. Empty settings are
// left out of the file.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{DefaultRoot: nonEmptyPtr(cfg.DefaultRoot)}
	if len(cfg.Roots) > 0 {
		out.Roots = cfg.Roots
	}
	if level, format := nonEmptyPtr(cfg.Log.Level), nonEmptyPtr(cfg.Log.Format); level != nil || format != nil {
		out.Log = &persistedLog{Level: level, Format: format}
	}
	if source := nonEmptyPtr(cfg.Clipboard.Source); source != nil {
		out.Clipboard = &persistedClipboard{Source: source}
	}
	if accent, theme := nonEmptyPtr(cfg.UI.Accent), nonEmptyPtr(cfg.UI.CodeTheme); accent != nil || theme != nil {
		out.UI = &persistedUISettings{Accent: accent, CodeTheme: theme}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), atomicfile.Options{Perm: 0o644}); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// RegisterRoot adds name → dir to the config at path, making it the default
// root when none is set yet.
func RegisterRoot(path, name, dir string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if cfg.Roots == nil {
		cfg.Roots = make(map[string]string)
	}
	cfg.Roots[name] = dir
	if cfg.DefaultRoot == "" {
		cfg.DefaultRoot = name
	}
	if err := SaveTo(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
