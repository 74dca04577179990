package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// RootFileName is the per-root settings file.
const RootFileName = ".pastesearch.yaml"

// Defaults for RootConfig.
const (
	DefaultSimilarityThreshold = 10.0
	DefaultBestMatchThreshold  = 80.0
	DefaultContextChars        = 50
	DefaultMaxFileBytes        = int64(10 << 20)
	DefaultBackupDir           = "Backup"
)

// RootConfig holds settings for one search root, read from .pastesearch.yaml.
type RootConfig struct {
	// DenyExtensions are file extensions never searched. Nil keeps the built-in list.
	DenyExtensions []string `yaml:"deny_extensions,omitempty"`

	// BackupPatterns are regular expressions matched against file names to
	// exclude backup copies, in addition to the built-in list.
	BackupPatterns []string `yaml:"backup_patterns,omitempty"`

	// Ignore holds extra gitignore-style patterns.
	Ignore []string `yaml:"ignore,omitempty"`

	// SimilarityThreshold is the minimum anchored score (0-100).
	SimilarityThreshold *float64 `yaml:"similarity_threshold,omitempty"`

	// BestMatchThreshold is the similarity a scored match needs to be
	// reported as confident.
	BestMatchThreshold *float64 `yaml:"best_match_threshold,omitempty"`

	// ContextChars is the context window on each side of a match, in characters.
	ContextChars *int `yaml:"context_chars,omitempty"`

	MaxFileBytes *int64 `yaml:"max_file_bytes,omitempty"`
	SkipBinary   *bool  `yaml:"skip_binary,omitempty"`

	// BackupDir is the directory, next to each pasted file, that receives backups.
	BackupDir string `yaml:"backup_dir,omitempty"`
}

// DefaultRootConfig returns the settings used when a root has no settings file.
func DefaultRootConfig() *RootConfig {
	return &RootConfig{}
}

// GetSimilarityThreshold returns the anchored threshold with defaults applied.
func (rc *RootConfig) GetSimilarityThreshold() float64 {
	if rc.SimilarityThreshold == nil {
		return DefaultSimilarityThreshold
	}
	return *rc.SimilarityThreshold
}

// GetBestMatchThreshold returns the best-match threshold with defaults applied.
func (rc *RootConfig) GetBestMatchThreshold() float64 {
	if rc.BestMatchThreshold == nil {
		return DefaultBestMatchThreshold
	}
	return *rc.BestMatchThreshold
}

// GetContextChars returns the context window size with defaults applied.
func (rc *RootConfig) GetContextChars() int {
	if rc.ContextChars == nil {
		return DefaultContextChars
	}
	return *rc.ContextChars
}

// GetMaxFileBytes returns the file size limit with defaults applied.
func (rc *RootConfig) GetMaxFileBytes() int64 {
	if rc.MaxFileBytes == nil || *rc.MaxFileBytes <= 0 {
		return DefaultMaxFileBytes
	}
	return *rc.MaxFileBytes
}

// IsSkipBinaryEnabled returns whether binary files are skipped (default: true).
func (rc *RootConfig) IsSkipBinaryEnabled() bool {
	if rc.SkipBinary == nil {
		return true
	}
	return *rc.SkipBinary
}

// GetBackupDir returns the backup directory name with defaults applied.
func (rc *RootConfig) GetBackupDir() string {
	if rc.BackupDir == "" {
		return DefaultBackupDir
	}
	return rc.BackupDir
}

// Validate checks value ranges.
func (rc *RootConfig) Validate() error {
	for name, v := range map[string]*float64{
		"similarity_threshold": rc.SimilarityThreshold,
		"best_match_threshold": rc.BestMatchThreshold,
	} {
		if v != nil && (*v < 0 || *v > 100) {
			return fmt.Errorf("%s must be between 0 and 100, got %v", name, *v)
		}
	}
	if rc.ContextChars != nil && *rc.ContextChars < 0 {
		return fmt.Errorf("context_chars must not be negative, got %d", *rc.ContextChars)
	}
	if filepath.Base(rc.BackupDir) != rc.BackupDir && rc.BackupDir != "" {
		return fmt.Errorf("backup_dir must be a directory name, got %q", rc.BackupDir)
	}
	return nil
}

// LoadRootConfig loads .pastesearch.yaml from root.
// Returns the defaults if the file doesn't exist.
func LoadRootConfig(root string) (*RootConfig, error) {
	configPath := filepath.Join(root, RootFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultRootConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read root config %s: %w", configPath, err)
	}

	var config RootConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse root config %s: %w", configPath, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid root config %s: %w", configPath, err)
	}
	return &config, nil
}

// CreateDefaultRootConfig writes a commented .pastesearch.yaml into root.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultRootConfig(root string) (bool, error) {
	configPath := filepath.Join(root, RootFileName)

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# pastesearch root configuration

# Extensions that are never searched.
deny_extensions: [".bak", ".bat"]

# Minimum anchored match score (0-100).
similarity_threshold: 10

# Similarity a scored match needs to be reported as confident.
best_match_threshold: 80

# Characters of context kept on each side of a match.
context_chars: 50

skip_binary: true

# Directory next to each pasted file that receives backups.
backup_dir: Backup

# Extra gitignore-style patterns; .pastesearchignore is read as well.
# ignore:
#   - "node_modules/"
#   - "*.min.js"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write root config: %w", err)
	}
	return true, nil
}
