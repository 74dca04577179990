// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/config"
	"github.com/aidanlsb/pastesearch/internal/logging"
	"github.com/aidanlsb/pastesearch/internal/ui"
)

var (
	// Global flags
	rootPathFlag  string // Explicit root directory
	workspaceName string // Named root from config
	configPath    string
	logLevelFlag  string

	// Resolved values
	resolvedRoot       string
	resolvedConfigPath string
	cfg                *config.Config
	rootCfg            *config.RootConfig
	logger             = slog.Default()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pastesearch",
	Short: "Find clipboard text in a directory tree and paste over it",
	Long: `pastesearch finds where a block of copied text lives in a tree of text files,
even when line endings, byte-order marks or surrounding whitespace differ,
and later writes replacement text back to exactly that place.

Run 'pastesearch search' with the original text on the clipboard, then
'pastesearch paste' with the replacement.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for completion and help
		switch cmd.Name() {
		case "completion", "help":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return preRunFailure(cmd, ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "Fix or remove "+config.ResolveConfigPath(configPath))
		}

		logger, err = setupLogging(cfg)
		if err != nil {
			return preRunFailure(cmd, ErrConfigInvalid, err, "")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		if _, meta, ok := commands.LookupMetaByPath(cmd.Name()); ok && meta.Rootless {
			return nil
		}

		resolvedRoot, err = resolveRoot(cfg)
		if err != nil {
			return preRunFailure(cmd, ErrRootNotFound, err, "Run 'pastesearch roots' to see configured roots")
		}
		if info, statErr := os.Stat(resolvedRoot); statErr != nil || !info.IsDir() {
			return preRunFailure(cmd, ErrRootNotFound, fmt.Errorf("root not found: %s", resolvedRoot), "Run 'pastesearch init "+resolvedRoot+"' to set it up")
		}

		rootCfg, err = config.LoadRootConfig(resolvedRoot)
		if err != nil {
			return preRunFailure(cmd, ErrConfigInvalid, err, "Fix "+filepath.Join(resolvedRoot, config.RootFileName))
		}
		logger.Debug("root resolved", "root", resolvedRoot, "config", resolvedConfigPath)
		return nil
	},
}

// Execute runs the CLI. Ctrl-C cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootPathFlag, "root", "", "Directory to search (overrides the configured roots)")
	rootCmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "", "Named root from config")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Diagnostic log level: debug, info, warn, error")

	commands.NameCompleter = completeStoredNames
}

// getRoot returns the resolved search root.
func getRoot() string {
	return resolvedRoot
}

// getRootConfig returns the root's settings, defaults applied when it has none.
func getRootConfig() *config.RootConfig {
	if rootCfg == nil {
		return config.DefaultRootConfig()
	}
	return rootCfg
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getConfigPath returns the resolved global config path.
func getConfigPath() string {
	return resolvedConfigPath
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	loadedCfg, err := config.LoadFrom(resolvedPath)
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, resolvedPath, nil
}

// setupLogging installs the diagnostic logger. The flag wins over [log] in
// config.toml.
func setupLogging(c *config.Config) (*slog.Logger, error) {
	levelName := c.Log.Level
	if strings.TrimSpace(logLevelFlag) != "" {
		levelName = logLevelFlag
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{Level: level, Format: format, Writer: os.Stderr}), nil
}

// resolveRoot picks the search root: --root > --workspace > default_root >
// current directory.
func resolveRoot(c *config.Config) (string, error) {
	var root string
	switch {
	case rootPathFlag != "":
		root = rootPathFlag
	case workspaceName != "":
		path, err := c.GetRootPath(workspaceName)
		if err != nil {
			return "", fmt.Errorf("root '%s' not found in config", workspaceName)
		}
		root = path
	case c.DefaultRoot != "":
		path, err := c.GetRootPath("")
		if err != nil {
			return "", fmt.Errorf("default root '%s' not found in config", c.DefaultRoot)
		}
		root = path
	default:
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		root = wd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root %s: %w", root, err)
	}
	return abs, nil
}

// preRunFailure reports a setup error. In JSON mode the envelope is written
// and cobra's own error line is suppressed.
func preRunFailure(cmd *cobra.Command, code string, err error, suggestion string) error {
	if jsonOutput {
		outputErrorFromErr(code, err, suggestion)
		cmd.SilenceErrors = true
	}
	return err
}

// completeStoredNames completes document names from the last search. Shell
// completion skips PersistentPreRunE, so the root is resolved here.
func completeStoredNames(_ *cobra.Command, toComplete string) []string {
	c, _, err := loadGlobalConfigWithPath()
	if err != nil {
		return nil
	}
	root, err := resolveRoot(c)
	if err != nil {
		return nil
	}
	store, err := openStore(root)
	if err != nil {
		return nil
	}
	defer store.Close()

	names, err := store.Names()
	if err != nil {
		return nil
	}
	var out []string
	for _, ns := range names {
		if strings.HasPrefix(ns.Name, toComplete) {
			out = append(out, ns.Name)
		}
	}
	return out
}

