package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/config"
	"github.com/aidanlsb/pastesearch/internal/matchstore"
	"github.com/aidanlsb/pastesearch/internal/ui"
)

var initCmd = commands.GenerateCobraCommand("init", runInit)

func runInit(_ *cobra.Command, args []string, flags commands.Flags) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	root, err := filepath.Abs(path)
	if err != nil {
		return handleError(ErrInvalidInput, err, "")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(root, 0o755); err != nil {
		return handleError(ErrFileWriteError, fmt.Errorf("failed to create root directory: %w", err), "")
	}

	createdRootConfig, err := config.CreateDefaultRootConfig(root)
	if err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	gitignoreStatus, err := ensureGitignore(root)
	if err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	cfgPath := config.ResolveConfigPath(configPath)
	createdConfig, err := config.CreateDefault(cfgPath)
	if err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	name := strings.TrimSpace(flags.String("name"))
	if name == "" {
		name = filepath.Base(root)
	}
	updated, err := config.RegisterRoot(cfgPath, name, root)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Fix or remove "+cfgPath)
	}
	isDefault := updated.DefaultRoot == name

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"root":                root,
			"name":                name,
			"default":             isDefault,
			"root_config_created": createdRootConfig,
			"config_path":         cfgPath,
			"config_created":      createdConfig,
			"gitignore":           gitignoreStatus,
		}, nil)
		return nil
	}

	fmt.Printf("Initializing root at: %s\n", ui.FilePath(root))
	if createdRootConfig {
		fmt.Println(ui.Check("Created " + config.RootFileName))
	} else {
		fmt.Println(ui.Hint("• " + config.RootFileName + " already exists (kept)"))
	}
	switch gitignoreStatus {
	case "created":
		fmt.Println(ui.Check("Created .gitignore"))
	case "updated":
		fmt.Println(ui.Check("Updated .gitignore (added " + matchstore.DirName + "/)"))
	default:
		fmt.Println(ui.Hint("• .gitignore already ignores " + matchstore.DirName + "/"))
	}
	if createdConfig {
		fmt.Println(ui.Check("Created " + cfgPath))
	}
	registered := fmt.Sprintf("Registered root %q", name)
	if isDefault {
		registered += " (default)"
	}
	fmt.Println(ui.Check(registered))
	return nil
}

// ensureGitignore makes sure the match store directory is ignored.
// It returns "created", "updated" or "unchanged".
func ensureGitignore(root string) (string, error) {
	gitignorePath := filepath.Join(root, ".gitignore")
	entry := matchstore.DirName + "/"

	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}
	for _, line := range strings.Split(existing, "\n") {
		if strings.TrimSpace(line) == entry {
			return "unchanged", nil
		}
	}

	status := "created"
	content := "# pastesearch match store\n" + entry + "\n"
	if existing != "" {
		status = "updated"
		content = strings.TrimRight(existing, "\n") + "\n\n" + content
	}
	if err := os.WriteFile(gitignorePath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return status, nil
}

func init() {
	rootCmd.AddCommand(initCmd)
}
