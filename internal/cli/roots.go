package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/commands"
)

var rootsCmd = commands.GenerateCobraCommand("roots", runRoots)

type rootEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Default bool   `json:"default"`
}

func runRoots(_ *cobra.Command, _ []string, _ commands.Flags) error {
	c := getConfig()
	roots := c.ListRoots()

	names := make([]string, 0, len(roots))
	for name := range roots {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]rootEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, rootEntry{Name: name, Path: roots[name], Default: name == c.DefaultRoot})
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": getConfigPath(),
			"roots":       entries,
		}, &Meta{Count: len(entries)})
		return nil
	}

	if len(entries) == 0 {
		fmt.Println("No roots configured.")
		fmt.Println()
		fmt.Println("Set one up with 'pastesearch init <dir>', or add it to " + getConfigPath() + ":")
		fmt.Println()
		fmt.Println("  default_root = \"site\"")
		fmt.Println()
		fmt.Println("  [roots]")
		fmt.Println("  site = \"/path/to/site\"")
		return nil
	}

	for _, e := range entries {
		marker := "  "
		if e.Default {
			marker = "* "
		}
		fmt.Printf("%s%-12s → %s\n", marker, e.Name, e.Path)
	}
	if c.DefaultRoot != "" {
		fmt.Println()
		fmt.Println("* = default root")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(rootsCmd)
}
