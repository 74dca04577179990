package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// TestRegistryHasRequiredCommands verifies that essential commands exist.
func TestRegistryHasRequiredCommands(t *testing.T) {
	requiredCommands := []string{
		"search", "paste", "matches", "show", "diagnose", "init", "version",
	}

	for _, cmd := range requiredCommands {
		if _, ok := Registry[cmd]; !ok {
			t.Errorf("Registry missing required command %q", cmd)
		}
	}
}

// TestRegistryMetadataComplete verifies all commands have required metadata.
func TestRegistryMetadataComplete(t *testing.T) {
	for name, meta := range Registry {
		t.Run(name, func(t *testing.T) {
			if meta.Name != name {
				t.Errorf("Name = %q, want %q", meta.Name, name)
			}
			if meta.Description == "" {
				t.Error("Command has empty Description")
			}

			for i, arg := range meta.Args {
				if arg.Name == "" {
					t.Errorf("Arg %d has empty Name", i)
				}
				if arg.Description == "" {
					t.Errorf("Arg %q has empty Description", arg.Name)
				}
			}

			seen := make(map[string]bool)
			for i, flag := range meta.Flags {
				if flag.Name == "" {
					t.Errorf("Flag %d has empty Name", i)
				}
				if seen[flag.Name] {
					t.Errorf("Flag %q declared twice", flag.Name)
				}
				seen[flag.Name] = true
				if flag.Description == "" {
					t.Errorf("Flag %q has empty Description", flag.Name)
				}
				if flag.Type == "" {
					t.Errorf("Flag %q has empty Type", flag.Name)
				}
			}
		})
	}
}

func TestCobraCommandGeneration(t *testing.T) {
	cmd := GenerateCobraCommand("search", nil)
	if cmd == nil {
		t.Fatal("GenerateCobraCommand returned nil for 'search'")
	}
	if cmd.Use != "search" {
		t.Errorf("Use = %q, want 'search'", cmd.Use)
	}

	threshold := cmd.Flags().Lookup("threshold")
	if threshold == nil {
		t.Fatal("Missing 'threshold' flag")
	}
	if threshold.Shorthand != "t" {
		t.Errorf("threshold shorthand = %q, want t", threshold.Shorthand)
	}
	if cmd.Flags().Lookup("from-file") == nil || cmd.Flags().Lookup("stdin") == nil {
		t.Error("Missing input flags")
	}
}

func TestCobraCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		use     string
		okArgs  [][]string
		badArgs [][]string
	}{
		{name: "diagnose", use: "diagnose <file>", okArgs: [][]string{{"a.txt"}}, badArgs: [][]string{nil, {"a", "b"}}},
		{name: "paste", use: "paste [name]", okArgs: [][]string{nil, {"a.txt"}}, badArgs: [][]string{{"a", "b"}}},
		{name: "version", use: "version", okArgs: [][]string{nil}, badArgs: [][]string{{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := GenerateCobraCommand(tt.name, nil)
			if cmd.Use != tt.use {
				t.Errorf("Use = %q, want %q", cmd.Use, tt.use)
			}
			for _, args := range tt.okArgs {
				if err := cmd.Args(cmd, args); err != nil {
					t.Errorf("Args(%v) = %v, want nil", args, err)
				}
			}
			for _, args := range tt.badArgs {
				if err := cmd.Args(cmd, args); err == nil {
					t.Errorf("Args(%v) = nil, want error", args)
				}
			}
		})
	}
}

func TestHandlerReceivesFlags(t *testing.T) {
	var got Flags
	cmd := GenerateCobraCommand("search", func(_ *cobra.Command, _ []string, flags Flags) error {
		got = flags
		return nil
	})
	cmd.SetArgs([]string{"--threshold", "42.5", "-s", "literal", "-s", "anchored", "--stdin", "-n", "3"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got.Float("threshold") != 42.5 {
		t.Errorf("threshold = %v, want 42.5", got.Float("threshold"))
	}
	if s := got.Strings("strategy"); len(s) != 2 || s[0] != "literal" || s[1] != "anchored" {
		t.Errorf("strategy = %v", s)
	}
	if !got.Bool("stdin") {
		t.Error("stdin = false, want true")
	}
	if got.Int("limit") != 3 {
		t.Errorf("limit = %d, want 3", got.Int("limit"))
	}
	if got.String("from-file") != "" {
		t.Errorf("from-file = %q, want empty", got.String("from-file"))
	}
}

func TestNameCompletion(t *testing.T) {
	prev := NameCompleter
	t.Cleanup(func() { NameCompleter = prev })
	NameCompleter = func(_ *cobra.Command, toComplete string) []string {
		return []string{toComplete + "notes.txt"}
	}

	cmd := GenerateCobraCommand("show", nil)
	got, directive := cmd.ValidArgsFunction(cmd, nil, "")
	if len(got) != 1 || got[0] != "notes.txt" {
		t.Errorf("completions = %v", got)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v", directive)
	}

	if got, _ := cmd.ValidArgsFunction(cmd, []string{"notes.txt"}, ""); got != nil {
		t.Errorf("completions past last arg = %v, want none", got)
	}
}

func TestResolveCommandID(t *testing.T) {
	tests := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{path: "paste", wantID: "paste", wantOK: true},
		{path: " search ", wantID: "search", wantOK: true},
		{path: "", wantID: "", wantOK: false},
		{path: "not a real command", wantID: "", wantOK: false},
	}

	for _, tt := range tests {
		gotID, gotOK := ResolveCommandID(tt.path)
		if gotOK != tt.wantOK || gotID != tt.wantID {
			t.Fatalf("ResolveCommandID(%q) = %q, %v; want %q, %v", tt.path, gotID, gotOK, tt.wantID, tt.wantOK)
		}
	}
}

func TestRootlessCommands(t *testing.T) {
	cases := map[string]bool{
		"init":    true,
		"version": true,
		"roots":   true,
		"search":  false,
		"paste":   false,
	}
	for id, want := range cases {
		_, meta, ok := LookupMetaByPath(id)
		if !ok {
			t.Fatalf("registry missing %q", id)
		}
		if meta.Rootless != want {
			t.Errorf("Registry[%q].Rootless = %v, want %v", id, meta.Rootless, want)
		}
	}
}

func TestLongDescriptionIncludesExamples(t *testing.T) {
	got := LongDescription(Registry["paste"])
	if want := "  pastesearch paste config.json"; !strings.Contains(got, want) {
		t.Errorf("long description missing %q:\n%s", want, got)
	}
	if got := LongDescription(Meta{Description: "short"}); got != "short" {
		t.Errorf("LongDescription = %q, want short", got)
	}
}
