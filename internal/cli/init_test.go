package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/pastesearch/internal/config"
)

func useConfigPath(t *testing.T) string {
	t.Helper()
	prev := configPath
	t.Cleanup(func() { configPath = prev })
	configPath = filepath.Join(t.TempDir(), "config.toml")
	return configPath
}

func TestInitCreatesRootAndRegistersIt(t *testing.T) {
	useRoot(t, "")
	cfgPath := useConfigPath(t)
	dir := filepath.Join(t.TempDir(), "site")

	resp := runJSON(t, initCmd, dir)
	mustOK(t, resp)

	var data struct {
		Root              string `json:"root"`
		Name              string `json:"name"`
		Default           bool   `json:"default"`
		RootConfigCreated bool   `json:"root_config_created"`
		Gitignore         string `json:"gitignore"`
	}
	decodeData(t, resp, &data)
	if data.Name != "site" || !data.Default || !data.RootConfigCreated || data.Gitignore != "created" {
		t.Errorf("init = %+v", data)
	}

	if _, err := os.Stat(filepath.Join(dir, config.RootFileName)); err != nil {
		t.Errorf("root config not written: %v", err)
	}
	if _, err := config.LoadRootConfig(dir); err != nil {
		t.Errorf("written root config does not load: %v", err)
	}
	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil || !strings.Contains(string(gitignore), ".pastesearch/") {
		t.Errorf(".gitignore = %q, %v", gitignore, err)
	}

	loaded, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.DefaultRoot != "site" || loaded.Roots["site"] != data.Root {
		t.Errorf("config = %+v", loaded)
	}
}

func TestInitTwiceKeepsDefaultAndFiles(t *testing.T) {
	useRoot(t, "")
	cfgPath := useConfigPath(t)
	first := t.TempDir()
	second := writeFiles(t, t.TempDir(), map[string]string{".gitignore": "node_modules/\n"})

	mustOK(t, runJSON(t, initCmd, first))

	setFlags(t, initCmd, map[string]string{"name": "docs"})
	resp := runJSON(t, initCmd, second)
	mustOK(t, resp)
	var data struct {
		Default   bool   `json:"default"`
		Gitignore string `json:"gitignore"`
	}
	decodeData(t, resp, &data)
	if data.Default {
		t.Error("second root should not become the default")
	}
	if data.Gitignore != "updated" {
		t.Errorf("gitignore = %s, want updated", data.Gitignore)
	}
	got, _ := os.ReadFile(filepath.Join(second, ".gitignore"))
	if !strings.HasPrefix(string(got), "node_modules/\n") {
		t.Errorf("existing .gitignore lines lost: %q", got)
	}

	status, err := ensureGitignore(second)
	if err != nil || status != "unchanged" {
		t.Errorf("ensureGitignore = %s, %v; want unchanged", status, err)
	}

	loaded, err := config.LoadFrom(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.DefaultRoot != filepath.Base(first) || len(loaded.Roots) != 2 {
		t.Errorf("config = %+v", loaded)
	}
}

func TestRootsListsSortedWithDefault(t *testing.T) {
	useRoot(t, "")
	cfg = &config.Config{
		DefaultRoot: "work",
		Roots: map[string]string{
			"work":     "/src/work",
			"personal": "/src/personal",
		},
	}

	resp := runJSON(t, rootsCmd)
	mustOK(t, resp)

	var data struct {
		Roots []rootEntry `json:"roots"`
	}
	decodeData(t, resp, &data)
	if len(data.Roots) != 2 {
		t.Fatalf("roots = %+v", data.Roots)
	}
	if data.Roots[0].Name != "personal" || data.Roots[0].Default {
		t.Errorf("first = %+v, want personal", data.Roots[0])
	}
	if data.Roots[1].Name != "work" || !data.Roots[1].Default || data.Roots[1].Path != "/src/work" {
		t.Errorf("second = %+v, want default work", data.Roots[1])
	}
}
