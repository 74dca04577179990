// Package testutil provides reusable test utilities for pastesearch
// integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestWorkspace is a temporary search root with its own global config.
type TestWorkspace struct {
	Path       string
	ConfigPath string
	t          *testing.T
	rootConfig string
	files      map[string][]byte
}

// NewWorkspace creates a new test workspace builder.
// Call Build() to create the actual directory.
func NewWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string][]byte),
	}
}

// WithFile adds a text file to the workspace.
// The path is relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = []byte(content)
	return w
}

// WithBytes adds a file with exact bytes, for byte-order marks and mixed
// line endings.
func (w *TestWorkspace) WithBytes(path string, content []byte) *TestWorkspace {
	w.files[path] = content
	return w
}

// WithRootConfig sets the .pastesearch.yaml content.
func (w *TestWorkspace) WithRootConfig(yaml string) *TestWorkspace {
	w.rootConfig = yaml
	return w
}

// Build creates the workspace directory and all configured files.
// Returns the TestWorkspace for method chaining.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Path = w.t.TempDir()
	// Keep the global config out of the user's home directory.
	w.ConfigPath = filepath.Join(w.t.TempDir(), "config.toml")

	if w.rootConfig != "" {
		w.writeFile(".pastesearch.yaml", []byte(w.rootConfig))
	}
	for path, content := range w.files {
		w.writeFile(path, content)
	}

	return w
}

// writeFile writes a file to the workspace, creating directories as needed.
func (w *TestWorkspace) writeFile(relPath string, content []byte) {
	w.t.Helper()
	fullPath := w.Abs(relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		w.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// Abs returns the absolute path of a workspace-relative path.
func (w *TestWorkspace) Abs(relPath string) string {
	return filepath.Join(w.Path, filepath.FromSlash(relPath))
}

// ReadFile reads a file from the workspace.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	content, err := os.ReadFile(w.Abs(relPath))
	if err != nil {
		w.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (w *TestWorkspace) FileExists(relPath string) bool {
	w.t.Helper()
	_, err := os.Stat(w.Abs(relPath))
	return err == nil
}

// Glob returns workspace files matching a relative pattern.
func (w *TestWorkspace) Glob(pattern string) []string {
	w.t.Helper()
	matches, err := filepath.Glob(w.Abs(pattern))
	if err != nil {
		w.t.Fatalf("bad glob %q: %v", pattern, err)
	}
	return matches
}
