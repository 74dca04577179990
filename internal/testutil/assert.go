package testutil

import (
	"os"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(w.Abs(relPath)); os.IsNotExist(err) {
		w.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (w *TestWorkspace) AssertFileNotExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(w.Abs(relPath)); err == nil {
		w.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileEquals fails the test unless the file holds exactly want.
func (w *TestWorkspace) AssertFileEquals(relPath, want string) {
	w.t.Helper()
	if got := w.ReadFile(relPath); got != want {
		w.t.Errorf("file %s = %q, want %q", relPath, got, want)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (w *TestWorkspace) AssertFileNotContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertDirExists fails the test if the directory does not exist.
func (w *TestWorkspace) AssertDirExists(relPath string) {
	w.t.Helper()
	info, err := os.Stat(w.Abs(relPath))
	if os.IsNotExist(err) {
		w.t.Errorf("expected directory to exist: %s", relPath)
		return
	}
	if !info.IsDir() {
		w.t.Errorf("expected %s to be a directory, but it's a file", relPath)
	}
}

// AssertBestMatch runs a search and checks the top match's document and
// strategy.
func (w *TestWorkspace) AssertBestMatch(query, wantName, wantStrategy string) *CLIResult {
	w.t.Helper()
	result := w.RunCLIWithStdin(query, "search", "--stdin")
	result.MustSucceed(w.t)

	matches := result.DataList("matches")
	if len(matches) == 0 {
		w.t.Fatalf("search returned no matches\nRaw: %s", result.RawJSON)
	}
	best, _ := matches[0].(map[string]interface{})
	if best["name"] != wantName || best["strategy"] != wantStrategy {
		w.t.Errorf("best match = %v via %v, want %s via %s\nRaw: %s",
			best["name"], best["strategy"], wantName, wantStrategy, result.RawJSON)
	}
	return result
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}

// AssertResultCount checks that a list in the result has the expected length.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}
