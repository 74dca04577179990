package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/pastesearch/internal/config"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

// testResponse is Response with Data left raw for per-test decoding.
type testResponse struct {
	OK       bool            `json:"ok"`
	Data     json.RawMessage `json:"data"`
	Error    *ErrorInfo      `json:"error"`
	Warnings []Warning       `json:"warnings"`
	Meta     *Meta           `json:"meta"`
}

func (r testResponse) hasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// writeFiles creates files under dir, returning dir.
func writeFiles(t *testing.T, dir string, files map[string]string) string {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return dir
}

// textFile writes text to a file outside any search root, for --from-file.
func textFile(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}
	return path
}

// useRoot points the CLI's global state at root in JSON mode.
func useRoot(t *testing.T, root string) {
	t.Helper()
	prevRoot := resolvedRoot
	prevRootCfg := rootCfg
	prevCfg := cfg
	prevJSON := jsonOutput
	t.Cleanup(func() {
		resolvedRoot = prevRoot
		rootCfg = prevRootCfg
		cfg = prevCfg
		jsonOutput = prevJSON
	})

	resolvedRoot = root
	rootCfg = config.DefaultRootConfig()
	cfg = &config.Config{}
	jsonOutput = true
}

// setFlags sets command flags for one test and restores their defaults.
func setFlags(t *testing.T, cmd *cobra.Command, values map[string]string) {
	t.Helper()
	for name, value := range values {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("set --%s: %v", name, err)
		}
	}
	t.Cleanup(func() {
		for name := range values {
			f := cmd.Flags().Lookup(name)
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
	})
}

// runJSON runs cmd's handler and decodes the JSON envelope it prints.
func runJSON(t *testing.T, cmd *cobra.Command, args ...string) testResponse {
	t.Helper()
	out := captureStdout(t, func() {
		if err := cmd.RunE(cmd, args); err != nil {
			t.Fatalf("%s: %v", cmd.Name(), err)
		}
	})

	var resp testResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	return resp
}

func mustOK(t *testing.T, resp testResponse) {
	t.Helper()
	if !resp.OK {
		t.Fatalf("expected ok=true, got error %+v", resp.Error)
	}
}

func mustFail(t *testing.T, resp testResponse, code string) {
	t.Helper()
	if resp.OK {
		t.Fatalf("expected error %s, got ok=true; data=%s", code, resp.Data)
	}
	if resp.Error == nil || resp.Error.Code != code {
		t.Fatalf("expected error code %s, got %+v", code, resp.Error)
	}
}

func decodeData(t *testing.T, resp testResponse, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Data, v); err != nil {
		t.Fatalf("decode data: %v; data=%s", err, resp.Data)
	}
}

// searchFor runs a search for query over the current root and requires success.
func searchFor(t *testing.T, query string) testResponse {
	t.Helper()
	setFlags(t, searchCmd, map[string]string{"from-file": textFile(t, query)})
	resp := runJSON(t, searchCmd)
	mustOK(t, resp)
	return resp
}
