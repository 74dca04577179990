package cli

import (
	"strings"
	"testing"
)

func TestShowReturnsContextAndLanguage(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{
		"main.go": "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n",
	})
	useRoot(t, root)
	searchFor(t, "func main() {")

	resp := runJSON(t, showCmd)
	mustOK(t, resp)

	var data struct {
		Match    matchJSON `json:"match"`
		Language string    `json:"language"`
		Context  struct {
			Start int    `json:"start"`
			End   int    `json:"end"`
			Text  string `json:"text"`
		} `json:"context"`
	}
	decodeData(t, resp, &data)
	if data.Language != "Go" {
		t.Errorf("language = %q, want Go", data.Language)
	}
	if !strings.Contains(data.Context.Text, "func main() {") {
		t.Errorf("context %q does not contain the match", data.Context.Text)
	}
	if data.Context.Start > data.Match.Start || data.Context.End < data.Match.End {
		t.Errorf("context [%d, %d) does not cover match [%d, %d)",
			data.Context.Start, data.Context.End, data.Match.Start, data.Match.End)
	}
}

func TestShowRawText(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{
		"notes.txt": "first line\nsecond line\n",
	})
	useRoot(t, root)
	searchFor(t, "second")

	jsonOutput = false
	setFlags(t, showCmd, map[string]string{"raw": "true"})
	out := captureStdout(t, func() {
		if err := showCmd.RunE(showCmd, []string{"notes.txt"}); err != nil {
			t.Fatalf("show: %v", err)
		}
	})
	if !strings.Contains(out, "second line") {
		t.Errorf("raw output missing context:\n%s", out)
	}
}
