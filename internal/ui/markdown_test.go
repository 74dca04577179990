package ui

import (
	"strings"
	"testing"
)

func TestRenderMarkdownNormalizesTrailingNewline(t *testing.T) {
	out, err := RenderMarkdown("# Heading", 80)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected rendered markdown to end with newline, got %q", out)
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Fatalf("expected single trailing newline, got %q", out)
	}
}

func TestRenderMarkdownDefaultsWidthWhenNonPositive(t *testing.T) {
	out, err := RenderMarkdown("hello", 0)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Fatalf("expected non-empty rendered output")
	}
}

func TestContextMarkdown(t *testing.T) {
	md := ContextMarkdown(ContextView{
		Title:    "main.go",
		Subtitle: "literal · 500",
		Language: "Go",
		Text:     "func main() {}\n",
	})
	want := "## main.go\n\nliteral · 500\n\n```go\nfunc main() {}\n```\n"
	if md != want {
		t.Fatalf("got %q, want %q", md, want)
	}
}

func TestContextMarkdownLengthensFence(t *testing.T) {
	md := ContextMarkdown(ContextView{Title: "README.md", Text: "```sh\nls\n```"})
	if !strings.Contains(md, "````\n```sh") {
		t.Fatalf("expected a longer fence around embedded backticks:\n%s", md)
	}
}

func TestRenderContextKeepsText(t *testing.T) {
	out, err := RenderContext(ContextView{Title: "notes.txt", Text: "alpha beta gamma"}, 80)
	if err != nil {
		t.Fatalf("RenderContext() error = %v", err)
	}
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "gamma") || !strings.Contains(out, "notes") {
		t.Fatalf("rendered context lost text: %q", out)
	}
}

func TestMarkdownStyleUsesCodeTheme(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() {
		markdownCodeTheme = orig
	})

	ConfigureMarkdownCodeTheme("dracula")
	if markdownCodeTheme != "dracula" {
		t.Fatalf("expected code theme dracula, got %q", markdownCodeTheme)
	}
	if style := markdownStyle(); style.CodeBlock.Theme != "dracula" {
		t.Fatalf("expected rendered style theme dracula, got %q", style.CodeBlock.Theme)
	}
}

func TestConfigureMarkdownCodeThemeFallsBackToDefault(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() {
		markdownCodeTheme = orig
	})

	ConfigureMarkdownCodeTheme("not-a-real-theme")
	if markdownCodeTheme != defaultCodeTheme {
		t.Fatalf("expected default code theme %q, got %q", defaultCodeTheme, markdownCodeTheme)
	}
}

func TestConfigureMarkdownCodeThemeIsCaseInsensitive(t *testing.T) {
	orig := markdownCodeTheme
	t.Cleanup(func() {
		markdownCodeTheme = orig
	})

	ConfigureMarkdownCodeTheme("DrAcUlA")
	if markdownCodeTheme != "dracula" {
		t.Fatalf("expected normalized code theme dracula, got %q", markdownCodeTheme)
	}
}
