// Package clipboard supplies the text a search or paste works with.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
)

// ErrEmpty is returned when the source holds no text.
var ErrEmpty = errors.New("no text available")

// Source yields the current query or replacement text.
type Source interface {
	Read() (string, error)
	// Name describes the source in messages.
	Name() string
}

// System reads the operating system clipboard.
type System struct{}

func (System) Name() string { return "clipboard" }

func (System) Read() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("system clipboard is not available on this platform")
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return nonEmpty(text)
}

// Reader reads all of R. Text is returned byte for byte.
type Reader struct {
	R     io.Reader
	Label string
}

func (r Reader) Name() string {
	if r.Label == "" {
		return "input"
	}
	return r.Label
}

func (r Reader) Read() (string, error) {
	data, err := io.ReadAll(r.R)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", r.Name(), err)
	}
	return nonEmpty(string(data))
}

// File reads the file at Path.
type File struct {
	Path string
}

func (f File) Name() string { return f.Path }

func (f File) Read() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return nonEmpty(string(data))
}

// Auto picks standard input when it is piped and the system clipboard otherwise.
func Auto(stdin *os.File) Source {
	if stdin != nil && !isTerminal(stdin.Fd()) {
		return Reader{R: stdin, Label: "stdin"}
	}
	return System{}
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func nonEmpty(text string) (string, error) {
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
