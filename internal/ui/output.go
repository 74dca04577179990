package ui

import (
	"fmt"
	"strings"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Check returns msg prefixed with a checkmark.
func Check(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Check(fmt.Sprintf(format, args...))
}

// Errorf returns a formatted error message with X symbol
func Errorf(format string, args ...interface{}) string {
	return fmt.Sprintf("%s %s", SymbolError, fmt.Sprintf(format, args...))
}

// Warning returns a warning message with warning symbol
func Warning(msg string) string {
	return fmt.Sprintf("%s %s", SymbolWarning, msg)
}

// Warningf returns a formatted warning message with warning symbol
func Warningf(format string, args ...interface{}) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Infof returns a formatted info message with info symbol
func Infof(format string, args ...interface{}) string {
	return fmt.Sprintf("%s %s", SymbolInfo, fmt.Sprintf(format, args...))
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// FilePath returns an accent-styled file path or document name
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Span formats a byte range as [start, end).
func Span(start, end int) string {
	return fmt.Sprintf("[%d, %d)", start, end)
}

// Score formats a reliability score, with the similarity when there is one.
func Score(score float64, similarity *float64) string {
	if similarity == nil {
		return fmt.Sprintf("%.0f", score)
	}
	return fmt.Sprintf("%.1f (%.1f%%)", score, *similarity)
}

// Count returns a count with the right noun, e.g. "3 files".
func Count(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// Visible renders control characters in s so that whitespace differences
// show up on a terminal.
func Visible(s string) string {
	r := strings.NewReplacer("\r\n", `\r\n`+"\n", "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}
