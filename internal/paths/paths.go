// Package paths provides canonical helpers for root-relative file paths and
// for keeping file operations inside the search root.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathOutsideRoot is returned when a path resolves outside the search root.
var ErrPathOutsideRoot = errors.New("path is outside the search root")

// NormalizeRelPath normalizes a root-relative path:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// RelativeTo returns path relative to root in slash form.
func RelativeTo(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return NormalizeRelPath(rel), nil
}

// ValidateWithinRoot checks that path, after resolving symlinks where
// possible, stays inside root.
func ValidateWithinRoot(root, path string) error {
	absRoot, err := resolve(root)
	if err != nil {
		return fmt.Errorf("failed to resolve root: %w", err)
	}
	absPath, err := resolve(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPathOutsideRoot, path)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrPathOutsideRoot, path)
	}
	return nil
}

func resolve(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

// SamePath reports whether a and b name the same file once resolved.
func SamePath(a, b string) bool {
	ra, err := resolve(a)
	if err != nil {
		return false
	}
	rb, err := resolve(b)
	if err != nil {
		return false
	}
	return ra == rb
}
