// Package workspace walks a search root and decides which files are
// searchable documents.
package workspace

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/aidanlsb/pastesearch/internal/config"
	"github.com/aidanlsb/pastesearch/internal/matchstore"
	"github.com/aidanlsb/pastesearch/internal/textenc"
)

// IgnoreFileName is the optional gitignore-style file at the search root.
const IgnoreFileName = ".pastesearchignore"

// DefaultMaxFileBytes bounds the size of files that are read.
const DefaultMaxFileBytes int64 = 10 << 20

// Reason explains why a file was left out of the search.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonDenied    Reason = "denied-extension"
	ReasonBackup    Reason = "backup-name"
	ReasonIgnored   Reason = "ignored"
	ReasonBinary    Reason = "binary"
	ReasonTooLarge  Reason = "too-large"
	ReasonOutside   Reason = "outside-root"
	ReasonStateFile Reason = "state-file"
)

// DefaultDenyExtensions are never searched.
func DefaultDenyExtensions() []string {
	return []string{".bak", ".bat"}
}

// DefaultBackupPatterns match names produced by editors and backup tools.
func DefaultBackupPatterns() []string {
	return []string{
		`\.backup_\d{8}_\d{6}$`,
		`\.temp\.bak$`,
		`~$`,
		`\.orig$`,
		`\.old$`,
	}
}

// FilterOptions configures a Filter. A nil DenyExtensions takes the defaults.
type FilterOptions struct {
	DenyExtensions []string
	// BackupPatterns are added to DefaultBackupPatterns, which always apply.
	BackupPatterns []string
	// IgnorePatterns are gitignore lines added to those in IgnoreFileName.
	IgnorePatterns []string
	// SkipDirs are directory names skipped anywhere in the tree.
	SkipDirs     []string
	SkipBinary   bool
	MaxFileBytes int64
}

// Filter decides whether a path is searchable.
type Filter struct {
	denyExt      map[string]struct{}
	backup       []*regexp.Regexp
	ignore       *gitignore.GitIgnore
	skipDirs     map[string]struct{}
	skipBinary   bool
	maxFileBytes int64
}

// NewFilter compiles opts and reads root's ignore file, if any.
func NewFilter(root string, opts FilterOptions) (*Filter, error) {
	if opts.DenyExtensions == nil {
		opts.DenyExtensions = DefaultDenyExtensions()
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}

	f := &Filter{
		denyExt:      make(map[string]struct{}, len(opts.DenyExtensions)),
		skipDirs:     map[string]struct{}{matchstore.DirName: {}, ".git": {}},
		skipBinary:   opts.SkipBinary,
		maxFileBytes: opts.MaxFileBytes,
	}
	for _, ext := range opts.DenyExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		f.denyExt[ext] = struct{}{}
	}
	patterns := DefaultBackupPatterns()
	for _, p := range opts.BackupPatterns {
		if p = strings.TrimSpace(p); p != "" && !slices.Contains(patterns, p) {
			patterns = append(patterns, p)
		}
	}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid backup pattern %q: %w", p, err)
		}
		f.backup = append(f.backup, re)
	}
	for _, d := range opts.SkipDirs {
		if d = strings.TrimSpace(d); d != "" {
			f.skipDirs[d] = struct{}{}
		}
	}

	lines, err := readIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	lines = append(lines, opts.IgnorePatterns...)
	if len(lines) > 0 {
		f.ignore = gitignore.CompileIgnoreLines(lines...)
	}
	return f, nil
}

// IsBackupName reports whether name looks like a backup or temporary copy.
func (f *Filter) IsBackupName(name string) bool {
	for _, re := range f.backup {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// CheckName applies the extension deny-list and backup patterns to a file name.
func (f *Filter) CheckName(name string) Reason {
	if _, denied := f.denyExt[strings.ToLower(filepath.Ext(name))]; denied {
		return ReasonDenied
	}
	if f.IsBackupName(name) {
		return ReasonBackup
	}
	return ReasonNone
}

// SkipDir reports whether a directory should not be descended into.
func (f *Filter) SkipDir(name, relPath string) bool {
	if _, ok := f.skipDirs[name]; ok {
		return true
	}
	return f.ignore != nil && relPath != "." && f.ignore.MatchesPath(relPath+"/")
}

// CheckPath applies the ignore patterns to a root-relative file path.
// Settings and ignore files are never searched.
func (f *Filter) CheckPath(relPath string) Reason {
	if base := filepath.Base(relPath); base == IgnoreFileName || base == config.RootFileName {
		return ReasonStateFile
	}
	if f.ignore != nil && f.ignore.MatchesPath(relPath) {
		return ReasonIgnored
	}
	return ReasonNone
}

// CheckSize rejects files larger than the configured limit.
func (f *Filter) CheckSize(size int64) Reason {
	if size > f.maxFileBytes {
		return ReasonTooLarge
	}
	return ReasonNone
}

// CheckContent rejects binary content. UTF-16 text is recognized by its
// byte-order mark before the binary heuristic runs.
func (f *Filter) CheckContent(raw []byte) Reason {
	if !f.skipBinary {
		return ReasonNone
	}
	if textenc.DetectBytes(raw).Encoding == textenc.UTF16LE {
		return ReasonNone
	}
	if enry.IsBinary(raw) {
		return ReasonBinary
	}
	return ReasonNone
}

func readIgnoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}
