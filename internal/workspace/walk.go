package workspace

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aidanlsb/pastesearch/internal/document"
	"github.com/aidanlsb/pastesearch/internal/paths"
)

// WalkResult is one file visited by Walk. Exactly one of Document, Skipped
// and Error is set.
type WalkResult struct {
	Path         string
	RelativePath string
	Document     *document.Document
	Skipped      Reason
	Error        error
}

// Walk visits every file under root in lexical order and calls handler for
// each. Returning an error from handler stops the walk.
func Walk(ctx context.Context, root string, f *Filter, handler func(WalkResult) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relativePath, _ := paths.RelativeTo(root, path)
		if err != nil {
			return handler(WalkResult{Path: path, RelativePath: relativePath, Error: err})
		}

		if d.IsDir() {
			if path != root && f.SkipDir(d.Name(), relativePath) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		result := WalkResult{Path: path, RelativePath: relativePath}
		if reason := f.CheckName(d.Name()); reason != ReasonNone {
			result.Skipped = reason
			return handler(result)
		}
		if reason := f.CheckPath(relativePath); reason != ReasonNone {
			result.Skipped = reason
			return handler(result)
		}

		// Security: verify file is within root
		if err := paths.ValidateWithinRoot(root, path); err != nil {
			if errors.Is(err, paths.ErrPathOutsideRoot) {
				result.Skipped = ReasonOutside
				return handler(result)
			}
			result.Error = err
			return handler(result)
		}

		info, err := os.Stat(path)
		if err != nil {
			result.Error = err
			return handler(result)
		}
		if info.IsDir() {
			return nil
		}
		if reason := f.CheckSize(info.Size()); reason != ReasonNone {
			result.Skipped = reason
			return handler(result)
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			result.Error = err
			return handler(result)
		}
		if reason := f.CheckContent(raw); reason != ReasonNone {
			result.Skipped = reason
			return handler(result)
		}

		doc, err := document.FromBytes(path, raw)
		if err != nil {
			result.Error = err
			return handler(result)
		}
		doc.RelPath = relativePath
		result.Document = doc
		return handler(result)
	})
}

// Collection is the outcome of collecting a root's documents.
type Collection struct {
	Documents []*document.Document
	Skipped   map[Reason]int
	Errors    []WalkResult
}

// Collect walks root and gathers its searchable documents. Unreadable files
// are logged and counted, not fatal.
func Collect(ctx context.Context, root string, f *Filter, logger *slog.Logger) (*Collection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Collection{Skipped: make(map[Reason]int)}
	err := Walk(ctx, root, f, func(r WalkResult) error {
		switch {
		case r.Error != nil:
			logger.Warn("skipping unreadable file", "path", r.Path, "error", r.Error)
			c.Errors = append(c.Errors, r)
		case r.Skipped != ReasonNone:
			logger.Debug("skipping file", "path", r.RelativePath, "reason", string(r.Skipped))
			c.Skipped[r.Skipped]++
		default:
			c.Documents = append(c.Documents, r.Document)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// SkippedTotal returns how many files were left out for any reason.
func (c *Collection) SkippedTotal() int {
	n := 0
	for _, v := range c.Skipped {
		n += v
	}
	return n
}
