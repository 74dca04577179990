// Package reconcile re-checks a stored match against the live document and
// writes replacement text at the position it resolves to.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aidanlsb/pastesearch/internal/atomicfile"
	"github.com/aidanlsb/pastesearch/internal/document"
	"github.com/aidanlsb/pastesearch/internal/locate"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/newline"
)

var (
	// ErrInvalidOffsets means no usable range could be resolved.
	ErrInvalidOffsets = errors.New("invalid offsets")
	// ErrVerifyMismatch means the file did not hold the new text after writing.
	ErrVerifyMismatch = errors.New("written text does not match")
	// ErrReadDocument wraps failures to read the live document.
	ErrReadDocument = errors.New("failed to read document")
)

// Resolution names how the final offsets were obtained.
type Resolution string

const (
	ResolutionFresh               Resolution = "fresh"
	ResolutionRelocatedLiteral    Resolution = "relocated-literal"
	ResolutionRelocatedNormalized Resolution = "relocated-normalized"
	ResolutionAnchoredQuery       Resolution = "anchored-query"
	ResolutionRelocatedQuery      Resolution = "relocated-query"
	ResolutionStaleFallback       Resolution = "stale-fallback"
)

// Warning codes.
const (
	WarnStaleOffsets = "STALE_OFFSETS"
	WarnTextDiffers  = "REPLACED_TEXT_DIFFERS"
)

// Warning is a non-fatal problem found while reconciling.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result describes a reconciliation and, after Apply, the write.
type Result struct {
	Path       string     `json:"path"`
	Resolution Resolution `json:"resolution"`
	// StoredStart and StoredEnd are the match offsets shifted to the live
	// document's byte-order mark.
	StoredStart int `json:"stored_start"`
	StoredEnd   int `json:"stored_end"`
	// Start and End are the replaced range in document coordinates.
	Start   int    `json:"start"`
	End     int    `json:"end"`
	OldText string `json:"old_text"`
	NewText string `json:"new_text"`
	// WrittenStart and WrittenEnd locate the new text in the written file,
	// which never carries a byte-order mark.
	WrittenStart int       `json:"written_start"`
	WrittenEnd   int       `json:"written_end"`
	Delta        int       `json:"delta"`
	BackupPath   string    `json:"backup_path,omitempty"`
	Written      bool      `json:"written"`
	Warnings     []Warning `json:"warnings,omitempty"`
}

// VerifyError reports that the post-write check failed.
type VerifyError struct {
	Result *Result
	Got    string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: expected %q at [%d, %d) in %s, found %q",
		ErrVerifyMismatch, e.Result.NewText, e.Result.WrittenStart, e.Result.WrittenEnd, e.Result.Path, e.Got)
}

func (e *VerifyError) Unwrap() error {
	return ErrVerifyMismatch
}

// BackupFunc copies path aside before it is overwritten and returns the copy's path.
type BackupFunc func(path string) (string, error)

// Options configure a Reconciler.
type Options struct {
	// Backup runs before every write. A nil Backup writes without one.
	Backup BackupFunc
	Logger *slog.Logger
}

// Reconciler resolves stored matches against live documents.
type Reconciler struct {
	backup    BackupFunc
	logger    *slog.Logger
	writeFile func(path string, data []byte) error
}

// New returns a Reconciler.
func New(opts Options) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		backup: opts.Backup,
		logger: logger,
		writeFile: func(path string, data []byte) error {
			return atomicfile.WriteFile(path, data, atomicfile.Options{})
		},
	}
}

// Resolve re-reads the match's document and decides where newText belongs.
// It does not modify anything.
func (r *Reconciler) Resolve(ctx context.Context, m model.RankedMatch, newText string) (*Result, *document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	doc, err := document.Read(m.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrReadDocument, err)
	}

	shift := doc.BOMLength - m.BOMLength
	res := &Result{
		Path:        m.Path,
		StoredStart: m.Start + shift,
		StoredEnd:   m.End + shift,
		NewText:     newText,
	}
	res.Start, res.End = res.StoredStart, res.StoredEnd

	if !stale(doc, res.Start, res.End, newText) {
		res.Resolution = ResolutionFresh
		return r.finish(doc, res, newText)
	}
	r.logger.Debug("stored offsets are stale", "path", m.Path, "start", res.Start, "end", res.End)

	if c, ok := locate.FindExact(doc, newText); ok {
		res.Start, res.End = c.Start, c.End
		res.Resolution = ResolutionRelocatedNormalized
		if c.Strategy == model.StrategyLiteral {
			res.Resolution = ResolutionRelocatedLiteral
		}
		return r.finish(doc, res, newText)
	}

	if slice, ok := doc.Slice(res.Start, res.End); ok && m.Query != "" && newline.Normalize(slice) == newline.Normalize(m.Query) {
		res.Resolution = ResolutionAnchoredQuery
		return r.finish(doc, res, m.Query)
	}

	if c, ok := locate.FindExact(doc, m.Query); ok {
		res.Start, res.End = c.Start, c.End
		res.Resolution = ResolutionRelocatedQuery
		return r.finish(doc, res, m.Query)
	}

	res.Resolution = ResolutionStaleFallback
	res.Warnings = append(res.Warnings, Warning{
		Code:    WarnStaleOffsets,
		Message: fmt.Sprintf("could not relocate text in %s; using stored offsets [%d, %d)", doc.Name, res.Start, res.End),
	})
	r.logger.Warn("falling back to stale offsets", "path", m.Path, "start", res.Start, "end", res.End)
	return r.finish(doc, res, newText)
}

// finish validates the resolved range and fills in the text fields. expected
// is the text the resolution matched against.
func (r *Reconciler) finish(doc *document.Document, res *Result, expected string) (*Result, *document.Document, error) {
	slice, ok := doc.Slice(res.Start, res.End)
	if !ok {
		return nil, nil, fmt.Errorf("%w: [%d, %d) in %s of length %d", ErrInvalidOffsets, res.Start, res.End, doc.Name, doc.Len())
	}
	if !equivalent(slice, expected) {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnTextDiffers,
			Message: fmt.Sprintf("text at [%d, %d) in %s differs from the expected text", res.Start, res.End, doc.Name),
		})
	}

	res.OldText = slice
	res.WrittenStart = res.Start - doc.BOMLength
	res.WrittenEnd = res.WrittenStart + len(res.NewText)
	res.Delta = len(res.NewText) - len(slice)
	return res, doc, nil
}

// Apply resolves m, backs the document up and replaces the resolved range
// with newText, then reads the file back to verify the write.
func (r *Reconciler) Apply(ctx context.Context, m model.RankedMatch, newText string) (*Result, error) {
	res, doc, err := r.Resolve(ctx, m, newText)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.backup != nil {
		path, err := r.backup(doc.Path)
		if err != nil {
			return res, err
		}
		res.BackupPath = path
	}

	start := res.Start - doc.BOMLength
	end := res.End - doc.BOMLength
	out := doc.Content[:start] + newText + doc.Content[end:]
	if err := r.writeFile(doc.Path, []byte(out)); err != nil {
		return res, fmt.Errorf("failed to write %s: %w", doc.Path, err)
	}
	res.Written = true
	r.logger.Debug("replaced text", "path", doc.Path, "resolution", string(res.Resolution),
		"start", res.Start, "end", res.End, "delta", res.Delta)

	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrReadDocument, err)
	}
	if res.WrittenEnd > len(raw) {
		return res, &VerifyError{Result: res, Got: string(raw[min(res.WrittenStart, len(raw)):])}
	}
	if got := string(raw[res.WrittenStart:res.WrittenEnd]); got != newText {
		return res, &VerifyError{Result: res, Got: got}
	}
	return res, nil
}

// stale reports whether [start, end) no longer holds text.
func stale(doc *document.Document, start, end int, text string) bool {
	slice, ok := doc.Slice(start, end)
	if !ok || len(slice) != len(text) {
		return true
	}
	return newline.Normalize(slice) != newline.Normalize(text)
}

func equivalent(slice, text string) bool {
	return slice == text ||
		newline.Normalize(slice) == newline.Normalize(text) ||
		newline.StripCR(slice) == newline.StripCR(text)
}
