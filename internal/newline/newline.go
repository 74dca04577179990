// Package newline normalizes line endings and maps offsets in a normalized
// view back to the original text.
package newline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfRange is returned when a normalized offset lies outside the view.
var ErrOutOfRange = errors.New("offset out of range")

// Normalize converts CRLF and lone CR to LF. It is idempotent.
func Normalize(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// StripCR converts CRLF to LF and removes every remaining CR.
func StripCR(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "")
}

// Mode selects how lone CRs are treated by a View.
type Mode int

const (
	// ModeCanonical maps a lone CR to one LF.
	ModeCanonical Mode = iota
	// ModeStripCR drops lone CRs entirely.
	ModeStripCR
)

// Transform applies the mode's normalization to s.
func (m Mode) Transform(s string) string {
	if m == ModeStripCR {
		return StripCR(s)
	}
	return Normalize(s)
}

// View pairs an original text with its normalized form.
type View struct {
	Original   string
	Normalized string
	Mode       Mode
}

// NewView builds a view over original.
func NewView(original string, mode Mode) *View {
	return &View{
		Original:   original,
		Normalized: mode.Transform(original),
		Mode:       mode,
	}
}

// step reports how many original bytes and normalized units the unit at i spans.
func (v *View) step(i int) (width, units int) {
	o := v.Original
	if o[i] != '\r' {
		return 1, 1
	}
	if i+1 < len(o) && o[i+1] == '\n' {
		return 2, 1
	}
	if v.Mode == ModeStripCR {
		return 1, 0
	}
	return 1, 1
}

func (v *View) checkRange(norm int) error {
	if norm < 0 || norm > len(v.Normalized) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, norm, len(v.Normalized))
	}
	return nil
}

// ToOriginalStart maps a normalized offset to the original offset where that
// unit begins. Zero-width units in front of it are skipped.
func (v *View) ToOriginalStart(norm int) (int, error) {
	if err := v.checkRange(norm); err != nil {
		return 0, err
	}
	i, n := 0, 0
	for i < len(v.Original) && n < norm {
		w, u := v.step(i)
		i += w
		n += u
	}
	for i < len(v.Original) {
		w, u := v.step(i)
		if u != 0 {
			break
		}
		i += w
	}
	return i, nil
}

// ToOriginalEnd maps a normalized offset to the original offset just past
// the last counted unit.
func (v *View) ToOriginalEnd(norm int) (int, error) {
	if err := v.checkRange(norm); err != nil {
		return 0, err
	}
	i, n := 0, 0
	for i < len(v.Original) && n < norm {
		w, u := v.step(i)
		i += w
		n += u
	}
	return i, nil
}

// Span maps the normalized range [normStart, normStart+normLen) to original
// offsets. The original slice transforms back to the normalized slice.
func (v *View) Span(normStart, normLen int) (start, end int, err error) {
	if normLen < 0 {
		return 0, 0, fmt.Errorf("%w: negative length %d", ErrOutOfRange, normLen)
	}
	start, err = v.ToOriginalStart(normStart)
	if err != nil {
		return 0, 0, err
	}
	end, err = v.ToOriginalEnd(normStart + normLen)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ToNormalized maps an original offset to the number of normalized units
// that precede it.
func (v *View) ToNormalized(orig int) (int, error) {
	if orig < 0 || orig > len(v.Original) {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, orig, len(v.Original))
	}
	i, n := 0, 0
	for i < orig {
		w, u := v.step(i)
		i += w
		n += u
	}
	return n, nil
}
