// Package document reads text files into immutable, decoded documents.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/textenc"
)

// Document is a decoded text file. Content excludes the byte-order mark;
// document coordinates include it.
type Document struct {
	Path      string
	Name      string
	RelPath   string
	Encoding  textenc.Encoding
	BOMLength int
	Content   string
}

// Read loads and decodes the file at path.
func Read(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return FromBytes(path, raw)
}

// FromBytes builds a document from already-read file bytes.
func FromBytes(path string, raw []byte) (*Document, error) {
	info := textenc.DetectBytes(raw)
	content, err := textenc.Decode(raw, info)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &Document{
		Path:      path,
		Name:      filepath.Base(path),
		Encoding:  info.Encoding,
		BOMLength: info.BOMLength,
		Content:   content,
	}, nil
}

// Len is the length of the document in document coordinates.
func (d *Document) Len() int {
	return d.BOMLength + len(d.Content)
}

// InBounds reports whether [start, end) is a non-empty range inside the document.
func (d *Document) InBounds(start, end int) bool {
	return start >= d.BOMLength && start < end && end <= d.Len()
}

// Slice returns the content between document offsets start and end.
func (d *Document) Slice(start, end int) (string, bool) {
	if !d.InBounds(start, end) {
		return "", false
	}
	return d.Content[start-d.BOMLength : end-d.BOMLength], true
}

// Context returns the match span widened by up to chars runes on each side.
func (d *Document) Context(start, end, chars int) model.Context {
	s := clamp(start-d.BOMLength, 0, len(d.Content))
	e := clamp(end-d.BOMLength, s, len(d.Content))

	for n := 0; n < chars && s > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(d.Content[:s])
		s -= size
	}
	for n := 0; n < chars && e < len(d.Content); n++ {
		_, size := utf8.DecodeRuneInString(d.Content[e:])
		e += size
	}

	return model.Context{
		Start: s + d.BOMLength,
		End:   e + d.BOMLength,
		Text:  d.Content[s:e],
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
