// Package textenc detects byte-order marks and text encodings, and decodes
// raw file bytes into UTF-8 strings.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is a detected text encoding label.
type Encoding string

const (
	UTF8    Encoding = "utf-8"
	UTF8BOM Encoding = "utf-8-sig"
	UTF16LE Encoding = "utf-16le"
	Latin1  Encoding = "latin-1"
)

// ProbeSize is how many leading bytes are checked for UTF-8 validity.
const ProbeSize = 100

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// Info describes the encoding of a file.
type Info struct {
	Encoding  Encoding `json:"encoding"`
	BOMLength int      `json:"bom_length"`
	// Fallback is set when the file could not be read and defaults were used.
	Fallback bool `json:"fallback,omitempty"`
}

// HasBOM reports whether the file starts with a byte-order mark.
func (i Info) HasBOM() bool {
	return i.BOMLength > 0
}

// Default is returned when detection cannot read the file.
func Default() Info {
	return Info{Encoding: UTF8, Fallback: true}
}

// Detect inspects the first bytes of the file at path.
// Read failures never surface as errors; they yield Default().
func Detect(path string) Info {
	f, err := os.Open(path)
	if err != nil {
		return Default()
	}
	defer f.Close()

	buf := make([]byte, ProbeSize+1)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Default()
	}
	return DetectBytes(buf[:n])
}

// DetectBytes classifies raw file bytes (or a prefix of them).
func DetectBytes(raw []byte) Info {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return Info{Encoding: UTF8BOM, BOMLength: len(bomUTF8)}
	case bytes.HasPrefix(raw, bomUTF16LE):
		return Info{Encoding: UTF16LE, BOMLength: len(bomUTF16LE)}
	}

	probe := raw
	if len(probe) > ProbeSize {
		probe = trimPartialRune(probe[:ProbeSize])
	}
	if utf8.Valid(probe) {
		return Info{Encoding: UTF8}
	}
	return Info{Encoding: Latin1}
}

// trimPartialRune drops a trailing multi-byte sequence cut off by truncation.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if !utf8.RuneStart(b[i]) {
			continue
		}
		if !utf8.FullRune(b[i:]) {
			return b[:i]
		}
		return b
	}
	return b
}

// Decode strips the byte-order mark and converts raw bytes to a UTF-8 string.
// UTF-8 input is passed through untouched, invalid sequences included.
func Decode(raw []byte, info Info) (string, error) {
	body := raw
	if info.BOMLength > 0 && len(body) >= info.BOMLength {
		body = body[info.BOMLength:]
	}

	switch info.Encoding {
	case UTF8, UTF8BOM, "":
		return string(body), nil
	case UTF16LE:
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(body)
		if err != nil {
			return "", fmt.Errorf("decode utf-16le: %w", err)
		}
		return string(out), nil
	case Latin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
		if err != nil {
			return "", fmt.Errorf("decode latin-1: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", info.Encoding)
	}
}
