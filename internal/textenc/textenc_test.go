package textenc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDetectBytes(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		wantEnc Encoding
		wantBOM int
	}{
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...), UTF8BOM, 3},
		{"utf16le bom", []byte{0xFF, 0xFE, 'h', 0}, UTF16LE, 2},
		{"plain ascii", []byte("hello world"), UTF8, 0},
		{"multibyte utf8", []byte("olá, mundo"), UTF8, 0},
		{"latin1 byte", []byte{'o', 'l', 0xE1}, Latin1, 0},
		{"empty", nil, UTF8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectBytes(tt.raw)
			if got.Encoding != tt.wantEnc {
				t.Errorf("Encoding = %q, want %q", got.Encoding, tt.wantEnc)
			}
			if got.BOMLength != tt.wantBOM {
				t.Errorf("BOMLength = %d, want %d", got.BOMLength, tt.wantBOM)
			}
		})
	}
}

func TestDetectBytesIgnoresRuneCutAtProbeBoundary(t *testing.T) {
	// 99 ASCII bytes followed by a 2-byte rune straddles the probe boundary.
	raw := []byte(strings.Repeat("a", ProbeSize-1) + "é" + "tail")
	if got := DetectBytes(raw); got.Encoding != UTF8 {
		t.Fatalf("Encoding = %q, want %q", got.Encoding, UTF8)
	}
}

func TestDetectMissingFileFallsBack(t *testing.T) {
	got := Detect(filepath.Join(t.TempDir(), "missing.txt"))
	if got.Encoding != UTF8 || got.BOMLength != 0 || !got.Fallback {
		t.Fatalf("Detect(missing) = %+v, want utf-8 fallback without BOM", got)
	}
}

func TestDetectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.txt")
	if err := os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "hello world"...), 0o644); err != nil {
		t.Fatal(err)
	}
	got := Detect(path)
	if got.Encoding != UTF8BOM || !got.HasBOM() {
		t.Fatalf("Detect = %+v, want utf-8-sig with BOM", got)
	}
}

func TestDecode(t *testing.T) {
	t.Run("utf8 bom stripped", func(t *testing.T) {
		raw := append([]byte{0xEF, 0xBB, 0xBF}, "hello"...)
		got, err := Decode(raw, DetectBytes(raw))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != "hello" {
			t.Errorf("Decode = %q, want %q", got, "hello")
		}
	})

	t.Run("utf16le", func(t *testing.T) {
		raw := []byte{0xFF, 0xFE, 'h', 0, 'i', 0, '\r', 0, '\n', 0}
		got, err := Decode(raw, DetectBytes(raw))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != "hi\r\n" {
			t.Errorf("Decode = %q, want %q", got, "hi\r\n")
		}
	})

	t.Run("latin1", func(t *testing.T) {
		raw := []byte{'o', 'l', 0xE1}
		got, err := Decode(raw, DetectBytes(raw))
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != "olá" {
			t.Errorf("Decode = %q, want %q", got, "olá")
		}
	})

	t.Run("invalid utf8 beyond probe kept as is", func(t *testing.T) {
		raw := append([]byte(strings.Repeat("x", ProbeSize+10)), 0xFF)
		info := DetectBytes(raw)
		got, err := Decode(raw, info)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != string(raw) {
			t.Error("expected bytes to pass through unchanged")
		}
	})
}
