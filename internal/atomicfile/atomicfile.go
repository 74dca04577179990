// Package atomicfile replaces files in one step so readers never see a
// half-written document.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Options tune WriteFile.
type Options struct {
	// Perm is the mode of the new file. Zero keeps the mode of the file being
	// replaced, or 0644 when there is none.
	Perm os.FileMode
	// ModTime, when set, is applied to the file after the rename.
	ModTime time.Time
}

// WriteFile writes data to a temp file next to path and renames it into place.
func WriteFile(path string, data []byte, opts Options) error {
	perm := opts.Perm
	if perm == 0 {
		perm = 0o644
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode().Perm()
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	// Not every filesystem honours chmod.
	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := replace(tmpPath, path); err != nil {
		return err
	}
	committed = true

	if !opts.ModTime.IsZero() {
		if err := os.Chtimes(path, opts.ModTime, opts.ModTime); err != nil {
			return fmt.Errorf("set modification time: %w", err)
		}
	}
	return nil
}

// Copy duplicates src at dst, keeping src's mode and modification time.
func Copy(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return WriteFile(dst, data, Options{Perm: info.Mode().Perm(), ModTime: info.ModTime()})
}

// replace renames tmp over path. Windows refuses to rename over an existing
// file, so the target is removed and the rename retried once.
func replace(tmp, path string) error {
	err := os.Rename(tmp, path)
	if err == nil {
		return nil
	}
	_ = os.Remove(path)
	if err2 := os.Rename(tmp, path); err2 != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
