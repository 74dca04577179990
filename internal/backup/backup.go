// Package backup copies a document aside before it is overwritten.
package backup

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/pastesearch/internal/atomicfile"
)

// DefaultDirName is the sibling directory backups are written to.
const DefaultDirName = "Backup"

// TimeLayout formats the timestamp embedded in backup names.
const TimeLayout = "2006-01-02_15-04-05"

// ErrBackupFailed wraps every failure to produce a backup.
var ErrBackupFailed = errors.New("backup failed")

// Name returns the backup file name for base taken at t.
func Name(base string, t time.Time) string {
	return fmt.Sprintf("%s.backup_%s.bak", base, t.Format(TimeLayout))
}

// Maker writes backups into a directory next to each document.
type Maker struct {
	dirName string
	now     func() time.Time
	logger  *slog.Logger
}

// New returns a Maker writing into dirName (DefaultDirName when empty).
func New(dirName string, logger *slog.Logger) *Maker {
	if dirName == "" {
		dirName = DefaultDirName
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Maker{dirName: dirName, now: time.Now, logger: logger}
}

// Dir returns the backup directory for the document at path.
func (m *Maker) Dir(path string) string {
	return filepath.Join(filepath.Dir(path), m.dirName)
}

// Backup copies path into its backup directory, preserving the modification
// time, and returns the backup's path.
func (m *Maker) Backup(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackupFailed, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrBackupFailed, path)
	}

	dir := m.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", ErrBackupFailed, dir, err)
	}

	taken := m.now()
	dst := filepath.Join(dir, Name(filepath.Base(path), taken))
	if err := atomicfile.Copy(path, dst); err != nil {
		return "", fmt.Errorf("%w: %w", ErrBackupFailed, err)
	}

	if st, err := os.Stat(dst); err == nil {
		m.logger.Debug("backup written",
			"path", dst,
			"taken", taken.Format(time.RFC3339),
			"mtime", st.ModTime().Format(time.RFC3339),
			"age", taken.Sub(st.ModTime()).Round(time.Second).String())
	}
	return dst, nil
}
