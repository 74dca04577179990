package backup

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestName(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC)
	got := Name("config.json", at)
	want := "config.json.backup_2024-03-09_07-05-01.bak"
	if got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	m := New("", nil)
	m.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) }

	dst, err := m.Backup(path)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}

	want := filepath.Join(dir, DefaultDirName, "notes.txt.backup_2024-01-02_03-04-05.bak")
	if dst != want {
		t.Errorf("backup path = %q, want %q", dst, want)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("backup content = %q", data)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(mtime) {
		t.Errorf("backup mtime = %v, want %v", info.ModTime(), mtime)
	}
}

func TestBackupCustomDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := New(".old-copies", nil)
	dst, err := m.Backup(path)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if filepath.Dir(dst) != filepath.Join(dir, ".old-copies") {
		t.Errorf("backup dir = %q", filepath.Dir(dst))
	}
}

func TestBackupMissingFile(t *testing.T) {
	m := New("", nil)
	_, err := m.Backup(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrBackupFailed) {
		t.Fatalf("expected ErrBackupFailed, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected the cause to stay in the chain, got %v", err)
	}
}

func TestBackupDirBlockedByFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, DefaultDirName), []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := New("", nil).Backup(path)
	if !errors.Is(err, ErrBackupFailed) {
		t.Fatalf("expected ErrBackupFailed, got %v", err)
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		t.Errorf("expected a *fs.PathError in the chain, got %v", err)
	}
}
