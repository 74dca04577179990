package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func buildTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "notes.txt", []byte("hello world\n"))
	writeFile(t, root, "config.json", []byte(`{"a": 1}`))
	writeFile(t, root, "config.json.old", []byte(`{"a": 0}`))
	writeFile(t, root, "a.bak", []byte("backup"))
	writeFile(t, root, "run.BAT", []byte("echo hi"))
	writeFile(t, root, "bin.dat", []byte{0x00, 0x01, 0x02, 0x03})
	writeFile(t, root, "ignored.log", []byte("log line"))
	writeFile(t, root, "sub/deep.txt", []byte("deep"))
	writeFile(t, root, ".pastesearch/matches.db", []byte("db"))
	writeFile(t, root, ".git/HEAD", []byte("ref"))
	writeFile(t, root, IgnoreFileName, []byte("# logs\n*.log\n"))
	return root
}

func relPaths(c *Collection) []string {
	out := make([]string, 0, len(c.Documents))
	for _, d := range c.Documents {
		out = append(out, d.RelPath)
	}
	return out
}

func TestCollect(t *testing.T) {
	root := buildTree(t)
	f, err := NewFilter(root, FilterOptions{SkipBinary: true})
	require.NoError(t, err)

	c, err := Collect(context.Background(), root, f, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"config.json", "notes.txt", "sub/deep.txt"}, relPaths(c))
	assert.Equal(t, 2, c.Skipped[ReasonDenied])
	assert.Equal(t, 1, c.Skipped[ReasonBackup])
	assert.Equal(t, 1, c.Skipped[ReasonBinary])
	assert.Equal(t, 1, c.Skipped[ReasonIgnored])
	assert.Equal(t, 1, c.Skipped[ReasonStateFile])
	assert.Equal(t, 6, c.SkippedTotal())
	assert.Empty(t, c.Errors)

	doc := c.Documents[1]
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, filepath.Join(root, "notes.txt"), doc.Path)
	assert.Equal(t, "hello world\n", doc.Content)
}

func TestCollectKeepsBinaryWhenNotSkipping(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "bin.dat", []byte{0x00, 0x01})

	f, err := NewFilter(root, FilterOptions{})
	require.NoError(t, err)
	c, err := Collect(context.Background(), root, f, nil)
	require.NoError(t, err)
	assert.Len(t, c.Documents, 1)
}

func TestCollectUTF16NotBinary(t *testing.T) {
	root := t.TempDir()
	// "hi" in UTF-16LE with a byte-order mark.
	writeFile(t, root, "wide.txt", []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00})

	f, err := NewFilter(root, FilterOptions{SkipBinary: true})
	require.NoError(t, err)
	c, err := Collect(context.Background(), root, f, nil)
	require.NoError(t, err)
	require.Len(t, c.Documents, 1)
	assert.Equal(t, "hi", c.Documents[0].Content)
	assert.Equal(t, 2, c.Documents[0].BOMLength)
}

func TestCollectSizeLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "big.txt", []byte("0123456789"))
	writeFile(t, root, "small.txt", []byte("01"))

	f, err := NewFilter(root, FilterOptions{MaxFileBytes: 5})
	require.NoError(t, err)
	c, err := Collect(context.Background(), root, f, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"small.txt"}, relPaths(c))
	assert.Equal(t, 1, c.Skipped[ReasonTooLarge])
}

func TestCollectSkipDirsAndIgnoredDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Backup/a.txt", []byte("old"))
	writeFile(t, root, "vendor/lib.txt", []byte("lib"))
	writeFile(t, root, "keep.txt", []byte("keep"))

	f, err := NewFilter(root, FilterOptions{SkipDirs: []string{"Backup"}, IgnorePatterns: []string{"vendor/"}})
	require.NoError(t, err)
	c, err := Collect(context.Background(), root, f, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, relPaths(c))
}

func TestCollectCanceled(t *testing.T) {
	root := buildTree(t)
	f, err := NewFilter(root, FilterOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Collect(ctx, root, f, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckName(t *testing.T) {
	f, err := NewFilter(t.TempDir(), FilterOptions{})
	require.NoError(t, err)

	tests := []struct {
		name string
		want Reason
	}{
		{"main.go", ReasonNone},
		{"config.json.old", ReasonBackup},
		{"report.txt.orig", ReasonBackup},
		{"draft.md~", ReasonBackup},
		{"data.backup_20240101_120000", ReasonBackup},
		{"x.temp.bak", ReasonDenied},
		{"build.bat", ReasonDenied},
		{"old.BAK", ReasonDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.CheckName(tt.name))
		})
	}
}

func TestCheckNameKeepsDefaultsWithCustomPatterns(t *testing.T) {
	f, err := NewFilter(t.TempDir(), FilterOptions{BackupPatterns: []string{`\.orig$`, `\.draft$`}})
	require.NoError(t, err)

	assert.Equal(t, ReasonBackup, f.CheckName("config.json.old"))
	assert.Equal(t, ReasonBackup, f.CheckName("notes.txt~"))
	assert.Equal(t, ReasonBackup, f.CheckName("page.draft"))
	assert.Equal(t, ReasonNone, f.CheckName("page.md"))
}

func TestCollectSkipsSettingsFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", []byte("hello"))
	writeFile(t, root, "config.json.old", []byte(`{"a": 0}`))
	writeFile(t, root, ".pastesearch.yaml", []byte("backup_patterns:\n  - '\\.draft$'\n"))
	writeFile(t, root, IgnoreFileName, []byte("*.log\n"))

	f, err := NewFilter(root, FilterOptions{BackupPatterns: []string{`\.draft$`}})
	require.NoError(t, err)

	c, err := Collect(context.Background(), root, f, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, relPaths(c))
	assert.Equal(t, 1, c.Skipped[ReasonBackup])
	assert.Equal(t, 2, c.Skipped[ReasonStateFile])
}

func TestNewFilterRejectsBadPattern(t *testing.T) {
	_, err := NewFilter(t.TempDir(), FilterOptions{BackupPatterns: []string{"("}})
	assert.Error(t, err)
}

func TestNewFilterNormalizesExtensions(t *testing.T) {
	f, err := NewFilter(t.TempDir(), FilterOptions{DenyExtensions: []string{"LOG", " .tmp "}})
	require.NoError(t, err)
	assert.Equal(t, ReasonDenied, f.CheckName("a.log"))
	assert.Equal(t, ReasonDenied, f.CheckName("a.tmp"))
	assert.Equal(t, ReasonNone, f.CheckName("a.bak"))
}
