package ui

import (
	"os"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTableAlignsColumns(t *testing.T) {
	tbl := NewTable(3)
	tbl.SetIndent("  ")
	tbl.AddRow("literal", "1", "stopped")
	tbl.AddRow("anchored", "12")

	want := "  literal   1   stopped\n  anchored  12  \n"
	if got := tbl.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTableIgnoresStylingWidth(t *testing.T) {
	tbl := NewTable(2)
	tbl.AddRow(lipgloss.NewStyle().Bold(true).Render("ab"), "x")
	tbl.AddRow("abcd", "y")

	for i, w := range tbl.colWidths {
		if i == 0 && w != 4 {
			t.Errorf("column 0 width = %d, want 4", w)
		}
	}
}

func TestEmptyTable(t *testing.T) {
	if NewTable(2).String() != "" {
		t.Error("empty table should render nothing")
	}
}

func TestList(t *testing.T) {
	l := NewList()
	l.Add("a.txt")
	l.Add("b.txt")
	if got := l.String(); got != "  • a.txt\n  • b.txt\n" {
		t.Errorf("got %q", got)
	}
}

func TestDisplayContextNonTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	d := NewDisplayContextFor(f)
	if d.IsTTY {
		t.Error("a regular file is not a terminal")
	}
	if d.TermWidth != DefaultTermWidth || d.AvailableWidth(2) != DefaultTermWidth-2 {
		t.Errorf("width = %d", d.TermWidth)
	}
}
