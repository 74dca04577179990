package ui

import (
	"strings"
	"testing"
)

func TestScore(t *testing.T) {
	if got := Score(500, nil); got != "500" {
		t.Errorf("exact score = %q", got)
	}
	sim := 87.25
	if got := Score(187.25, &sim); got != "187.2 (87.2%)" && got != "187.3 (87.3%)" {
		t.Errorf("scored = %q", got)
	}
}

func TestCount(t *testing.T) {
	if got := Count(1, "file", "files"); got != "1 file" {
		t.Errorf("got %q", got)
	}
	if got := Count(0, "file", "files"); got != "0 files" {
		t.Errorf("got %q", got)
	}
}

func TestSpan(t *testing.T) {
	if got := Span(3, 14); got != "[3, 14)" {
		t.Errorf("got %q", got)
	}
}

func TestVisible(t *testing.T) {
	got := Visible("a\r\nb\rc\td")
	if !strings.Contains(got, `a\r\n`) || !strings.Contains(got, `b\rc\td`) {
		t.Errorf("got %q", got)
	}
}

func TestStatusSymbols(t *testing.T) {
	if !strings.HasPrefix(Check("done"), SymbolSuccess) {
		t.Error("Check should start with success symbol")
	}
	if !strings.HasPrefix(Warningf("%d left", 2), SymbolWarning) {
		t.Error("Warningf should start with warning symbol")
	}
	if Errorf("x") != SymbolError+" x" {
		t.Errorf("Errorf = %q", Errorf("x"))
	}
}
