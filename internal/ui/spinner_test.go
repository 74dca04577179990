package ui

import (
	"os"
	"testing"
)

func TestSpinnerSilentWithoutTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	s := NewSpinner("Searching")
	s.out = f
	s.Start()
	s.SetMessage("Still searching")
	s.Stop()
	s.Stop()

	info, err := f.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("spinner wrote %d bytes to a non-terminal", info.Size())
	}
}
