package sqlutil

import "testing"

func TestInClauseArgs(t *testing.T) {
	ph, args := InClauseArgs([]string{"a", "b", "c"})
	if ph != "?, ?, ?" {
		t.Errorf("placeholders = %q", ph)
	}
	if len(args) != 3 || args[2] != "c" {
		t.Errorf("args = %v", args)
	}

	ph, args = InClauseArgs([]int(nil))
	if ph != "NULL" || args != nil {
		t.Errorf("empty = %q, %v", ph, args)
	}
}
