package cli

import (
	"os"
	"testing"

	"github.com/aidanlsb/pastesearch/internal/matchstore"
	"github.com/aidanlsb/pastesearch/internal/model"
)

type searchData struct {
	PassID   string        `json:"pass_id"`
	Files    int           `json:"files"`
	Outcomes []outcomeJSON `json:"outcomes"`
	Matches  []matchJSON   `json:"matches"`
}

func TestSearchRanksLiteralMatchFirstAndSavesPass(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{
		"a.txt":     "alpha\nbeta\ngamma\n",
		"b/c.txt":   "nothing to see\n",
		"image.bak": "beta\n",
	})
	useRoot(t, root)

	resp := searchFor(t, "beta")

	var data searchData
	decodeData(t, resp, &data)
	if data.Files != 2 {
		t.Errorf("files = %d, want 2 (.bak is denied)", data.Files)
	}
	if len(data.Matches) == 0 {
		t.Fatal("expected matches")
	}
	best := data.Matches[0]
	if best.Name != "a.txt" || best.Strategy != "literal" {
		t.Fatalf("best = %s via %s, want a.txt via literal", best.Name, best.Strategy)
	}
	if best.Start != 6 || best.End != 10 || best.Score != 500 {
		t.Errorf("best span/score = [%d, %d) %v, want [6, 10) 500", best.Start, best.End, best.Score)
	}
	if !best.Confident {
		t.Error("literal match should be confident")
	}
	if len(data.Outcomes) != len(model.AllStrategies()) {
		t.Errorf("outcomes = %d, want one per strategy", len(data.Outcomes))
	}

	store, err := matchstore.Open(root)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	pass, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pass.ID != data.PassID {
		t.Errorf("stored pass = %s, want %s", pass.ID, data.PassID)
	}
	if len(pass.Matches) != len(data.Matches) {
		t.Errorf("stored %d matches, printed %d", len(pass.Matches), len(data.Matches))
	}
}

func TestSearchFindsLFTextInCRLFFile(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{
		"win.txt": "one\r\ntwo\r\nthree\r\n",
	})
	useRoot(t, root)

	resp := searchFor(t, "one\ntwo")

	var data searchData
	decodeData(t, resp, &data)
	if len(data.Matches) == 0 {
		t.Fatal("expected matches")
	}
	best := data.Matches[0]
	if best.Strategy != "strip-cr" {
		t.Errorf("best strategy = %s, want strip-cr", best.Strategy)
	}
	if best.Start != 0 || best.End != 8 {
		t.Errorf("best span = [%d, %d), want [0, 8)", best.Start, best.End)
	}
	for _, m := range data.Matches {
		if m.Strategy == "literal" {
			t.Error("literal should not match across line endings")
		}
	}
}

func TestSearchOffsetsIncludeBOM(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{
		"bom.txt": "\xEF\xBB\xBFhello world",
	})
	useRoot(t, root)

	var data searchData
	decodeData(t, searchFor(t, "world"), &data)
	best := data.Matches[0]
	if best.Start != 9 || best.End != 14 || best.BOMLength != 3 {
		t.Errorf("best = [%d, %d) bom %d, want [9, 14) bom 3", best.Start, best.End, best.BOMLength)
	}
}

func TestSearchNoMatchesKeepsPreviousPass(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{
		"a.txt": "alpha\nbeta\n",
	})
	useRoot(t, root)

	var first searchData
	decodeData(t, searchFor(t, "alpha"), &first)

	setFlags(t, searchCmd, map[string]string{"from-file": textFile(t, "zzzz qqqq xxxx")})
	resp := runJSON(t, searchCmd)
	mustFail(t, resp, ErrNoMatches)

	store, err := matchstore.Open(root)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	pass, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if pass.ID != first.PassID {
		t.Errorf("stored pass = %s, want the earlier %s", pass.ID, first.PassID)
	}
}

func TestSearchRejectsThresholdOutOfRange(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{"a.txt": "alpha\n"})
	useRoot(t, root)

	setFlags(t, searchCmd, map[string]string{
		"from-file": textFile(t, "alpha"),
		"threshold": "150",
	})
	mustFail(t, runJSON(t, searchCmd), ErrInvalidInput)
}

func TestSearchEmptyInput(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{"a.txt": "alpha\n"})
	useRoot(t, root)

	setFlags(t, searchCmd, map[string]string{"from-file": textFile(t, "")})
	mustFail(t, runJSON(t, searchCmd), ErrNoQueryText)
}

func TestSearchStrategyFilter(t *testing.T) {
	root := writeFiles(t, t.TempDir(), map[string]string{"a.txt": "alpha\nbeta\n"})
	useRoot(t, root)

	setFlags(t, searchCmd, map[string]string{
		"from-file": textFile(t, "beta"),
		"strategy":  "trimmed",
	})
	resp := runJSON(t, searchCmd)
	mustOK(t, resp)

	var data searchData
	decodeData(t, resp, &data)
	if len(data.Outcomes) != 1 || data.Outcomes[0].Strategy != "trimmed" {
		t.Fatalf("outcomes = %+v, want only trimmed", data.Outcomes)
	}
	for _, m := range data.Matches {
		if m.Strategy != "trimmed" {
			t.Errorf("unexpected %s match", m.Strategy)
		}
	}
}

func TestSearchWithoutDocuments(t *testing.T) {
	root := t.TempDir()
	useRoot(t, root)

	setFlags(t, searchCmd, map[string]string{"from-file": textFile(t, "alpha")})
	mustFail(t, runJSON(t, searchCmd), ErrNoDocuments)

	if _, err := os.Stat(matchstore.Path(root)); err == nil {
		t.Error("a failed search should not create the store")
	}
}

func TestParseStrategies(t *testing.T) {
	got, err := parseStrategies([]string{"anchored", "literal", "anchored"})
	if err != nil {
		t.Fatalf("parseStrategies: %v", err)
	}
	want := []model.StrategyID{model.StrategyLiteral, model.StrategyAnchored}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("parseStrategies = %v, want %v", got, want)
	}

	if _, err := parseStrategies([]string{"fuzzy"}); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
