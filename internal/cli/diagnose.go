package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/clipboard"
	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/document"
	"github.com/aidanlsb/pastesearch/internal/locate"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/newline"
	"github.com/aidanlsb/pastesearch/internal/paths"
	"github.com/aidanlsb/pastesearch/internal/reconcile"
	"github.com/aidanlsb/pastesearch/internal/textenc"
	"github.com/aidanlsb/pastesearch/internal/ui"
)

var diagnoseCmd = commands.GenerateCobraCommand("diagnose", runDiagnose)

// probeResult is one strategy run against the file.
type probeResult struct {
	Strategy   string   `json:"strategy"`
	Found      bool     `json:"found"`
	Valid      bool     `json:"valid"`
	Start      int      `json:"start,omitempty"`
	End        int      `json:"end,omitempty"`
	NormStart  int      `json:"normalized_start,omitempty"`
	NormEnd    int      `json:"normalized_end,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// lineProbe locates the first non-blank line of the text.
type lineProbe struct {
	Line      string `json:"line"`
	Found     bool   `json:"found"`
	Start     int    `json:"start,omitempty"`
	NormStart int    `json:"normalized_start,omitempty"`
}

type anchorJSON struct {
	First        string  `json:"first"`
	Middle       string  `json:"middle"`
	Last         string  `json:"last"`
	FirstPos     int     `json:"first_pos"`
	LastPos      int     `json:"last_pos"`
	Similarity   float64 `json:"similarity"`
	Bonus        float64 `json:"bonus"`
	Score        float64 `json:"score"`
	Passes       bool    `json:"passes"`
	ExcerptStart int     `json:"excerpt_start"`
	ExcerptEnd   int     `json:"excerpt_end"`
}

type storedComparison struct {
	Match      matchJSON            `json:"match"`
	Resolution reconcile.Resolution `json:"resolution,omitempty"`
	Start      int                  `json:"start"`
	End        int                  `json:"end"`
	Warnings   []reconcile.Warning  `json:"warnings,omitempty"`
	Error      string               `json:"error,omitempty"`
}

type diagnosis struct {
	Path       string                `json:"path"`
	Encoding   textenc.Info          `json:"encoding"`
	Length     int                   `json:"length"`
	Newlines   newline.CensusResult  `json:"newlines"`
	Query      *newline.CensusResult `json:"query_newlines,omitempty"`
	QueryBytes int                   `json:"query_length,omitempty"`
	Probes     []probeResult         `json:"probes,omitempty"`
	FirstLine  *lineProbe            `json:"first_line,omitempty"`
	Anchor     *anchorJSON           `json:"anchor,omitempty"`
	Stored     *storedComparison     `json:"stored,omitempty"`
}

func runDiagnose(cmd *cobra.Command, args []string, flags commands.Flags) error {
	root := getRoot()
	rc := getRootConfig()

	path, err := resolveDiagnosePath(root, args[0])
	if err != nil {
		return handleError(ErrFileNotFound, err, "")
	}

	doc, err := document.Read(path)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}

	d := diagnosis{
		Path:     path,
		Encoding: textenc.Detect(path),
		Length:   doc.Len(),
		Newlines: newline.Census(doc.Content),
	}

	query, err := diagnoseQuery(flags)
	if err != nil {
		return handleError(ErrFileReadError, err, "")
	}
	if query != "" {
		qc := newline.Census(query)
		d.Query = &qc
		d.QueryBytes = len(query)
		d.Probes = runProbes(doc, query, rc.GetSimilarityThreshold())
		d.FirstLine = probeFirstLine(doc, query)
		if r, ok := locate.Anchor(doc, query); ok {
			d.Anchor = &anchorJSON{
				First:        r.First,
				Middle:       r.Middle,
				Last:         r.Last,
				FirstPos:     r.FirstPos,
				LastPos:      r.LastPos,
				Similarity:   r.Similarity,
				Bonus:        r.Bonus,
				Score:        r.Score,
				Passes:       r.Score >= rc.GetSimilarityThreshold(),
				ExcerptStart: r.ExcerptStart + doc.BOMLength,
				ExcerptEnd:   r.ExcerptEnd + doc.BOMLength,
			}
		}
	}

	d.Stored = compareStored(cmd, root, doc, rc.GetBestMatchThreshold())

	if isJSONOutput() {
		outputSuccess(d, nil)
		return nil
	}
	printDiagnosis(d)
	return nil
}

// resolveDiagnosePath accepts a path relative to the working directory or
// to the root.
func resolveDiagnosePath(root, arg string) (string, error) {
	candidates := []string{arg}
	if !filepath.IsAbs(arg) {
		candidates = append(candidates, filepath.Join(root, arg))
	}
	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || info.IsDir() {
			continue
		}
		return filepath.Abs(c)
	}
	return "", fmt.Errorf("file not found: %s", arg)
}

// diagnoseQuery reads the optional text to probe with. An empty source is
// not an error here.
func diagnoseQuery(flags commands.Flags) (string, error) {
	src, err := textSource(flags)
	if err != nil {
		return "", err
	}
	text, err := src.Read()
	if errors.Is(err, clipboard.ErrEmpty) {
		return "", nil
	}
	return text, err
}

func runProbes(doc *document.Document, query string, threshold float64) []probeResult {
	view := newline.NewView(doc.Content, newline.ModeCanonical)
	var out []probeResult
	for _, id := range model.AllStrategies() {
		p := probeResult{Strategy: id.String()}
		s, err := locate.New(id, threshold)
		if err != nil {
			p.Error = err.Error()
			out = append(out, p)
			continue
		}
		c, ok := s.Locate(doc, query)
		if ok {
			p.Found = true
			p.Start, p.End = c.Start, c.End
			p.Similarity = c.Similarity
			if err := locate.Validate(s, doc, query, c); err != nil {
				p.Error = err.Error()
			} else {
				p.Valid = true
			}
			if ns, err := view.ToNormalized(c.Start - doc.BOMLength); err == nil {
				p.NormStart = ns
			}
			if ne, err := view.ToNormalized(c.End - doc.BOMLength); err == nil {
				p.NormEnd = ne
			}
		}
		out = append(out, p)
	}
	return out
}

func probeFirstLine(doc *document.Document, query string) *lineProbe {
	var line string
	for _, l := range strings.Split(newline.Normalize(query), "\n") {
		if t := strings.TrimSpace(l); t != "" {
			line = t
			break
		}
	}
	if line == "" {
		return nil
	}

	p := &lineProbe{Line: line}
	if i := strings.Index(doc.Content, line); i >= 0 {
		p.Found = true
		p.Start = i + doc.BOMLength
		if ns, err := newline.NewView(doc.Content, newline.ModeCanonical).ToNormalized(i); err == nil {
			p.NormStart = ns
		}
	}
	return p
}

// compareStored resolves the stored best match for this file against its
// current contents. It returns nil when nothing is stored for the file.
func compareStored(cmd *cobra.Command, root string, doc *document.Document, bestMatch float64) *storedComparison {
	store, err := openStore(root)
	if err != nil {
		return nil
	}
	matches, err := store.ForDocuments(doc.Name)
	store.Close()
	if err != nil {
		logger.Debug("stored match lookup failed", "error", err)
		return nil
	}

	var m model.RankedMatch
	found := false
	for _, candidate := range matches {
		if paths.SamePath(candidate.Path, doc.Path) {
			m, found = candidate, true
			break
		}
	}
	if !found {
		return nil
	}

	sc := &storedComparison{Match: formatMatch(1, m, bestMatch)}
	res, _, err := reconcile.New(reconcile.Options{Logger: logger}).Resolve(commandContext(cmd), m, m.Query)
	if err != nil {
		sc.Error = err.Error()
		return sc
	}
	sc.Resolution = res.Resolution
	sc.Start, sc.End = res.Start, res.End
	sc.Warnings = res.Warnings
	return sc
}

func printDiagnosis(d diagnosis) {
	fmt.Println(ui.Header(d.Path))

	t := ui.NewTable(2)
	t.SetIndent("  ")
	enc := string(d.Encoding.Encoding)
	if d.Encoding.HasBOM() {
		enc += fmt.Sprintf(" (BOM, %d bytes)", d.Encoding.BOMLength)
	}
	t.AddRow("encoding", enc)
	t.AddRow("length", ui.Count(d.Length, "byte", "bytes"))
	t.AddRow("newlines", formatCensus(d.Newlines))
	if d.Query != nil {
		t.AddRow("text", fmt.Sprintf("%s, %s", ui.Count(d.QueryBytes, "byte", "bytes"), formatCensus(*d.Query)))
	}
	fmt.Println(t.String())

	if d.Query == nil {
		fmt.Println()
		fmt.Println(ui.Hint("  No text to probe with. Copy the text, or pass --stdin or --from-file."))
	} else {
		fmt.Println()
		fmt.Println(ui.Header("Strategies"))
		pt := ui.NewTable(4)
		pt.SetIndent("  ")
		for _, p := range d.Probes {
			status := ui.Hint("not found")
			span := ""
			if p.Found {
				status = ui.Check("valid")
				if !p.Valid {
					status = ui.Warning("invalid")
				}
				span = ui.Span(p.Start, p.End) + ui.Hint(fmt.Sprintf(" normalized [%d, %d)", p.NormStart, p.NormEnd))
			}
			detail := ""
			if p.Similarity != nil {
				detail = fmt.Sprintf("%.1f", *p.Similarity)
			}
			if p.Error != "" {
				detail = ui.Hint(p.Error)
			}
			pt.AddRow(p.Strategy, status, span, detail)
		}
		fmt.Println(pt.String())

		if d.FirstLine != nil {
			fmt.Println()
			line := ui.TruncateWithEllipsis(d.FirstLine.Line, 60)
			if d.FirstLine.Found {
				fmt.Printf("  first line %q at %d (normalized %d)\n", line, d.FirstLine.Start, d.FirstLine.NormStart)
			} else {
				fmt.Printf("  first line %q %s\n", line, ui.Hint("not found"))
			}
		}

		if a := d.Anchor; a != nil {
			fmt.Println()
			fmt.Println(ui.Header("Anchors"))
			at := ui.NewTable(2)
			at.SetIndent("  ")
			at.AddRow("first", fmt.Sprintf("%q at %d", ui.TruncateWithEllipsis(a.First, 50), a.FirstPos))
			at.AddRow("middle", fmt.Sprintf("%q", ui.TruncateWithEllipsis(a.Middle, 50)))
			at.AddRow("last", fmt.Sprintf("%q at %d", ui.TruncateWithEllipsis(a.Last, 50), a.LastPos))
			at.AddRow("score", fmt.Sprintf("%.1f similarity + %.0f bonus = %.1f", a.Similarity, a.Bonus, a.Score))
			fmt.Println(at.String())
			if !a.Passes {
				fmt.Println(ui.Hint("  below the similarity threshold"))
			}
		} else {
			fmt.Println()
			fmt.Println(ui.Hint("  Anchors not found in this file."))
		}
	}

	if s := d.Stored; s != nil {
		fmt.Println()
		fmt.Println(ui.Header("Stored match"))
		fmt.Printf("  %s via %s\n", ui.Span(s.Match.Start, s.Match.End), s.Match.Strategy)
		if s.Error != "" {
			fmt.Println("  " + ui.Warning(s.Error))
			return
		}
		fmt.Printf("  resolves %s as %s\n", ui.Span(s.Start, s.End), s.Resolution)
		for _, w := range s.Warnings {
			fmt.Println("  " + ui.Warning(w.Message))
		}
	}
}

func formatCensus(c newline.CensusResult) string {
	return fmt.Sprintf("%s (lf %d, crlf %d, lone cr %d)", c.Convention, c.LoneLF, c.CRLF, c.LoneCR)
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
