package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/locate"
	"github.com/aidanlsb/pastesearch/internal/matchstore"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/ui"
	"github.com/aidanlsb/pastesearch/internal/workspace"
)

var searchCmd = commands.GenerateCobraCommand("search", runSearch)

type outcomeJSON struct {
	Strategy string `json:"strategy"`
	Matched  int    `json:"matched"`
	Rejected int    `json:"rejected"`
	Stopped  bool   `json:"stopped,omitempty"`
}

func runSearch(cmd *cobra.Command, _ []string, flags commands.Flags) error {
	start := time.Now()
	ctx := commandContext(cmd)
	root := getRoot()
	rc := getRootConfig()

	strategies, err := parseStrategies(flags.Strings("strategy"))
	if err != nil {
		return handleError(ErrInvalidInput, err, "Strategies: literal, whole-file, normalized, trimmed, anchored, strip-cr")
	}
	threshold := flags.Float("threshold")
	if threshold < 0 || threshold > 100 {
		return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("--threshold must be between 0 and 100, got %v", threshold), "")
	}
	if threshold == 0 {
		threshold = rc.GetSimilarityThreshold()
	}

	query, ok, err := readText(flags)
	if !ok {
		return err
	}

	filter, err := workspace.NewFilter(root, filterOptions(rc))
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	spinner := ui.NewSpinner("Reading files...")
	if !isJSONOutput() {
		spinner.Start()
	}
	coll, err := workspace.Collect(ctx, root, filter, logger)
	if err != nil {
		spinner.Stop()
		return handleSearchError(err)
	}

	engine, err := locate.NewEngine(locate.Options{
		Strategies:          strategies,
		SimilarityThreshold: threshold,
		BestMatchThreshold:  rc.GetBestMatchThreshold(),
		ContextChars:        rc.GetContextChars(),
		Logger:              logger,
	})
	if err != nil {
		spinner.Stop()
		return handleError(ErrInvalidInput, err, "")
	}

	spinner.SetMessage(fmt.Sprintf("Searching %s...", ui.Count(len(coll.Documents), "file", "files")))
	pass, err := engine.Search(ctx, root, coll.Documents, query)
	spinner.Stop()
	if err != nil {
		return handleSearchError(err)
	}

	var warnings []Warning
	if len(coll.Errors) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarnFilesUnread,
			Message: fmt.Sprintf("%s could not be read", ui.Count(len(coll.Errors), "file", "files")),
		})
	}

	if len(pass.Matches) == 0 {
		return handleErrorWithDetails(ErrNoMatches,
			fmt.Sprintf("no matches in %s", ui.Count(len(coll.Documents), "file", "files")),
			"Lower --threshold or check the text with 'pastesearch diagnose <file>'",
			map[string]interface{}{"outcomes": formatOutcomes(pass.Outcomes), "files": len(coll.Documents)})
	}

	if err := saveSearchPass(root, pass); err != nil {
		return err
	}

	best, _ := pass.Best()
	if !pass.Confident(best) {
		warnings = append(warnings, Warning{
			Code:    WarnLowConfidence,
			Message: fmt.Sprintf("best match scored %.1f%%, below the %.0f%% best-match threshold", best.SimilarityValue(), pass.Thresholds.BestMatch),
		})
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"pass_id":      pass.ID,
			"root":         root,
			"query_length": pass.QueryLength,
			"files":        len(coll.Documents),
			"skipped":      coll.Skipped,
			"outcomes":     formatOutcomes(pass.Outcomes),
			"matches":      formatMatches(pass.Matches, pass.Thresholds.BestMatch),
		}, warnings, &Meta{Count: len(pass.Matches), Skipped: coll.SkippedTotal(), QueryTimeMs: time.Since(start).Milliseconds()})
		return nil
	}

	fmt.Printf("Searched %s in %s", ui.Count(len(coll.Documents), "file", "files"), ui.FilePath(root))
	if n := coll.SkippedTotal(); n > 0 {
		fmt.Print(ui.Hint(fmt.Sprintf(" (%d skipped)", n)))
	}
	fmt.Println()
	fmt.Println()
	fmt.Println(renderOutcomes(pass.Outcomes))
	fmt.Println(renderMatchTable(pass.Matches, flags.Int("limit")))
	fmt.Println()
	fmt.Println(ui.Successf("Best: %s %s via %s, score %s",
		ui.FilePath(best.Name), ui.Span(best.Start, best.End), best.StrategyName(), ui.Score(best.Score, best.Similarity)))
	for _, w := range warnings {
		fmt.Println(ui.Warning(w.Message))
	}
	return nil
}

func saveSearchPass(root string, pass *model.SearchPass) error {
	store, err := matchstore.Open(root)
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer store.Close()

	if err := store.Save(pass); err != nil {
		return handleStoreError(err)
	}
	logger.Info("search pass saved", "pass", pass.ID, "matches", len(pass.Matches), "store", store.Location())
	return nil
}

func handleSearchError(err error) error {
	switch {
	case errors.Is(err, locate.ErrEmptyQuery):
		return handleError(ErrNoQueryText, err, "Copy the text to find first")
	case errors.Is(err, locate.ErrNoDocuments):
		return handleError(ErrNoDocuments, err, "Check the root and its .pastesearchignore")
	case errors.Is(err, context.Canceled):
		return handleError(ErrCanceled, err, "")
	default:
		return handleError(ErrInternal, err, "")
	}
}

func parseStrategies(names []string) ([]model.StrategyID, error) {
	var ids []model.StrategyID
	seen := make(map[model.StrategyID]bool)
	for _, name := range names {
		id, err := model.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	// Strategies always run in their fixed order.
	model.SortStrategies(ids)
	return ids, nil
}

func formatOutcomes(outcomes []model.Outcome) []outcomeJSON {
	out := make([]outcomeJSON, len(outcomes))
	for i, o := range outcomes {
		out[i] = outcomeJSON{Strategy: o.Strategy.String(), Matched: o.Matched, Rejected: o.Rejected, Stopped: o.Stopped}
	}
	return out
}

func renderOutcomes(outcomes []model.Outcome) string {
	t := ui.NewTable(4)
	t.SetIndent("  ")
	for _, o := range outcomes {
		status := ui.Hint("no match")
		if o.Matched > 0 {
			status = ui.Count(o.Matched, "match", "matches")
		}
		rejected := ""
		if o.Rejected > 0 {
			rejected = ui.Hint(fmt.Sprintf("%d rejected", o.Rejected))
		}
		stopped := ""
		if o.Stopped {
			stopped = ui.Hint("first hit")
		}
		t.AddRow(o.Strategy.String(), status, rejected, stopped)
	}
	return t.String()
}

// renderMatchTable renders up to limit matches (0 = all) in rank order.
func renderMatchTable(matches []model.RankedMatch, limit int) string {
	shown := matches
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	t := ui.NewResultsTable(ui.NewDisplayContext(), ui.MatchLayout)
	snippetWidth := t.ContentWidth("snippet")
	for _, n := range model.NumberedList(shown) {
		m := n.Match
		text := m.Excerpt
		if text == "" {
			text = m.Query
		}
		t.AddRow(ui.ResultRow{
			Num: n.Rank,
			Cells: []string{
				ui.FormatRowNum(n.Rank, len(shown)),
				m.StrategyName(),
				ui.Score(m.Score, m.Similarity),
				displayName(m),
				ui.Span(m.Start, m.End),
				ui.TruncateWithEllipsis(ui.OneLine(text), snippetWidth),
			},
		})
	}

	out := t.Render()
	if len(shown) < len(matches) {
		out += "\n" + ui.Hint(fmt.Sprintf("  ... %d more (pastesearch matches)", len(matches)-len(shown)))
	}
	return out
}

// displayName prefers the root-relative path.
func displayName(m model.RankedMatch) string {
	if m.RelPath != "" {
		return m.RelPath
	}
	return m.Name
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
