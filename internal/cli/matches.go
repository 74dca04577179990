package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/matchstore"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/ui"
)

var matchesCmd = commands.GenerateCobraCommand("matches", runMatches)

func runMatches(_ *cobra.Command, args []string, flags commands.Flags) error {
	store, err := openStore(getRoot())
	if err != nil {
		return handleStoreError(err)
	}
	defer store.Close()

	if len(args) > 0 {
		return showMatchFor(store, args[0])
	}

	pass, err := store.Load()
	if err != nil {
		return handleStoreError(err)
	}

	limit := flags.Int("limit")
	if isJSONOutput() {
		matches := pass.Matches
		if limit > 0 && len(matches) > limit {
			matches = matches[:limit]
		}
		outputSuccess(map[string]interface{}{
			"pass_id":      pass.ID,
			"created_at":   pass.CreatedAt,
			"root":         pass.Root,
			"strategies":   strategyNames(pass.Strategies),
			"thresholds":   pass.Thresholds,
			"query_length": pass.QueryLength,
			"outcomes":     formatOutcomes(pass.Outcomes),
			"matches":      formatMatches(matches, pass.Thresholds.BestMatch),
		}, &Meta{Count: len(pass.Matches)})
		return nil
	}

	fmt.Printf("%s from %s, %s of text\n",
		ui.Count(len(pass.Matches), "match", "matches"),
		pass.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		ui.Count(pass.QueryLength, "byte", "bytes"))
	fmt.Println()
	fmt.Println(renderMatchTable(pass.Matches, limit))
	return nil
}

func showMatchFor(store *matchstore.Store, name string) error {
	m, err := store.BestFor(name)
	var noMatch *matchstore.NoMatchError
	if errors.As(err, &noMatch) {
		// Not an error: the caller learns which documents did match.
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"name":      name,
				"found":     false,
				"available": noMatch.Available,
			}, &Meta{Count: 0})
			return nil
		}
		fmt.Println(ui.Warningf("No stored match for %s", ui.FilePath(name)))
		if len(noMatch.Available) == 0 {
			return nil
		}
		fmt.Println()
		fmt.Println(ui.Header("Documents with matches"))
		fmt.Println(renderNameTable(noMatch.Available))
		return nil
	}
	if err != nil {
		return handleStoreError(err)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"name":  name,
			"found": true,
			"match": formatMatch(1, m, getRootConfig().GetBestMatchThreshold()),
		}, &Meta{Count: 1})
		return nil
	}

	fmt.Println(renderMatchTable([]model.RankedMatch{m}, 0))
	return nil
}

func renderNameTable(names []matchstore.NameScore) string {
	t := ui.NewResultsTable(ui.NewDisplayContext(), ui.NameLayout)
	for i, ns := range names {
		t.AddRow(ui.ResultRow{
			Num: i + 1,
			Cells: []string{
				ui.FormatRowNum(i+1, len(names)),
				ns.Name,
				ui.Score(ns.Score, nil),
			},
		})
	}
	return t.Render()
}

func strategyNames(ids []model.StrategyID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return names
}

func init() {
	rootCmd.AddCommand(matchesCmd)
}
