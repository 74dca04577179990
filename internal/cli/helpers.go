package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/clipboard"
	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/config"
	"github.com/aidanlsb/pastesearch/internal/matchstore"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/workspace"
)

// commandContext returns the command's context, which is nil when RunE is
// called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// textSource picks where query or replacement text comes from: --from-file,
// then --stdin, then the configured clipboard source.
func textSource(flags commands.Flags) (clipboard.Source, error) {
	file := flags.String("from-file")
	if file != "" && flags.Bool("stdin") {
		return nil, fmt.Errorf("--from-file and --stdin cannot be used together")
	}
	if file != "" {
		return clipboard.File{Path: file}, nil
	}
	if flags.Bool("stdin") {
		return clipboard.Reader{R: os.Stdin, Label: "stdin"}, nil
	}

	source, err := getConfig().ClipboardSource()
	if err != nil {
		return nil, err
	}
	switch source {
	case config.ClipboardSystem:
		return clipboard.System{}, nil
	case config.ClipboardStdin:
		return clipboard.Reader{R: os.Stdin, Label: "stdin"}, nil
	default:
		return clipboard.Auto(os.Stdin), nil
	}
}

// readText reads the command's input text, reporting errors in the
// command's output mode. ok is false when the command should stop.
func readText(flags commands.Flags) (text string, ok bool, err error) {
	src, err := textSource(flags)
	if err != nil {
		return "", false, handleError(ErrInvalidInput, err, "")
	}
	text, err = src.Read()
	if errors.Is(err, clipboard.ErrEmpty) {
		return "", false, handleErrorMsg(ErrNoQueryText,
			fmt.Sprintf("no text in %s", src.Name()),
			"Copy the text first, or pass --stdin or --from-file")
	}
	if err != nil {
		return "", false, handleError(ErrFileReadError, err, "")
	}
	logger.Debug("input read", "source", src.Name(), "bytes", len(text))
	return text, true, nil
}

// openStore opens root's match store without creating one.
func openStore(root string) (*matchstore.Store, error) {
	if _, err := os.Stat(matchstore.Path(root)); errors.Is(err, os.ErrNotExist) {
		return nil, matchstore.ErrEmptyStore
	}
	return matchstore.Open(root)
}

// handleStoreError maps match store errors to error codes.
func handleStoreError(err error) error {
	var noMatch *matchstore.NoMatchError
	switch {
	case errors.As(err, &noMatch):
		return handleErrorWithDetails(ErrDocumentNotInStore, noMatch.Error(),
			"Run 'pastesearch matches' to see the documents that matched",
			map[string]interface{}{"name": noMatch.Name, "available": noMatch.Available})
	case errors.Is(err, matchstore.ErrEmptyStore):
		return handleErrorMsg(ErrStoreEmpty, "no stored search results", "Run 'pastesearch search' first")
	case errors.Is(err, matchstore.ErrStoreLocked):
		return handleError(ErrStoreLocked, err, "Another pastesearch process is saving results; try again")
	default:
		return handleError(ErrDatabaseError, err, "")
	}
}

// bestStored returns the best stored match, or the best for name.
func bestStored(store *matchstore.Store, name string) (model.RankedMatch, error) {
	if name == "" {
		return store.Best()
	}
	return store.BestFor(name)
}

// filterOptions turns root settings into walker options.
func filterOptions(rc *config.RootConfig) workspace.FilterOptions {
	return workspace.FilterOptions{
		DenyExtensions: rc.DenyExtensions,
		BackupPatterns: rc.BackupPatterns,
		IgnorePatterns: rc.Ignore,
		SkipDirs:       []string{rc.GetBackupDir()},
		SkipBinary:     rc.IsSkipBinaryEnabled(),
		MaxFileBytes:   rc.GetMaxFileBytes(),
	}
}

// matchJSON is the JSON shape of a ranked match.
type matchJSON struct {
	Rank        int           `json:"rank"`
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	RelPath     string        `json:"rel_path,omitempty"`
	Strategy    string        `json:"strategy"`
	StrategyID  int           `json:"strategy_id"`
	Score       float64       `json:"score"`
	Similarity  *float64      `json:"similarity,omitempty"`
	Confident   bool          `json:"confident"`
	Start       int           `json:"start"`
	End         int           `json:"end"`
	Length      int           `json:"length"`
	BOMLength   int           `json:"bom_length,omitempty"`
	QueryLength int           `json:"query_length"`
	Excerpt     string        `json:"excerpt,omitempty"`
	Context     model.Context `json:"context"`
}

func formatMatch(rank int, m model.RankedMatch, bestMatch float64) matchJSON {
	return matchJSON{
		Rank:        rank,
		Name:        m.Name,
		Path:        m.Path,
		RelPath:     m.RelPath,
		Strategy:    m.StrategyName(),
		StrategyID:  int(m.Strategy),
		Score:       m.Score,
		Similarity:  m.Similarity,
		Confident:   model.Thresholds{BestMatch: bestMatch}.Confident(m),
		Start:       m.Start,
		End:         m.End,
		Length:      m.Length,
		BOMLength:   m.BOMLength,
		QueryLength: len(m.Query),
		Excerpt:     m.Excerpt,
		Context:     m.Context,
	}
}

func formatMatches(matches []model.RankedMatch, bestMatch float64) []matchJSON {
	out := make([]matchJSON, 0, len(matches))
	for _, n := range model.NumberedList(matches) {
		out = append(out, formatMatch(n.Rank, n.Match, bestMatch))
	}
	return out
}
