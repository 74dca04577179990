package cli

import (
	"fmt"

	"github.com/go-enry/go-enry/v2"
	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/model"
	"github.com/aidanlsb/pastesearch/internal/ui"
)

var showCmd = commands.GenerateCobraCommand("show", runShow)

func runShow(_ *cobra.Command, args []string, flags commands.Flags) error {
	var name string
	if len(args) > 0 {
		name = args[0]
	}

	store, err := openStore(getRoot())
	if err != nil {
		return handleStoreError(err)
	}
	m, err := bestStored(store, name)
	store.Close()
	if err != nil {
		return handleStoreError(err)
	}

	language := contextLanguage(m)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"match":    formatMatch(1, m, getRootConfig().GetBestMatchThreshold()),
			"language": language,
			"context":  m.Context,
		}, nil)
		return nil
	}

	subtitle := fmt.Sprintf("%s via %s, score %s, context %s",
		ui.Span(m.Start, m.End), m.StrategyName(), ui.Score(m.Score, m.Similarity), ui.Span(m.Context.Start, m.Context.End))

	if flags.Bool("raw") {
		fmt.Println(ui.FilePath(displayName(m)))
		fmt.Println(ui.Hint(subtitle))
		fmt.Println()
		fmt.Println(m.Context.Text)
		return nil
	}

	display := ui.NewDisplayContext()
	out, err := ui.RenderContext(ui.ContextView{
		Title:    displayName(m),
		Subtitle: subtitle,
		Language: language,
		Text:     m.Context.Text,
	}, display.AvailableWidth(0))
	if err != nil {
		// Fall back to plain text rather than failing the command.
		logger.Debug("context render failed", "error", err)
		fmt.Println(m.Context.Text)
		return nil
	}
	fmt.Print(out)
	return nil
}

// contextLanguage guesses the document's language for highlighting.
func contextLanguage(m model.RankedMatch) string {
	return enry.GetLanguage(m.Name, []byte(m.Context.Text))
}

func init() {
	rootCmd.AddCommand(showCmd)
}
