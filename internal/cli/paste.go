package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/pastesearch/internal/backup"
	"github.com/aidanlsb/pastesearch/internal/commands"
	"github.com/aidanlsb/pastesearch/internal/paths"
	"github.com/aidanlsb/pastesearch/internal/reconcile"
	"github.com/aidanlsb/pastesearch/internal/ui"
)

var pasteCmd = commands.GenerateCobraCommand("paste", runPaste)

func runPaste(cmd *cobra.Command, args []string, flags commands.Flags) error {
	ctx := commandContext(cmd)
	root := getRoot()
	rc := getRootConfig()

	var name string
	if len(args) > 0 {
		name = args[0]
	}

	store, err := openStore(root)
	if err != nil {
		return handleStoreError(err)
	}
	m, err := bestStored(store, name)
	store.Close()
	if err != nil {
		return handleStoreError(err)
	}

	newText, ok, err := readText(flags)
	if !ok {
		return err
	}

	if err := paths.ValidateWithinRoot(root, m.Path); err != nil {
		return handleError(ErrFileOutsideRoot, err, "Run 'pastesearch search' again from this root")
	}

	var warnings []Warning
	opts := reconcile.Options{Logger: logger}
	if flags.Bool("no-backup") {
		warnings = append(warnings, Warning{Code: WarnBackupDisabled, Message: "no backup was made"})
	} else {
		opts.Backup = backup.New(rc.GetBackupDir(), logger).Backup
	}
	r := reconcile.New(opts)

	dryRun := flags.Bool("dry-run")
	var res *reconcile.Result
	if dryRun {
		res, _, err = r.Resolve(ctx, m, newText)
	} else {
		res, err = r.Apply(ctx, m, newText)
	}
	if err != nil {
		return handlePasteError(err)
	}

	for _, w := range res.Warnings {
		warnings = append(warnings, Warning{Code: w.Code, Message: w.Message})
	}
	logger.Info("paste resolved", "path", res.Path, "resolution", string(res.Resolution), "written", res.Written)

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"name":     m.Name,
			"strategy": m.StrategyName(),
			"dry_run":  dryRun,
			"result":   res,
		}, warnings, nil)
		return nil
	}

	for _, w := range warnings {
		fmt.Println(ui.Warning(w.Message))
	}
	span := ui.Span(res.Start, res.End)
	if dryRun {
		fmt.Println(ui.Infof("Would replace %s in %s (%s)", span, ui.FilePath(displayName(m)), res.Resolution))
		fmt.Printf("  %s %s\n", ui.Hint("old:"), ui.TruncateWithEllipsis(ui.OneLine(res.OldText), 72))
		fmt.Printf("  %s %s\n", ui.Hint("new:"), ui.TruncateWithEllipsis(ui.OneLine(res.NewText), 72))
		return nil
	}

	fmt.Println(ui.Successf("Replaced %s in %s (%s, %+d bytes)", span, ui.FilePath(displayName(m)), res.Resolution, res.Delta))
	if res.BackupPath != "" {
		fmt.Println(ui.Hint("  backup: " + res.BackupPath))
	}
	return nil
}

func handlePasteError(err error) error {
	var verr *reconcile.VerifyError
	switch {
	case errors.As(err, &verr):
		return handleErrorWithDetails(ErrVerifyMismatch, err.Error(),
			"Restore the file from its backup",
			map[string]interface{}{
				"path":          verr.Result.Path,
				"written_start": verr.Result.WrittenStart,
				"written_end":   verr.Result.WrittenEnd,
				"backup_path":   verr.Result.BackupPath,
				"found":         verr.Got,
			})
	case errors.Is(err, context.Canceled):
		return handleError(ErrCanceled, err, "")
	case errors.Is(err, reconcile.ErrReadDocument):
		return handleError(ErrFileReadError, err, "")
	case errors.Is(err, reconcile.ErrInvalidOffsets):
		return handleError(ErrInvalidOffsets, err, "Run 'pastesearch search' again")
	case errors.Is(err, backup.ErrBackupFailed):
		return handleError(ErrBackupFailed, err, "Use --no-backup to write anyway")
	default:
		return handleError(ErrFileWriteError, err, "")
	}
}

func init() {
	rootCmd.AddCommand(pasteCmd)
}
