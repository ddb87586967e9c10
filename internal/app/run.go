package app

import (
	"context"
	"fmt"

	"github.com/vk/entityfix/internal/ctxlog"
	"github.com/vk/entityfix/internal/fixer"
)

// separator matches the original report width of sixty characters.
const separator = "============================================================"

// Run executes the batch over the manifest's file list, sequentially and in
// order. Per-file failures are reported and skipped; the summary always
// prints and Run returns nil once the batch completes.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	fmt.Fprintln(a.outW, "Starting HTML entity replacement...")
	fmt.Fprintln(a.outW, separator)

	fixedCount := 0
	for _, path := range a.man.Files {
		outcome, err := a.fixer.FixFile(ctx, path)
		switch outcome {
		case fixer.OutcomeFixed:
			fixedCount++
			fmt.Fprintf(a.outW, "✓ Fixed: %s\n", path)
		case fixer.OutcomeNoChange:
			fmt.Fprintf(a.outW, "- No changes needed: %s\n", path)
		case fixer.OutcomeNotFound:
			fmt.Fprintf(a.outW, "✗ File not found: %s\n", path)
		case fixer.OutcomeError:
			fmt.Fprintf(a.outW, "✗ Error processing %s: %v\n", path, err)
		}
		a.logger.Debug("File processed.", "path", path, "outcome", outcome.String())
	}

	fmt.Fprintln(a.outW, separator)
	fmt.Fprintf(a.outW, "Completed! Fixed %d files.\n", fixedCount)

	a.logger.Debug("App.Run method finished.", "fixed_count", fixedCount)
	return nil
}
