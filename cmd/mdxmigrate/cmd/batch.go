package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/mdxmigrate/internal/pipeline"
)

// runBatch runs t over every file matching pattern. Failed files are
// already logged by the runner and do not make the command fail.
func runBatch(t pipeline.Transformer, pattern string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(t, log, cfg.DryRun)
	report, err := runner.Run(ctx, cfg.Root, pattern)
	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted", "processed", len(report.Files))
		return nil
	}
	if err != nil {
		return err
	}
	for _, f := range report.Failed() {
		log.Debug("failed file", "path", f.Path, "error", f.Error)
	}
	return nil
}

func patternArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}
