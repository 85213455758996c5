package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"rollcall/internal/config"
	"rollcall/internal/logging"
	"rollcall/internal/pipeline"
	"rollcall/internal/queue"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "process [folder]",
		Short: "Run the processing pipeline over the inbox once",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := resolveInbox(cfg, args)
			if err != nil {
				return err
			}
			runCfg := *cfg
			runCfg.Paths.InboxDir = root

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runOnce(runCtx, &runCfg, cmd.OutOrStdout())
		},
	}
}

func runOnce(ctx context.Context, cfg *config.Config, out io.Writer) error {
	lock := flock.New(runLockPath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return errors.New("another rollcall run is already in progress")
	}
	defer lock.Unlock()

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	store, err := queue.Open(cfg)
	if err != nil {
		return fmt.Errorf("open record index: %w", err)
	}
	defer store.Close()

	runner, err := buildRunner(cfg, store, logger)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx)
	if report != nil {
		printReport(out, report)
	}
	return err
}

func runLockPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.StateDir, "rollcall.lock")
}

func printReport(out io.Writer, report *pipeline.Report) {
	color := shouldColorize(out)

	fmt.Fprintf(out, "Run %s finished in %s\n", report.RunID, report.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  recorded:  %s\n", colorize(fmt.Sprintf("%d", report.Succeeded), ansiGreen, color && report.Succeeded > 0))
	if report.Degraded > 0 {
		fmt.Fprintf(out, "  degraded:  %s\n", colorize(fmt.Sprintf("%d", report.Degraded), ansiYellow, color))
	}
	if report.Failed > 0 {
		fmt.Fprintf(out, "  failed:    %s\n", colorize(fmt.Sprintf("%d", report.Failed), ansiRed, color))
	}
	if report.Skipped > 0 {
		fmt.Fprintf(out, "  skipped:   %d\n", report.Skipped)
	}
	if report.Invalid > 0 {
		fmt.Fprintf(out, "  invalid:   %d\n", report.Invalid)
	}
}
