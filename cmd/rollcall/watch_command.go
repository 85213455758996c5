package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"rollcall/internal/config"
	"rollcall/internal/logging"
	"rollcall/internal/queue"
	"rollcall/internal/sources"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [folder]",
		Short: "Watch the inbox and process new recordings as they settle",
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

			sigCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return runWatch(sigCtx, &runCfg, debounce, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "Quiet period before a change triggers a run")
	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config, debounce time.Duration, out io.Writer) error {
	lock := flock.New(runLockPath(cfg))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return errors.New("another rollcall instance is already running")
	}
	defer lock.Unlock()

	if err := os.MkdirAll(cfg.Paths.InboxDir, 0o755); err != nil {
		return fmt.Errorf("ensure inbox directory: %w", err)
	}

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

	watcher, err := sources.NewWatcher(cfg.Paths.InboxDir, debounce, logger)
	if err != nil {
		return fmt.Errorf("watch inbox: %w", err)
	}
	defer watcher.Close()

	go func() {
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("inbox watcher stopped", logging.Error(err))
		}
	}()

	// Sweep once on startup so a backlog is not left waiting for new events.
	if report, err := runner.Run(ctx); report != nil {
		printReport(out, report)
	} else if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Fprintf(out, "Watching %s\n", cfg.Paths.InboxDir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-watcher.Events():
			report, err := runner.Run(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				logger.Error("processing run", logging.Error(err))
			}
			if report != nil {
				printReport(out, report)
			}
		}
	}
}
