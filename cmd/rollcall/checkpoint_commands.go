package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rollcall/internal/queue"
)

func newCheckpointsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoints",
		Short: "Inspect and clear pipeline checkpoints",
	}

	cmd.AddCommand(newCheckpointsListCommand(ctx))
	cmd.AddCommand(newCheckpointsClearCommand(ctx))
	return cmd
}

func newCheckpointsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions with in-flight checkpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open record index: %w", err)
			}
			defer store.Close()

			checkpoints, err := store.ListCheckpoints(cmd.Context())
			if err != nil {
				return fmt.Errorf("list checkpoints: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(checkpoints) == 0 {
				fmt.Fprintln(out, "No checkpoints")
				return nil
			}

			rows := make([][]string, 0, len(checkpoints))
			for _, cp := range checkpoints {
				rows = append(rows, []string{
					shortFingerprint(cp.Fingerprint),
					cp.SessionID,
					cp.Stage,
					cp.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Fingerprint", "Session", "Stage", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newCheckpointsClearCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clear [fingerprint]",
		Short: "Clear one checkpoint, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("provide a fingerprint or pass --all")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := queue.Open(cfg)
			if err != nil {
				return fmt.Errorf("open record index: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if all {
				cleared, err := store.ClearCheckpoints(cmd.Context())
				if err != nil {
					return fmt.Errorf("clear checkpoints: %w", err)
				}
				fmt.Fprintf(out, "Cleared %d checkpoint(s)\n", cleared)
				return nil
			}

			if err := store.ClearCheckpoint(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("clear checkpoint: %w", err)
			}
			fmt.Fprintln(out, "Checkpoint cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Clear every checkpoint")
	return cmd
}

func shortFingerprint(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
