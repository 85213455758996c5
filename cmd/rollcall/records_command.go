package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rollcall/internal/queue"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Query recorded sessions",
	}

	cmd.AddCommand(newRecordsListCommand(ctx))
	cmd.AddCommand(newRecordsShowCommand(ctx))
	return cmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recently recorded sessions",
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

			records, err := store.RecentRecords(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, records)
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No records yet")
				return nil
			}
			fmt.Fprintln(out, renderRecordsTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newRecordsShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <fingerprint>",
		Short: "Show one record with its evidence trail",
		Args:  cobra.ExactArgs(1),
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

			record, err := store.FindByFingerprint(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("look up record: %w", err)
			}
			if record == nil {
				return fmt.Errorf("no record with fingerprint %s", args[0])
			}

			if jsonOutput {
				return writeJSON(cmd, record)
			}

			printRecord(cmd, record)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func printRecord(cmd *cobra.Command, record *queue.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fingerprint: %s\n", record.Fingerprint)
	fmt.Fprintf(out, "Session:     %s\n", record.SessionID)
	fmt.Fprintf(out, "Coach:       %s\n", record.Coach)
	fmt.Fprintf(out, "Student:     %s\n", record.Student)
	if record.Week > 0 {
		fmt.Fprintf(out, "Week:        %d\n", record.Week)
	}
	fmt.Fprintf(out, "Category:    %s\n", record.Category)
	if record.SessionType != "" {
		fmt.Fprintf(out, "Type:        %s\n", record.SessionType)
	}
	fmt.Fprintf(out, "Confidence:  %d\n", record.Confidence)
	if !record.StartTime.IsZero() {
		fmt.Fprintf(out, "Started:     %s\n", record.StartTime.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(out, "Staged:      %s\n", record.StagedPath)
	fmt.Fprintf(out, "Files:       %d (%s)\n", record.FileCount, formatSize(record.TotalSize))
	fmt.Fprintf(out, "Degraded:    %s\n", yesNo(record.Degraded))
	if len(record.Files) > 0 {
		fmt.Fprintf(out, "Transferred:\n  %s\n", strings.Join(record.Files, "\n  "))
	}
	if len(record.Evidence) > 0 {
		fmt.Fprintf(out, "Evidence:\n  %s\n", strings.Join(record.Evidence, "\n  "))
	}
}

func renderRecordsTable(records []*queue.Record) string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		week := ""
		if record.Week > 0 {
			week = strconv.Itoa(record.Week)
		}
		rows = append(rows, []string{
			record.CreatedAt.Local().Format("2006-01-02 15:04"),
			record.Coach,
			record.Student,
			week,
			record.Category,
			strconv.Itoa(record.Confidence),
			strconv.Itoa(record.FileCount),
			formatSize(record.TotalSize),
			yesNo(record.Degraded),
			shortFingerprint(record.Fingerprint),
		})
	}
	return renderTable(
		[]string{"Recorded", "Coach", "Student", "Week", "Category", "Conf", "Files", "Size", "Degraded", "Fingerprint"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
	)
}
