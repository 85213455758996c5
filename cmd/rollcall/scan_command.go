package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"rollcall/internal/config"
	"rollcall/internal/logging"
	"rollcall/internal/matcher"
	"rollcall/internal/sources"
)

type scanSessionView struct {
	ID            string    `json:"id"`
	Discriminator string    `json:"discriminator"`
	Folder        string    `json:"folder,omitempty"`
	StartTime     time.Time `json:"start_time,omitempty"`
	Files         []string  `json:"files"`
	TotalSize     int64     `json:"total_size"`
	Score         float64   `json:"score"`
}

type scanInvalidView struct {
	Discriminator string   `json:"discriminator"`
	Files         []string `json:"files"`
	Reason        string   `json:"reason"`
}

type scanView struct {
	Sessions []scanSessionView `json:"sessions"`
	Invalid  []scanInvalidView `json:"invalid,omitempty"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan [folder]",
		Short: "Preview how inbox files group into sessions without processing",
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

			logger := logging.NewNop()
			source := sources.NewDriveSource(root, logger)
			files, err := source.List(cmd.Context(), sources.ListOptions{
				MaxDepth:    cfg.Matching.MaxDepth,
				MinFileSize: cfg.Matching.MinFileSize,
			})
			if err != nil {
				return fmt.Errorf("list inbox: %w", err)
			}

			m := matcher.New(logger, matcher.WithThreshold(cfg.Matching.Threshold))
			sessions, invalid := m.MatchRecordings(files)

			if jsonOutput {
				return writeJSON(cmd, buildScanView(sessions, invalid))
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 && len(invalid) == 0 {
				fmt.Fprintln(out, "Inbox is empty")
				return nil
			}

			rows := make([][]string, 0, len(sessions))
			for i, session := range sessions {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					session.Metadata.Discriminator,
					session.Metadata.FolderName,
					strconv.Itoa(len(session.Files)),
					formatSize(session.Metadata.TotalSize),
					fmt.Sprintf("%.2f", session.Confidence),
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Session", "Folder", "Files", "Size", "Score"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight},
				))
			}
			for _, inv := range invalid {
				label := inv.Session.Metadata.Discriminator
				if label == "" {
					label = inv.Session.ID
				}
				fmt.Fprintf(out, "invalid: %s (%s)\n", label, inv.Reason)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func buildScanView(sessions []matcher.Session, invalid []matcher.InvalidSession) scanView {
	view := scanView{Sessions: make([]scanSessionView, 0, len(sessions))}
	for _, session := range sessions {
		view.Sessions = append(view.Sessions, scanSessionView{
			ID:            session.ID,
			Discriminator: session.Metadata.Discriminator,
			Folder:        session.Metadata.FolderName,
			StartTime:     session.Metadata.StartTime,
			Files:         fileNames(session),
			TotalSize:     session.Metadata.TotalSize,
			Score:         session.Confidence,
		})
	}
	for _, inv := range invalid {
		view.Invalid = append(view.Invalid, scanInvalidView{
			Discriminator: inv.Session.Metadata.Discriminator,
			Files:         fileNames(inv.Session),
			Reason:        inv.Reason,
		})
	}
	return view
}

func fileNames(session matcher.Session) []string {
	names := make([]string, 0, len(session.Files))
	for _, f := range session.Files {
		names = append(names, f.Name)
	}
	return names
}

// resolveInbox returns the optional folder argument, falling back to the
// configured inbox directory.
func resolveInbox(cfg *config.Config, args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return cfg.Paths.InboxDir, nil
	}
	return config.ExpandPath(args[0])
}
