package commands

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetlens/internal/cli/config"
	"github.com/leapstack-labs/sheetlens/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent scan runs",
		Long:  `Display recent scan runs recorded in the scan-history database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetCurrentConfig()
			if cfg.StatePath == "" {
				return fmt.Errorf("no state database configured (set state_path or pass --state)")
			}

			store, err := state.Open(cfg.StatePath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.RecentRuns(limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Root", "Started", "Files", "Rows", "Errors", "Duration"})
			for _, r := range runs {
				t.AppendRow(table.Row{
					shortID(r.ID),
					r.Root,
					r.StartedAt.Local().Format(time.DateTime),
					r.FilesScanned,
					r.RowCount,
					r.ErrorCount,
					(time.Duration(r.DurationMS) * time.Millisecond).String(),
				})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of runs to show")

	return cmd
}

// shortID trims a UUID to its first group for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
