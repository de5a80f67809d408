package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/takt/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	DBPath string
	Limit  int
	Alerts bool // include archived alerts per run
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived simulation runs",
		Long: `List runs archived by simulate --db, newest first.

Examples:
  takt history --db runs.db
  takt history --db runs.db --limit 10 --alerts
  takt history --db runs.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite archive path (required)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum runs to list (0 = all)")
	cmd.Flags().BoolVar(&opts.Alerts, "alerts", false, "include archived alerts")
	cmd.MarkFlagRequired("db")

	return cmd
}

// HistoryEntry is one archived run with its optional alerts.
type HistoryEntry struct {
	Run    store.RunRecord     `json:"run"`
	Alerts []store.AlertRecord `json:"alerts,omitempty"`
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if _, err := os.Stat(opts.DBPath); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.DBPath))
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	entries := make([]HistoryEntry, 0, len(runs))
	for _, run := range runs {
		entry := HistoryEntry{Run: run}
		if opts.Alerts {
			if entry.Alerts, err = st.ReadAlerts(ctx, run.ID); err != nil {
				return WrapExitError(ExitCommandError, "failed to read alerts", err)
			}
		}
		entries = append(entries, entry)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(entries)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No archived runs.")
		return nil
	}

	for _, entry := range entries {
		run := entry.Run
		verdict := "FEASIBLE"
		if !run.Success {
			verdict = "INFEASIBLE"
		}
		fmt.Fprintf(out, "%s  %s  %-10s node=%s qty=%d fulfilled=%d cost=%.2f\n",
			run.CreatedAt.Format(time.RFC3339), run.ID, verdict,
			run.EndNode, run.Quantity, run.Fulfilled, run.TotalCost)
		if run.RootCause != "" {
			fmt.Fprintf(out, "    root cause: %s\n", run.RootCause)
		}
		for _, a := range entry.Alerts {
			fmt.Fprintf(out, "    [%-8s] %-32s %s\n", a.Severity, a.RuleCode, a.Message)
		}
	}

	return nil
}
