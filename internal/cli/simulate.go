package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/takt/internal/compiler"
	"github.com/roach88/takt/internal/sim"
	"github.com/roach88/takt/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Node      string
	Quantity  int
	Due       string  // absolute due date, RFC 3339
	DueInDays float64 // due date relative to now; ignored when Due is set
	DBPath    string  // archive the run when set
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <network-dir>",
		Short: "Run a capable-to-promise simulation",
		Long: `Simulate whether a demand can be promised against a network.

Loads the CUE network definition, runs the backward feasibility solver,
and prints the result: verdict, fulfilled quantity, schedule, cost
breakdown, and kanban alerts.

Exit codes:
  0 - Demand is feasible
  1 - Demand is infeasible
  2 - Command error (invalid network, bad flags, etc.)

Examples:
  takt simulate ./network --node customer --qty 100 --due-in 14
  takt simulate ./network --node customer --qty 100 --due 2025-03-01T00:00:00Z
  takt simulate ./network --node customer --qty 100 --due-in 14 --db runs.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Node, "node", "", "node id to deliver at (required)")
	cmd.Flags().IntVar(&opts.Quantity, "qty", 0, "demand quantity (required)")
	cmd.Flags().StringVar(&opts.Due, "due", "", "due date, RFC 3339")
	cmd.Flags().Float64Var(&opts.DueInDays, "due-in", 0, "due date in days from now")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "archive the run to this SQLite database")
	cmd.MarkFlagRequired("node")
	cmd.MarkFlagRequired("qty")

	return cmd
}

func runSimulate(opts *SimulateOptions, networkDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	due, err := resolveDueDate(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid due date", err)
	}

	loadResult, loadErrors := compiler.LoadNetwork(networkDir, compiler.LoadModeFailFast)
	if len(loadErrors) > 0 {
		return WrapExitError(ExitCommandError, "failed to load network", loadErrors[0])
	}
	formatter.VerboseLog("Loaded network: %d node(s)", loadResult.Graph.NodeCount())

	engine := sim.New(loadResult.Graph)
	result, err := engine.Simulate(opts.Node, opts.Quantity, due)
	if err != nil {
		return WrapExitError(ExitCommandError, "simulation rejected", err)
	}

	if opts.DBPath != "" {
		if err := archiveRun(cmd, opts, due, result); err != nil {
			return WrapExitError(ExitCommandError, "failed to archive run", err)
		}
		formatter.VerboseLog("Archived run %s to %s", result.RunID, opts.DBPath)
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		printResultText(cmd, result)
	}

	if !result.Success {
		return NewExitError(ExitFailure, fmt.Sprintf("infeasible: %s", result.RootCause))
	}
	return nil
}

// resolveDueDate turns the --due / --due-in flags into an absolute time.
func resolveDueDate(opts *SimulateOptions) (time.Time, error) {
	if opts.Due != "" {
		return time.Parse(time.RFC3339, opts.Due)
	}
	if opts.DueInDays <= 0 {
		return time.Time{}, fmt.Errorf("either --due or a positive --due-in is required")
	}
	return time.Now().Add(time.Duration(opts.DueInDays * float64(24*time.Hour))), nil
}

// archiveRun writes the run and its alerts to the SQLite archive.
func archiveRun(cmd *cobra.Command, opts *SimulateOptions, due time.Time, result *sim.Result) error {
	st, err := store.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	run := store.RunRecord{
		ID:        result.RunID,
		EndNode:   opts.Node,
		Quantity:  opts.Quantity,
		DueDate:   due,
		Success:   result.Success,
		Fulfilled: result.FulfilledQuantity,
		RootCause: result.RootCause,
		TotalCost: result.Cost.Total,
		CreatedAt: time.Now(),
	}
	if err := st.WriteRun(ctx, run); err != nil {
		return err
	}

	alerts := make([]store.AlertRecord, 0, len(result.Alerts))
	for _, a := range result.Alerts {
		alerts = append(alerts, store.AlertRecord{
			RunID:      result.RunID,
			RuleCode:   string(a.RuleCode),
			EntityID:   a.EntityID,
			Severity:   string(a.Severity),
			Message:    a.Message,
			SLAMinutes: a.SLAMinutes,
			Timestamp:  a.Timestamp,
		})
	}
	return st.WriteAlerts(ctx, alerts)
}

// printResultText renders the human-readable simulation summary.
func printResultText(cmd *cobra.Command, result *sim.Result) {
	out := cmd.OutOrStdout()

	verdict := "FEASIBLE"
	if !result.Success {
		verdict = "INFEASIBLE"
	}
	fmt.Fprintf(out, "%s  run=%s  fulfilled=%d\n", verdict, result.RunID, result.FulfilledQuantity)
	if result.RootCause != "" {
		fmt.Fprintf(out, "Root cause: %s\n", result.RootCause)
	}

	if len(result.Schedule) > 0 {
		fmt.Fprintln(out, "\nSchedule:")
		for _, entry := range result.Schedule {
			status := ""
			if entry.Failed {
				status = "  [failed]"
			} else if entry.NotProcessed {
				status = "  [not processed]"
			}
			fmt.Fprintf(out, "  %3d  %-20s %-9s qty=%-6d %s .. %s%s\n",
				entry.Seq, entry.Label, entry.Type, entry.Quantity,
				entry.Start.Format(time.RFC3339), entry.End.Format(time.RFC3339), status)
		}
	}

	fmt.Fprintf(out, "\nCost: total=%.2f direct=%.2f indirect=%.2f\n",
		result.Cost.Total, result.Cost.DirectCost, result.Cost.IndirectCost)

	if len(result.Alerts) > 0 {
		fmt.Fprintln(out, "\nAlerts:")
		for _, a := range result.Alerts {
			fmt.Fprintf(out, "  [%-8s] %-32s %s\n", a.Severity, a.RuleCode, a.Message)
		}
	}
}
