package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danielpatrickdp/uqrc-engine/internal/replay"
	"github.com/spf13/cobra"
)

var (
	errMismatch = errors.New("replay diverged from expected results")

	rootCmd = &cobra.Command{
		Use:           "replay <fixture.json>...",
		Short:         "Replay fixtures through a fresh engine",
		Long:          `Replays each fixture deterministically and compares every turn against its expected outcome. Exits non-zero on any mismatch.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				ok, err := runFixture(cmd.OutOrStdout(), path)
				if err != nil {
					return err
				}
				failed = failed || !ok
			}
			if failed {
				return errMismatch
			}
			return nil
		},
	}
)

// #region main

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errMismatch) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

// #endregion main

// #region output

func runFixture(w io.Writer, path string) (bool, error) {
	f, err := replay.LoadFixture(path)
	if err != nil {
		return false, err
	}
	run, mismatches, err := replay.RunFixture(f)
	if err != nil {
		return false, err
	}

	fmt.Fprintf(w, "%s: %s\n\n", path, f.Description)
	printResults(w, run.Results, mismatches)
	printSummary(w, replay.Summarize(run.Results), len(mismatches))
	return len(mismatches) == 0, nil
}

// printResults outputs one row per replayed turn.
func printResults(w io.Writer, results []replay.Result, mismatches []replay.Mismatch) {
	diff := make(map[string]bool, len(mismatches))
	for _, m := range mismatches {
		diff[m.TurnID] = true
	}

	fmt.Fprintf(w, "%-10s| %-8s| %-11s| %-13s| %-6s| %s\n", "Turn", "Status", "Trigger", "Decision", "Match", "Output")
	fmt.Fprintf(w, "%-10s+%-9s+%-12s+%-14s+%-7s+%s\n",
		"----------", "---------", "------------", "--------------", "-------", "--------")
	for _, r := range results {
		match := "OK"
		if diff[r.TurnID] {
			match = "DIFF"
		}
		status := string(r.Status)
		if r.Forced {
			status += "*"
		}
		fmt.Fprintf(w, "%-10s| %-8s| %-11s| %-13s| %-6s| %s\n", r.TurnID, status, r.Trigger, r.Decision, match, r.Output)
	}
	for _, m := range mismatches {
		fmt.Fprintf(w, "  %s\n", m)
	}
}

func printSummary(w io.Writer, s replay.Summary, mismatches int) {
	fmt.Fprintf(w, "\nSummary: %d total, %d allow, %d forced, %d locked, %d committed, %d working-only, %d rejected, %d mismatches\n",
		s.TotalTurns, s.Allows, s.Forced, s.Locked, s.Commits, s.WorkingOnly, s.Rejected, mismatches)
}

// #endregion output
