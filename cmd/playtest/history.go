package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit int
	flagClear        bool
)

var historyCmd = &cobra.Command{
	Use:   "history <level>",
	Short: "Show recent runs of a level",
	Long: `Display the most recent recorded runs of a level, newest first.

Examples:
  playtest history m3-01
  playtest history m3-02 --limit 50
  playtest history m3-02 --clear`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs of the level")
}

func runHistory(cmd *cobra.Command, args []string) error {
	lvl, err := findLevel(args[0])
	if err != nil {
		return err
	}

	store, err := requireStore()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	if flagClear {
		if err := store.ClearRuns(lvl.ID); err != nil {
			return err
		}
		fmt.Fprintf(out, "Cleared runs of %s.\n", lvl.ID)
		return nil
	}

	runs, err := store.RecentRuns(lvl.ID, flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Fprintf(out, "Recent runs - %s %s [%s]\n\n", lvl.ID, lvl.Name, lvl.Difficulty)
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Run 'playtest run %s' to record one.\n", lvl.ID)
		return nil
	}

	fmt.Fprintf(out, "  %-16s  %-20s  %-14s  %-12s  %-7s  %-5s  %s\n", "Date", "Seed", "Result", "Score", "Moves", "Combo", "Verdict")
	for _, r := range runs {
		fmt.Fprintf(out, "  %-16s  %-20d  %-14s  %-12s  %-7s  %-5s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Seed, r.Result,
			fmt.Sprintf("%g/%g", r.Score, r.TargetScore),
			fmt.Sprintf("%d/%d", r.MovesUsed, r.MovesLimit),
			fmt.Sprintf("x%d", r.MaxCombo),
			r.Feedback)
	}
	return nil
}
