package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playtest-arcade/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats [level]",
	Short: "Show aggregated run statistics",
	Long: `Display success and balance rates of recorded runs, for one level or for
every level that has runs.

Examples:
  playtest stats
  playtest stats m3-03`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	var levelID string
	if len(args) == 1 {
		lvl, err := findLevel(args[0])
		if err != nil {
			return err
		}
		levelID = lvl.ID
	}

	store, err := requireStore()
	if err != nil {
		return err
	}
	defer store.Close()

	var stats []storage.LevelStats
	if levelID != "" {
		st, err := store.LevelStats(levelID)
		if err != nil {
			return err
		}
		stats = []storage.LevelStats{*st}
	} else {
		stats, err = store.AllLevelStats()
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if len(stats) == 0 || (len(stats) == 1 && stats[0].Runs == 0) {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "  %-10s  %-5s  %-9s  %-9s  %-8s  %-8s  %-9s  %s\n",
		"Level", "Runs", "Success", "Balanced", "Best", "Avg", "AvgMoves", "Last run")
	for _, st := range stats {
		fmt.Fprintf(out, "  %-10s  %-5d  %-9s  %-9s  %-8g  %-8.1f  %-9.1f  %s\n",
			st.LevelID, st.Runs,
			percent(st.Successes, st.Runs), percent(st.Balanced, st.Runs),
			st.BestScore, st.AvgScore, st.AvgMovesUsed,
			st.LastRun.Format("2006-01-02 15:04"))
	}
	return nil
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(n)/float64(total))
}
