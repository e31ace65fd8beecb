package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/playtest-arcade/internal/playtest"
)

var (
	flagRuns    int
	flagVerbose bool
	flagJSON    bool
	flagNoSave  bool
)

var runCmd = &cobra.Command{
	Use:   "run <level>",
	Short: "Playtest a level headless",
	Long: `Play a level with the scripted player until it succeeds or runs out of
moves, then print the verdict. With --runs N the level is played with N
consecutive seeds starting at --seed and a summary is printed.

Examples:
  playtest run m3-01
  playtest run m3-02 --runs 100 --seed 1
  playtest run m3-03 --verbose
  playtest run m3-03 --runs 20 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVarP(&flagRuns, "runs", "n", 1, "Number of seeds to play")
	runCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every turn")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the batch report as JSON")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record runs in the database")
}

func runRun(cmd *cobra.Command, args []string) error {
	if flagRuns < 1 {
		return errors.New("--runs must be at least 1")
	}
	lvl, err := findLevel(args[0])
	if err != nil {
		return err
	}

	logger, err := newLogger("playtest")
	if err != nil {
		return err
	}
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	runner := &playtest.Runner{Logger: logger}
	if !flagNoSave {
		if store := openStore(logger); store != nil {
			defer store.Close()
			runner.Store = store
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	batch, err := runner.RunBatch(ctx, lvl, playtest.Seeds(baseSeed(), flagRuns))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return nil
	}

	fmt.Fprintf(out, "%s - %s [%s]\n\n", lvl.ID, lvl.Name, lvl.Difficulty)
	fmt.Fprintf(out, "  %-20s  %-14s  %-12s  %-7s  %-5s  %s\n", "Seed", "Result", "Score", "Moves", "Combo", "Verdict")
	for _, rep := range batch.Reports {
		st := rep.State
		fmt.Fprintf(out, "  %-20d  %-14s  %-12s  %-7s  %-5s  %s\n",
			rep.Seed, st.Result,
			fmt.Sprintf("%g/%g", st.Score, st.TargetScore),
			fmt.Sprintf("%d/%d", st.MovesUsed, st.MovesLimit),
			fmt.Sprintf("x%d", rep.MaxCombo),
			rep.Verdict.Feedback)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, batch.Summary.String())
	return nil
}
