package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/playtest-arcade/internal/core"
	"github.com/vovakirdan/playtest-arcade/internal/platform/tui"
	"github.com/vovakirdan/playtest-arcade/internal/playtest"
)

var watchCmd = &cobra.Command{
	Use:   "watch <level>",
	Short: "Replay a scripted run in the terminal",
	Long: `Play a level with the scripted player and replay every turn: the swap,
the matched tiles, gravity, refill and combo banners.

Controls:
  Space/P   - Pause
  N         - Single step
  +/-       - Faster/slower
  R         - Replay with a new seed
  Q/Ctrl+C  - Quit

Examples:
  playtest watch m3-01
  playtest watch m3-03 --seed 42 --fps 20`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func terminalConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

func runWatch(cmd *cobra.Command, args []string) error {
	lvl, err := findLevel(args[0])
	if err != nil {
		return err
	}
	logger, err := newLogger("playtest")
	if err != nil {
		return err
	}

	// Logs would draw over the alternate screen.
	var runner playtest.Runner
	if store := openStore(logger); store != nil {
		defer store.Close()
		runner.Store = store
	}

	rep, err := tui.RunReplay(lvl, runner, terminalConfig())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s seed %d: %s\n", lvl.ID, rep.Seed, rep.Verdict.Feedback)
	return nil
}
