// playtest runs a scripted player through match-3 levels to check whether
// their settings are balanced for the intended difficulty.
//
// Usage:
//
//	playtest list                 - List levels of the pack
//	playtest run <level>          - Play a level headless and print the verdict
//	playtest watch <level>        - Replay a scripted run in the terminal
//	playtest menu                 - Pick levels and browse history interactively
//	playtest serve                - Start SSH server for remote replays
//	playtest api                  - Start the HTTP API
//	playtest history <level>      - Show recent runs of a level
//	playtest stats [level]        - Show aggregated run statistics
//
// Global flags:
//
//	--levels <path>    - Level pack YAML (default: search path, then built-in pack)
//	--seed <value>     - RNG seed (0 = time based)
//	--db <path>        - Runs database (default: ~/.playtest/runs.db)
//	--fps <rate>       - Replay frames per second
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
	"github.com/vovakirdan/playtest-arcade/internal/storage"

	// Register level kinds
	_ "github.com/vovakirdan/playtest-arcade/internal/games/match3"
)

var (
	flagLevels   string
	flagSeed     int64
	flagDBPath   string
	flagFPS      int
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "playtest",
	Short: "Playtest match-3 levels with a scripted player",
	Long: `Playtest simulates a greedy scripted player on hand-authored match-3
levels and reports whether each level is too easy, too hard or balanced for
its difficulty tag.

Available commands:
  list     - Show the level pack
  run      - Play a level headless, one or more seeds
  watch    - Replay a scripted run in the terminal
  menu     - Interactive level picker and run history
  serve    - Start SSH server for remote replays
  api      - Start the HTTP API for level orchestrators
  history  - Recent runs of a level
  stats    - Aggregated statistics per level

Examples:
  playtest list
  playtest run m3-02 --runs 50
  playtest watch m3-01 --seed 42 --fps 12
  playtest serve --ssh :2222
  playtest api --addr :8080`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Path to level pack YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.playtest/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Replay frames per second")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

func newLogger(prefix string) (*log.Logger, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logger.SetLevel(lvl)
	return logger, nil
}

func loadLevels() ([]config.Level, error) {
	return config.LoadLevels(flagLevels)
}

func findLevel(id string) (config.Level, error) {
	levels, err := loadLevels()
	if err != nil {
		return config.Level{}, err
	}
	lvl, err := config.FindLevel(levels, id)
	if err != nil {
		return config.Level{}, fmt.Errorf("%w\nRun 'playtest list' to see available levels", err)
	}
	return lvl, nil
}

// openStore opens the runs database, or returns nil with a warning when it
// cannot be opened.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open runs database, runs will not be saved", "error", err)
		return nil
	}
	return store
}

func requireStore() (*storage.Store, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, fmt.Errorf("opening runs database: %w", err)
	}
	return store, nil
}

func baseSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}
