package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/playtest-arcade/internal/platform/tui"
	"github.com/vovakirdan/playtest-arcade/internal/playtest"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick levels to watch and browse run history",
	Long: `Start the interactive level picker.

Use arrow keys or j/k to navigate, Enter to watch a level and Tab for the
run history. Esc returns from a replay or the history to the menu.`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}
	logger, err := newLogger("playtest")
	if err != nil {
		return err
	}

	var runner playtest.Runner
	store := openStore(logger)
	if store != nil {
		defer store.Close()
		runner.Store = store
	}

	return tui.RunSession(levels, store, runner, terminalConfig())
}
