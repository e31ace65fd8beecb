package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/playtest-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the levels of the pack",
	Long:  `Shows every level of the loaded pack with its settings.`,
	RunE:  runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	levels, err := loadLevels()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	maxIDLen := 2 // "ID" header
	for _, l := range levels {
		maxIDLen = max(maxIDLen, len(l.ID))
	}

	fmt.Fprintln(out, "Levels:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-*s  %-22s  %-10s  %-6s  %-5s  %-7s  %-8s  %s\n",
		maxIDLen, "ID", "Name", "Kind", "Diff", "Grid", "Colors", "Target", "Moves")
	for _, l := range levels {
		kind := l.Kind
		if !registry.Exists(kind) {
			kind += "?"
		}
		s := l.Match3
		fmt.Fprintf(out, "  %-*s  %-22s  %-10s  %-6s  %-5s  %-7d  %-8g  %d\n",
			maxIDLen, l.ID, l.Name, kind, l.Difficulty,
			fmt.Sprintf("%dx%d", s.Rows, s.Cols), s.TotalColors, s.TargetScore, s.MovesLimit)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'playtest run <id>' to playtest a level.")
	return nil
}
