package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/playtest-arcade/internal/playtest"
	"github.com/vovakirdan/playtest-arcade/internal/storage"
)

// execute runs the root command with args and a fresh set of flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	flagLevels, flagSeed, flagFPS, flagLogLevel = "", 0, 10, "error"
	flagRuns, flagVerbose, flagJSON, flagNoSave = 1, false, false, false
	flagHistoryLimit, flagClear = 20, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsReturnErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown level", []string{"run", "nope", "--db", db}, "level not found: nope"},
		{"zero runs", []string{"run", "m3-01", "--runs", "0", "--db", db}, "--runs must be at least 1"},
		{"bad log level", []string{"run", "m3-01", "--log-level", "loud", "--db", db}, "invalid --log-level"},
		{"missing levels file", []string{"list", "--levels", filepath.Join(t.TempDir(), "none.yaml")}, "failed to read levels"},
		{"history of unknown level", []string{"history", "nope", "--db", db}, "level not found"},
		{"stats of unknown level", []string{"stats", "nope", "--db", db}, "level not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := execute(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Execute() error = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestRunRecordsAndReleasesStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "run", "m3-01", "--runs", "3", "--seed", "7", "--db", db, "--json")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	var batch playtest.BatchReport
	if err := json.Unmarshal([]byte(out), &batch); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if len(batch.Reports) != 3 {
		t.Fatalf("got %d reports, want 3", len(batch.Reports))
	}

	store, err := storage.Open(db)
	if err != nil {
		t.Fatalf("reopen db: %v", err)
	}
	defer store.Close()
	runs, err := store.RecentRuns("m3-01", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Errorf("stored %d runs, want 3", len(runs))
	}

	out, err = execute(t, "history", "m3-01", "--db", db)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "Recent runs - m3-01") {
		t.Errorf("history output:\n%s", out)
	}
}

func TestRunFailureStillReturns(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	levels := filepath.Join(t.TempDir(), "levels.yaml")
	pack := "levels:\n  - id: flat\n    match3:\n      rows: 0\n      total_colors: 4\n      target_score: 100\n      moves_limit: 5\n"
	if err := os.WriteFile(levels, []byte(pack), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "run", "flat", "--levels", levels, "--db", db)
	if err == nil || !strings.Contains(err.Error(), "INVALID_DIMENSIONS") {
		t.Fatalf("Execute() error = %v, want INVALID_DIMENSIONS", err)
	}

	// The deferred Close ran, so a second command can use the database.
	if _, err := execute(t, "stats", "--db", db); err != nil {
		t.Errorf("stats after failed run: %v", err)
	}
}
