package match3

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/playtest-arcade/internal/config"
	"github.com/vovakirdan/playtest-arcade/internal/core"
	"github.com/vovakirdan/playtest-arcade/internal/registry"
)

func testLevel() config.Level {
	return config.Level{
		ID:         "t-01",
		Name:       "Test Level",
		Kind:       config.KindMatch3,
		Difficulty: config.DifficultyNormal,
		Match3: config.Match3Settings{
			TotalColors: 4,
			TargetScore: 200,
			MovesLimit:  8,
		}.WithDefaults(),
	}
}

func TestRegisteredWithRegistry(t *testing.T) {
	if !registry.Exists(config.KindMatch3) {
		t.Fatal("match3 kind not registered")
	}
	sim, err := registry.Create(testLevel(), 5)
	if err != nil {
		t.Fatalf("registry.Create() failed: %v", err)
	}
	if sim.Kind() != config.KindMatch3 || sim.Title() != "Test Level" {
		t.Errorf("kind/title = %s/%s", sim.Kind(), sim.Title())
	}
}

func TestGameLevelFromYAML(t *testing.T) {
	tests := []struct {
		name  string
		extra string
		code  string
	}{
		{"defaults", "", ""},
		{"explicit zero rows", "      rows: 0\n", "INVALID_DIMENSIONS"},
		{"explicit zero cols", "      cols: 0\n", "INVALID_DIMENSIONS"},
		{"explicit zero min match", "      min_match: 0\n", "INVALID_MIN_MATCH"},
		{"explicit zero combo step", "      combo_step: 0\n", "INVALID_COMBO_STEP"},
		{"oversized grid", "      rows: 40\n", "INVALID_DIMENSIONS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data := "levels:\n  - id: y-01\n    match3:\n" +
				"      total_colors: 4\n      target_score: 200\n      moves_limit: 8\n" + tc.extra
			levels, err := config.ParseLevels([]byte(data))
			if err != nil {
				t.Fatalf("ParseLevels() failed: %v", err)
			}

			g, err := NewGame(levels[0], 1)
			if tc.code == "" {
				if err != nil {
					t.Fatalf("NewGame() failed: %v", err)
				}
				s := g.Engine().Settings()
				if s.Rows != 8 || s.Cols != 8 || s.ScorePerTile != 10 || s.ComboStep != 1 || s.MinMatch != 3 {
					t.Errorf("settings = %+v", s)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) || ve.Code != tc.code {
				t.Errorf("NewGame() error = %v, want code %s", err, tc.code)
			}
		})
	}
}

func TestGameRejectsInvalidLevel(t *testing.T) {
	lvl := testLevel()
	lvl.Match3.TotalColors = 12
	if _, err := registry.Create(lvl, 1); err == nil {
		t.Error("expected error for a 12-color palette")
	}
}

func TestGameStepCarriesTurn(t *testing.T) {
	g, err := NewGame(testLevel(), 11)
	if err != nil {
		t.Fatal(err)
	}
	res := g.Step()
	turn, ok := res.Detail.(TurnOutcome)
	if !ok {
		t.Fatalf("Detail = %T, want TurnOutcome", res.Detail)
	}
	if res.State.MovesUsed != turn.MovesUsedAfter {
		t.Errorf("state moves %d != turn moves %d", res.State.MovesUsed, turn.MovesUsedAfter)
	}
	if len(res.Events) == 0 {
		t.Error("expected replay events")
	}
}

func TestRender(t *testing.T) {
	g, err := NewGame(testLevel(), 3)
	if err != nil {
		t.Fatal(err)
	}
	screen := core.NewScreen(40, 16)
	g.Render(screen)

	out := screen.String()
	for _, want := range []string{"Test Level", "Score: 0/200", "Moves: 0/8", "Combo x1", "┌"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	cell := screen.GetCell(boardX(screen, 8)+2, hudHeight+1)
	if cell.Color == core.ColorDefault {
		t.Errorf("tile at top-left drawn without color: %+v", cell)
	}
}

func TestRenderTooSmall(t *testing.T) {
	g, err := NewGame(testLevel(), 3)
	if err != nil {
		t.Fatal(err)
	}
	screen := core.NewScreen(10, 5)
	g.Render(screen)
	if !strings.Contains(screen.String(), "Window") {
		t.Errorf("expected too-small notice:\n%s", screen.String())
	}
}

func TestDrawFrameHighlight(t *testing.T) {
	f := core.Frame{Rows: 1, Cols: 3, Cells: []int{0, core.EmptyCell, 2}}
	screen := core.NewScreen(12, 3)
	DrawFrame(screen, f, 0, 0, []core.Pos{core.P(0, 2)})

	if got := screen.Row(1); !strings.Contains(got, "R") || !strings.Contains(got, "*") {
		t.Errorf("row = %q", got)
	}
	if cell := screen.GetCell(2, 1); cell.Color != core.TileColor(0) {
		t.Errorf("cell color = %v, want %v", cell.Color, core.TileColor(0))
	}
}

func boardX(screen *core.Screen, cols int) int {
	w, _ := BoardSize(8, cols)
	return (screen.Width() - w) / 2
}
