package match3

import (
	"testing"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

func TestEnumerateMovesOrder(t *testing.T) {
	moves := EnumerateMoves(2, 3)
	want := []Move{
		{core.P(0, 0), core.P(0, 1)},
		{core.P(0, 1), core.P(0, 2)},
		{core.P(1, 0), core.P(1, 1)},
		{core.P(1, 1), core.P(1, 2)},
		{core.P(0, 0), core.P(1, 0)},
		{core.P(0, 1), core.P(1, 1)},
		{core.P(0, 2), core.P(1, 2)},
	}
	if len(moves) != len(want) {
		t.Fatalf("got %d moves, want %d", len(moves), len(want))
	}
	for i := range want {
		if moves[i] != want[i] {
			t.Errorf("moves[%d] = %v, want %v", i, moves[i], want[i])
		}
		if !moves[i].A.Adjacent(moves[i].B) {
			t.Errorf("moves[%d] = %v is not adjacent", i, moves[i])
		}
	}
}

func TestEvaluateMoveRestoresGrid(t *testing.T) {
	g := diagonalGrid(8, 8)
	g.Set(core.P(0, 1), 2)
	before := g.Clone()

	score := EvaluateMove(g, Move{core.P(2, 0), core.P(2, 1)}, 3)
	if score != 3 {
		t.Errorf("score = %d, want 3", score)
	}
	if !sameGrid(g, before) {
		t.Error("EvaluateMove left the grid modified")
	}
}

func TestFindBestMoveDeadlock(t *testing.T) {
	if m, ok := FindBestMove(diagonalGrid(8, 8), 3); ok {
		t.Errorf("expected no move on a deadlocked grid, got %v", m)
	}
}

func TestFindBestMoveTieGoesToFirst(t *testing.T) {
	g := diagonalGrid(8, 8)
	g.Set(core.P(0, 0), 2)

	cands := Candidates(g, 3)
	if len(cands) != 2 || cands[0].Score != cands[1].Score {
		t.Fatalf("expected two equally scored candidates, got %+v", cands)
	}

	m, ok := FindBestMove(g, 3)
	if !ok {
		t.Fatal("expected a move")
	}
	want := Move{core.P(1, 0), core.P(1, 1)} // horizontal pairs come first
	if m != want {
		t.Errorf("best = %v, want %v", m, want)
	}
}

func TestFindBestMovePrefersLongerMatch(t *testing.T) {
	g := diagonalGrid(8, 8)
	g.Set(core.P(0, 0), 2)
	g.Set(core.P(0, 2), 1)

	m, ok := FindBestMove(g, 3)
	if !ok {
		t.Fatal("expected a move")
	}
	if got := EvaluateMove(g, m, 3); got != 4 {
		t.Errorf("best move %v scores %d, want 4", m, got)
	}
	for _, c := range Candidates(g, 3) {
		if c.Score > 4 {
			t.Errorf("candidate %v scores %d, above the chosen move", c.Move, c.Score)
		}
	}
}

func TestFindBestMoveIsDeterministic(t *testing.T) {
	g := Initialize(8, 8, 5, 3, NewSource(99))
	first, ok1 := FindBestMove(g, 3)
	second, ok2 := FindBestMove(g.Clone(), 3)
	if ok1 != ok2 || first != second {
		t.Errorf("selection differs: %v/%v vs %v/%v", first, ok1, second, ok2)
	}
}
