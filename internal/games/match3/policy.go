package match3

import (
	"fmt"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

// Move is a swap of two orthogonally adjacent cells.
type Move struct {
	A core.Pos `json:"a"`
	B core.Pos `json:"b"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s<->%s", m.A, m.B)
}

// Candidate is a move together with the number of matched tiles it yields.
type Candidate struct {
	Move  Move `json:"move"`
	Score int  `json:"score"`
}

// EnumerateMoves lists every adjacent pair once: all horizontal pairs in
// row-major order, then all vertical pairs in row-major order.
func EnumerateMoves(rows, cols int) []Move {
	moves := make([]Move, 0, rows*(cols-1)+(rows-1)*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c+1 < cols; c++ {
			moves = append(moves, Move{A: core.P(r, c), B: core.P(r, c+1)})
		}
	}
	for r := 0; r+1 < rows; r++ {
		for c := 0; c < cols; c++ {
			moves = append(moves, Move{A: core.P(r, c), B: core.P(r+1, c)})
		}
	}
	return moves
}

// EvaluateMove returns the total tile count of all matches present after
// tentatively swapping m. The grid is restored before returning.
func EvaluateMove(g *Grid, m Move, minMatch int) int {
	g.Swap(m.A, m.B)
	score := TileCount(FindMatches(g, minMatch))
	g.Swap(m.A, m.B)
	return score
}

// Candidates returns every legal move with its score, in enumeration order.
func Candidates(g *Grid, minMatch int) []Candidate {
	var out []Candidate
	for _, m := range EnumerateMoves(g.rows, g.cols) {
		if s := EvaluateMove(g, m, minMatch); s > 0 {
			out = append(out, Candidate{Move: m, Score: s})
		}
	}
	return out
}

// FindBestMove picks the move with the strictly highest score; ties go to
// the first one enumerated. ok is false when no swap produces a match.
func FindBestMove(g *Grid, minMatch int) (best Move, ok bool) {
	bestScore := 0
	for _, c := range Candidates(g, minMatch) {
		if c.Score > bestScore {
			best, bestScore, ok = c.Move, c.Score, true
		}
	}
	return best, ok
}
