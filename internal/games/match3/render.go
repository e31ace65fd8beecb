package match3

import (
	"fmt"

	"github.com/vovakirdan/playtest-arcade/internal/core"
)

const (
	cellWidth = 2 // glyph plus spacer
	hudHeight = 3
)

// BoardSize returns the screen footprint of a rows×cols board including
// its border.
func BoardSize(rows, cols int) (w, h int) {
	return cols*cellWidth + 3, rows + 2
}

// DrawFrame draws a framed board at (x, y). Highlighted cells are drawn
// as '*' so replays can show matched tiles before they clear.
func DrawFrame(dst *core.Screen, f core.Frame, x, y int, highlight []core.Pos) {
	w, h := BoardSize(f.Rows, f.Cols)
	dst.DrawBox(core.NewRect(x, y, w, h))

	marked := make(map[core.Pos]bool, len(highlight))
	for _, p := range highlight {
		marked[p] = true
	}

	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Cols; c++ {
			v := f.At(r, c)
			sx := x + 2 + c*cellWidth
			sy := y + 1 + r
			switch {
			case marked[core.P(r, c)]:
				dst.SetColored(sx, sy, '*', core.ColorBrightWhite)
			case v == core.EmptyCell:
				dst.Set(sx, sy, ' ')
			default:
				dst.SetColored(sx, sy, core.TileRune(v), core.TileColor(v))
			}
		}
	}
}

// Render draws the level HUD and the current grid.
func (g *Game) Render(dst *core.Screen) {
	RenderState(dst, g.level.Name, g.sim.State(), g.sim.grid.Frame(), nil)
}

// RenderState draws a HUD for st above frame, centered on the screen.
func RenderState(dst *core.Screen, title string, st core.SimState, f core.Frame, highlight []core.Pos) {
	boardW, boardH := BoardSize(f.Rows, f.Cols)
	if dst.Width() < boardW || dst.Height() < boardH+hudHeight {
		msg := "Window too small"
		dst.DrawText((dst.Width()-len(msg))/2, dst.Height()/2, msg)
		return
	}

	boardX := (dst.Width() - boardW) / 2
	dst.DrawText((dst.Width()-len(title))/2, 0, title)

	scoreStr := fmt.Sprintf("Score: %g/%g", st.Score, st.TargetScore)
	movesStr := fmt.Sprintf("Moves: %d/%d", st.MovesUsed, st.MovesLimit)
	dst.DrawText(boardX, 1, scoreStr)
	dst.DrawText(boardX+boardW-len(movesStr), 1, movesStr)

	status := fmt.Sprintf("Combo x%d", st.Combo)
	color := core.ColorDefault
	switch st.Result {
	case core.ResultSuccess:
		status, color = "SUCCESS", core.ColorGreen
	case core.ResultMovesDepleted:
		status, color = "MOVES DEPLETED", core.ColorRed
	}
	dst.DrawTextColored(boardX, 2, status, color)

	DrawFrame(dst, f, boardX, hudHeight, highlight)
}
