package core

// EventKind identifies a presentation sub-step of a turn.
type EventKind string

const (
	EventSwap      EventKind = "swap"
	EventMatch     EventKind = "match"
	EventClear     EventKind = "clear"
	EventGravity   EventKind = "gravity"
	EventRefill    EventKind = "refill"
	EventCombo     EventKind = "combo"
	EventReshuffle EventKind = "reshuffle"
)

// Frame is a flattened, row-major copy of a board.
// EmptyCell marks a cell with no tile.
type Frame struct {
	Rows  int   `json:"rows"`
	Cols  int   `json:"cols"`
	Cells []int `json:"cells"`
}

// EmptyCell is the Frame value of a cell without a tile.
const EmptyCell = -1

// At returns the value at (row, col), or EmptyCell when out of range.
func (f Frame) At(row, col int) int {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Cols {
		return EmptyCell
	}
	return f.Cells[row*f.Cols+col]
}

// Event is one replayable sub-step of a turn. Frame is the board right
// after the sub-step; Cells are the positions it touched.
type Event struct {
	Kind   EventKind `json:"kind"`
	Cells  []Pos     `json:"cells,omitempty"`
	Combo  int       `json:"combo,omitempty"`
	Points float64   `json:"points,omitempty"`
	Frame  Frame     `json:"frame"`
}
