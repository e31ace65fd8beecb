// Package core provides fundamental types and utilities shared by the
// simulators and the platform layers. It contains no external dependencies
// (especially no Bubble Tea) to keep simulation logic pure and testable.
package core

import "fmt"

// Pos is a board position. Row 0 is the top row, Col 0 the leftmost column.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// P is a convenience constructor for Pos.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns a new Pos offset by (dr, dc).
func (p Pos) Add(dr, dc int) Pos {
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

// Manhattan returns the Manhattan distance to another position.
func (p Pos) Manhattan(other Pos) int {
	return Abs(p.Row-other.Row) + Abs(p.Col-other.Col)
}

// Adjacent reports whether two positions share an edge.
func (p Pos) Adjacent(other Pos) bool {
	return p.Manhattan(other) == 1
}

// Rect represents an axis-aligned box in screen coordinates.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
