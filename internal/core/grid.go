// Package core provides the spatial primitives for the skirmish engine.
// It contains no external dependencies (especially no Bubble Tea) to keep
// rules logic pure and testable.
package core

// GridSize is the default side length of the square battlefield.
const GridSize = 25

// Position addresses a single cell on the grid.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Pos is shorthand for constructing a Position.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Grid describes the battlefield bounds. A cell (x, y) is valid when
// 0 <= x < Size and 0 <= y < Size.
type Grid struct {
	Size int
}

// NewGrid creates a square grid with the given side length.
// A non-positive size falls back to the default.
func NewGrid(size int) Grid {
	if size <= 0 {
		size = GridSize
	}
	return Grid{Size: size}
}

// InBounds returns true if (x, y) lies on the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Size && y >= 0 && y < g.Size
}

// Contains returns true if the position lies on the grid.
func (g Grid) Contains(p Position) bool {
	return g.InBounds(p.X, p.Y)
}

// Manhattan returns |dx| + |dy| between two positions. Movement range is
// measured in this metric.
func Manhattan(a, b Position) int {
	return Abs(a.X-b.X) + Abs(a.Y-b.Y)
}

// Chebyshev returns max(|dx|, |dy|) between two positions. Attack and
// gathering adjacency is measured in this metric, so diagonals count as
// distance one.
func Chebyshev(a, b Position) int {
	return Max(Abs(a.X-b.X), Abs(a.Y-b.Y))
}

// Adjacent returns true if b lies within Chebyshev distance 1 of a,
// excluding a itself.
func Adjacent(a, b Position) bool {
	return a != b && Chebyshev(a, b) <= 1
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

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
