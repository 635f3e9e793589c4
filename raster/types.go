package raster

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for raster operations.
var (
	// ErrEmptyGrid indicates input rows are empty or have no columns.
	ErrEmptyGrid = errors.New("raster: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("raster: all rows must have the same length")
	// ErrDimensionMismatch indicates two grids that must share a shape do not.
	ErrDimensionMismatch = errors.New("raster: grid dimensions differ")
	// ErrOutsideArea indicates a geographic point that maps outside the grid.
	ErrOutsideArea = errors.New("raster: point lies outside the raster area")
	// ErrInvalidCellSize indicates a non-positive cell size.
	ErrInvalidCellSize = errors.New("raster: cell size must be positive")
)

// Coord addresses a single cell by column and row. (0,0) is the upper-left cell.
type Coord struct {
	Col, Row int
}

// Add returns c moved by o without any bounds check.
func (c Coord) Add(o Offset) Coord {
	return Coord{Col: c.Col + o.DX, Row: c.Row + o.DY}
}

// Sub returns the offset that moves b onto c, i.e. c - b.
func (c Coord) Sub(b Coord) Offset {
	return Offset{DX: c.Col - b.Col, DY: c.Row - b.Row}
}

// DistSq returns the squared euclidean distance between c and b in cells.
func (c Coord) DistSq(b Coord) int {
	dx, dy := c.Col-b.Col, c.Row-b.Row

	return dx*dx + dy*dy
}

// Less orders coordinates row-major: by Row, then by Col.
func (c Coord) Less(b Coord) bool {
	if c.Row != b.Row {
		return c.Row < b.Row
	}

	return c.Col < b.Col
}

// String implements fmt.Stringer.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Offset is a displacement between two cells. The zero Offset means "no
// direction". Flow directions assigned through culvert links may be longer
// than one cell.
type Offset struct {
	DX, DY int
}

// IsZero reports whether o is the null displacement.
func (o Offset) IsZero() bool { return o.DX == 0 && o.DY == 0 }

// IsUnit reports whether o points to one of the 8 immediate neighbours.
func (o Offset) IsUnit() bool {
	return !o.IsZero() && o.DX >= -1 && o.DX <= 1 && o.DY >= -1 && o.DY <= 1
}

// Length returns the euclidean length of o in cells (√2 for diagonals).
func (o Offset) Length() float64 {
	return math.Hypot(float64(o.DX), float64(o.DY))
}
