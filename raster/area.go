package raster

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// Point is a geographic (map-unit) coordinate.
type Point = geom.Point

// Area georeferences a grid. Left and Top are the outer edges of the
// upper-left cell; cell (c, r) spans [Left+c*CellSize, Left+(c+1)*CellSize]
// horizontally and [Top-(r+1)*CellSize, Top-r*CellSize] vertically.
type Area struct {
	Left, Top  float64
	CellSize   float64
	Cols, Rows int
}

// NewArea validates the cell size and returns the Area.
func NewArea(left, top, cellSize float64, cols, rows int) (Area, error) {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return Area{}, fmt.Errorf("%w: %v", ErrInvalidCellSize, cellSize)
	}
	if cols <= 0 || rows <= 0 {
		return Area{}, ErrEmptyGrid
	}

	return Area{Left: left, Top: top, CellSize: cellSize, Cols: cols, Rows: rows}, nil
}

// Right returns the outer right edge.
func (a Area) Right() float64 { return a.Left + float64(a.Cols)*a.CellSize }

// Bottom returns the outer bottom edge.
func (a Area) Bottom() float64 { return a.Top - float64(a.Rows)*a.CellSize }

// ToGeo returns the pixel-centre coordinate of c.
func (a Area) ToGeo(c Coord) Point {
	return Point{
		X: a.Left + (float64(c.Col)+0.5)*a.CellSize,
		Y: a.Top - (float64(c.Row)+0.5)*a.CellSize,
	}
}

// ToRaster maps p to the cell whose centre is nearest.
// Returns ErrOutsideArea if that cell is not part of the grid.
func (a Area) ToRaster(p Point) (Coord, error) {
	ulx := a.Left + a.CellSize/2
	uly := a.Top - a.CellSize/2
	c := Coord{
		Col: int(math.Round((p.X - ulx) / a.CellSize)),
		Row: int(math.Round((uly - p.Y) / a.CellSize)),
	}
	if c.Col < 0 || c.Col >= a.Cols || c.Row < 0 || c.Row >= a.Rows {
		return c, fmt.Errorf("%w: (%g, %g)", ErrOutsideArea, p.X, p.Y)
	}

	return c, nil
}

// Contains reports whether p lies inside the outer edges of the area.
func (a Area) Contains(p Point) bool {
	return p.X >= a.Left && p.X <= a.Right() && p.Y >= a.Bottom() && p.Y <= a.Top
}

// WithHalo grows (width > 0) or shrinks (width < 0) the area on every side by
// width map units, rounded up to whole cells. Shrinking past zero yields an
// area with no cells.
func (a Area) WithHalo(width float64) Area {
	if width == 0 {
		return a
	}
	cells := int(math.Ceil(math.Abs(width) / a.CellSize))
	if width < 0 {
		cells = -cells
	}
	out := a
	out.Left -= float64(cells) * a.CellSize
	out.Top += float64(cells) * a.CellSize
	out.Cols = max(0, a.Cols+2*cells)
	out.Rows = max(0, a.Rows+2*cells)

	return out
}

// Bounds returns the area extent as geom.Bounds.
func (a Area) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: a.Left, Y: a.Bottom()},
		Max: geom.Point{X: a.Right(), Y: a.Top},
	}
}
