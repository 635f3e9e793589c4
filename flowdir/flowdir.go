// Package flowdir assigns D8 steepest-descent flow directions.
//
// Complete fills in the direction of every cell that the breaching engine did
// not fix (carved cells keep the direction of their breach path). The slope to
// a neighbour n is (h(c) - h(n)) / d with d = 1 for edge neighbours and √2 for
// diagonals; the first strictly steepest positive slope in D8Offsets order
// (N, NE, E, SE, S, SW, W, NW) wins. Cells with no lower neighbour keep their
// existing direction.
//
// AssignBorderOutflow then points every border cell out of the grid so that
// all flow chains end on the border.
package flowdir

import (
	"errors"
	"math"

	"github.com/katalvlaran/hydrocarve/raster"
)

// ErrDimensionMismatch indicates the input grids differ in shape.
var ErrDimensionMismatch = errors.New("flowdir: grid dimensions differ")

// diagonal distances per D8Offsets entry.
var d8Dist = [8]float64{1, math.Sqrt2, 1, math.Sqrt2, 1, math.Sqrt2, 1, math.Sqrt2}

// Steepest returns the D8 offset of maximum positive slope from c, and false
// when no in-bounds neighbour is strictly lower.
// Complexity: O(1).
func Steepest(dem *raster.Grid[float64], c raster.Coord) (raster.Offset, bool) {
	h := dem.At(c)
	var best raster.Offset
	steepest := 0.0
	for i, o := range raster.D8Offsets {
		n := c.Add(o)
		if !dem.InBounds(n) {
			continue
		}
		s := (h - dem.At(n)) / d8Dist[i]
		if s > steepest {
			steepest = s
			best = o
		}
	}

	return best, steepest > 0
}

// Complete assigns steepest-descent directions to every cell that is not
// fixed. fixed may be nil, in which case every cell is eligible. Elevations
// are never modified. It returns the number of directions written.
// Complexity: O(W×H).
func Complete(dem *raster.Grid[float64], fixed *raster.Grid[bool], flowdirs *raster.Grid[raster.Offset]) (int, error) {
	if !raster.SameShape(dem, flowdirs) || (fixed != nil && !raster.SameShape(dem, fixed)) {
		return 0, ErrDimensionMismatch
	}
	assigned := 0
	for i := range dem.Data {
		if fixed != nil && fixed.Data[i] {
			continue
		}
		if o, ok := Steepest(dem, dem.Coordinate(i)); ok {
			flowdirs.Data[i] = o
			assigned++
		}
	}

	return assigned, nil
}

// AssignBorderOutflow points edge cells perpendicular out of the grid and the
// four corners diagonally out.
func AssignBorderOutflow(flowdirs *raster.Grid[raster.Offset]) {
	w, h := flowdirs.Width, flowdirs.Height
	if w == 0 || h == 0 {
		return
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var o raster.Offset
			switch {
			case x == 0:
				o = raster.Offset{DX: -1}
			case x == w-1:
				o = raster.Offset{DX: 1}
			case y == 0:
				o = raster.Offset{DY: -1}
			case y == h-1:
				o = raster.Offset{DY: 1}
			default:
				continue
			}
			flowdirs.Set(raster.Coord{Col: x, Row: y}, o)
		}
	}
	flowdirs.Set(raster.Coord{Col: 0, Row: 0}, raster.Offset{DX: -1, DY: -1})
	flowdirs.Set(raster.Coord{Col: w - 1, Row: 0}, raster.Offset{DX: 1, DY: -1})
	flowdirs.Set(raster.Coord{Col: 0, Row: h - 1}, raster.Offset{DX: -1, DY: 1})
	flowdirs.Set(raster.Coord{Col: w - 1, Row: h - 1}, raster.Offset{DX: 1, DY: 1})
}
