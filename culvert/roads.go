package culvert

import (
	"math"

	"github.com/katalvlaran/hydrocarve/raster"
)

// Road raster categories.
const (
	None      uint32 = 0
	Road      uint32 = 1
	Buffer    uint32 = 2
	FirstArea uint32 = 3
)

// ExtendWithBuffer marks every non-road cell within width cells (euclidean,
// centre to centre) of a road cell as Buffer. A non-positive width is a no-op.
// Complexity: O(W×H×width²).
func ExtendWithBuffer(roads *raster.Grid[uint32], width float64) {
	if width <= 0 {
		return
	}
	r := int(math.Ceil(width))
	w2 := width * width
	for i, v := range roads.Data {
		if v != Road {
			continue
		}
		c := roads.Coordinate(i)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if float64(dx*dx+dy*dy) > w2 {
					continue
				}
				n := c.Add(raster.Offset{DX: dx, DY: dy})
				if roads.InBounds(n) && roads.At(n) != Road {
					roads.Set(n, Buffer)
				}
			}
		}
	}
}

// FillAreasWithUniqueID relabels every 4-connected region of cells equal to
// replace with its own id, starting at first and increasing in row-major order
// of each region's first cell. It returns the next unused id.
func FillAreasWithUniqueID(roads *raster.Grid[uint32], replace, first uint32) uint32 {
	if replace == first {
		return first
	}
	next := first
	queue := make([]raster.Coord, 0, 64)
	for i, v := range roads.Data {
		if v != replace {
			continue
		}
		id := next
		next++

		// BFS flood from the region's first cell.
		queue = append(queue[:0], roads.Coordinate(i))
		roads.Data[i] = id
		for head := 0; head < len(queue); head++ {
			c := queue[head]
			for _, o := range raster.Orthogonal {
				n := c.Add(o)
				if roads.InBounds(n) && roads.At(n) == replace {
					roads.Set(n, id)
					queue = append(queue, n)
				}
			}
		}
	}

	return next
}

// PrepareRoads applies ExtendWithBuffer followed by FillAreasWithUniqueID
// with the standard categories and returns the number of buffer areas.
func PrepareRoads(roads *raster.Grid[uint32], width float64) int {
	ExtendWithBuffer(roads, width)

	return int(FillAreasWithUniqueID(roads, Buffer, FirstArea) - FirstArea)
}
