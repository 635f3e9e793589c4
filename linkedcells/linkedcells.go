// Package linkedcells groups raster cells that share a non-zero culvert id.
//
// A culvert burned into the delta grid marks both of its end cells with the
// culvert's id. Build collects every id into a Group and precomputes, for
// each member cell, the list of the other members, so that the breaching
// engine can treat the two ends of a culvert as neighbours in O(1).
//
// Groups are ordered by ascending id and members by row-major position, so
// iteration over an Index is reproducible for identical input.
package linkedcells

import (
	"sort"

	"github.com/katalvlaran/hydrocarve/raster"
)

// Group is the set of cells sharing one culvert id.
type Group struct {
	ID    uint32
	Cells []raster.Coord
}

// Index maps cells to the cells they are linked with.
type Index struct {
	groups []Group
	others map[raster.Coord][]raster.Coord
}

// Build scans delta row-major and groups all cells with the same non-zero id.
// Complexity: O(W×H + L log L) where L is the number of linked cells.
func Build(delta *raster.Grid[uint32]) *Index {
	byID := make(map[uint32][]raster.Coord)
	for i, id := range delta.Data {
		if id == 0 {
			continue
		}
		byID[id] = append(byID[id], delta.Coordinate(i))
	}

	ids := make([]uint32, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	idx := &Index{
		groups: make([]Group, 0, len(ids)),
		others: make(map[raster.Coord][]raster.Coord),
	}
	for _, id := range ids {
		cells := byID[id]
		idx.groups = append(idx.groups, Group{ID: id, Cells: cells})
		if len(cells) < 2 {
			continue
		}
		for _, c := range cells {
			rest := make([]raster.Coord, 0, len(cells)-1)
			for _, o := range cells {
				if o != c {
					rest = append(rest, o)
				}
			}
			idx.others[c] = rest
		}
	}

	return idx
}

// Linked returns the other cells linked to c, or nil if c is not linked.
// The returned slice must not be modified.
// Complexity: O(1).
func (x *Index) Linked(c raster.Coord) []raster.Coord {
	if x == nil || len(x.others) == 0 {
		return nil
	}

	return x.others[c]
}

// Groups returns all groups in ascending id order, including single-cell
// groups whose partner cell was overwritten by another culvert.
func (x *Index) Groups() []Group {
	if x == nil {
		return nil
	}

	return x.groups
}

// Len returns the number of groups.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}

	return len(x.groups)
}

// Level sets every member of every group to the group's minimum elevation.
func (x *Index) Level(dem *raster.Grid[float64]) {
	for _, g := range x.Groups() {
		low := dem.At(g.Cells[0])
		for _, c := range g.Cells[1:] {
			low = min(low, dem.At(c))
		}
		for _, c := range g.Cells {
			dem.Set(c, low)
		}
	}
}
