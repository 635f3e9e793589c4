// Package raster provides the two-dimensional cell grid shared by every stage
// of the hydrological conditioning pipeline.
//
// A Grid[T] stores one value per cell in row-major order and is addressed by
// Coord{Col, Row}. All conversions between a coordinate and the linear index go
// through Grid.Index and Grid.Coordinate; nothing else in the module performs
// raw index arithmetic.
//
// Movement between cells is expressed as an Offset. Grid.Move is total: a move
// that would leave the grid returns the starting coordinate unchanged, which is
// how border cells terminate every flow chain.
//
// Two fixed neighbour orders are exported:
//
//   - ScanOffsets: TL, T, TR, L, R, BL, B, BR (indices 0..7). Used wherever a
//     deterministic neighbour scan is needed (breaching, minima detection,
//     culvert heuristics).
//   - D8Offsets: N, NE, E, SE, S, SW, W, NW. Used by steepest-descent routing.
//
// An Area georeferences a grid: pixel-centre coordinates of every cell, the
// inverse conversion and containment tests. Geographic points are
// geom.Point values from github.com/ctessum/geom so that they can flow straight
// into the spatial index and the shapefile writer.
//
// Complexity:
//
//   - Index, Coordinate, InBounds, Move: O(1).
//   - Clone, Fill, CopyFrom: O(W×H).
package raster
