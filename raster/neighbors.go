package raster

// ScanOffsets lists the 8 neighbours in scan order: TL, T, TR, L, R, BL, B, BR.
// Index n in this slice is the "neighbour number" used wherever a fixed,
// reproducible visiting order is required.
var ScanOffsets = [8]Offset{
	{DX: -1, DY: -1}, {DX: 0, DY: -1}, {DX: 1, DY: -1},
	{DX: -1, DY: 0}, {DX: 1, DY: 0},
	{DX: -1, DY: 1}, {DX: 0, DY: 1}, {DX: 1, DY: 1},
}

// D8Offsets lists the 8 neighbours clockwise from north: N, NE, E, SE, S, SW, W, NW.
var D8Offsets = [8]Offset{
	{DX: 0, DY: -1}, {DX: 1, DY: -1}, {DX: 1, DY: 0}, {DX: 1, DY: 1},
	{DX: 0, DY: 1}, {DX: -1, DY: 1}, {DX: -1, DY: 0}, {DX: -1, DY: -1},
}

// Orthogonal lists the 4 edge-sharing neighbours: W, E, N, S.
var Orthogonal = [4]Offset{
	{DX: -1, DY: 0}, {DX: 1, DY: 0}, {DX: 0, DY: -1}, {DX: 0, DY: 1},
}

// Neighbors appends the in-bounds 8-neighbours of c, in ScanOffsets order,
// to dst and returns the extended slice. Passing a reused dst[:0] keeps hot
// loops allocation-free.
func (g *Grid[T]) Neighbors(dst []Coord, c Coord) []Coord {
	for _, o := range ScanOffsets {
		n := c.Add(o)
		if g.InBounds(n) {
			dst = append(dst, n)
		}
	}

	return dst
}

// FlowsInto reports whether the flow direction stored for n moves it onto c.
func FlowsInto(flowdirs *Grid[Offset], n, c Coord) bool {
	return flowdirs.Move(n, flowdirs.At(n)) == c && n != c
}

// Downstream returns the cell that c drains into, or c when it has no
// direction or its direction leaves the grid.
func Downstream(flowdirs *Grid[Offset], c Coord) Coord {
	return flowdirs.Move(c, flowdirs.At(c))
}
