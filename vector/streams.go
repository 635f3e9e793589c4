package vector

import (
	"math"

	"github.com/ctessum/geom"

	"github.com/katalvlaran/hydrocarve/raster"
)

// DefaultTolerance is the simplification tolerance of Streams, in cells.
const DefaultTolerance = 2.0

// Stream is one traced stream segment.
type Stream struct {
	Line geom.LineString
	// Accumulation at the first cell of the segment.
	Accumulation uint32
}

// Streams traces the stream segments of acc. delta may be nil. Segments are
// returned in row-major order of their start cells; single-cell segments are
// dropped.
func Streams(acc *raster.Grid[uint32], flowdirs *raster.Grid[raster.Offset], delta *raster.Grid[uint32], threshold uint32) []Stream {
	// 1) Start points.
	start := make([]bool, acc.Len())
	var starts []raster.Coord
	nbuf := make([]raster.Coord, 0, 8)
	for i, v := range acc.Data {
		if v < threshold {
			continue
		}
		c := acc.Coordinate(i)
		joins := 0
		if delta != nil && delta.Data[i] != 0 {
			joins = 2
		}
		nbuf = acc.Neighbors(nbuf[:0], c)
		for _, n := range nbuf {
			if acc.At(n) >= threshold && raster.FlowsInto(flowdirs, n, c) {
				joins++
			}
		}
		if joins != 1 {
			start[i] = true
			starts = append(starts, c)
		}
	}

	// 2) Trace.
	var out []Stream
	for _, c := range starts {
		cells := []raster.Coord{c}
		for steps := 0; steps < acc.Len(); steps++ {
			o := flowdirs.At(c)
			if o.IsZero() || !o.IsUnit() {
				break
			}
			next := flowdirs.Move(c, o)
			if next == c {
				break
			}
			c = next
			cells = append(cells, c)
			if start[acc.Index(c)] {
				break
			}
		}
		if len(cells) < 2 {
			continue
		}
		simple := Simplify(cells, DefaultTolerance)
		line := make(geom.LineString, len(simple))
		for k, s := range simple {
			line[k] = acc.ToGeo(s)
		}
		out = append(out, Stream{Line: line, Accumulation: acc.At(cells[0])})
	}

	return out
}

// Simplify reduces line with the Ramer–Douglas–Peucker algorithm. Points
// closer than tol cells to the simplified line are dropped. The end points
// are always kept.
func Simplify(line []raster.Coord, tol float64) []raster.Coord {
	if len(line) < 3 {
		return append([]raster.Coord(nil), line...)
	}
	first, last := line[0], line[len(line)-1]
	worst, split := 0.0, -1
	for i := 1; i < len(line)-1; i++ {
		var d float64
		if first == last {
			d = math.Sqrt(float64(line[i].DistSq(first)))
		} else {
			d = raster.DistanceFromLine(first, last, line[i])
		}
		if d > worst {
			worst, split = d, i
		}
	}
	if worst < tol {
		return []raster.Coord{first, last}
	}
	head := Simplify(line[:split+1], tol)
	tail := Simplify(line[split:], tol)

	// The split point ends head and starts tail.
	return append(head, tail[1:]...)
}
