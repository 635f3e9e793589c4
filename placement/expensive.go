package placement

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/hydrocarve/raster"
)

// Thresholds filters the chains returned by FindExpensiveCarvings.
type Thresholds struct {
	MinCost   float64
	MinHDiff  float64
	MinLength float64 // map units
}

// FindExpensiveCarvings returns every carved chain that meets th, sorted by
// ascending cost. Chains of equal cost keep the order of their upstream
// points (ascending carved elevation, then row-major).
//
// An upstream point is an uncarved cell at the same carved elevation as the
// carved cell it drains into, provided no carved neighbour drains into that
// carved cell as well. From each upstream point the chain is followed
// downstream while cells are carved.
func FindExpensiveCarvings(orig, carved *raster.Grid[float64], flowdirs *raster.Grid[raster.Offset], th Thresholds) ([]Carving, error) {
	if orig == nil || carved == nil || flowdirs == nil {
		return nil, ErrNilGrid
	}
	if !raster.SameShape(orig, carved) || !raster.SameShape(orig, flowdirs) {
		return nil, ErrDimensionMismatch
	}

	diff := make([]float64, orig.Len())
	for i := range diff {
		diff[i] = orig.Data[i] - carved.Data[i]
	}

	var out []Carving
	cellSize := orig.Area.CellSize
	for _, up := range upstreamPoints(carved, diff, flowdirs) {
		var (
			down  = up
			cost  = diff[orig.Index(up)]
			hmax  = orig.At(up)
			dist  float64
			steps int
		)
		for {
			next := raster.Downstream(flowdirs, down)
			if next == down || diff[orig.Index(next)] == 0 {
				break
			}
			if steps++; steps > orig.Len() {
				return nil, fmt.Errorf("%w: from %v", ErrUnterminatedChain, up)
			}
			cost += diff[orig.Index(next)]
			dist += next.Sub(down).Length()
			down = next
			hmax = max(hmax, orig.At(down))
		}
		hdiff := hmax - orig.At(down)
		length := dist * cellSize
		if hdiff >= th.MinHDiff && length >= th.MinLength && cost >= th.MinCost {
			out = append(out, Carving{
				Upstream:   up,
				Downstream: down,
				Cost:       cost,
				MaxHDiff:   hdiff,
				Length:     length,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Cost < out[j].Cost })

	return out, nil
}

// upstreamPoints returns the pits that start carved chains, ordered by carved
// elevation and then row-major position.
func upstreamPoints(carved *raster.Grid[float64], diff []float64, flowdirs *raster.Grid[raster.Offset]) []raster.Coord {
	var pts []raster.Coord
	nbuf := make([]raster.Coord, 0, 8)
	for i := range diff {
		if diff[i] == 0 {
			continue
		}
		c := carved.Coordinate(i)
		nbuf = carved.Neighbors(nbuf[:0], c)

		// A carved neighbour draining here makes c a continuation.
		continuation := false
		for _, n := range nbuf {
			if diff[carved.Index(n)] > 0 && raster.FlowsInto(flowdirs, n, c) {
				continuation = true
				break
			}
		}
		if continuation {
			continue
		}

		h := carved.Data[i]
		for _, n := range nbuf {
			ni := carved.Index(n)
			if diff[ni] == 0 && carved.Data[ni] == h && raster.FlowsInto(flowdirs, n, c) {
				pts = append(pts, n)
				break
			}
		}
	}
	sort.SliceStable(pts, func(i, j int) bool { return carved.At(pts[i]) < carved.At(pts[j]) })

	return pts
}
