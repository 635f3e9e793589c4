package placement

import (
	"math"
	"sort"

	"github.com/katalvlaran/hydrocarve/raster"
)

// PitFillUpstream proposes a culvert for a road/stream intersection at start
// by filling the depression upstream of the road.
//
// Steps:
//  1. Walk upstream from start along cells that drain towards it, up to
//     half the maximum culvert length, staying off no-data road cells. The
//     first off-road cell lower than start anchors the depression.
//  2. Flood the depression breadth-first from the anchor over off-road
//     cells lower than start and take its lowest cell as the sink; the
//     first one reached wins a tie.
//  3. Search from the sink for an alternative route with unbounded cost.
func PitFillUpstream(g Grids, start raster.Coord, p Params) (Candidate, bool) {
	cs := g.Orig.Area.CellSize
	half := p.Limits.Max / cs / 2
	hStart := g.Orig.At(start)

	// 1) Anchor.
	var anchor raster.Coord
	found := false
	upstreamBFS(g.FlowDirs, start, func(n raster.Coord) bool {
		return float64(n.DistSq(start)) <= half*half && g.Roads.At(n) != 0
	}, func(c raster.Coord) bool {
		if g.Roads.At(c) > 1 && g.Orig.At(c) < hStart {
			anchor, found = c, true

			return false
		}

		return true
	})
	if !found {
		return Candidate{}, false
	}

	// 2) Lowest cell of the depression.
	lowest := anchor
	visited := map[raster.Coord]bool{anchor: true}
	queue := []raster.Coord{anchor}
	nbuf := make([]raster.Coord, 0, 8)
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		if g.Orig.At(c) < g.Orig.At(lowest) {
			lowest = c
		}
		nbuf = g.Orig.Neighbors(nbuf[:0], c)
		for _, n := range nbuf {
			if visited[n] || g.Orig.At(n) >= hStart || g.Roads.At(n) <= 1 {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}

	// 3) Far side.
	src, ok := FindAlternativeRoute(g.Orig, g.Roads, p.InsertArea, lowest, math.Inf(1), p.Limits)
	if !ok {
		return Candidate{}, false
	}

	return Candidate{Sink: lowest, Source: src}, true
}

// AlongFlowRoute proposes a culvert for a road/stream intersection at start
// by connecting the lowest reachable upstream cell to the downstream side.
//
// The sink is the lowest off-road cell upstream of start that is at least
// the minimum culvert length away and not linked by an existing culvert.
// The source is the first off-road cell downstream of start, or a lower
// off-road cell connected to it within reach of the sink.
func AlongFlowRoute(g Grids, start raster.Coord, p Params) (Candidate, bool) {
	cs := g.Orig.Area.CellSize
	maxCells := p.Limits.Max / cs
	minCells := p.Limits.Min / cs
	half := maxCells / 2
	hStart := g.Orig.At(start)

	// 1) Sink: lowest qualifying upstream cell.
	var upstream []raster.Coord
	upstreamBFS(g.FlowDirs, start, func(n raster.Coord) bool {
		return float64(n.DistSq(start)) <= half*half && (g.Delta == nil || g.Delta.At(n) == 0)
	}, func(c raster.Coord) bool {
		if float64(c.DistSq(start)) >= minCells*minCells && g.Roads.At(c) > 1 {
			upstream = append(upstream, c)
		}

		return true
	})
	if len(upstream) == 0 {
		return Candidate{}, false
	}
	sort.Slice(upstream, func(i, j int) bool { return upstream[i].Less(upstream[j]) })
	sink := upstream[0]
	for _, c := range upstream[1:] {
		if g.Orig.At(c) < g.Orig.At(sink) {
			sink = c
		}
	}

	// 2) First off-road cell downstream of start.
	src := start
	for steps := 0; g.Roads.At(src) <= 1; steps++ {
		next := raster.Downstream(g.FlowDirs, src)
		if next == src || steps > g.Orig.Len() {
			return Candidate{}, false
		}
		src = next
	}

	// 3) Connected cells around src, nearest to the sink first.
	type cand struct {
		c  raster.Coord
		d2 int
	}
	cands := []cand{{c: src, d2: src.DistSq(sink)}}
	visited := map[raster.Coord]bool{src: true}
	queue := []raster.Coord{src}
	nbuf := make([]raster.Coord, 0, 8)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		nbuf = g.Orig.Neighbors(nbuf[:0], c)
		for _, n := range nbuf {
			if visited[n] {
				continue
			}
			visited[n] = true
			d2 := n.DistSq(sink)
			if float64(d2) > maxCells*maxCells || g.Roads.At(n) < 2 || g.Orig.At(n) > hStart {
				continue
			}
			cands = append(cands, cand{c: n, d2: d2})
			queue = append(queue, n)
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].d2 < cands[j].d2 })

	hSink := g.Orig.At(sink)
	chosen := cands[0].c
	for _, c := range cands {
		if g.Orig.At(c.c) < hSink {
			chosen = c.c
			break
		}
	}
	if chosen == sink {
		return Candidate{}, false
	}

	return Candidate{Sink: sink, Source: chosen}, true
}

// upstreamBFS visits cells draining towards start in breadth-first order,
// start excluded. admit filters which neighbours are enqueued; visit is
// called on each dequeued cell and stops the walk by returning false.
func upstreamBFS(
	flowdirs *raster.Grid[raster.Offset],
	start raster.Coord,
	admit func(raster.Coord) bool,
	visit func(raster.Coord) bool,
) {
	visited := map[raster.Coord]bool{start: true}
	queue := []raster.Coord{start}
	nbuf := make([]raster.Coord, 0, 8)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c != start && !visit(c) {
			return
		}
		nbuf = flowdirs.Neighbors(nbuf[:0], c)
		for _, n := range nbuf {
			if visited[n] || !raster.FlowsInto(flowdirs, n, c) || !admit(n) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
}
