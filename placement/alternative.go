package placement

import (
	"container/heap"
	"math"
	"sort"

	"github.com/katalvlaran/hydrocarve/culvert"
	"github.com/katalvlaran/hydrocarve/raster"
)

// FindAlternativeRoute searches, from start, for the nearest cell that a
// culvert could drain start into instead of carving.
//
// The search is a Dijkstra expansion limited to a square window of radius
// floor(lim.Max/cellSize)+1 around start and to cells within lim.Max of start.
// It only enters cells whose road category is not None. Entering a cell n
// costs max(0, h(n)-h(start)); paths costing more than maxCost are dropped.
// A reached cell lower than start whose straight line to start properly
// crosses a road (see CrossesRoad) is a candidate. Among candidates at least
// lim.Min away, the nearest wins; ties are broken row-major.
//
// It fails when start is a road cell, when start lies outside insertArea or
// when no candidate qualifies.
func FindAlternativeRoute(
	dem *raster.Grid[float64],
	roads *raster.Grid[uint32],
	insertArea raster.Area,
	start raster.Coord,
	maxCost float64,
	lim Limits,
) (raster.Coord, bool) {
	// 1) Preconditions.
	if roads.At(start) == culvert.Road {
		return start, false
	}
	if !insertArea.Contains(dem.ToGeo(start)) {
		return start, false
	}

	// 2) Window around start.
	cs := dem.Area.CellSize
	radius := int(math.Floor(lim.Max / cs))
	r2 := radius * radius
	w := newWindow(dem, start, radius+1)

	// 3) Dijkstra.
	r := &routeRunner{
		dem:     dem,
		roads:   roads,
		win:     w,
		start:   start,
		h:       dem.At(start),
		maxCost: maxCost,
		r2:      r2,
		cost:    make([]float64, w.len()),
	}
	for i := range r.cost {
		r.cost[i] = math.Inf(1)
	}
	r.cost[w.index(start)] = 0
	heap.Push(&r.pq, costItem{c: start, cost: 0, seq: r.nextSeq()})
	r.process()

	// 4) Keep candidates whose line to start crosses a road.
	type source struct {
		c  raster.Coord
		d2 int
	}
	var sources []source
	for _, c := range r.potential {
		if CrossesRoad(roads, start, c) {
			sources = append(sources, source{c: c, d2: c.DistSq(start)})
		}
	}
	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].d2 != sources[j].d2 {
			return sources[i].d2 < sources[j].d2
		}

		return sources[i].c.Less(sources[j].c)
	})

	// 5) Nearest one that is long enough.
	minCells := lim.Min / cs
	for _, s := range sources {
		if float64(s.d2) >= minCells*minCells {
			return s.c, true
		}
	}

	return start, false
}

// routeRunner holds the state of one alternative-route search.
type routeRunner struct {
	dem       *raster.Grid[float64]
	roads     *raster.Grid[uint32]
	win       window
	start     raster.Coord
	h         float64
	maxCost   float64
	r2        int
	cost      []float64
	pq        costPQ
	seq       uint64
	potential []raster.Coord
	seen      map[raster.Coord]bool
}

func (r *routeRunner) nextSeq() uint64 {
	r.seq++

	return r.seq
}

func (r *routeRunner) process() {
	r.seen = make(map[raster.Coord]bool)
	nbuf := make([]raster.Coord, 0, 8)
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(costItem)
		// Stale entry.
		if item.cost > r.cost[r.win.index(item.c)] {
			continue
		}
		nbuf = r.dem.Neighbors(nbuf[:0], item.c)
		for _, n := range nbuf {
			if !r.win.contains(n) || r.roads.At(n) == culvert.None {
				continue
			}
			hn := r.dem.At(n)
			newCost := item.cost + max(0, hn-r.h)
			wi := r.win.index(n)
			if newCost > r.maxCost || newCost >= r.cost[wi] {
				continue
			}
			if r.start.DistSq(n) > r.r2 {
				continue
			}
			r.cost[wi] = newCost
			heap.Push(&r.pq, costItem{c: n, cost: newCost, seq: r.nextSeq()})
			if hn < r.h && !r.seen[n] {
				r.seen[n] = true
				r.potential = append(r.potential, n)
			}
		}
	}
}

// CrossesRoad reports whether the rasterised line between a and b properly
// crosses a road: both end cells are off the road and at least one cell in
// between is a Road cell. A line that ends on a road only touches it.
//
// The line is traced from the left end with unit steps, moving right or
// vertically to whichever next cell lies closer to the ideal line.
func CrossesRoad(roads *raster.Grid[uint32], a, b raster.Coord) bool {
	if roads.At(a) == culvert.Road || roads.At(b) == culvert.Road {
		return false
	}
	for _, c := range traceLine(roads, a, b) {
		if roads.At(c) == culvert.Road {
			return true
		}
	}

	return false
}

// traceLine returns the 4-connected staircase of cells from the left end of
// [a, b] to the right end, both included.
func traceLine[T any](g *raster.Grid[T], a, b raster.Coord) []raster.Coord {
	if a.Col > b.Col {
		a, b = b, a
	}
	dj := -1
	if a.Row < b.Row {
		dj = 1
	}
	right := raster.Offset{DX: 1}
	vert := raster.Offset{DY: dj}

	out := []raster.Coord{a}
	c := a
	for c != b {
		switch {
		case c.Col == b.Col:
			c = g.Move(c, vert)
		case c.Row == b.Row:
			c = g.Move(c, right)
		default:
			ci := g.Move(c, right)
			cj := g.Move(c, vert)
			if raster.DistanceFromLine(a, b, ci) < raster.DistanceFromLine(a, b, cj) {
				c = ci
			} else {
				c = cj
			}
		}
		out = append(out, c)
	}

	return out
}

// window is a square sub-region of a grid clipped to its bounds.
type window struct {
	min, max raster.Coord
}

func newWindow[T any](g *raster.Grid[T], center raster.Coord, radius int) window {
	return window{
		min: raster.Coord{Col: max(0, center.Col-radius), Row: max(0, center.Row-radius)},
		max: raster.Coord{Col: min(g.Width-1, center.Col+radius), Row: min(g.Height-1, center.Row+radius)},
	}
}

func (w window) width() int { return w.max.Col - w.min.Col + 1 }

func (w window) len() int { return w.width() * (w.max.Row - w.min.Row + 1) }

func (w window) contains(c raster.Coord) bool {
	return c.Col >= w.min.Col && c.Col <= w.max.Col && c.Row >= w.min.Row && c.Row <= w.max.Row
}

func (w window) index(c raster.Coord) int {
	return (c.Row-w.min.Row)*w.width() + (c.Col - w.min.Col)
}

// costItem is a heap entry of the route search.
type costItem struct {
	c    raster.Coord
	cost float64
	seq  uint64
}

// costPQ is a min-heap of costItem ordered by (cost, seq).
type costPQ []costItem

func (pq costPQ) Len() int { return len(pq) }

func (pq costPQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}

	return pq[i].seq < pq[j].seq
}

func (pq costPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *costPQ) Push(x interface{}) { *pq = append(*pq, x.(costItem)) }

func (pq *costPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
