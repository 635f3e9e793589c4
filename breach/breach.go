package breach

import (
	"container/heap"

	"github.com/katalvlaran/hydrocarve/linkedcells"
	"github.com/katalvlaran/hydrocarve/raster"
)

// Breach conditions dem in place and returns the flow directions and the
// carved-cell mask. links may be nil when no culverts are burned.
//
// Returns ErrNilGrid if dem is nil. A grid with zero cells is a no-op.
func Breach(dem *raster.Grid[float64], links *linkedcells.Index, opts ...Option) (*Result, error) {
	// 1) Build options.
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if dem == nil {
		return nil, ErrNilGrid
	}

	// 2) Allocate outputs and per-run state.
	r := &runner{
		dem:      dem,
		links:    links,
		options:  cfg,
		flowdirs: raster.Like[raster.Offset](dem),
		carved:   raster.Like[bool](dem),
		inserted: make([]bool, dem.Len()),
		pending:  make([]bool, dem.Len()),
	}
	res := &Result{FlowDirs: r.flowdirs, Carved: r.carved}
	if dem.Len() == 0 {
		return res, nil
	}

	// 3) Seed and flood.
	links.Level(dem)
	res.Pits = r.init()
	r.process()

	res.Breached = r.breached
	res.Lowered = r.lowered
	cfg.Logger.Debug("breaching done",
		"cells", dem.Len(), "pits", res.Pits, "breached", res.Breached, "lowered", res.Lowered)

	return res, nil
}

// runner holds the mutable state of a single Breach call.
type runner struct {
	dem      *raster.Grid[float64]
	links    *linkedcells.Index
	options  Options
	flowdirs *raster.Grid[raster.Offset]
	carved   *raster.Grid[bool]
	inserted []bool // cell has been pushed (visited)
	pending  []bool // interior local minimum not yet reached
	pq       cellPQ
	seq      uint64
	nIn      int
	breached int
	lowered  int
}

// init classifies local minima and pushes the border ones. It returns the
// number of interior minima.
func (r *runner) init() int {
	heap.Init(&r.pq)
	pits := 0
	for _, c := range FindMinima(r.dem) {
		if r.dem.OnBorder(c) {
			r.push(c)
			continue
		}
		r.pending[r.dem.Index(c)] = true
		pits++
	}

	// A grid whose every border cell drains inward has no border minimum.
	// Start from the lowest border cell so the flood still covers the grid.
	if r.pq.Len() == 0 {
		r.push(r.lowestBorderCell())
	}

	return pits
}

// process pops cells in ascending elevation order until the heap drains.
func (r *runner) process() {
	total := r.dem.Len()
	step := max(1, total/r.options.ProgressSteps)
	reported := 0
	nbuf := make([]raster.Coord, 0, 8)

	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(cellItem)
		c := item.c

		nbuf = r.dem.Neighbors(nbuf[:0], c)
		for _, l := range r.links.Linked(c) {
			if r.dem.InBounds(l) {
				nbuf = append(nbuf, l)
			}
		}
		for _, n := range nbuf {
			idx := r.dem.Index(n)
			if r.inserted[idx] {
				continue
			}
			r.flowdirs.Data[idx] = c.Sub(n)
			if r.pending[idx] {
				r.pending[idx] = false
				r.backtrack(n)
			}
			r.push(n)
		}

		if r.nIn/step > reported {
			reported = r.nIn / step
			r.options.Logger.Debug("breaching progress",
				"visited", r.nIn, "total", total, "queue", r.pq.Len(), "elevation", item.h)
		}
	}
}

// backtrack lowers the downstream chain of pit to the pit's elevation.
func (r *runner) backtrack(pit raster.Coord) {
	h := r.dem.At(pit)
	c := pit
	lowered := false
	for {
		next := r.flowdirs.Move(c, r.flowdirs.At(c))
		if next == c {
			break
		}
		c = next
		idx := r.dem.Index(c)
		if r.dem.Data[idx] <= h {
			break
		}
		r.dem.Data[idx] = h
		if !r.carved.Data[idx] {
			r.carved.Data[idx] = true
			r.lowered++
		}
		lowered = true
	}
	if lowered {
		r.breached++
	}
}

// push inserts c with its current elevation and marks it visited.
func (r *runner) push(c raster.Coord) {
	idx := r.dem.Index(c)
	r.inserted[idx] = true
	heap.Push(&r.pq, cellItem{c: c, h: r.dem.Data[idx], seq: r.seq})
	r.seq++
	r.nIn++
}

func (r *runner) lowestBorderCell() raster.Coord {
	var best raster.Coord
	found := false
	for i, h := range r.dem.Data {
		c := r.dem.Coordinate(i)
		if !r.dem.OnBorder(c) {
			continue
		}
		if !found || h < r.dem.At(best) {
			best, found = c, true
		}
	}

	return best
}

// FindMinima returns, in row-major order, every cell that has no strictly
// lower in-bounds 8-neighbour.
// Complexity: O(W×H).
func FindMinima(dem *raster.Grid[float64]) []raster.Coord {
	var out []raster.Coord
	for i, h := range dem.Data {
		c := dem.Coordinate(i)
		minimum := true
		for _, o := range raster.ScanOffsets {
			n := c.Add(o)
			if dem.InBounds(n) && dem.At(n) < h {
				minimum = false
				break
			}
		}
		if minimum {
			out = append(out, c)
		}
	}

	return out
}

// cellItem is a heap entry: a cell, its elevation at push time and the push
// sequence number that breaks elevation ties.
type cellItem struct {
	c   raster.Coord
	h   float64
	seq uint64
}

// cellPQ is a min-heap of cellItem ordered by (h, seq).
type cellPQ []cellItem

func (pq cellPQ) Len() int { return len(pq) }

func (pq cellPQ) Less(i, j int) bool {
	if pq[i].h != pq[j].h {
		return pq[i].h < pq[j].h
	}

	return pq[i].seq < pq[j].seq
}

func (pq cellPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *cellPQ) Push(x interface{}) { *pq = append(*pq, x.(cellItem)) }

func (pq *cellPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
