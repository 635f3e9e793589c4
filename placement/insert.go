package placement

import (
	"fmt"

	"github.com/katalvlaran/hydrocarve/culvert"
	"github.com/katalvlaran/hydrocarve/raster"
)

// InsertAtExpensiveCarvings replaces expensive carvings with culverts.
//
// Carvings are visited from the most expensive down. Each chain is walked
// from its upstream end; at every step the remaining cost is compared with
// MinCarvingCost and, when the cell is off the road and stepping further
// would not make a cheaper crossing, FindAlternativeRoute is tried with the
// remaining cost as budget. The first route found on a chain becomes a
// culvert unless it duplicates an existing culvert or lies within
// IgnoreOther of one. Chains
// reaching within IgnoreSameIter of a culvert placed in this pass are
// deferred to the next iteration.
//
// New culverts are appended to set; the grids are not modified.
func InsertAtExpensiveCarvings(g Grids, set *culvert.Set, p Params) (Report, error) {
	var rep Report
	if g.Carved == nil {
		return rep, ErrNilGrid
	}
	if err := g.validate(); err != nil {
		return rep, err
	}
	log := p.logger()

	carvings, err := FindExpensiveCarvings(g.Orig, g.Carved, g.FlowDirs, Thresholds{
		MinCost:   p.MinCarvingCost,
		MinHDiff:  p.MinHDiff,
		MinLength: p.Limits.Min,
	})
	if err != nil {
		return rep, fmt.Errorf("placement: expensive carvings: %w", err)
	}
	rep.Candidates = len(carvings)

	var (
		cs       = g.Orig.Area.CellSize
		sameR    = p.IgnoreSameIter / cs
		sameR2   = sameR * sameR
		tested   = make([]bool, g.Orig.Len())
		inserted []raster.Coord
		all      = culvert.NewProximity(set.Culverts())
		step     = max(1, len(carvings)/10)
	)

	nearInserted := func(c raster.Coord) bool {
		for _, e := range inserted {
			if float64(e.DistSq(c)) <= sameR2 {
				return true
			}
		}

		return false
	}

	for k := len(carvings) - 1; k >= 0; k-- {
		if done := len(carvings) - k; done%step == 0 {
			log.Debug("expensive carvings progress", "processed", done, "total", len(carvings))
		}
		cv := carvings[k]
		up := cv.Upstream
		cost := cv.Cost
		fullCost := cv.Cost

		for up != cv.Downstream {
			next := raster.Downstream(g.FlowDirs, up)
			// Stepping on is worthwhile while it lowers the terrain and
			// leaves enough cost to replace.
			follow := g.Orig.At(next) < g.Orig.At(up) &&
				cost-(g.Orig.At(next)-g.Carved.At(next)) >= p.MinCarvingCost

			ui := g.Orig.Index(up)
			if tested[ui] {
				break
			}
			tested[ui] = true
			if cost < p.MinCarvingCost {
				break
			}
			if g.Roads.At(up) < culvert.Buffer {
				follow = true
			}
			if nearInserted(up) {
				rep.Skipped++
				break
			}

			if !follow {
				src, ok := FindAlternativeRoute(g.Orig, g.Roads, p.InsertArea, up, fullCost, p.Limits)
				if ok {
					a, b := g.Orig.ToGeo(up), g.Orig.ToGeo(src)
					if set.Contains(a, b) || all.NearSegment(a, p.IgnoreOther) || all.NearSegment(b, p.IgnoreOther) {
						rep.Rejected++
						break
					}
					c := set.Add(a, b)
					all.Insert(c)
					inserted = append(inserted, up, src)
					rep.Added = append(rep.Added, c)
					rep.Inserted++
					break
				}
			}

			if next == up {
				break
			}
			up = next
			cost -= g.Orig.At(up) - g.Carved.At(up)
		}
	}
	rep.Finished = rep.Inserted == 0 && rep.Skipped == 0
	log.Info("expensive carvings pass",
		"carvings", rep.Candidates, "inserted", rep.Inserted,
		"skipped", rep.Skipped, "rejected", rep.Rejected)

	return rep, nil
}

// InsertAtIntersections places culverts where streams cross roads.
//
// Every Road cell with accumulation of at least MinAccumulation is an
// intersection, visited row-major. Intersections within IgnoreSameIter of
// the centre of a culvert in addedThisIter are skipped. The heuristics are
// tried in order and the first candidate is kept unless it duplicates an
// existing culvert or its centre lies within IgnoreOther of an existing
// culvert centre. Accepted culverts are
// burned into a private copy of Delta so later heuristics in the same pass
// see them.
func InsertAtIntersections(g Grids, set *culvert.Set, addedThisIter []culvert.Culvert, heuristics []Heuristic, p Params) (Report, error) {
	var rep Report
	if g.Accum == nil {
		return rep, ErrNilGrid
	}
	if err := g.validate(); err != nil {
		return rep, err
	}
	log := p.logger()

	claimed := raster.Like[uint32](g.Orig)
	if g.Delta != nil {
		if err := claimed.CopyFrom(g.Delta); err != nil {
			return rep, err
		}
	}
	local := g
	local.Delta = claimed

	all := culvert.NewProximity(set.Culverts())

	for i := range g.Accum.Data {
		if g.Accum.Data[i] < p.MinAccumulation || g.Roads.Data[i] != culvert.Road {
			continue
		}
		c := g.Orig.Coordinate(i)
		rep.Candidates++

		skip := false
		for _, r := range addedThisIter {
			if raster.Distance(g.Orig.ToGeo(c), r.Center()) < p.IgnoreSameIter {
				skip = true
				break
			}
		}
		if skip {
			rep.Skipped++
			continue
		}

		for _, h := range heuristics {
			cand, ok := propose(h, local, c, p)
			if !ok {
				continue
			}
			sink, src := g.Orig.ToGeo(cand.Sink), g.Orig.ToGeo(cand.Source)
			if set.Contains(sink, src) || all.NearCenter(raster.Midpoint(sink, src), p.IgnoreOther) {
				rep.Rejected++
				break
			}
			cv := set.Add(sink, src)
			all.Insert(cv)
			if err := culvert.Burn(claimed, []culvert.Culvert{cv}); err != nil {
				return rep, err
			}
			rep.Added = append(rep.Added, cv)
			rep.Inserted++
			log.Debug("intersection culvert", "at", c, "heuristic", h, "id", cv.ID)

			break
		}
	}
	rep.Finished = rep.Inserted == 0
	log.Info("intersections pass",
		"intersections", rep.Candidates, "inserted", rep.Inserted,
		"skipped", rep.Skipped, "rejected", rep.Rejected)

	return rep, nil
}

func propose(h Heuristic, g Grids, c raster.Coord, p Params) (Candidate, bool) {
	switch h {
	case PitFill:
		return PitFillUpstream(g, c, p)
	case FlowRoute:
		cand, ok := AlongFlowRoute(g, c, p)
		if !ok {
			return cand, false
		}
		if !p.InsertArea.Contains(g.Orig.ToGeo(cand.Sink)) || !p.InsertArea.Contains(g.Orig.ToGeo(cand.Source)) {
			return cand, false
		}

		return cand, true
	default:
		return Candidate{}, false
	}
}
