package conditioning

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/katalvlaran/hydrocarve/culvert"
	"github.com/katalvlaran/hydrocarve/placement"
	"github.com/katalvlaran/hydrocarve/raster"
)

// Heuristics used while iterating and in the final pass.
var (
	iterationHeuristics = []placement.Heuristic{placement.PitFill, placement.FlowRoute}
	finalHeuristics     = []placement.Heuristic{placement.FlowRoute}
)

// Run places culverts on in until the placement loop converges and returns
// the final network.
//
// Returns ErrNilInput or ErrDimensionMismatch for malformed input, the
// context error if ctx is cancelled between iterations, and errors wrapping
// ErrInvariant when the network becomes inconsistent.
func Run(ctx context.Context, in Input, p Params) (*Result, error) {
	// 1) Validate.
	if in.DEM == nil || in.Roads == nil {
		return nil, ErrNilInput
	}
	if !raster.SameShape(in.DEM, in.Roads) {
		return nil, ErrDimensionMismatch
	}

	// 2) Prepare private copies.
	orig := in.DEM.Clone()
	if err := ApplyBarriers(orig, p.Barriers); err != nil {
		return nil, err
	}
	roads := in.Roads.Clone()
	cs := orig.Area.CellSize
	areas := culvert.PrepareRoads(roads, p.RoadBufferWidth/cs)

	set := culvert.NewSet()
	for _, c := range in.Culverts {
		set.Add(c.Sink, c.Source)
	}

	r := &runner{
		ctx:    ctx,
		params: p,
		log:    p.logger(),
		net:    NewNetwork(orig, p.Logger),
		roads:  roads,
		set:    set,
		res: &Result{
			Roads:      roads,
			Culverts:   set,
			InsertArea: orig.Area.WithHalo(-p.HaloWidth),
			Converged:  true,
		},
	}
	r.log.Info("conditioning started",
		"width", orig.Width, "height", orig.Height, "cell_size", cs,
		"buffer_areas", areas, "culverts", set.Len())

	// 3) State machine.
	for state := Iterating; state != Done; {
		next, err := r.step(state)
		if err != nil {
			return nil, err
		}
		if next != state {
			r.log.Info("state transition", "from", state, "to", next, "iteration", r.res.Iterations)
		}
		state = next
	}

	return r.res, nil
}

// runner holds the mutable state of one Run.
type runner struct {
	ctx    context.Context
	params Params
	log    *slog.Logger
	net    *Network
	roads  *raster.Grid[uint32]
	set    *culvert.Set
	res    *Result
}

func (r *runner) step(s State) (State, error) {
	switch s {
	case Iterating:
		return r.iterate()
	case Converged:
		return Pruning, nil
	case Pruning:
		return Finalizing, r.prune()
	case Finalizing:
		return Done, r.finalize()
	default:
		return Done, nil
	}
}

func (r *runner) placementParams() placement.Params {
	return placement.Params{
		InsertArea:      r.res.InsertArea,
		Limits:          r.params.Limits,
		MinCarvingCost:  r.params.MinCarvingCost,
		MinHDiff:        r.params.MinHDiff,
		MinAccumulation: r.params.MinAccumulation,
		IgnoreSameIter:  r.params.IgnoreSameIter,
		IgnoreOther:     r.params.IgnoreOther,
		Logger:          r.log,
	}
}

func (r *runner) grids() placement.Grids {
	return placement.Grids{
		Orig:     r.net.Orig,
		Carved:   r.net.DEM,
		FlowDirs: r.net.FlowDirs,
		Accum:    r.net.Accum,
		Roads:    r.roads,
		Delta:    r.net.Delta,
	}
}

// iterate runs one placement iteration and returns the next state.
func (r *runner) iterate() (State, error) {
	if err := r.ctx.Err(); err != nil {
		return Done, fmt.Errorf("conditioning: iteration %d: %w", r.res.Iterations, err)
	}
	if maxIter := r.params.MaxIterations; maxIter > 0 && r.res.Iterations >= maxIter {
		r.log.Warn("iteration limit reached before convergence", "iterations", maxIter)
		r.res.Converged = false

		// The last iteration may have added culverts the network lacks.
		return Pruning, r.net.Regenerate(r.set.Culverts())
	}
	r.log.Info("iteration started", "iteration", r.res.Iterations, "culverts", r.set.Len())

	// 1) Network for the current culverts.
	if err := r.net.Regenerate(r.set.Culverts()); err != nil {
		return Done, err
	}
	g := r.grids()
	pp := r.placementParams()

	// 2) Expensive carvings.
	exp, err := placement.InsertAtExpensiveCarvings(g, r.set, pp)
	if err != nil {
		return Done, fmt.Errorf("%w: %w", ErrInvariant, err)
	}

	// 3) Intersections, once no carving is left to replace.
	var inter placement.Report
	if exp.Finished {
		if inter, err = placement.InsertAtIntersections(g, r.set, exp.Added, iterationHeuristics, pp); err != nil {
			return Done, fmt.Errorf("%w: %w", ErrInvariant, err)
		}
	}
	r.res.Iterations++
	r.res.Inserted += exp.Inserted + inter.Inserted
	r.log.Info("iteration finished",
		"iteration", r.res.Iterations-1,
		"carving_culverts", exp.Inserted, "deferred", exp.Skipped,
		"intersection_culverts", inter.Inserted, "culverts", r.set.Len())

	// 4) Converged when nothing was added or deferred.
	if exp.Finished && inter.Finished && inter.Inserted == 0 {
		return Converged, nil
	}

	return Iterating, nil
}

// prune drops culverts that carry no water and regenerates if any were
// dropped.
func (r *runner) prune() error {
	area := r.net.Orig.Area
	fd := r.net.FlowDirs

	keep := make(map[uint32]bool, r.set.Len())
	for _, c := range r.set.Culverts() {
		sink, source, err := culvert.Ends(area, c)
		if err != nil {
			return fmt.Errorf("%w: culvert %d: %w", ErrInvariant, c.ID, err)
		}
		keep[c.ID] = drains(fd, sink, source) || (c.TwoWay() && drains(fd, source, sink))
	}
	removed := r.set.Retain(func(c culvert.Culvert) bool { return keep[c.ID] })
	r.res.Pruned = removed
	if removed == 0 {
		r.log.Info("no unused culverts found")

		return nil
	}
	r.log.Info("unused culverts removed", "removed", removed, "remaining", r.set.Len())

	return r.net.Regenerate(r.set.Culverts())
}

// drains reports whether from flows directly into to. Every cell carries at
// least its own unit of accumulation, so no flow threshold applies.
func drains(fd *raster.Grid[raster.Offset], from, to raster.Coord) bool {
	next := fd.Move(from, fd.At(from))

	return next != from && next == to
}

// finalize runs the last intersection pass and produces the outputs.
func (r *runner) finalize() error {
	rep, err := placement.InsertAtIntersections(r.grids(), r.set, nil, finalHeuristics, r.placementParams())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvariant, err)
	}
	r.res.Inserted += rep.Inserted
	r.log.Info("final placement pass", "added", rep.Inserted)

	if err = r.net.Regenerate(r.set.Culverts()); err != nil {
		return err
	}
	for _, c := range r.set.Culverts() {
		sink, _, err := culvert.Ends(r.net.Orig.Area, c)
		if err != nil {
			return fmt.Errorf("%w: culvert %d: %w", ErrInvariant, c.ID, err)
		}
		r.set.SetAccumulation(c.ID, r.net.Accum.At(sink))
	}

	r.res.DEM = r.net.DEM
	r.res.FlowDirs = r.net.FlowDirs
	r.res.Accum = r.net.Accum
	r.res.Delta = r.net.Delta
	r.res.Stats = ComputeCarvingStats(r.net.Orig, r.net.DEM)
	r.log.Info("conditioning finished",
		"iterations", r.res.Iterations, "culverts", r.set.Len(),
		"inserted", r.res.Inserted, "pruned", r.res.Pruned,
		"carved_cells", r.res.Stats.Cells, "carved_total", r.res.Stats.Total)

	return nil
}
