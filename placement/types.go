package placement

import (
	"errors"
	"log/slog"

	"github.com/katalvlaran/hydrocarve/culvert"
	"github.com/katalvlaran/hydrocarve/raster"
)

// Sentinel errors for placement.
var (
	// ErrDimensionMismatch indicates the input grids differ in shape.
	ErrDimensionMismatch = errors.New("placement: grid dimensions differ")
	// ErrUnterminatedChain indicates a carved chain that never reaches an
	// uncarved cell, which only happens when flow directions contain a cycle.
	ErrUnterminatedChain = errors.New("placement: carved chain does not terminate")
	// ErrNilGrid indicates a required grid is missing.
	ErrNilGrid = errors.New("placement: required grid is nil")
)

// Limits bounds the length of a culvert in map units.
type Limits struct {
	Min, Max float64
}

// Carving is a carved chain from the pit that caused it down to the first
// uncarved cell.
type Carving struct {
	Upstream   raster.Coord
	Downstream raster.Coord
	// Cost is the total lowering along the chain.
	Cost float64
	// MaxHDiff is the highest original elevation on the chain minus the
	// original elevation at Downstream.
	MaxHDiff float64
	// Length is the chain length in map units.
	Length float64
}

// Candidate is a proposed culvert in raster coordinates.
type Candidate struct {
	Sink, Source raster.Coord
}

// Heuristic selects a road/stream intersection heuristic.
type Heuristic int

const (
	// PitFill floods upstream of the road and searches for a lower cell on
	// the far side.
	PitFill Heuristic = iota + 1
	// FlowRoute pairs the lowest upstream cell with a connected low cell on
	// the downstream side.
	FlowRoute
)

// String implements fmt.Stringer.
func (h Heuristic) String() string {
	switch h {
	case PitFill:
		return "pit-fill"
	case FlowRoute:
		return "flow-route"
	default:
		return "unknown"
	}
}

// Grids is the read-only state of one iteration.
type Grids struct {
	Orig     *raster.Grid[float64]
	Carved   *raster.Grid[float64]
	FlowDirs *raster.Grid[raster.Offset]
	Accum    *raster.Grid[uint32]
	Roads    *raster.Grid[uint32]
	Delta    *raster.Grid[uint32]
}

func (g Grids) validate() error {
	if g.Orig == nil || g.FlowDirs == nil || g.Roads == nil {
		return ErrNilGrid
	}
	if !raster.SameShape(g.Orig, g.FlowDirs) || !raster.SameShape(g.Orig, g.Roads) {
		return ErrDimensionMismatch
	}
	if g.Carved != nil && !raster.SameShape(g.Orig, g.Carved) {
		return ErrDimensionMismatch
	}
	if g.Accum != nil && !raster.SameShape(g.Orig, g.Accum) {
		return ErrDimensionMismatch
	}
	if g.Delta != nil && !raster.SameShape(g.Orig, g.Delta) {
		return ErrDimensionMismatch
	}

	return nil
}

// Params configures the insertion drivers.
type Params struct {
	// InsertArea is where culvert ends may be placed.
	InsertArea raster.Area
	// Limits bounds culvert length.
	Limits Limits
	// MinCarvingCost is the minimum total lowering of a chain worth replacing.
	MinCarvingCost float64
	// MinHDiff is the minimum height difference along a chain.
	MinHDiff float64
	// MinAccumulation is the stream threshold for road/stream intersections.
	MinAccumulation uint32
	// IgnoreSameIter suppresses candidates this close to culverts placed in
	// the current iteration.
	IgnoreSameIter float64
	// IgnoreOther suppresses candidates this close to any existing culvert.
	IgnoreOther float64
	// Logger receives progress; nil discards.
	Logger *slog.Logger
}

func (p Params) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return p.Logger
}

// Report summarises one insertion pass.
type Report struct {
	// Candidates is the number of carvings or intersections examined.
	Candidates int
	// Inserted is the number of culverts appended to the set.
	Inserted int
	// Skipped counts candidates deferred because a culvert was placed nearby
	// in the same pass.
	Skipped int
	// Rejected counts proposals dropped for being too close to an existing
	// culvert.
	Rejected int
	// Added lists the culverts appended, in order.
	Added []culvert.Culvert
	// Finished is true when the pass neither inserted nor deferred anything.
	Finished bool
}
